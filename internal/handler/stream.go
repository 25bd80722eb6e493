package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"signalboard/internal/feed"
	"signalboard/internal/models"
	"signalboard/internal/repository"
)

// StreamHandler serves the live feed over SSE and websocket. Both transports
// share the hub subscription: one frame per stored signal, an immediate
// frame with the current latest row on connect, and periodic keepalives.
type StreamHandler struct {
	Repo   repository.Repository
	Hub    *feed.Hub
	Logger *zap.Logger

	Heartbeat time.Duration
}

func (h *StreamHandler) Register(r *gin.Engine) {
	r.GET("/api/signals/stream", h.stream)
	r.GET("/api/signals/ws", h.ws)
}

func (h *StreamHandler) heartbeat() time.Duration {
	if h.Heartbeat > 0 {
		return h.Heartbeat
	}
	return 15 * time.Second
}

// @Summary Live signal feed (SSE)
// @Tags signals
// @Param platform query string false "platform filter"
// @Produce text/event-stream
// @Router /api/signals/stream [get]
func (h *StreamHandler) stream(c *gin.Context) {
	if h.Hub == nil {
		Error(c, http.StatusInternalServerError, errStoreFailed)
		return
	}
	platform := strings.TrimSpace(c.Query("platform"))

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	ch, cancel := h.Hub.Subscribe(platform, 0)
	defer cancel()

	ctx := c.Request.Context()

	// First frame: the latest stored row, so the dashboard paints without
	// waiting for traffic.
	if h.Repo != nil {
		if latest, err := h.Repo.LatestSignal(ctx, platform); err == nil && latest != nil {
			if !writeSSE(c.Writer, *latest) {
				return
			}
		}
	}

	ticker := time.NewTicker(h.heartbeat())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-ch:
			if !ok {
				return
			}
			if !writeSSE(c.Writer, sig) {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(c.Writer, ": keepalive\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}

func writeSSE(w gin.ResponseWriter, sig models.Signal) bool {
	b, err := json.Marshal(sig)
	if err != nil {
		return true
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", b); err != nil {
		return false
	}
	w.Flush()
	return true
}

// ws mirrors the SSE feed over a websocket, one JSON text message per
// signal.
func (h *StreamHandler) ws(c *gin.Context) {
	if h.Hub == nil {
		Error(c, http.StatusInternalServerError, errStoreFailed)
		return
	}
	platform := strings.TrimSpace(c.Query("platform"))

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Debug("websocket accept failed", zap.Error(err))
		}
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	// CloseRead surfaces client disconnect through ctx; the feed is
	// write-only.
	ctx := conn.CloseRead(c.Request.Context())

	ch, cancel := h.Hub.Subscribe(platform, 0)
	defer cancel()

	if h.Repo != nil {
		if latest, lerr := h.Repo.LatestSignal(ctx, platform); lerr == nil && latest != nil {
			if !writeWS(ctx, conn, *latest) {
				return
			}
		}
	}

	ticker := time.NewTicker(h.heartbeat())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return
		case sig, ok := <-ch:
			if !ok {
				return
			}
			if !writeWS(ctx, conn, sig) {
				return
			}
		case <-ticker.C:
			if err := conn.Ping(ctx); err != nil {
				return
			}
		}
	}
}

func writeWS(ctx context.Context, conn *websocket.Conn, sig models.Signal) bool {
	b, err := json.Marshal(sig)
	if err != nil {
		return true
	}
	return conn.Write(ctx, websocket.MessageText, b) == nil
}
