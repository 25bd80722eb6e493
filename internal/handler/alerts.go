package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"signalboard/internal/notify"
	"signalboard/internal/ratelimit"
)

const rateScopeAlerts = "alerts"

type AlertHandler struct {
	Senders []notify.Sender
	Limiter *ratelimit.Limiter
	Logger  *zap.Logger

	SendTimeout    time.Duration
	PerMin         int
	ClientIPHeader string
}

func (h *AlertHandler) Register(r *gin.Engine) {
	r.POST("/api/alerts/test", h.test)
}

// @Summary Send a test alert
// @Tags alerts
// @Accept json
// @Success 200 {object} map[string]any
// @Failure 429 {object} map[string]string
// @Router /api/alerts/test [post]
func (h *AlertHandler) test(c *gin.Context) {
	ip := ClientIP(c, h.ClientIPHeader)
	if err := h.Limiter.Allow(c.Request.Context(), rateScopeAlerts, ip, int64(h.PerMin)); err != nil {
		Error(c, http.StatusTooManyRequests, errRateLimited)
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	// Body is optional; an empty or malformed one falls back to the
	// default text.
	_ = c.ShouldBindJSON(&req)
	text := strings.TrimSpace(req.Text)
	if text == "" {
		text = "signalboard test alert"
	}

	timeout := h.SendTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	sent := gin.H{}
	for _, sender := range h.Senders {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		status, err := sender.Send(ctx, text)
		cancel()
		if err != nil {
			if h.Logger != nil {
				h.Logger.Warn("test alert delivery failed",
					zap.String("channel", sender.Name()),
					zap.Error(err))
			}
			status = 0
		}
		sent[sender.Name()] = status
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "sent": sent})
}
