package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"signalboard/internal/alert"
	"signalboard/internal/auth"
	"signalboard/internal/config"
	"signalboard/internal/feed"
	"signalboard/internal/models"
	"signalboard/internal/ratelimit"
	"signalboard/internal/repository"
)

// HMAC headers on POST /api/signals.
const (
	headerTimestamp = "x-timestamp"
	headerSignature = "x-signature"
)

const rateScopeIngest = "ingest"

type SignalHandler struct {
	Repo       repository.Repository
	Hub        *feed.Hub
	Limiter    *ratelimit.Limiter
	Dispatcher *alert.Dispatcher
	Logger     *zap.Logger

	Auth           config.AuthConfig
	RateLimit      config.RateLimitConfig
	ClientIPHeader string
}

func (h *SignalHandler) Register(r *gin.Engine) {
	api := r.Group("/api")
	api.POST("/signals", h.ingest)
	api.GET("/signals", h.list)
	api.GET("/signals/latest", h.latest)
	api.GET("/signals/:id", h.get)
	api.GET("/platforms", h.platforms)
	api.GET("/stats", h.stats)
}

// ingestRequest uses pointer fields so absent and zero-valued keys can be
// told apart during required-field validation.
type ingestRequest struct {
	ID                  *string         `json:"id"`
	Platform            *string         `json:"platform"`
	RoundID             *string         `json:"round_id"`
	Timestamp           *int64          `json:"timestamp"`
	PredictedClass      *string         `json:"predicted_class"`
	PredictedMultiplier *float64        `json:"predicted_multiplier"`
	Confidence          *float64        `json:"confidence"`
	ModelVersion        *string         `json:"model_version"`
	RecommendedAction   *string         `json:"recommended_action"`
	SuggestedBetPct     *float64        `json:"suggested_bet_pct"`
	CashoutTargets      json.RawMessage `json:"cashout_targets"`
	Source              *string         `json:"source"`
	CreatedAt           *int64          `json:"created_at"`
}

// missingField reports the first absent required field, in wire order.
func (r ingestRequest) missingField() string {
	switch {
	case r.ID == nil:
		return "id"
	case r.Platform == nil:
		return "platform"
	case r.RoundID == nil:
		return "round_id"
	case r.Timestamp == nil:
		return "timestamp"
	case r.PredictedClass == nil:
		return "predicted_class"
	case r.Confidence == nil:
		return "confidence"
	case r.ModelVersion == nil:
		return "model_version"
	case r.RecommendedAction == nil:
		return "recommended_action"
	case r.CreatedAt == nil:
		return "created_at"
	}
	return ""
}

// @Summary Ingest a signal
// @Tags signals
// @Accept json
// @Param x-timestamp header string true "signing timestamp (epoch ms)"
// @Param x-signature header string true "hex HMAC-SHA256 of body||timestamp"
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /api/signals [post]
func (h *SignalHandler) ingest(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, errStoreFailed)
		return
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		Error(c, http.StatusBadRequest, errInvalidJSON)
		return
	}

	ts := c.GetHeader(headerTimestamp)
	sig := c.GetHeader(headerSignature)
	if err := auth.Verify(h.Auth.IngestSecret, body, ts, sig, h.Auth.MaxSkew); err != nil {
		Error(c, http.StatusUnauthorized, errInvalidSignature)
		return
	}

	ip := ClientIP(c, h.ClientIPHeader)
	if err := h.Limiter.Allow(c.Request.Context(), rateScopeIngest, ip, int64(h.RateLimit.IngestPerMin)); err != nil {
		Error(c, http.StatusTooManyRequests, errRateLimited)
		return
	}

	var req ingestRequest
	if err := json.Unmarshal(body, &req); err != nil {
		Error(c, http.StatusBadRequest, errInvalidJSON)
		return
	}
	if field := req.missingField(); field != "" {
		Error(c, http.StatusBadRequest, "missing_"+field)
		return
	}

	item := models.Signal{
		ID:                  *req.ID,
		Platform:            *req.Platform,
		RoundID:             *req.RoundID,
		Timestamp:           *req.Timestamp,
		PredictedClass:      *req.PredictedClass,
		PredictedMultiplier: req.PredictedMultiplier,
		Confidence:          *req.Confidence,
		ModelVersion:        *req.ModelVersion,
		RecommendedAction:   *req.RecommendedAction,
		SuggestedBetPct:     req.SuggestedBetPct,
		Source:              req.Source,
		CreatedAt:           *req.CreatedAt,
	}
	if len(req.CashoutTargets) > 0 {
		item.CashoutTargets = datatypes.JSON(req.CashoutTargets)
	}

	if err := h.Repo.InsertSignal(c.Request.Context(), &item); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("signal insert failed",
				zap.String("signal_id", item.ID),
				zap.String("platform", item.Platform),
				zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, errStoreFailed)
		return
	}

	h.Dispatcher.MaybeQueue(c.Request.Context(), item)
	h.Hub.Publish(item)

	c.JSON(http.StatusOK, gin.H{"ok": true, "changes": 1})
}

// @Summary List signals
// @Tags signals
// @Param platform query string false "platform filter"
// @Param from query int false "inclusive lower bound (epoch ms)"
// @Param to query int false "inclusive upper bound (epoch ms)"
// @Param limit query int false "max rows (default 100)"
// @Success 200 {object} map[string]any
// @Router /api/signals [get]
func (h *SignalHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, errStoreFailed)
		return
	}
	items, err := h.Repo.ListSignals(c.Request.Context(), repository.ListSignalsParams{
		Platform: strings.TrimSpace(c.Query("platform")),
		From:     int64Query(c, "from"),
		To:       int64Query(c, "to"),
		Limit:    intQuery(c, "limit", 100),
	})
	if err != nil {
		Error(c, http.StatusInternalServerError, errStoreFailed)
		return
	}
	if items == nil {
		items = []models.Signal{}
	}
	Items(c, items)
}

// @Summary Latest signals
// @Tags signals
// @Param platform query string false "platform filter"
// @Param limit query int false "max rows (default 20)"
// @Success 200 {object} map[string]any
// @Router /api/signals/latest [get]
func (h *SignalHandler) latest(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, errStoreFailed)
		return
	}
	items, err := h.Repo.ListSignals(c.Request.Context(), repository.ListSignalsParams{
		Platform: strings.TrimSpace(c.Query("platform")),
		Limit:    intQuery(c, "limit", 20),
	})
	if err != nil {
		Error(c, http.StatusInternalServerError, errStoreFailed)
		return
	}
	if items == nil {
		items = []models.Signal{}
	}
	Items(c, items)
}

// @Summary Get one signal
// @Tags signals
// @Param id path string true "signal id"
// @Success 200 {object} models.Signal
// @Failure 404 {object} map[string]string
// @Router /api/signals/{id} [get]
func (h *SignalHandler) get(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, errStoreFailed)
		return
	}
	item, err := h.Repo.GetSignalByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, http.StatusInternalServerError, errStoreFailed)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, errNotFound)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *SignalHandler) platforms(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, errStoreFailed)
		return
	}
	names, err := h.Repo.ListPlatforms(c.Request.Context())
	if err != nil {
		Error(c, http.StatusInternalServerError, errStoreFailed)
		return
	}
	if names == nil {
		names = []string{}
	}
	Items(c, names)
}

func (h *SignalHandler) stats(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, errStoreFailed)
		return
	}
	stats, err := h.Repo.SignalStats(c.Request.Context(), strings.TrimSpace(c.Query("platform")))
	if err != nil {
		Error(c, http.StatusInternalServerError, errStoreFailed)
		return
	}
	if stats.ByClass == nil {
		stats.ByClass = []repository.ClassCount{}
	}
	c.JSON(http.StatusOK, stats)
}
