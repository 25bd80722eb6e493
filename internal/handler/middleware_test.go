package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"signalboard/internal/models"
)

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("no X-Request-ID assigned")
	}

	// A caller-supplied id is kept.
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "req-123" {
		t.Fatalf("X-Request-ID = %q, want req-123", got)
	}
}

func TestAuditMiddlewareRecordsWriteCalls(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuditMiddleware(env.store, "cf-connecting-ip", zap.NewNop()))
	r.POST("/api/things", func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{}) })
	r.GET("/api/things", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })
	r.POST("/outside", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })

	req := httptest.NewRequest(http.MethodPost, "/api/things", nil)
	req.Header.Set("cf-connecting-ip", "1.2.3.4")
	r.ServeHTTP(httptest.NewRecorder(), req)

	// Reads and non-API paths leave no trace.
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/things", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/outside", nil))

	var rows []models.AuditLog
	if err := env.d.Gorm.Find(&rows).Error; err != nil {
		t.Fatalf("load audit rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("audit rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.Actor != "1.2.3.4" {
		t.Fatalf("actor = %q, want 1.2.3.4", row.Actor)
	}
	if row.Action != "POST /api/things" {
		t.Fatalf("action = %q", row.Action)
	}
	if !strings.Contains(row.Detail, "status=201") {
		t.Fatalf("detail = %q, want status=201", row.Detail)
	}
}

func TestAuditMiddlewareUnknownActorSentinel(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuditMiddleware(env.store, "cf-connecting-ip", zap.NewNop()))
	r.POST("/api/things", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/things", nil))

	var rows []models.AuditLog
	if err := env.d.Gorm.Find(&rows).Error; err != nil {
		t.Fatalf("load audit rows: %v", err)
	}
	if len(rows) != 1 || rows[0].Actor != "unknown" {
		t.Fatalf("rows = %+v, want one row with actor unknown", rows)
	}
}
