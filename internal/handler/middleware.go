package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"signalboard/internal/models"
	"signalboard/internal/repository"
)

// ClientIP reads the trusted proxy header; callers without it are bucketed
// under the "unknown" sentinel rather than trusting the socket address.
func ClientIP(c *gin.Context, header string) string {
	if header != "" {
		if ip := strings.TrimSpace(c.GetHeader(header)); ip != "" {
			return ip
		}
	}
	return "unknown"
}

// RequestIDMiddleware tags each request with an id, reusing the caller's
// X-Request-ID when present, and echoes it back.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader("X-Request-ID"))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// AuditMiddleware records write-method API calls to the audit trail. The
// insert runs after the response on a detached short-lived context so a slow
// audit write never holds the caller.
func AuditMiddleware(repo repository.Repository, ipHeader string, logger *zap.Logger) gin.HandlerFunc {
	if repo == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		method := strings.ToUpper(c.Request.Method)
		if !strings.HasPrefix(path, "/api/") {
			return
		}
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			return
		}

		entry := &models.AuditLog{
			Actor:  ClientIP(c, ipHeader),
			Action: method + " " + path,
			Detail: fmt.Sprintf("status=%d duration=%s", c.Writer.Status(), time.Since(start).Round(time.Millisecond)),
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := repo.InsertAuditLog(ctx, entry); err != nil && logger != nil {
			logger.Debug("audit log insert failed", zap.Error(err))
		}
	}
}
