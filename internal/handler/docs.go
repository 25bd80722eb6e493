package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# Signalboard

Signal ingestion, query, alerting, and live feed.

## Auth

POST /api/signals requires two headers:
- x-timestamp: signing timestamp (epoch ms)
- x-signature: hex HMAC-SHA256 of body||timestamp, keyed with the shared ingest secret

Read endpoints are public.

## Routes

- GET  /healthz
- GET  /readyz
- GET  /api/health
- GET  /swagger/index.html
- POST /api/signals
- GET  /api/signals?platform=&from=&to=&limit=
- GET  /api/signals/latest?platform=&limit=
- GET  /api/signals/{id}
- GET  /api/signals/stream?platform=   (SSE)
- GET  /api/signals/ws?platform=       (websocket)
- GET  /api/platforms
- GET  /api/stats?platform=
- POST /api/alerts/test
- GET  /                               (dashboard)

## Errors

Every error is {"error":"<code>"}: invalid_signature (401), rate_limited (429),
missing_<field> / invalid_json (400), not_found (404), store_failed (500).
`)
	})
}
