package handler

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// WebHandler serves the embedded dashboard. API paths are skipped so
// unknown /api routes still answer with the JSON error envelope.
type WebHandler struct {
	Assets fs.FS
}

func (h *WebHandler) Register(r *gin.Engine) {
	if h == nil || h.Assets == nil {
		return
	}
	httpFS := http.FS(h.Assets)
	r.StaticFS("/assets", httpFS)
	r.GET("/", func(c *gin.Context) {
		c.FileFromFS("/", httpFS)
	})
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			Error(c, http.StatusNotFound, errNotFound)
			return
		}
		c.FileFromFS("/", httpFS)
	})
}
