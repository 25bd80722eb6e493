package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Wire error codes. The error envelope is always {"error":"<code>"}.
const (
	errInvalidSignature = "invalid_signature"
	errRateLimited      = "rate_limited"
	errInvalidJSON      = "invalid_json"
	errNotFound         = "not_found"
	errStoreFailed      = "store_failed"
)

func Error(c *gin.Context, status int, code string) {
	c.JSON(status, gin.H{"error": code})
}

func Items(c *gin.Context, items any) {
	c.JSON(200, gin.H{"items": items})
}

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

func int64Query(c *gin.Context, key string) int64 {
	if val := c.Query(key); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return 0
}
