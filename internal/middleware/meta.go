package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const responseMetaKey = "response_meta"

// Keys rendered under "meta" for projection endpoints.
const (
	MetaCacheHit       = "cache_hit"
	MetaProcessingTime = "processing_time_ms"
)

// WithResponseMeta starts every request with an empty meta map so handlers can annotate it.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, map[string]interface{}{})
		c.Next()
	}
}

// SetMeta stores one meta entry for the response envelope.
func SetMeta(c *gin.Context, key string, value interface{}) {
	if c == nil {
		return
	}
	meta := ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
		c.Set(responseMetaKey, meta)
	}
	meta[key] = value
}

// SetCacheHit records whether the projection was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	SetMeta(c, MetaCacheHit, hit)
}

// SetProcessingTime records elapsed milliseconds since start.
func SetProcessingTime(c *gin.Context, start time.Time) {
	SetMeta(c, MetaProcessingTime, time.Since(start).Milliseconds())
}

// ExtractMeta returns the meta map stored on the context, or nil.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	raw, ok := c.Get(responseMetaKey)
	if !ok {
		return nil
	}
	meta, _ := raw.(map[string]interface{})
	return meta
}
