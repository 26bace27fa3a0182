package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jtai-dev/record-matcher/internal/ratelimit"
)

// =============================================================================
// AUTH MIDDLEWARE
// =============================================================================

// APIKeyAuthMiddleware returns middleware that checks for a valid API key.
// Health endpoint is exempt. No-op if apiKey is empty.
func APIKeyAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// No-op if no API key configured
		if apiKey == "" {
			c.Next()
			return
		}

		// Health endpoint is always accessible
		if c.Request.URL.Path == "/v1/health" {
			c.Next()
			return
		}

		// Check Authorization: Bearer <key>
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] == apiKey {
				c.Next()
				return
			}
		}

		// Check X-API-Key header
		if c.GetHeader("X-API-Key") == apiKey {
			c.Next()
			return
		}

		UnauthorizedError(c, "Invalid or missing API key")
		c.Abort()
	}
}

// =============================================================================
// RATE LIMIT MIDDLEWARE
// =============================================================================

// routeToToolCategory maps API routes to rate limiter tool categories
func routeToToolCategory(path, method string) string {
	switch {
	case method == "POST" && strings.HasSuffix(path, "/match"):
		return "match_records"
	case strings.HasSuffix(path, "/runs"):
		return "list_runs"
	case strings.Contains(path, "/runs/"):
		return "get_run"
	default:
		return ""
	}
}

// RateLimitMiddleware returns middleware that rate-limits requests using the provided limiter
func RateLimitMiddleware(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		toolCategory := routeToToolCategory(c.Request.URL.Path, c.Request.Method)
		if toolCategory == "" {
			toolCategory = "default"
		}

		result := limiter.Allow(toolCategory)
		if !result.Allowed {
			retryAfter := int(result.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			TooManyRequestsError(c, fmt.Sprintf("Rate limit exceeded for %s. Retry after %d seconds.", result.LimitType, retryAfter))
			c.Abort()
			return
		}

		c.Next()
	}
}

// =============================================================================
// BODY SIZE MIDDLEWARE
// =============================================================================

// MaxBodySizeMiddleware returns middleware that limits request body size
func MaxBodySizeMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil && c.Request.ContentLength > maxBytes {
			PayloadTooLargeError(c, fmt.Sprintf("Request body too large. Maximum: %d bytes", maxBytes))
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// =============================================================================
// VALIDATION CONSTANTS
// =============================================================================

const (
	MaxLimit         = 1000
	DefaultLimit     = 50
	DefaultBodyLimit = 1 * 1024 * 1024  // 1MB
	IngestBodyLimit  = 20 * 1024 * 1024 // 20MB, large enough for a sizable X/Y CSV pair
)

// clampLimit ensures limit is within valid range
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
