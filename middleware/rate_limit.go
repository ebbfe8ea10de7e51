package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/feedbackhq/feedback-collector/services"
	"github.com/gin-gonic/gin"
)

// EndpointRateLimiter creates a middleware limiting requests to a specific
// endpoint. Anonymous callers are keyed by IP, authenticated ones by user id.
func EndpointRateLimiter(rateLimiter services.RateLimiterInterface, requests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := getRateLimitIdentifier(c)
		endpoint := c.Request.Method + ":" + c.FullPath()

		key := fmt.Sprintf("endpoint:%s:%s", endpoint, identifier)
		allowed, retryAfter, err := rateLimiter.CheckLimit(
			c.Request.Context(),
			key,
			requests,
			window,
		)

		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Rate limit check failed",
			})
			return
		}

		if !allowed {
			setRateLimitHeaders(c, requests, 0, retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": int(retryAfter.Seconds()),
				"message":     "Too many requests. Please try again later.",
			})
			return
		}

		setRateLimitHeaders(c, requests, requests-1, 0)
		c.Next()
	}
}

// getRateLimitIdentifier returns the identifier to use for rate limiting.
func getRateLimitIdentifier(c *gin.Context) string {
	if userID := c.GetString(string(UserIDKey)); userID != "" {
		return "user:" + userID
	}
	return "ip:" + c.ClientIP()
}

// setRateLimitHeaders sets the standard rate limit headers.
func setRateLimitHeaders(c *gin.Context, limit int, remaining int, retryAfter time.Duration) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

	if retryAfter > 0 {
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(retryAfter).Unix(), 10))
		c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
	}
}
