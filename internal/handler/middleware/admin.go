package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"groupnet/memberhub/pkg/response"
)

const (
	HeaderAdminKey   = "X-Admin-Key"
	HeaderReviewerID = "X-Reviewer-Id"

	ContextKeyReviewer = "reviewer"
	DefaultReviewer    = "admin"
)

// AdminKey admits requests carrying the shared admin key and records the
// reviewer identity for handlers.
func AdminKey(key string) gin.HandlerFunc {
	expected := []byte(key)

	return func(c *gin.Context) {
		provided := c.GetHeader(HeaderAdminKey)
		if provided == "" {
			response.Unauthorized(c, "missing admin key")
			c.Abort()
			return
		}
		if subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
			response.Forbidden(c, "invalid admin key")
			c.Abort()
			return
		}

		reviewer := strings.TrimSpace(c.GetHeader(HeaderReviewerID))
		if reviewer == "" {
			reviewer = DefaultReviewer
		}
		c.Set(ContextKeyReviewer, reviewer)
		c.Next()
	}
}

// Reviewer returns the identity recorded by AdminKey.
func Reviewer(c *gin.Context) string {
	if v := c.GetString(ContextKeyReviewer); v != "" {
		return v
	}
	return DefaultReviewer
}
