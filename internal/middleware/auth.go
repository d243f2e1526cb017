package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lumeo-io/asset-catalog/internal/config"
	"github.com/lumeo-io/asset-catalog/internal/modules/serializer"
)

// BearerAuth authenticates requests against the configured API token.
// Everything behind it can trust the caller identity; token issuance and
// credential storage live outside this service.
func BearerAuth(cfg *config.Config) gin.HandlerFunc {
	token := []byte(cfg.Root.APIBearerToken)

	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}
		raw := strings.TrimPrefix(auth, "Bearer ")

		if subtle.ConstantTimeCompare([]byte(raw), token) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}

		c.Next()
	}
}
