package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// OwnerIDKey is the context key for the effective owner ID.
	OwnerIDKey = "owner_id"
	// OwnerIDHeader carries the effective owner resolved by the upstream
	// team/ownership layer. The API treats it as an opaque scoping input:
	// every entity and event fetch is keyed by it.
	OwnerIDHeader = "X-Owner-ID"
)

// Owner extracts the effective owner ID from the request and stores it in the
// Gin context. Requests without a valid owner are rejected before reaching
// any handler, so downstream code can assume the value is present.
func Owner() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(OwnerIDHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "MISSING_OWNER",
					"message": "X-Owner-ID header is required",
				},
			})
			return
		}

		ownerID, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": gin.H{
					"code":    "INVALID_OWNER",
					"message": "X-Owner-ID must be a valid UUID",
				},
			})
			return
		}

		c.Set(OwnerIDKey, ownerID)
		c.Next()
	}
}

// GetOwnerID retrieves the effective owner ID from the Gin context.
// Returns uuid.Nil if the Owner middleware did not run.
func GetOwnerID(c *gin.Context) uuid.UUID {
	if value, exists := c.Get(OwnerIDKey); exists {
		if id, ok := value.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
