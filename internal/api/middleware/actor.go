package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ActorIDHeader carries the authenticated user's ID. Upstream auth is
	// expected to have verified it before the request reaches this service.
	ActorIDHeader = "X-Actor-ID"

	// ActorIDKey is the key used to store the actor ID in the context
	ActorIDKey = "actor_id"
)

// Actor middleware requires a valid actor ID on every request and makes it
// available to handlers. Requests without one are rejected before routing
// reaches any account or transaction operation.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(ActorIDHeader)
		if raw == "" {
			abortUnauthorized(c, "Missing "+ActorIDHeader+" header")
			return
		}

		actorID, err := uuid.Parse(raw)
		if err != nil || actorID == uuid.Nil {
			abortUnauthorized(c, "Invalid "+ActorIDHeader+" header")
			return
		}

		c.Set(ActorIDKey, actorID)
		c.Next()
	}
}

// GetActorID retrieves the actor ID set by the Actor middleware
func GetActorID(c *gin.Context) (uuid.UUID, bool) {
	if v, exists := c.Get(ActorIDKey); exists {
		if actorID, ok := v.(uuid.UUID); ok {
			return actorID, true
		}
	}
	return uuid.Nil, false
}

func abortUnauthorized(c *gin.Context, message string) {
	response := gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	}
	if correlationID := GetCorrelationID(c); correlationID != "" {
		response["correlation_id"] = correlationID
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, response)
}
