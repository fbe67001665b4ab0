package hub

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const ctxKey = "identity"

// AuthMiddleware resolves the Authorization header and sets the caller
// identity in context. Requests without a resolvable identity are rejected.
func (c *Client) AuthMiddleware() gin.HandlerFunc {
	return func(g *gin.Context) {
		credential := g.GetHeader("Authorization")
		if credential == "" {
			g.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing credential"})
			return
		}

		id, err := c.Resolve(g.Request.Context(), credential)
		if err != nil {
			g.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		SetIdentity(g, id)
		g.Next()
	}
}

// SetIdentity stores a resolved identity in the Gin context. Handlers that
// authenticate outside the middleware use it to hand off to FromContext.
func SetIdentity(g *gin.Context, id Identity) {
	g.Set(ctxKey, id)
}

// FromContext retrieves the authenticated identity from the Gin context.
func FromContext(g *gin.Context) Identity {
	v, _ := g.Get(ctxKey)
	id, _ := v.(Identity)
	return id
}
