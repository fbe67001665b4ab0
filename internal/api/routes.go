package api

import (
	"github.com/gin-gonic/gin"

	"notifier/internal/hub"
)

// RegisterRoutes mounts the notification API on r.
func RegisterRoutes(r *gin.Engine, dispatcher Sender, lister Lister, auth *hub.Client) *Handler {
	h := &Handler{
		dispatcher: dispatcher,
		lister:     lister,
		auth:       auth,
	}

	// GET / doubles as liveness probe (no credential) and listing.
	r.GET("/", h.RootOrList)

	authed := r.Group("/", auth.AuthMiddleware())
	{
		authed.POST("/", h.Send)
		authed.POST("/status", h.SendStatus)
		authed.GET("/admin", h.ListAll)

		// REMOVE in next release
		authed.POST("/send", h.Send)
		authed.POST("/send_status", h.SendStatus)
		authed.POST("/list", h.List)
		authed.POST("/list_all", h.ListAll)
	}

	return h
}
