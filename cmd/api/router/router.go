package router

import (
	httpHandler "jobhive/internal/pkg/messaging/presentation/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the messaging API. The /messages/* paths are part of
// the public contract consumed by the web client, so they are mounted at the
// root rather than under a version prefix.
func RegisterRoutes(r *gin.Engine, d httpHandler.Deps) {
	httpHandler.RegisterRoutes(r.Group("/messages"), d)
}
