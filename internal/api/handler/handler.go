// Package handler is the HTTP glue in front of the core services. The
// authentication layer in front of it has already validated the caller,
// whose identity arrives in the X-User-ID header; no auth happens here.
package handler

import (
	"errors"
	"net/http"

	"lingua/backend/internal/chat"
	"lingua/backend/internal/ledger"
	"lingua/backend/internal/localization"
	"lingua/backend/internal/models"
	"lingua/backend/internal/moderation"
	"lingua/backend/internal/registry"
	"lingua/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// Handler bundles the core services the routes dispatch to.
type Handler struct {
	Registry   *registry.Service
	Ledger     *ledger.Service
	Chat       *chat.Service
	Moderation *moderation.Service
	Storage    storage.Storage
	Languages  *localization.Languages
}

func NewHandler(reg *registry.Service, led *ledger.Service, ch *chat.Service, mod *moderation.Service, st storage.Storage, langs *localization.Languages) *Handler {
	return &Handler{Registry: reg, Ledger: led, Chat: ch, Moderation: mod, Storage: st, Languages: langs}
}

// RegisterRoutes mounts all routes on the router.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/users", h.Signup)
	r.GET("/users", h.GetPenPals)
	r.GET("/users/:userId/chats", h.GetUserChats)
	r.GET("/users/:userId/points", h.GetPoints)
	r.GET("/users/:userId/corrections", h.GetCorrections)
	r.POST("/users/:userId/report", h.PostReport)
	r.DELETE("/users/:userId", h.DeleteUser)

	r.POST("/info/chatRoom", h.CreateChatRoom)
	r.GET("/info/chat/:chatRoomId", h.GetChatRoom)
	r.POST("/chat/:chatRoomId/rate", h.UpdateRating)
	r.POST("/chat/message", h.CreateMessage)
	r.POST("/message/:messageId/correction", h.CreateCorrection)
}

// callerID returns the authenticated caller identity set by the auth layer.
func callerID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}

// respondSuccess sends the uniform success envelope.
func respondSuccess(c *gin.Context, content any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": content})
}

// respondFailure sends the uniform failure envelope with a status derived
// from the error kind.
func respondFailure(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"success": false, "message": err.Error()})
}
