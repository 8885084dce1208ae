package handler

import (
	"fmt"
	"net/http"

	"lingua/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type createRoomRequest struct {
	PotentialPenPalID string `json:"potentialPenPalId" binding:"required"`
}

// CreateChatRoom opens (or returns) the chat room between the caller and a
// potential pen pal. Entering a new chat costs points; an existing room is
// returned without charge.
func (h *Handler) CreateChatRoom(c *gin.Context) {
	caller := callerID(c)
	if caller == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing caller identity"})
		return
	}

	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, fmt.Errorf("%w: %s", models.ErrValidation, err.Error()))
		return
	}

	banned, err := h.Moderation.IsBanned(caller)
	if err != nil {
		respondFailure(c, err)
		return
	}
	if banned {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "user is banned"})
		return
	}

	if existing, err := h.Registry.FindRoom(caller, req.PotentialPenPalID); err != nil {
		respondFailure(c, err)
		return
	} else if existing != nil {
		respondSuccess(c, existing)
		return
	}

	ok, err := h.Ledger.EnterChat(caller)
	if err != nil {
		respondFailure(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusPaymentRequired, gin.H{"success": false, "message": "not enough points to enter a chat"})
		return
	}

	room, err := h.Registry.CreateRoom(caller, req.PotentialPenPalID)
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondSuccess(c, room)
}

// GetChatRoom returns the expanded room view for display.
func (h *Handler) GetChatRoom(c *gin.Context) {
	room, err := h.Registry.GetRoom(c.Param("chatRoomId"))
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondSuccess(c, room)
}

type updateRatingRequest struct {
	RatedUserID string              `json:"ratedUserId" binding:"required"`
	OldRatings  []models.RoomRating `json:"oldRatings" binding:"required"`
	NewRatings  []models.RoomRating `json:"newRatings" binding:"required"`
}

// UpdateRating changes the rating one participant received in this room
// and folds the delta into their aggregate average.
func (h *Handler) UpdateRating(c *gin.Context) {
	var req updateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, fmt.Errorf("%w: %s", models.ErrValidation, err.Error()))
		return
	}

	err := h.Registry.UpdateRating(c.Param("chatRoomId"), req.RatedUserID, req.OldRatings, req.NewRatings)
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondSuccess(c, gin.H{"roomId": c.Param("chatRoomId")})
}

type createMessageRequest struct {
	ChatRoomID string `json:"chatRoomId" binding:"required"`
	Message    string `json:"message" binding:"required"`
}

// CreateMessage posts a chat message authored by the caller.
func (h *Handler) CreateMessage(c *gin.Context) {
	caller := callerID(c)
	if caller == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing caller identity"})
		return
	}

	var req createMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, fmt.Errorf("%w: %s", models.ErrValidation, err.Error()))
		return
	}

	msg, err := h.Chat.PostMessage(caller, req.ChatRoomID, req.Message)
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondSuccess(c, msg)
}

type createCorrectionRequest struct {
	ErrorPhrase   string `json:"errorPhrase" binding:"required"`
	CorrectPhrase string `json:"correctPhrase" binding:"required"`
	Comments      string `json:"comments"`
}

// CreateCorrection posts a correction on a message, crediting the caller.
func (h *Handler) CreateCorrection(c *gin.Context) {
	caller := callerID(c)
	if caller == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing caller identity"})
		return
	}

	var req createCorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, fmt.Errorf("%w: %s", models.ErrValidation, err.Error()))
		return
	}

	correction, err := h.Chat.PostCorrection(caller, c.Param("messageId"), req.ErrorPhrase, req.CorrectPhrase, req.Comments)
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondSuccess(c, correction)
}
