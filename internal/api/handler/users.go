package handler

import (
	"fmt"
	"net/http"

	"lingua/backend/internal/config"
	"lingua/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

type signupRequest struct {
	Username          string   `json:"username" binding:"required"`
	Email             string   `json:"email" binding:"required,email"`
	NativeLanguages   []string `json:"nativeLanguages"`
	LearningLanguages []string `json:"learningLanguages"`
	About             string   `json:"about"`
}

// Signup creates a new user account.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, fmt.Errorf("%w: %s", models.ErrValidation, err.Error()))
		return
	}
	if err := h.Languages.Validate(req.NativeLanguages, req.LearningLanguages); err != nil {
		respondFailure(c, fmt.Errorf("%w: %s", models.ErrValidation, err.Error()))
		return
	}

	user := &models.User{
		Username:          req.Username,
		Email:             req.Email,
		NativeLanguages:   pq.StringArray(req.NativeLanguages),
		LearningLanguages: pq.StringArray(req.LearningLanguages),
		About:             req.About,
		Points:            config.InitialPoints,
	}
	if err := h.Storage.CreateUser(user); err != nil {
		respondFailure(c, err)
		return
	}
	respondSuccess(c, user)
}

// GetPenPals lists the users the caller could start a chat with.
func (h *Handler) GetPenPals(c *gin.Context) {
	caller := callerID(c)
	if caller == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing caller identity"})
		return
	}

	pals, err := h.Moderation.PenPals(caller)
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondSuccess(c, pals)
}

// GetUserChats lists all chat rooms the user participates in, expanded.
func (h *Handler) GetUserChats(c *gin.Context) {
	rooms, err := h.Registry.ListRoomsForUser(c.Param("userId"))
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondSuccess(c, rooms)
}

// GetPoints returns the user's current point balance.
func (h *Handler) GetPoints(c *gin.Context) {
	points, err := h.Ledger.Points(c.Param("userId"))
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondSuccess(c, gin.H{"points": points})
}

// GetCorrections lists the corrections partners made on the user's messages.
func (h *Handler) GetCorrections(c *gin.Context) {
	messages, err := h.Chat.CorrectionsForUser(c.Param("userId"))
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondSuccess(c, messages)
}

type reportRequest struct {
	ReporterID string `json:"reporterId" binding:"required"`
}

// PostReport records a report against the user in the path.
func (h *Handler) PostReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, fmt.Errorf("%w: %s", models.ErrValidation, err.Error()))
		return
	}

	if err := h.Moderation.Report(c.Param("userId"), req.ReporterID); err != nil {
		respondFailure(c, err)
		return
	}
	respondSuccess(c, gin.H{"reported": c.Param("userId")})
}

// DeleteUser removes a user record. Reserved for admin callers; the auth
// layer in front guards the route.
func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.Storage.DeleteUser(c.Param("userId")); err != nil {
		respondFailure(c, err)
		return
	}
	respondSuccess(c, gin.H{"deleted": c.Param("userId")})
}
