// Package chat provides the message and correction stores. Both are
// append-only: a message never changes after posting and a correction is
// immutable from the moment it is attached to its message.
package chat

import (
	"fmt"
	"strings"

	"lingua/backend/internal/models"
	"lingua/backend/internal/registry"
	"lingua/backend/internal/storage"

	"github.com/rs/zerolog/log"
)

// Service handles posting messages and corrections.
type Service struct {
	Storage  storage.Storage
	Registry *registry.Service
	Ledger   CorrectionRewarder
}

// CorrectionRewarder grants the correction point; satisfied by the ledger.
type CorrectionRewarder interface {
	AwardCorrectionPoint(userID string) (int, error)
}

// NewService creates a new chat service.
func NewService(s storage.Storage, r *registry.Service, l CorrectionRewarder) *Service {
	return &Service{Storage: s, Registry: r, Ledger: l}
}

// PostMessage creates a message and attaches it to the room.
func (s *Service) PostMessage(authorID, roomID, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: user can not send an empty message", models.ErrValidation)
	}

	msg := &models.Message{AuthorID: authorID, Text: text}
	if err := s.Storage.CreateMessage(msg); err != nil {
		return nil, err
	}
	if err := s.Registry.AddMessage(roomID, msg.ID); err != nil {
		return nil, err
	}

	if err := s.Storage.PublishRoomEvent(models.RoomEvent{
		RoomID: roomID, Type: models.EventMessage, EntityID: msg.ID,
	}); err != nil {
		log.Warn().Err(err).Str("room_id", roomID).Msg("message event not published")
	}
	return msg, nil
}

// PostCorrection creates a correction on a message and grants the creator
// their correction point.
func (s *Service) PostCorrection(creatorID, messageID, errorPhrase, correctPhrase, comments string) (*models.Correction, error) {
	if errorPhrase == "" {
		return nil, fmt.Errorf("%w: user can not post a correction on no text", models.ErrValidation)
	}
	if correctPhrase == "" {
		return nil, fmt.Errorf("%w: user can not post an empty correction", models.ErrValidation)
	}

	msg, err := s.Storage.GetMessageByID(messageID)
	if err != nil {
		return nil, err
	}

	correction := &models.Correction{
		MessageID:     msg.ID,
		CreatorID:     creatorID,
		ErrorPhrase:   errorPhrase,
		CorrectPhrase: correctPhrase,
		Comments:      comments,
	}
	if err := s.Storage.CreateCorrection(correction); err != nil {
		return nil, err
	}

	if _, err := s.Ledger.AwardCorrectionPoint(creatorID); err != nil {
		log.Error().Err(err).Str("creator_id", creatorID).
			Msg("correction saved but point not awarded")
		return nil, err
	}

	if msg.RoomID != nil {
		if err := s.Storage.PublishRoomEvent(models.RoomEvent{
			RoomID: *msg.RoomID, Type: models.EventCorrection, EntityID: correction.ID,
		}); err != nil {
			log.Warn().Err(err).Str("room_id", *msg.RoomID).Msg("correction event not published")
		}
	}
	return correction, nil
}

// CorrectionsForUser lists the user's authored messages with the
// corrections partners made on them, newest message first.
func (s *Service) CorrectionsForUser(userID string) ([]models.Message, error) {
	return s.Storage.GetCorrectionsForAuthor(userID)
}
