package storage

import (
	"errors"

	"lingua/backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CreateMessage inserts a new message.
func (s *Service) CreateMessage(msg *models.Message) error {
	if err := s.DB.Create(msg).Error; err != nil {
		log.Error().Err(err).Str("author_id", msg.AuthorID).Msg("failed to save message")
		return err
	}
	return nil
}

// GetMessageByID returns the message with its corrections, or ErrNotFound.
func (s *Service) GetMessageByID(messageID string) (*models.Message, error) {
	var msg models.Message
	err := s.DB.Preload("Corrections").Where("id = ?", messageID).First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetCorrectionsForAuthor returns all messages written by the user with
// their corrections preloaded, newest message first. This is the user's
// list of mistakes made and fixed by partners.
func (s *Service) GetCorrectionsForAuthor(userID string) ([]models.Message, error) {
	var messages []models.Message
	err := s.DB.
		Preload("Corrections").
		Where("author_id = ?", userID).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to load corrections for author")
		return nil, err
	}
	return messages, nil
}

// CreateCorrection inserts a new correction attached to its message.
func (s *Service) CreateCorrection(correction *models.Correction) error {
	if err := s.DB.Create(correction).Error; err != nil {
		log.Error().Err(err).Str("message_id", correction.MessageID).
			Msg("failed to save correction")
		return err
	}
	return nil
}
