package storage

import (
	"errors"

	"lingua/backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CreateUser inserts a new user. Points and Rating take their column
// defaults (50 and 0) unless explicitly set.
func (s *Service) CreateUser(user *models.User) error {
	if err := s.DB.Create(user).Error; err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("failed to create user")
		return err
	}
	return nil
}

// GetUserByID returns the user or ErrNotFound.
func (s *Service) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail returns the user with the given email or ErrNotFound.
func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser persists the full user record.
func (s *Service) UpdateUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// DeleteUser removes a user record. Only the admin tooling calls this.
func (s *Service) DeleteUser(userID string) error {
	result := s.DB.Where("id = ?", userID).Delete(&models.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPenPals returns every user other than excludeUserID whose report
// count is below maxReports.
func (s *Service) ListPenPals(excludeUserID string, maxReports int) ([]models.User, error) {
	var users []models.User
	err := s.DB.
		Where("id <> ?", excludeUserID).
		Where("COALESCE(array_length(reports, 1), 0) < ?", maxReports).
		Find(&users).Error
	if err != nil {
		log.Error().Err(err).Msg("failed to list pen pals")
		return nil, err
	}
	return users, nil
}

// SetUserRating writes the recomputed average rating for a user.
// Callers serialize per user, so the single-column update is safe.
func (s *Service) SetUserRating(userID string, rating float64) error {
	result := s.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("rating", rating)
	if result.Error != nil {
		log.Error().Err(result.Error).Str("user_id", userID).Msg("failed to set rating")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetUserPoints writes the user's new point balance.
func (s *Service) SetUserPoints(userID string, points int) error {
	result := s.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("points", points)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
