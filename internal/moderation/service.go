// Package moderation provides the core logic for handling user reports
// and applying restrictions once a user collects too many of them.
package moderation

import (
	"fmt"

	"lingua/backend/internal/config"
	"lingua/backend/internal/models"
	"lingua/backend/internal/storage"

	"github.com/rs/zerolog/log"
)

// Service handles the business logic for reports and bans.
type Service struct {
	Storage storage.Storage
}

// NewService creates a new moderation service.
func NewService(s storage.Storage) *Service {
	return &Service{Storage: s}
}

// Report records that reporterID reported reportedID. Reporters form a
// set, so repeated reports by the same user count once. Reaching the
// threshold of distinct reporters sets the ban flag.
func (s *Service) Report(reportedID, reporterID string) error {
	if reportedID == reporterID {
		return fmt.Errorf("%w: users can not report themselves", models.ErrValidation)
	}

	user, err := s.Storage.GetUserByID(reportedID)
	if err != nil {
		return err
	}

	known := false
	for _, id := range user.Reports {
		if id == reporterID {
			known = true
			break
		}
	}
	if !known {
		user.Reports = append(user.Reports, reporterID)
		if err := s.Storage.UpdateUser(user); err != nil {
			return err
		}
	}

	if len(user.Reports) >= config.ReportsThresholdForBan {
		if err := s.Storage.BanUser(reportedID); err != nil {
			log.Error().Err(err).Str("user_id", reportedID).Msg("failed to set ban flag")
			return err
		}
		log.Info().Str("user_id", reportedID).Int("reports", len(user.Reports)).
			Msg("user banned after reaching report threshold")
	}
	return nil
}

// IsBanned checks the user's ban flag.
func (s *Service) IsBanned(userID string) (bool, error) {
	return s.Storage.IsUserBanned(userID)
}

// PenPals lists users who could become chat partners of userID: everyone
// except the user themselves and anyone at or over the report threshold.
func (s *Service) PenPals(userID string) ([]models.PublicUser, error) {
	users, err := s.Storage.ListPenPals(userID, config.ReportsThresholdForBan)
	if err != nil {
		return nil, err
	}
	pals := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		pals = append(pals, u.Public())
	}
	return pals, nil
}
