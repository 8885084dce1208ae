// Package registry owns the two-party chat room entities and orchestrates
// every operation that touches both a room and the participants' rating
// ledger. Multi-step writes run inside a single storage transaction under
// the participants' ledger locks, so a failed step leaves nothing behind.
package registry

import (
	"errors"
	"fmt"

	"lingua/backend/internal/config"
	"lingua/backend/internal/ledger"
	"lingua/backend/internal/models"
	"lingua/backend/internal/storage"

	"github.com/rs/zerolog/log"
)

// ErrRoomExists is returned when a room for the unordered pair already exists.
var ErrRoomExists = fmt.Errorf("%w: chat room for this pair already exists", models.ErrValidation)

// Service is the chat room registry.
type Service struct {
	Storage storage.Storage
	Ledger  *ledger.Service
}

// NewService creates a new registry over the given storage and ledger.
func NewService(s storage.Storage, l *ledger.Service) *Service {
	return &Service{Storage: s, Ledger: l}
}

// CreateRoom creates the single room for the unordered pair (userA, userB)
// with both ratings defaulted, and folds the default rating into each
// participant's running average. Room insert and both ledger updates are
// one transaction; any failure rolls the whole operation back.
func (s *Service) CreateRoom(userA, userB string) (*models.ChatRoom, error) {
	if err := models.ValidateParticipants(userA, userB); err != nil {
		return nil, err
	}

	if existing, err := s.FindRoom(userA, userB); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrRoomExists
	}

	user1, user2 := userA, userB
	if user1 > user2 {
		user1, user2 = user2, user1
	}

	room := &models.ChatRoom{
		User1ID: user1,
		User2ID: user2,
		Ratings: []models.RoomRating{
			{UserID: user1, RatingFromRoom: config.DefaultRoomRating},
			{UserID: user2, RatingFromRoom: config.DefaultRoomRating},
		},
	}

	unlock := s.Ledger.LockUsers(userA, userB)
	defer unlock()

	err := s.Storage.Transaction(func(tx storage.Storage) error {
		if err := tx.CreateRoom(room); err != nil {
			return err
		}
		for _, userID := range []string{user1, user2} {
			// The count includes the room inserted above.
			totalRooms, err := tx.CountRoomsForUser(userID)
			if err != nil {
				return err
			}
			if err := s.Ledger.ApplyRatingUpdate(tx, userID, 0, config.DefaultRoomRating, totalRooms, true); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("user1", user1).Str("user2", user2).
			Msg("chat room creation rolled back")
		return nil, err
	}
	return room, nil
}

// FindRoom returns the room shared by the two users, in either argument
// order, or nil when no such room exists.
func (s *Service) FindRoom(userA, userB string) (*models.ChatRoom, error) {
	room, err := s.Storage.FindRoomByPairKey(models.PairKey(userA, userB))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return room, nil
}

// GetRoom returns the denormalized room view: participants, messages with
// authors, corrections with creators.
func (s *Service) GetRoom(roomID string) (*models.ChatRoom, error) {
	return s.Storage.GetRoomExpanded(roomID)
}

// ListRoomsForUser returns every room the user participates in, expanded.
func (s *Service) ListRoomsForUser(userID string) ([]models.ChatRoom, error) {
	return s.Storage.GetRoomsForUser(userID)
}

// AddMessage attaches a message to the room. Attaching the same message
// twice has no additional effect.
func (s *Service) AddMessage(roomID, messageID string) error {
	if _, err := s.Storage.GetRoomByID(roomID); err != nil {
		return err
	}
	err := s.Storage.AttachMessageToRoom(roomID, messageID)
	if errors.Is(err, storage.ErrMessageAttached) {
		return fmt.Errorf("%w: message belongs to another room", models.ErrValidation)
	}
	return err
}

// UpdateRating replaces the room's rating entries with newRatings after
// folding the rated user's delta into their running average. The ledger
// recomputation reads the old value before the room's stored ratings are
// overwritten, and both writes share one transaction.
func (s *Service) UpdateRating(roomID, ratedUserID string, oldRatings, newRatings []models.RoomRating) error {
	if err := models.ValidateRatings(newRatings); err != nil {
		return err
	}

	room, err := s.Storage.GetRoomByID(roomID)
	if err != nil {
		return err
	}
	for _, r := range newRatings {
		if r.UserID != room.User1ID && r.UserID != room.User2ID {
			return fmt.Errorf("%w: rating user %s is not a room participant", models.ErrValidation, r.UserID)
		}
	}

	oldEntry, ok := models.RatingFor(oldRatings, ratedUserID)
	if !ok {
		return fmt.Errorf("%w: no old rating entry for user %s", models.ErrValidation, ratedUserID)
	}
	newEntry, ok := models.RatingFor(newRatings, ratedUserID)
	if !ok {
		return fmt.Errorf("%w: no new rating entry for user %s", models.ErrValidation, ratedUserID)
	}

	unlock := s.Ledger.LockUsers(ratedUserID)
	defer unlock()

	err = s.Storage.Transaction(func(tx storage.Storage) error {
		totalRooms, err := tx.CountRoomsForUser(ratedUserID)
		if err != nil {
			return err
		}
		if err := s.Ledger.ApplyRatingUpdate(tx, ratedUserID, oldEntry.RatingFromRoom, newEntry.RatingFromRoom, totalRooms, false); err != nil {
			return err
		}
		return tx.ReplaceRoomRatings(roomID, newRatings)
	})
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Str("rated_user", ratedUserID).
			Msg("rating update rolled back")
		return err
	}

	// Best effort: readers reload the room on this signal.
	if err := s.Storage.PublishRoomEvent(models.RoomEvent{
		RoomID: roomID, Type: models.EventRating, EntityID: ratedUserID,
	}); err != nil {
		log.Warn().Err(err).Str("room_id", roomID).Msg("rating event not published")
	}
	return nil
}
