// Package ledger owns each user's point balance and running average
// rating. The average is maintained incrementally from per-room deltas,
// never recomputed from full history, so every read-compute-write on it
// must be serialized per user.
package ledger

import (
	"sort"
	"sync"

	"lingua/backend/internal/config"
	"lingua/backend/internal/storage"

	"github.com/rs/zerolog/log"
)

// Service is the user rating ledger.
type Service struct {
	Storage storage.Storage

	locks sync.Map // userID -> *sync.Mutex
}

// NewService creates a new ledger over the given storage.
func NewService(s storage.Storage) *Service {
	return &Service{Storage: s}
}

func (s *Service) lockFor(userID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// LockUsers acquires the per-user mutexes for every given user, in sorted
// ID order so two callers locking overlapping sets cannot deadlock. The
// returned function releases all of them.
func (s *Service) LockUsers(userIDs ...string) func() {
	ids := make([]string, 0, len(userIDs))
	seen := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	for _, id := range ids {
		s.lockFor(id).Lock()
	}
	return func() {
		for i := len(ids) - 1; i >= 0; i-- {
			s.lockFor(ids[i]).Unlock()
		}
	}
}

// ApplyRatingUpdate recomputes and persists the user's average rating on
// st, which may be a transactional storage. The caller must hold the
// user's ledger lock.
//
// With totalRooms == 0 the average falls back to 0 (no participation).
// For a new room the incoming rating fills the slot added by the enlarged
// room count:
//
//	avg' = (avg*(totalRooms-1) + newRating) / totalRooms
//
// For an update to an existing room the old contribution is replaced:
//
//	avg' = (avg*totalRooms - oldRating + newRating) / totalRooms
func (s *Service) ApplyRatingUpdate(st storage.Storage, userID string, oldRating, newRating float64, totalRooms int64, isNewRoom bool) error {
	user, err := st.GetUserByID(userID)
	if err != nil {
		return err
	}

	updated := float64(config.DefaultUserRating)
	if totalRooms != 0 {
		if isNewRoom {
			updated = (user.Rating*float64(totalRooms-1) + newRating) / float64(totalRooms)
		} else {
			updated = (user.Rating*float64(totalRooms) - oldRating + newRating) / float64(totalRooms)
		}
	}

	if err := st.SetUserRating(userID, updated); err != nil {
		log.Error().Err(err).Str("user_id", userID).Float64("rating", updated).
			Msg("failed to persist recomputed rating")
		return err
	}
	return nil
}

// UpdateRating serializes and applies a rating recomputation for one user
// against the ledger's own storage.
func (s *Service) UpdateRating(userID string, oldRating, newRating float64, totalRooms int64, isNewRoom bool) error {
	unlock := s.LockUsers(userID)
	defer unlock()
	return s.ApplyRatingUpdate(s.Storage, userID, oldRating, newRating, totalRooms, isNewRoom)
}

// EnterChat deducts the chat entry cost from the user's balance. It
// returns false without error when the balance is too low.
func (s *Service) EnterChat(userID string) (bool, error) {
	unlock := s.LockUsers(userID)
	defer unlock()

	user, err := s.Storage.GetUserByID(userID)
	if err != nil {
		return false, err
	}
	if user.Points < config.ChatEntryCost {
		return false, nil
	}
	if err := s.Storage.SetUserPoints(userID, user.Points-config.ChatEntryCost); err != nil {
		return false, err
	}
	return true, nil
}

// AwardCorrectionPoint grants one point for an authored correction and
// returns the new balance.
func (s *Service) AwardCorrectionPoint(userID string) (int, error) {
	unlock := s.LockUsers(userID)
	defer unlock()

	user, err := s.Storage.GetUserByID(userID)
	if err != nil {
		return 0, err
	}
	points := user.Points + config.CorrectionReward
	if err := s.Storage.SetUserPoints(userID, points); err != nil {
		return 0, err
	}
	return points, nil
}

// Points returns the user's current point balance.
func (s *Service) Points(userID string) (int, error) {
	user, err := s.Storage.GetUserByID(userID)
	if err != nil {
		return 0, err
	}
	return user.Points, nil
}
