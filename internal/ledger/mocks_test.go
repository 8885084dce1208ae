package ledger_test

import (
	"errors"
	"sync"

	"lingua/backend/internal/models"
	"lingua/backend/internal/storage"
)

// fakeStorage is a stateful in-memory stand-in for the user side of
// storage.Storage. The embedded interface panics for anything the ledger
// never touches. Each method takes the lock independently, so any missing
// serialization in the ledger shows up as a lost update in tests.
type fakeStorage struct {
	storage.Storage

	mu    sync.Mutex
	users map[string]*models.User

	failRatingWrite bool
}

func newFakeStorage(users ...*models.User) *fakeStorage {
	f := &fakeStorage{users: make(map[string]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeStorage) GetUserByID(userID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeStorage) SetUserRating(userID string, rating float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRatingWrite {
		return errors.New("storage unavailable")
	}
	user, ok := f.users[userID]
	if !ok {
		return storage.ErrNotFound
	}
	user.Rating = rating
	return nil
}

func (f *fakeStorage) SetUserPoints(userID string, points int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return storage.ErrNotFound
	}
	user.Points = points
	return nil
}

func (f *fakeStorage) Transaction(fn func(tx storage.Storage) error) error {
	return fn(f)
}

func (f *fakeStorage) rating(userID string) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[userID].Rating
}

func (f *fakeStorage) points(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[userID].Points
}
