package registry_test

import (
	"errors"

	"lingua/backend/internal/models"
	"lingua/backend/internal/storage"

	"github.com/google/uuid"
)

// fakeState is the in-memory database backing fakeStorage. Transactions
// work on a deep copy that only replaces the live state on success, so
// rollback behavior is observable in tests.
type fakeState struct {
	users    map[string]*models.User
	rooms    map[string]*models.ChatRoom
	pairKeys map[string]string // pair key -> room ID
	messages map[string]*models.Message
}

func newFakeState() *fakeState {
	return &fakeState{
		users:    make(map[string]*models.User),
		rooms:    make(map[string]*models.ChatRoom),
		pairKeys: make(map[string]string),
		messages: make(map[string]*models.Message),
	}
}

func (st *fakeState) clone() *fakeState {
	copied := newFakeState()
	for id, u := range st.users {
		user := *u
		copied.users[id] = &user
	}
	for id, r := range st.rooms {
		room := *r
		room.Ratings = append([]models.RoomRating(nil), r.Ratings...)
		copied.rooms[id] = &room
	}
	for k, v := range st.pairKeys {
		copied.pairKeys[k] = v
	}
	for id, m := range st.messages {
		msg := *m
		copied.messages[id] = &msg
	}
	return copied
}

type fakeStorage struct {
	storage.Storage

	state *fakeState

	failRatingWriteFor string // SetUserRating fails for this user ID
	events             []models.RoomEvent
}

func newFakeStorage(users ...*models.User) *fakeStorage {
	f := &fakeStorage{state: newFakeState()}
	for _, u := range users {
		f.state.users[u.ID] = u
	}
	return f
}

func (f *fakeStorage) GetUserByID(userID string) (*models.User, error) {
	user, ok := f.state.users[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeStorage) SetUserRating(userID string, rating float64) error {
	if userID == f.failRatingWriteFor {
		return errors.New("storage unavailable")
	}
	user, ok := f.state.users[userID]
	if !ok {
		return storage.ErrNotFound
	}
	user.Rating = rating
	return nil
}

func (f *fakeStorage) CreateRoom(room *models.ChatRoom) error {
	if room.RoomID == "" {
		room.RoomID = uuid.New().String()
	}
	if room.PairKey == "" {
		room.PairKey = models.PairKey(room.User1ID, room.User2ID)
	}
	if _, exists := f.state.pairKeys[room.PairKey]; exists {
		return errors.New("duplicate key value violates unique constraint")
	}
	stored := *room
	stored.Ratings = append([]models.RoomRating(nil), room.Ratings...)
	for i := range stored.Ratings {
		stored.Ratings[i].RoomID = stored.RoomID
	}
	f.state.rooms[stored.RoomID] = &stored
	f.state.pairKeys[stored.PairKey] = stored.RoomID
	return nil
}

func (f *fakeStorage) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	room, ok := f.state.rooms[roomID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *room
	copied.Ratings = append([]models.RoomRating(nil), room.Ratings...)
	return &copied, nil
}

func (f *fakeStorage) FindRoomByPairKey(pairKey string) (*models.ChatRoom, error) {
	roomID, ok := f.state.pairKeys[pairKey]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return f.GetRoomByID(roomID)
}

func (f *fakeStorage) CountRoomsForUser(userID string) (int64, error) {
	var count int64
	for _, room := range f.state.rooms {
		if room.User1ID == userID || room.User2ID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStorage) ReplaceRoomRatings(roomID string, ratings []models.RoomRating) error {
	room, ok := f.state.rooms[roomID]
	if !ok {
		return storage.ErrNotFound
	}
	room.Ratings = nil
	for _, r := range ratings {
		room.Ratings = append(room.Ratings, models.RoomRating{
			RoomID: roomID, UserID: r.UserID, RatingFromRoom: r.RatingFromRoom,
		})
	}
	return nil
}

func (f *fakeStorage) AttachMessageToRoom(roomID, messageID string) error {
	msg, ok := f.state.messages[messageID]
	if !ok {
		return storage.ErrNotFound
	}
	if msg.RoomID != nil && *msg.RoomID != roomID {
		return storage.ErrMessageAttached
	}
	msg.RoomID = &roomID
	return nil
}

func (f *fakeStorage) PublishRoomEvent(event models.RoomEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeStorage) Transaction(fn func(tx storage.Storage) error) error {
	tx := &fakeStorage{
		state:              f.state.clone(),
		failRatingWriteFor: f.failRatingWriteFor,
	}
	if err := fn(tx); err != nil {
		return err
	}
	f.state = tx.state
	return nil
}

func (f *fakeStorage) addMessage(msg *models.Message) {
	f.state.messages[msg.ID] = msg
}
