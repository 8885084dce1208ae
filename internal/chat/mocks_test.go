package chat_test

import (
	"sort"

	"lingua/backend/internal/models"
	"lingua/backend/internal/storage"

	"github.com/google/uuid"
)

// fakeStorage covers the message, correction and room-attachment surface
// the chat service reaches; everything else panics via the embedded
// interface.
type fakeStorage struct {
	storage.Storage

	rooms       map[string]*models.ChatRoom
	messages    map[string]*models.Message
	corrections map[string]*models.Correction
	events      []models.RoomEvent

	failPublish error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		rooms:       make(map[string]*models.ChatRoom),
		messages:    make(map[string]*models.Message),
		corrections: make(map[string]*models.Correction),
	}
}

func (f *fakeStorage) CreateMessage(msg *models.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	stored := *msg
	f.messages[stored.ID] = &stored
	return nil
}

func (f *fakeStorage) GetMessageByID(messageID string) (*models.Message, error) {
	msg, ok := f.messages[messageID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *msg
	return &copied, nil
}

func (f *fakeStorage) CreateCorrection(correction *models.Correction) error {
	if correction.ID == "" {
		correction.ID = uuid.New().String()
	}
	stored := *correction
	f.corrections[stored.ID] = &stored
	return nil
}

func (f *fakeStorage) GetCorrectionsForAuthor(userID string) ([]models.Message, error) {
	var result []models.Message
	for _, msg := range f.messages {
		if msg.AuthorID != userID {
			continue
		}
		copied := *msg
		for _, corr := range f.corrections {
			if corr.MessageID == msg.ID {
				copied.Corrections = append(copied.Corrections, *corr)
			}
		}
		result = append(result, copied)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeStorage) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	room, ok := f.rooms[roomID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *room
	return &copied, nil
}

func (f *fakeStorage) AttachMessageToRoom(roomID, messageID string) error {
	msg, ok := f.messages[messageID]
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
	if f.failPublish != nil {
		return f.failPublish
	}
	f.events = append(f.events, event)
	return nil
}

// fakeRewarder records correction point awards.
type fakeRewarder struct {
	awarded []string
	err     error
}

func (f *fakeRewarder) AwardCorrectionPoint(userID string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.awarded = append(f.awarded, userID)
	return 51, nil
}
