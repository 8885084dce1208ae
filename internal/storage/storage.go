package storage

import (
	"context"
	"encoding/json"
	"errors"

	"lingua/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

type Storage interface {
	// Users
	CreateUser(user *models.User) error
	GetUserByID(userID string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateUser(user *models.User) error
	DeleteUser(userID string) error
	ListPenPals(excludeUserID string, maxReports int) ([]models.User, error)
	SetUserRating(userID string, rating float64) error
	SetUserPoints(userID string, points int) error

	// Rooms
	CreateRoom(room *models.ChatRoom) error
	GetRoomByID(roomID string) (*models.ChatRoom, error)
	GetRoomExpanded(roomID string) (*models.ChatRoom, error)
	FindRoomByPairKey(pairKey string) (*models.ChatRoom, error)
	GetRoomsForUser(userID string) ([]models.ChatRoom, error)
	CountRoomsForUser(userID string) (int64, error)
	ReplaceRoomRatings(roomID string, ratings []models.RoomRating) error
	AttachMessageToRoom(roomID, messageID string) error

	// Messages and corrections
	CreateMessage(msg *models.Message) error
	GetMessageByID(messageID string) (*models.Message, error)
	GetCorrectionsForAuthor(userID string) ([]models.Message, error)
	CreateCorrection(correction *models.Correction) error

	// Redis-backed state
	IsUserBanned(userID string) (bool, error)
	BanUser(userID string) error
	UnbanUser(userID string) error
	PublishRoomEvent(event models.RoomEvent) error

	// Transaction runs fn against a Storage bound to a database
	// transaction; fn returning an error rolls everything back.
	Transaction(fn func(tx Storage) error) error
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// Transaction wraps fn in a single database transaction. Redis operations
// performed inside fn are not transactional.
func (s *Service) Transaction(fn func(tx Storage) error) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&Service{DB: tx, Redis: s.Redis, Ctx: s.Ctx})
	})
}

// IsUserBanned checks the ban flag in Redis.
func (s *Service) IsUserBanned(userID string) (bool, error) {
	key := "ban:" + userID
	status, err := s.Redis.Get(s.Ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return status != "", nil
}

// BanUser sets the ban flag for a user in Redis.
func (s *Service) BanUser(userID string) error {
	return s.Redis.Set(s.Ctx, "ban:"+userID, "banned", 0).Err()
}

// UnbanUser clears the ban flag for a user.
func (s *Service) UnbanUser(userID string) error {
	return s.Redis.Del(s.Ctx, "ban:"+userID).Err()
}

// PublishRoomEvent publishes a room event to the room's Redis channel.
// Subscribers (the notification layer) forward it to connected clients.
func (s *Service) PublishRoomEvent(event models.RoomEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := s.Redis.Publish(s.Ctx, "room:"+event.RoomID, string(payload)).Err(); err != nil {
		log.Error().Err(err).Str("room_id", event.RoomID).Str("type", event.Type).
			Msg("failed to publish room event")
		return err
	}
	return nil
}
