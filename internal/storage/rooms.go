package storage

import (
	"errors"

	"lingua/backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrMessageAttached is returned when attaching a message that already
// belongs to a different room.
var ErrMessageAttached = errors.New("message already attached to another room")

// CreateRoom inserts the room together with its two rating rows. The
// unique index on pair_key rejects a second room for the same pair.
func (s *Service) CreateRoom(room *models.ChatRoom) error {
	if err := s.DB.Create(room).Error; err != nil {
		log.Error().Err(err).Str("pair_key", room.PairKey).Msg("failed to create chat room")
		return err
	}
	return nil
}

// GetRoomByID loads a room with its rating entries, or ErrNotFound.
func (s *Service) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.DB.Preload("Ratings").Where("room_id = ?", roomID).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to get room")
		return nil, err
	}
	return &room, nil
}

// GetRoomExpanded loads a room with ratings, messages, corrections and the
// public projections of every referenced user filled in.
func (s *Service) GetRoomExpanded(roomID string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.DB.
		Preload("Ratings").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.created_at ASC")
		}).
		Preload("Messages.Corrections").
		Where("room_id = ?", roomID).
		First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to get expanded room")
		return nil, err
	}

	rooms := []models.ChatRoom{room}
	if err := s.expandRoomUsers(rooms); err != nil {
		return nil, err
	}
	return &rooms[0], nil
}

// GetRoomsForUser returns every room the user participates in, expanded
// the same way as GetRoomExpanded.
func (s *Service) GetRoomsForUser(userID string) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	err := s.DB.
		Preload("Ratings").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.created_at ASC")
		}).
		Preload("Messages.Corrections").
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at ASC").
		Find(&rooms).Error
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to list rooms for user")
		return nil, err
	}

	if err := s.expandRoomUsers(rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// FindRoomByPairKey looks up the single room for an unordered user pair.
func (s *Service) FindRoomByPairKey(pairKey string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.DB.Preload("Ratings").Where("pair_key = ?", pairKey).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// CountRoomsForUser returns how many rooms the user participates in.
func (s *Service) CountRoomsForUser(userID string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.ChatRoom{}).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Count(&count).Error
	return count, err
}

// ReplaceRoomRatings overwrites both rating entries of a room.
func (s *Service) ReplaceRoomRatings(roomID string, ratings []models.RoomRating) error {
	if err := s.DB.Where("room_id = ?", roomID).Delete(&models.RoomRating{}).Error; err != nil {
		return err
	}
	rows := make([]models.RoomRating, len(ratings))
	for i, r := range ratings {
		rows[i] = models.RoomRating{RoomID: roomID, UserID: r.UserID, RatingFromRoom: r.RatingFromRoom}
	}
	return s.DB.Create(&rows).Error
}

// AttachMessageToRoom sets the message's room reference. Attaching the
// same message to the same room twice is a no-op; attaching it to a
// different room fails with ErrMessageAttached.
func (s *Service) AttachMessageToRoom(roomID, messageID string) error {
	result := s.DB.Model(&models.Message{}).
		Where("id = ?", messageID).
		Where("room_id IS NULL OR room_id = ?", roomID).
		Update("room_id", roomID)
	if result.Error != nil {
		log.Error().Err(result.Error).Str("room_id", roomID).Str("message_id", messageID).
			Msg("failed to attach message to room")
		return result.Error
	}
	if result.RowsAffected == 0 {
		var msg models.Message
		err := s.DB.Where("id = ?", messageID).First(&msg).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return ErrMessageAttached
	}
	return nil
}

// expandRoomUsers fills the transient PublicUser projections for room
// participants, message authors and correction creators with one query.
func (s *Service) expandRoomUsers(rooms []models.ChatRoom) error {
	idSet := make(map[string]struct{})
	for _, room := range rooms {
		idSet[room.User1ID] = struct{}{}
		idSet[room.User2ID] = struct{}{}
		for _, msg := range room.Messages {
			idSet[msg.AuthorID] = struct{}{}
			for _, corr := range msg.Corrections {
				idSet[corr.CreatorID] = struct{}{}
			}
		}
	}
	if len(idSet) == 0 {
		return nil
	}

	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	var users []models.User
	if err := s.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
		log.Error().Err(err).Msg("failed to load users for room expansion")
		return err
	}

	public := make(map[string]models.PublicUser, len(users))
	for _, u := range users {
		public[u.ID] = u.Public()
	}

	for i := range rooms {
		room := &rooms[i]
		room.Users = []models.PublicUser{public[room.User1ID], public[room.User2ID]}
		for j := range room.Messages {
			msg := &room.Messages[j]
			if author, ok := public[msg.AuthorID]; ok {
				msg.Author = &author
			}
			for k := range msg.Corrections {
				corr := &msg.Corrections[k]
				if creator, ok := public[corr.CreatorID]; ok {
					corr.Creator = &creator
				}
			}
		}
	}
	return nil
}
