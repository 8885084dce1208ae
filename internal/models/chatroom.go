package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatRoom represents a conversation between exactly two users.
// Any two users share at most one room; User1ID/User2ID are stored in
// canonical (sorted) order and PairKey carries a uniqueness constraint so
// the one-room-per-pair rule holds even under concurrent creation.
//
// Each room holds exactly two RoomRating entries, one per participant,
// recording the score that participant received from their partner in
// this room. Both default to 3 on creation.
type ChatRoom struct {
	RoomID  string `gorm:"primaryKey" json:"id"`
	User1ID string `gorm:"not null" json:"-"`
	User2ID string `gorm:"not null" json:"-"`
	PairKey string `gorm:"uniqueIndex;not null" json:"-"`

	Ratings  []RoomRating `gorm:"foreignKey:RoomID" json:"ratings"`
	Messages []Message    `gorm:"foreignKey:RoomID" json:"messages"`

	// Users is filled on the expanded read paths, not persisted as a column.
	Users []PublicUser `gorm:"-" json:"users"`

	CreatedAt time.Time `json:"createdAt"`
}

// RoomRating is one participant's rating received from this room.
// The json field names are a storage contract shared with external tooling.
type RoomRating struct {
	RoomID         string  `gorm:"primaryKey" json:"-"`
	UserID         string  `gorm:"primaryKey" json:"userId"`
	RatingFromRoom float64 `gorm:"not null" json:"ratingFromRoom"`
}

// BeforeCreate generates the room UUID and canonical pair key.
func (r *ChatRoom) BeforeCreate(tx *gorm.DB) (err error) {
	if r.RoomID == "" {
		r.RoomID = uuid.New().String()
	}
	if r.PairKey == "" {
		r.PairKey = PairKey(r.User1ID, r.User2ID)
	}
	return
}

// PairKey canonicalizes an unordered user pair into a single lookup key.
func PairKey(userA, userB string) string {
	if strings.Compare(userA, userB) > 0 {
		userA, userB = userB, userA
	}
	return userA + ":" + userB
}

// ValidRoomRating reports whether v belongs to the discrete rating set
// {0, 0.5, 1, ..., 5}.
func ValidRoomRating(v float64) bool {
	doubled := v * 2
	return v >= 0 && v <= 5 && doubled == float64(int(doubled))
}

// ErrValidation marks errors caused by invalid input rather than by the
// storage layer; callers map it to a client error.
var ErrValidation = errors.New("validation failed")

// ValidateParticipants enforces the exactly-two-distinct-users invariant.
func ValidateParticipants(userA, userB string) error {
	if userA == "" || userB == "" {
		return fmt.Errorf("%w: chat room must contain exactly two users", ErrValidation)
	}
	if userA == userB {
		return fmt.Errorf("%w: chat room must contain exactly two different users", ErrValidation)
	}
	return nil
}

// ValidateRatings enforces the room rating invariant: exactly two entries
// with distinct user IDs and values drawn from the discrete rating set.
func ValidateRatings(ratings []RoomRating) error {
	if len(ratings) != 2 {
		return fmt.Errorf("%w: chat room must contain exactly two ratings", ErrValidation)
	}
	if ratings[0].UserID == ratings[1].UserID {
		return fmt.Errorf("%w: chat room ratings must be for two different users", ErrValidation)
	}
	for _, r := range ratings {
		if !ValidRoomRating(r.RatingFromRoom) {
			return fmt.Errorf("%w: rating %v is not in the allowed set 0, 0.5, ..., 5", ErrValidation, r.RatingFromRoom)
		}
	}
	return nil
}

// RatingFor returns the rating entry for userID, if present.
func RatingFor(ratings []RoomRating, userID string) (RoomRating, bool) {
	for _, r := range ratings {
		if r.UserID == userID {
			return r, true
		}
	}
	return RoomRating{}, false
}
