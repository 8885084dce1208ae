package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// User represents a registered member of the language exchange.
// Rating is the running average of the scores the user received across all
// chat rooms they participate in; it is recomputed incrementally by the
// ledger, never from full history.
type User struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Username string `json:"username"` // not unique, many people can share names
	Email    string `gorm:"uniqueIndex" json:"email"`
	About    string `json:"about"`

	NativeLanguages   pq.StringArray `gorm:"type:text[]" json:"nativeLanguages"`
	LearningLanguages pq.StringArray `gorm:"type:text[]" json:"learningLanguages"`

	// Rating holds a float in [0,5]; 0 means no room participation yet.
	Rating float64 `gorm:"default:0" json:"rating"`
	// Points are spent to enter chats (-10) and earned per correction (+1).
	Points int `gorm:"default:50" json:"points"`
	// Reports is the set of IDs of users who reported this user.
	Reports pq.StringArray `gorm:"type:text[]" json:"reports"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate generates a UUID for the user if ID is not yet set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// ValidRating reports whether r is an acceptable stored average, 0<=r<=5.
func ValidRating(r float64) bool {
	return r >= 0 && r <= 5
}

// PublicUser is the projection of a user shown to other users.
type PublicUser struct {
	ID                string         `json:"id"`
	Username          string         `json:"username"`
	NativeLanguages   pq.StringArray `json:"nativeLanguages"`
	LearningLanguages pq.StringArray `json:"learningLanguages"`
	About             string         `json:"about"`
	Rating            float64        `json:"rating"`
}

// Public returns the user's publicly visible projection.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:                u.ID,
		Username:          u.Username,
		NativeLanguages:   u.NativeLanguages,
		LearningLanguages: u.LearningLanguages,
		About:             u.About,
		Rating:            u.Rating,
	}
}
