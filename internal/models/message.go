package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a single chat message posted by a participant. A message is
// created standalone and then attached to its room; after that it is
// immutable except for accumulating corrections.
type Message struct {
	ID string `gorm:"primaryKey" json:"id"`
	// RoomID is nil until the message has been attached to a room.
	RoomID   *string `gorm:"index" json:"roomId,omitempty"`
	AuthorID string  `gorm:"not null;index" json:"authorId"`
	Text     string  `gorm:"type:text;not null" json:"text"`

	Corrections []Correction `gorm:"foreignKey:MessageID" json:"corrections"`

	// Author is filled on the expanded read paths.
	Author *PublicUser `gorm:"-" json:"author,omitempty"`

	CreatedAt time.Time `json:"date"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}
