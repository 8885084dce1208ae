package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Correction is feedback on one message: the phrase that was wrong, the
// corrected phrase and a free-text comment. A correction belongs to exactly
// one message and is immutable after creation.
type Correction struct {
	ID        string `gorm:"primaryKey" json:"id"`
	MessageID string `gorm:"not null;index" json:"messageId"`
	CreatorID string `gorm:"not null" json:"creatorId"`

	ErrorPhrase   string `gorm:"type:text;not null" json:"errorPhrase"`
	CorrectPhrase string `gorm:"type:text;not null" json:"correctPhrase"`
	Comments      string `gorm:"type:text" json:"comments"`

	// Creator is filled on the expanded read paths.
	Creator *PublicUser `gorm:"-" json:"creator,omitempty"`

	CreatedAt time.Time `json:"date"`
}

func (c *Correction) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
