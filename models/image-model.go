package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Image is one uploaded file plus its generated captions. The three caption
// columns stay null between row creation and the captioning call.
type Image struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	UserID         string    `json:"userId" gorm:"not null;index"`
	Filename       string    `json:"filename" gorm:"not null"`
	OriginalName   string    `json:"originalName" gorm:"not null"`
	MimeType       string    `json:"mimeType" gorm:"not null"`
	FileSize       int64     `json:"fileSize" gorm:"not null"`
	ImageURL       string    `json:"imageUrl" gorm:"not null"`
	CaptionEnglish *string   `json:"captionEnglish"`
	CaptionTelugu  *string   `json:"captionTelugu"`
	CaptionHindi   *string   `json:"captionHindi"`
	CreatedAt      time.Time `json:"createdAt"`

	// Relationship
	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (img *Image) BeforeCreate(tx *gorm.DB) error {
	if img.ID == "" {
		img.ID = uuid.NewString()
	}
	return nil
}
