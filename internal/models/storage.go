package models

import (
	"time"

	"gorm.io/gorm"
)

// CacheEntry is one key of the local device cache, scoped by namespace.
type CacheEntry struct {
	Namespace string `gorm:"primaryKey"`
	CacheKey  string `gorm:"primaryKey"`
	Payload   string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// Blob is one stored version of a key in the blob store.
// Older versions of a key are superseded by the newest row and eligible for cleanup.
type Blob struct {
	gorm.Model
	BlobKey string `gorm:"index;not null"`
	Payload string `gorm:"type:text;not null"`
}

// Attachment is an uploaded file referenced from a trade by its URL.
type Attachment struct {
	ID          string `gorm:"primaryKey"`
	Filename    string `gorm:"not null"`
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}
