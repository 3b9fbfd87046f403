package blobstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"trading-journal-go/internal/models"
)

// Store keeps versioned JSON blobs and binary attachments in the database.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store. The db must already be migrated for models.Blob and models.Attachment.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Latest returns the newest version stored under key, or nil if there is none.
func (s *Store) Latest(ctx context.Context, key string) (*models.Blob, error) {
	var blob models.Blob
	err := s.db.WithContext(ctx).
		Where("blob_key = ?", key).
		Order("id desc").
		First(&blob).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return &blob, nil
}

// Put stores payload as a new version of key.
func (s *Store) Put(ctx context.Context, key, payload string) (*models.Blob, error) {
	blob := models.Blob{BlobKey: key, Payload: payload}
	if err := s.db.WithContext(ctx).Create(&blob).Error; err != nil {
		return nil, fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	return &blob, nil
}

// Prune permanently deletes every version of key older than keepID.
func (s *Store) Prune(ctx context.Context, key string, keepID uint) (int64, error) {
	result := s.db.WithContext(ctx).Unscoped().
		Where("blob_key = ? AND id < ?", key, keepID).
		Delete(&models.Blob{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune blob %s: %w", key, result.Error)
	}
	return result.RowsAffected, nil
}

// Versions counts the stored versions of key.
func (s *Store) Versions(ctx context.Context, key string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Blob{}).Where("blob_key = ?", key).Count(&n).Error
	return n, err
}

// SaveAttachment stores a binary attachment.
func (s *Store) SaveAttachment(ctx context.Context, a *models.Attachment) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("failed to store attachment %s: %w", a.Filename, err)
	}
	return nil
}

// Attachment returns the attachment with id, or nil if there is none.
func (s *Store) Attachment(ctx context.Context, id string) (*models.Attachment, error) {
	var a models.Attachment
	err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment %s: %w", id, err)
	}
	return &a, nil
}
