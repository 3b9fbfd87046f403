package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"trading-journal-go/internal/models"
)

const (
	tradesKey  = "trades"
	payoutsKey = "payouts"
)

// LocalCache mirrors the session's trade and payout lists on the local device,
// keyed by a fixed namespace.
type LocalCache struct {
	db        *gorm.DB
	namespace string
}

// NewLocalCache creates a cache scoped to namespace. The CacheEntry table must be migrated.
func NewLocalCache(db *gorm.DB, namespace string) *LocalCache {
	return &LocalCache{db: db, namespace: namespace}
}

// OpenLocalCache opens the sqlite database at dsn and returns a cache over it.
func OpenLocalCache(dsn, namespace string) (*LocalCache, error) {
	db, err := NewDatabase(dsn, &models.CacheEntry{})
	if err != nil {
		return nil, err
	}
	return NewLocalCache(db, namespace), nil
}

// SaveTrades replaces the cached trade list.
func (c *LocalCache) SaveTrades(ctx context.Context, trades []models.Trade) error {
	if trades == nil {
		trades = []models.Trade{}
	}
	return c.put(ctx, tradesKey, trades)
}

// LoadTrades returns the cached trade list, empty when nothing is cached.
func (c *LocalCache) LoadTrades(ctx context.Context) ([]models.Trade, error) {
	payload, err := c.get(ctx, tradesKey)
	if err != nil {
		return nil, err
	}
	trades, err := models.DecodeTrades(payload)
	if err != nil {
		return nil, fmt.Errorf("cached trades are corrupt: %w", err)
	}
	return trades, nil
}

// SavePayouts replaces the cached payout history.
func (c *LocalCache) SavePayouts(ctx context.Context, payouts []models.PayoutRecord) error {
	if payouts == nil {
		payouts = []models.PayoutRecord{}
	}
	return c.put(ctx, payoutsKey, payouts)
}

// LoadPayouts returns the cached payout history, empty when nothing is cached.
func (c *LocalCache) LoadPayouts(ctx context.Context) ([]models.PayoutRecord, error) {
	payload, err := c.get(ctx, payoutsKey)
	if err != nil {
		return nil, err
	}
	payouts, err := models.DecodePayouts(payload)
	if err != nil {
		return nil, fmt.Errorf("cached payouts are corrupt: %w", err)
	}
	return payouts, nil
}

func (c *LocalCache) put(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	entry := models.CacheEntry{
		Namespace: c.namespace,
		CacheKey:  key,
		Payload:   string(data),
		UpdatedAt: time.Now(),
	}
	err = c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// get returns nil when the key has never been written.
func (c *LocalCache) get(ctx context.Context, key string) ([]byte, error) {
	var entry models.CacheEntry
	err := c.db.WithContext(ctx).
		Where("namespace = ? AND cache_key = ?", c.namespace, key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(entry.Payload), nil
}
