// Package checkpoint persists poll cursors and processed-order marks in a
// local SQLite database so the bridge survives restarts without replaying
// already-propagated orders.
package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/syncbridge/backend/internal/domain/integration"
)

// cursorModel stores the last successful poll boundary per pipeline.
type cursorModel struct {
	Pipeline  string    `gorm:"primaryKey;size:32"`
	Cursor    time.Time `gorm:"not null"`
	UpdatedAt time.Time
}

func (cursorModel) TableName() string { return "sync_cursors" }

// processedKeyModel stores one row per propagated order number.
type processedKeyModel struct {
	Key       string    `gorm:"primaryKey;size:128"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}

func (processedKeyModel) TableName() string { return "processed_keys" }

// Store is a SQLite-backed checkpoint and idempotency store.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

var _ integration.IdempotencyStore = (*Store)(nil)

// Open opens (creating if needed) the SQLite database at path and migrates
// the checkpoint tables.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening checkpoint database: %w", err)
	}
	if err := db.AutoMigrate(&cursorModel{}, &processedKeyModel{}); err != nil {
		return nil, fmt.Errorf("migrating checkpoint schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Cursor returns the persisted poll boundary for the pipeline, or the zero
// time when none has been saved yet.
func (s *Store) Cursor(ctx context.Context, pipeline string) (time.Time, error) {
	var model cursorModel
	err := s.db.WithContext(ctx).First(&model, "pipeline = ?", pipeline).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return model.Cursor, nil
}

// SaveCursor upserts the poll boundary for the pipeline.
func (s *Store) SaveCursor(ctx context.Context, pipeline string, t time.Time) error {
	model := cursorModel{Pipeline: pipeline, Cursor: t, UpdatedAt: s.now()}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pipeline"}},
			DoUpdates: clause.AssignmentColumns([]string{"cursor", "updated_at"}),
		}).
		Create(&model).Error
}

// MarkProcessed atomically claims the key. The first caller within the TTL
// gets true; expired rows are reclaimed.
func (s *Store) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	now := s.now()
	fresh := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("key = ? AND expires_at <= ?", key, now).
			Delete(&processedKeyModel{}).Error; err != nil {
			return err
		}
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).Create(&processedKeyModel{Key: key, ExpiresAt: now.Add(ttl), CreatedAt: now})
		if result.Error != nil {
			return result.Error
		}
		fresh = result.RowsAffected == 1
		return nil
	})
	if err != nil {
		return false, err
	}
	return fresh, nil
}

// IsProcessed reports whether the key holds an unexpired mark.
func (s *Store) IsProcessed(ctx context.Context, key string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&processedKeyModel{}).
		Where("key = ? AND expires_at > ?", key, s.now()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Prune deletes expired processed-key rows. Intended for periodic
// housekeeping; correctness does not depend on it.
func (s *Store) Prune(ctx context.Context) error {
	return s.db.WithContext(ctx).
		Where("expires_at <= ?", s.now()).
		Delete(&processedKeyModel{}).Error
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
