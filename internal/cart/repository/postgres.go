package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRecord is the key-value row backing the cart in Postgres
type CartRecord struct {
	Key       string    `gorm:"primaryKey;size:255"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name
func (CartRecord) TableName() string {
	return "cart_records"
}

// PostgresStorage keeps the cart record in a single Postgres row, for
// deployments that want the cart to survive a Redis flush
type PostgresStorage struct {
	db  *gorm.DB
	key string
}

// NewPostgresStorage creates a GORM-backed storage handle
func NewPostgresStorage(db *gorm.DB, key string) *PostgresStorage {
	return &PostgresStorage{db: db, key: key}
}

// AutoMigrate creates the backing table
func (s *PostgresStorage) AutoMigrate() error {
	return s.db.AutoMigrate(&CartRecord{})
}

// Get returns the stored value, or found=false when no row exists
func (s *PostgresStorage) Get(ctx context.Context) ([]byte, bool, error) {
	var record CartRecord
	err := s.db.WithContext(ctx).First(&record, "key = ?", s.key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cart record %s: %w", s.key, err)
	}
	return record.Value, true, nil
}

// Set upserts the row so the write is atomic; a failed write never leaves a
// partial value behind
func (s *PostgresStorage) Set(ctx context.Context, value []byte) error {
	record := CartRecord{Key: s.key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to store cart record %s: %w", s.key, err)
	}
	return nil
}

// Delete removes the row
func (s *PostgresStorage) Delete(ctx context.Context) error {
	err := s.db.WithContext(ctx).Delete(&CartRecord{}, "key = ?", s.key).Error
	if err != nil {
		return fmt.Errorf("failed to delete cart record %s: %w", s.key, err)
	}
	return nil
}
