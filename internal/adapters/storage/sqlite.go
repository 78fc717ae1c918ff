// Package storage provides the durable label store backing the registry's
// display names. Labels are the only state that survives a restart; the
// registry itself is rebuilt from live observations.
package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// labelKeyPrefix namespaces label rows, keeping the table reusable for other
// per-identity settings later.
const labelKeyPrefix = "bmap.label."

// LabelModel is the GORM model for persisted labels.
type LabelModel struct {
	Key       string `gorm:"primaryKey"`
	Label     string
	UpdatedAt time.Time
}

// SQLiteLabelStore implements ports.LabelStore using GORM and SQLite.
type SQLiteLabelStore struct {
	db *gorm.DB
}

// NewSQLiteLabelStore opens (or creates) the database and migrates schema.
func NewSQLiteLabelStore(path string) (*SQLiteLabelStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&LabelModel{}); err != nil {
		return nil, err
	}

	return &SQLiteLabelStore{db: db}, nil
}

// Get returns the stored label for an identity, or found=false if absent.
func (s *SQLiteLabelStore) Get(ctx context.Context, identity string) (string, bool, error) {
	var m LabelModel
	err := s.db.WithContext(ctx).First(&m, "key = ?", labelKeyPrefix+identity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return m.Label, true, nil
}

// Set stores or replaces the label for an identity.
func (s *SQLiteLabelStore) Set(ctx context.Context, identity, label string) error {
	m := LabelModel{
		Key:       labelKeyPrefix + identity,
		Label:     label,
		UpdatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		UpdateAll: true,
	}).Create(&m).Error
}

// Close releases the underlying database handle.
func (s *SQLiteLabelStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
