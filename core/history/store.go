package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Run is one recorded merge run.
type Run struct {
	// ID is a generated uuid.
	ID string `gorm:"primaryKey" json:"id"`
	// CreatedAt is set by GORM on insert.
	CreatedAt time.Time `json:"created_at"`
	// Source tells where the run came from (cli, storage, http).
	Source string `json:"source"`
	// Base, Ours, Theirs and Out identify the revisions: file paths for CLI
	// runs, object names for storage runs, empty for HTTP payloads.
	Base   string `json:"base"`
	Ours   string `json:"ours"`
	Theirs string `json:"theirs"`
	Out    string `json:"out"`
	// Policy is the default conflict policy that was in effect.
	Policy string `json:"policy"`

	Added             int `json:"added"`
	Removed           int `json:"removed"`
	ChangedSingleSide int `json:"changed_single_side"`
	ChangedBothSides  int `json:"changed_both_sides"`
	GlyphCount        int `json:"glyph_count"`
}

// TableName sets the SQLite table name.
func (Run) TableName() string { return "merge_runs" }

// Store wraps the GORM handle for the history database.
type Store struct {
	db *gorm.DB
}

// Open opens (and migrates) the history database at cfg.Path.
func Open(cfg Config) (*Store, error) {
	// Suppress GORM logging; the caller owns user-facing output.
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.AutoMigrate(&Run{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record inserts one run, generating its ID when unset.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to record merge run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []Run
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list merge runs: %w", err)
	}
	return runs, nil
}
