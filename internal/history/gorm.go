package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"

	"github.com/alnah/go-studyguide/internal/material"
)

// analysisRecord is the stored row. List columns are kept alongside the
// full material so List never decodes JSON.
type analysisRecord struct {
	ID        string         `gorm:"primaryKey;type:text"`
	VideoID   string         `gorm:"uniqueIndex;not null"`
	VideoURL  string         `gorm:"not null"`
	Title     string         `gorm:"not null"`
	Thumbnail string
	Summary   string
	Material  datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"index"`
	UpdatedAt time.Time
}

func (analysisRecord) TableName() string { return "analyses" }

// GormStore persists analyses in a SQLite database through gorm.
type GormStore struct {
	db  *gorm.DB
	log *zap.Logger
}

// OpenSQLite opens (creating if needed) the database at path and migrates
// the schema.
func OpenSQLite(path string, log *zap.Logger) (*GormStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	return NewGormStore(db, log)
}

// NewGormStore wraps an open gorm handle and migrates the schema.
func NewGormStore(db *gorm.DB, log *zap.Logger) (*GormStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := db.AutoMigrate(&analysisRecord{}); err != nil {
		return nil, fmt.Errorf("migrate analyses: %w", err)
	}
	return &GormStore{db: db, log: log.With(zap.String("store", "analyses"))}, nil
}

func (s *GormStore) Save(ctx context.Context, m *material.StudyMaterial) error {
	if m == nil || m.VideoID == "" {
		return fmt.Errorf("save: video id is required")
	}

	// The stored blob never carries id or timestamps; columns own them.
	blob := *m
	blob.ID, blob.CreatedAt = "", time.Time{}
	data, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("encode material: %w", err)
	}

	now := time.Now().UTC()
	row := analysisRecord{
		ID:        uuid.NewString(),
		VideoID:   m.VideoID,
		VideoURL:  m.VideoURL,
		Title:     m.Title,
		Thumbnail: m.Thumbnail,
		Summary:   m.Summary,
		Material:  datatypes.JSON(data),
		CreatedAt: now,
		UpdatedAt: now,
	}

	var stored analysisRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "video_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"video_url",
				"title",
				"thumbnail",
				"summary",
				"material",
				"updated_at",
			}),
		}).Create(&row).Error; err != nil {
			return err
		}
		// On conflict the original id and created_at survive; read them back
		// into a fresh value so row's primary key does not filter the query.
		return tx.Select("id", "created_at").Where("video_id = ?", m.VideoID).Take(&stored).Error
	})
	if err != nil {
		return fmt.Errorf("save analysis %s: %w", m.VideoID, err)
	}

	m.ID, m.CreatedAt = stored.ID, stored.CreatedAt.UTC()
	s.log.Debug("analysis saved", zap.String("id", m.ID), zap.String("video_id", m.VideoID))
	return nil
}

func (s *GormStore) List(ctx context.Context, limit int) ([]Summary, error) {
	var rows []analysisRecord
	err := s.db.WithContext(ctx).
		Select("id", "video_id", "video_url", "title", "thumbnail", "summary", "created_at").
		Order("created_at DESC").
		Limit(normalizeLimit(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}

	out := make([]Summary, len(rows))
	for i, r := range rows {
		out[i] = Summary{
			ID:        r.ID,
			VideoID:   r.VideoID,
			VideoURL:  r.VideoURL,
			Title:     r.Title,
			Thumbnail: r.Thumbnail,
			Summary:   r.Summary,
			CreatedAt: r.CreatedAt.UTC(),
		}
	}
	return out, nil
}

func (s *GormStore) Get(ctx context.Context, idOrVideoID string) (*material.StudyMaterial, error) {
	var row analysisRecord
	err := s.db.WithContext(ctx).Where("id = ?", idOrVideoID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = s.db.WithContext(ctx).Where("video_id = ?", idOrVideoID).Take(&row).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis %s: %w", idOrVideoID, err)
	}

	var m material.StudyMaterial
	if err := json.Unmarshal(row.Material, &m); err != nil {
		return nil, fmt.Errorf("decode analysis %s: %w", row.ID, err)
	}
	m.ID, m.CreatedAt = row.ID, row.CreatedAt.UTC()
	return &m, nil
}

func (s *GormStore) Delete(ctx context.Context, idOrVideoID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ?", idOrVideoID).
		Or("video_id = ?", idOrVideoID).
		Delete(&analysisRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete analysis %s: %w", idOrVideoID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.log.Debug("analysis deleted", zap.String("key", idOrVideoID))
	return nil
}

// Close closes the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Open returns a GormStore for a non-empty path and a MemoryStore otherwise.
func Open(path string, log *zap.Logger) (Store, error) {
	if path == "" {
		return NewMemoryStore(), nil
	}
	store, err := OpenSQLite(path, log)
	if err != nil {
		return nil, err
	}
	return store, nil
}
