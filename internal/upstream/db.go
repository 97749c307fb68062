package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// BeerRecord is one mirrored upstream element. Position keeps the upstream
// order so windows match what the API would have returned. Doc uses the
// json type rather than jsonb so the element's text is kept as sent.
type BeerRecord struct {
	Category   string         `gorm:"primaryKey;size:64"`
	Position   int            `gorm:"primaryKey"`
	Doc        datatypes.JSON `gorm:"type:json;not null"`
	MirroredAt time.Time      `gorm:"autoCreateTime"`
}

// TableName specifies the table name
func (BeerRecord) TableName() string {
	return "beers"
}

// CategoryRecord marks a category as mirrored, including one whose
// upstream collection was empty.
type CategoryRecord struct {
	Name       string    `gorm:"primaryKey;size:64"`
	Items      int       `gorm:"not null;default:0"`
	MirroredAt time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name
func (CategoryRecord) TableName() string {
	return "beer_categories"
}

func recordFromItem(category string, pos int, item json.RawMessage) BeerRecord {
	return BeerRecord{
		Category: category,
		Position: pos,
		Doc:      datatypes.JSON(item),
	}
}

func (r BeerRecord) item() json.RawMessage {
	return json.RawMessage(r.Doc)
}

// DBSource serves windows from the mirrored beers table with native
// LIMIT/OFFSET, so a request costs only its window.
type DBSource struct {
	db *gorm.DB
}

// OpenDB opens the Postgres database at dsn with pool settings suited to a
// small read-mostly service.
func OpenDB(dsn string, production bool) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Warn)
	if production {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:  gormLogger,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(5)
		sqlDB.SetMaxIdleConns(2)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
		sqlDB.SetConnMaxIdleTime(2 * time.Minute)
	}
	return db, nil
}

// NewDBSource wraps db.
func NewDBSource(db *gorm.DB) *DBSource {
	return &DBSource{db: db}
}

// Migrate creates or updates the mirror tables.
func (s *DBSource) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&CategoryRecord{}, &BeerRecord{})
}

// Window selects one window of category in upstream order. A category
// that was never mirrored yields ErrUnknownCategory.
func (s *DBSource) Window(ctx context.Context, category string, w Window) ([]json.RawMessage, error) {
	var recs []BeerRecord
	if w.Limit > 0 && w.Offset >= 0 {
		err := s.db.WithContext(ctx).
			Where("category = ?", category).
			Order("position ASC").
			Limit(w.Limit).
			Offset(w.Offset).
			Find(&recs).Error
		if err != nil {
			return nil, fmt.Errorf("query beers window: %w", err)
		}
	}
	if len(recs) == 0 {
		if err := s.ensureCategory(ctx, category); err != nil {
			return nil, err
		}
	}
	items := make([]json.RawMessage, 0, len(recs))
	for _, r := range recs {
		items = append(items, r.item())
	}
	return items, nil
}

func (s *DBSource) ensureCategory(ctx context.Context, category string) error {
	var rec CategoryRecord
	err := s.db.WithContext(ctx).Where("name = ?", category).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %q is not mirrored", ErrUnknownCategory, category)
	}
	if err != nil {
		return fmt.Errorf("look up category %q: %w", category, err)
	}
	return nil
}

// ReplaceCategory swaps the mirrored rows of category for items in one
// transaction.
func (s *DBSource) ReplaceCategory(ctx context.Context, category string, items []json.RawMessage) error {
	recs := make([]BeerRecord, 0, len(items))
	for i, item := range items {
		recs = append(recs, recordFromItem(category, i, item))
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category = ?", category).Delete(&BeerRecord{}).Error; err != nil {
			return fmt.Errorf("clear category %q: %w", category, err)
		}
		if err := tx.Save(&CategoryRecord{Name: category, Items: len(recs)}).Error; err != nil {
			return fmt.Errorf("mark category %q: %w", category, err)
		}
		if len(recs) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(recs, 100).Error; err != nil {
			return fmt.Errorf("insert category %q: %w", category, err)
		}
		return nil
	})
}
