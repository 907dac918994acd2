package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Catalog is the relational store for Topic rows. Read and insert access is
// open to all callers; there is no per-user attribution.
type Catalog struct {
	db *gorm.DB
}

// Open connects to the hosted Postgres catalog and applies the topics schema.
func Open(dsn string) (*Catalog, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to catalog database: %w", err)
	}
	return NewCatalog(db)
}

// NewCatalog wraps an existing GORM handle. Used directly by tests, which
// supply a SQLite handle; every query here must stay portable between
// Postgres and SQLite.
func NewCatalog(db *gorm.DB) (*Catalog, error) {
	if err := db.AutoMigrate(&Topic{}); err != nil {
		return nil, fmt.Errorf("failed to migrate topics schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Insert stores a new Topic row. The store assigns ID and CreatedAt.
func (c *Catalog) Insert(ctx context.Context, t *Topic) error {
	if err := c.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to insert topic row: %w", err)
	}
	return nil
}

// GetByID fetches a single Topic row. Returns (nil, nil) when no row exists.
func (c *Catalog) GetByID(ctx context.Context, id int64) (*Topic, error) {
	var t Topic
	err := c.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get topic %d: %w", id, err)
	}
	return &t, nil
}

// List returns one page of Topic rows matching the filter, newest first,
// along with the total match count.
func (c *Catalog) List(ctx context.Context, f TopicFilter) ([]Topic, int64, error) {
	q := c.db.WithContext(ctx).Model(&Topic{})

	if f.Class != "" {
		q = q.Where("class = ?", f.Class)
	}
	if f.Subject != "" {
		q = q.Where("subject = ?", f.Subject)
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where(
			"LOWER(topic) LIKE ? OR LOWER(chapter) LIKE ? OR LOWER(subject) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count topics: %w", err)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var rows []Topic
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list topics: %w", err)
	}
	return rows, total, nil
}
