package core

import (
	"context"
	"fmt"

	"noteshub.in/noteshub/internal/store"
)

// BrowseService backs the student views: a filtered, paginated topic list
// and single-topic detail. It only reads the catalog; artifact URLs are
// rendered as-is and never re-fetched or validated server-side.
type BrowseService struct {
	catalog CatalogStore
}

func NewBrowseService(catalog CatalogStore) *BrowseService {
	return &BrowseService{catalog: catalog}
}

// List returns one page of topics, newest first.
func (s *BrowseService) List(ctx context.Context, f store.TopicFilter) ([]store.Topic, int64, error) {
	rows, total, err := s.catalog.List(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list topics: %w", err)
	}
	return rows, total, nil
}

// Get fetches one topic row. Returns (nil, nil) when the topic does not
// exist.
func (s *BrowseService) Get(ctx context.Context, id int64) (*store.Topic, error) {
	t, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}
	return t, nil
}
