// Package store persists the scrape cache and research run history.
package store

import (
	"context"
	"time"

	"github.com/sells-group/company-brief/internal/model"
)

// Store defines the persistence interface for the research pipeline.
type Store interface {
	// Scrape cache. GetCachedPage returns nil on a miss or expired entry.
	// SetCachedPage upserts by URL. PrunePages removes expired entries and,
	// when maxEntries > 0, the oldest entries beyond that capacity.
	GetCachedPage(ctx context.Context, url string) (*model.CachedPage, error)
	SetCachedPage(ctx context.Context, url, text string, ttl time.Duration) error
	PrunePages(ctx context.Context, maxEntries int) (int, error)

	// Run history
	CreateRun(ctx context.Context, req model.ResearchRequest) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, brief *model.Brief) error
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
