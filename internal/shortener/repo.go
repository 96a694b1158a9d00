package shortener

import "context"

// Repository persists URLs and their click counters.
type Repository interface {
	// Create inserts url. A taken ID or short URL is reported as errx.Conflict.
	Create(ctx context.Context, url URL) (URL, error)
	GetStats(ctx context.Context, id string) (Stats, error)
	// ResolveAndTrack looks up id and bumps its click counter in one statement.
	ResolveAndTrack(ctx context.Context, id string) (Visit, error)
	Delete(ctx context.Context, id string) error
}
