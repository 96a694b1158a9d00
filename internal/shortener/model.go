package shortener

import (
	"time"

	"github.com/google/uuid"
)

// URL is a shortened link. ID is the 8-character short ID.
type URL struct {
	ID          string
	OriginalURL string
	ShortURL    string
	UserID      *uuid.UUID
	CreatedAt   time.Time
}

// Stats is a URL together with its click counter.
// LastClickedAt is nil until the first redirect.
type Stats struct {
	URL
	ClickCount    int64
	LastClickedAt *time.Time
}

// Visit is the outcome of a tracked redirect.
type Visit struct {
	ID            string
	OriginalURL   string
	ClickCount    int64
	LastClickedAt time.Time
}
