package users

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered owner of short URLs.
type User struct {
	ID              uuid.UUID
	FirstName       string
	LastName        string
	Email           string
	PhoneNumber     *string
	ProfileImageURL *string
	CreatedAt       time.Time
}

// URLClicks is one of a user's short URLs with its click counter.
type URLClicks struct {
	ID            string
	OriginalURL   string
	ShortURL      string
	CreatedAt     time.Time
	ClickCount    int64
	LastClickedAt *time.Time
}
