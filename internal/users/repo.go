package users

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists users.
type Repository interface {
	// Create assigns an ID when user.ID is zero. A taken email is errx.Conflict.
	Create(ctx context.Context, user User) (User, error)
	Get(ctx context.Context, id uuid.UUID) (User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// ListURLs returns the user's URLs newest first.
	ListURLs(ctx context.Context, id uuid.UUID) ([]URLClicks, error)
}
