package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sundayezeilo/linkly/internal/db/pgerr"
	db "github.com/sundayezeilo/linkly/internal/db/sqlc"
	"github.com/sundayezeilo/linkly/internal/errx"
	"github.com/sundayezeilo/linkly/internal/idgen"
)

const constraintEmailUnique = "users_email_unique"

// ErrEmailTaken marks a create rejected by the unique email constraint.
var ErrEmailTaken = errors.New("email already registered")

type querier interface {
	CreateUser(ctx context.Context, arg db.CreateUserParams) (db.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (db.User, error)
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	ListURLStatsByUser(ctx context.Context, userID pgtype.UUID) ([]db.ListURLStatsByUserRow, error)
}

type repo struct {
	q     querier
	idGen idgen.Generator
}

// RepositoryConfig holds optional repository settings.
type RepositoryConfig struct {
	IDGenerator idgen.Generator // defaults to UUID v7
}

// NewRepository returns a Repository backed by sqlc queries.
func NewRepository(q querier, cfg *RepositoryConfig) Repository {
	var gen idgen.Generator
	if cfg != nil {
		gen = cfg.IDGenerator
	}
	if gen == nil {
		gen = idgen.NewV7()
	}
	return &repo{q: q, idGen: gen}
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func pgText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func timePtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

func toDomainUser(x db.User) (User, error) {
	if !x.CreatedAt.Valid {
		return User{}, fmt.Errorf("created_at unexpectedly NULL")
	}
	return User{
		ID:              x.ID,
		FirstName:       x.FirstName,
		LastName:        x.LastName,
		Email:           x.Email,
		PhoneNumber:     textPtr(x.PhoneNumber),
		ProfileImageURL: textPtr(x.ProfileImageUrl),
		CreatedAt:       x.CreatedAt.Time,
	}, nil
}

func mapRepoError(op string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return errx.E(op, errx.NotFound, err)
	case pgerr.Is(err, pgerr.UniqueViolation, constraintEmailUnique):
		return errx.E(op, errx.Conflict, fmt.Errorf("%w: %w", ErrEmailTaken, err))
	case pgerr.Is(err, pgerr.CheckViolation):
		return errx.E(op, errx.Invalid, fmt.Errorf("constraint %s: %w", pgerr.ConstraintName(err), err))
	default:
		return errx.E(op, errx.Unavailable, err)
	}
}

func (r *repo) Create(ctx context.Context, user User) (User, error) {
	const op = "users.repo.Create"

	id := user.ID
	if id == uuid.Nil {
		var err error
		if id, err = r.idGen.Generate(); err != nil {
			return User{}, errx.E(op, errx.Unavailable, err)
		}
	}

	row, err := r.q.CreateUser(ctx, db.CreateUserParams{
		ID:              id,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Email:           user.Email,
		PhoneNumber:     pgText(user.PhoneNumber),
		ProfileImageUrl: pgText(user.ProfileImageURL),
	})
	if err != nil {
		return User{}, mapRepoError(op, err)
	}

	created, err := toDomainUser(row)
	if err != nil {
		return User{}, errx.E(op, errx.Internal, err)
	}
	return created, nil
}

func (r *repo) Get(ctx context.Context, id uuid.UUID) (User, error) {
	const op = "users.repo.Get"

	row, err := r.q.GetUser(ctx, id)
	if err != nil {
		return User{}, mapRepoError(op, err)
	}

	user, err := toDomainUser(row)
	if err != nil {
		return User{}, errx.E(op, errx.Internal, err)
	}
	return user, nil
}

func (r *repo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	const op = "users.repo.Exists"

	ok, err := r.q.UserExists(ctx, id)
	if err != nil {
		return false, mapRepoError(op, err)
	}
	return ok, nil
}

func (r *repo) ListURLs(ctx context.Context, id uuid.UUID) ([]URLClicks, error) {
	const op = "users.repo.ListURLs"

	rows, err := r.q.ListURLStatsByUser(ctx, pgtype.UUID{Bytes: id, Valid: true})
	if err != nil {
		return nil, mapRepoError(op, err)
	}

	urls := make([]URLClicks, 0, len(rows))
	for _, row := range rows {
		if !row.CreatedAt.Valid {
			return nil, errx.Errorf(op, errx.Internal, "url %s: created_at unexpectedly NULL", row.ID)
		}
		urls = append(urls, URLClicks{
			ID:            row.ID,
			OriginalURL:   row.OriginalUrl,
			ShortURL:      row.ShortUrl,
			CreatedAt:     row.CreatedAt.Time,
			ClickCount:    row.ClickCount,
			LastClickedAt: timePtr(row.LastClickedAt),
		})
	}
	return urls, nil
}
