package shortener

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
)

const (
	constraintURLPkey     = "urls_pkey"
	constraintShortURL    = "urls_short_url_unique"
	constraintURLUser     = "urls_user_id_fkey"
	constraintClickURL    = "clicks_url_id_fkey"
	constraintURLIDLength = "urls_id_length"
)

// ErrUserNotFound marks a URL whose owner does not exist.
var ErrUserNotFound = errors.New("user does not exist")

// querier is the subset of *db.Queries the repository needs.
type querier interface {
	CreateURL(ctx context.Context, arg db.CreateURLParams) (db.Url, error)
	GetURLStats(ctx context.Context, id string) (db.GetURLStatsRow, error)
	ResolveAndTrackURL(ctx context.Context, id string) (db.ResolveAndTrackURLRow, error)
	DeleteURL(ctx context.Context, id string) (int64, error)
}

type repo struct {
	q querier
}

// NewRepository returns a Repository backed by sqlc queries.
func NewRepository(q querier) Repository {
	return &repo{q: q}
}

func mustTime(ts pgtype.Timestamptz, field string) (time.Time, error) {
	if !ts.Valid {
		return time.Time{}, fmt.Errorf("%s unexpectedly NULL", field)
	}
	return ts.Time, nil
}

func timePtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

func uuidPtr(id pgtype.UUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	u := uuid.UUID(id.Bytes)
	return &u
}

func pgUUID(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

func toDomainURL(x db.Url) (URL, error) {
	createdAt, err := mustTime(x.CreatedAt, "created_at")
	if err != nil {
		return URL{}, err
	}
	return URL{
		ID:          x.ID,
		OriginalURL: x.OriginalUrl,
		ShortURL:    x.ShortUrl,
		UserID:      uuidPtr(x.UserID),
		CreatedAt:   createdAt,
	}, nil
}

func toDomainStats(x db.GetURLStatsRow) (Stats, error) {
	createdAt, err := mustTime(x.CreatedAt, "created_at")
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		URL: URL{
			ID:          x.ID,
			OriginalURL: x.OriginalUrl,
			ShortURL:    x.ShortUrl,
			UserID:      uuidPtr(x.UserID),
			CreatedAt:   createdAt,
		},
		ClickCount:    x.ClickCount,
		LastClickedAt: timePtr(x.LastClickedAt),
	}, nil
}

func mapRepoError(op string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return errx.E(op, errx.NotFound, err)

	case pgerr.Is(err, pgerr.UniqueViolation, constraintURLPkey, constraintShortURL):
		return errx.E(op, errx.Conflict, err)

	case pgerr.Is(err, pgerr.ForeignKeyViolation, constraintURLUser):
		return errx.E(op, errx.Invalid, fmt.Errorf("%w: %w", ErrUserNotFound, err))

	case pgerr.Is(err, pgerr.ForeignKeyViolation, constraintClickURL):
		// The url row vanished between lookup and click insert.
		return errx.E(op, errx.NotFound, err)

	case pgerr.Is(err, pgerr.CheckViolation, constraintURLIDLength):
		return errx.E(op, errx.Invalid, err)

	default:
		return errx.E(op, errx.Unavailable, err)
	}
}

func (r *repo) Create(ctx context.Context, url URL) (URL, error) {
	const op = "shortener.repo.Create"

	row, err := r.q.CreateURL(ctx, db.CreateURLParams{
		ID:          url.ID,
		OriginalUrl: url.OriginalURL,
		ShortUrl:    url.ShortURL,
		UserID:      pgUUID(url.UserID),
	})
	if err != nil {
		return URL{}, mapRepoError(op, err)
	}

	created, err := toDomainURL(row)
	if err != nil {
		return URL{}, errx.E(op, errx.Internal, err)
	}
	return created, nil
}

func (r *repo) GetStats(ctx context.Context, id string) (Stats, error) {
	const op = "shortener.repo.GetStats"

	row, err := r.q.GetURLStats(ctx, id)
	if err != nil {
		return Stats{}, mapRepoError(op, err)
	}

	stats, err := toDomainStats(row)
	if err != nil {
		return Stats{}, errx.E(op, errx.Internal, err)
	}
	return stats, nil
}

func (r *repo) ResolveAndTrack(ctx context.Context, id string) (Visit, error) {
	const op = "shortener.repo.ResolveAndTrack"

	row, err := r.q.ResolveAndTrackURL(ctx, id)
	if err != nil {
		return Visit{}, mapRepoError(op, err)
	}

	clickedAt, err := mustTime(row.LastClickedAt, "last_clicked_at")
	if err != nil {
		return Visit{}, errx.E(op, errx.Internal, err)
	}
	return Visit{
		ID:            row.ID,
		OriginalURL:   row.OriginalUrl,
		ClickCount:    row.ClickCount,
		LastClickedAt: clickedAt,
	}, nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	const op = "shortener.repo.Delete"

	n, err := r.q.DeleteURL(ctx, id)
	if err != nil {
		return mapRepoError(op, err)
	}
	if n == 0 {
		return errx.E(op, errx.NotFound, pgx.ErrNoRows)
	}
	return nil
}
