package shortener

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/sundayezeilo/linkly/internal/errx"
	"github.com/sundayezeilo/linkly/sluggen"
)

const (
	ShortIDLength        = 8
	MaxURLLength         = 2048
	DefaultIDMaxAttempts = 3
)

// ShortenRequest holds the parameters for shortening a URL.
type ShortenRequest struct {
	OriginalURL string
	UserID      uuid.UUID
}

// Service defines the business logic operations for URL shortening.
type Service interface {
	Shorten(ctx context.Context, req ShortenRequest) (URL, error)
	// Resolve counts a click on shortID and returns the resulting Visit.
	Resolve(ctx context.Context, shortID string) (Visit, error)
	Stats(ctx context.Context, shortID string) (Stats, error)
	Delete(ctx context.Context, shortID string) error
}

type service struct {
	repo          Repository
	baseURL       string
	idGenerator   sluggen.Generator
	idMaxAttempts int
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	// BaseURL prefixes every short URL, e.g. "https://lnk.ly". No trailing slash.
	BaseURL     string
	IDGenerator sluggen.Generator
	// IDMaxAttempts caps inserts per Shorten call, the first included (default: 3).
	IDMaxAttempts int
}

// NewService creates a new service instance.
func NewService(repo Repository, config *ServiceConfig) Service {
	if config == nil {
		config = &ServiceConfig{}
	}

	gen := config.IDGenerator
	if gen == nil {
		gen = sluggen.NewHex()
	}

	attempts := config.IDMaxAttempts
	if attempts <= 0 {
		attempts = DefaultIDMaxAttempts
	}

	return &service{
		repo:          repo,
		baseURL:       strings.TrimSuffix(config.BaseURL, "/"),
		idGenerator:   gen,
		idMaxAttempts: attempts,
	}
}

// Shorten stores a new short URL for req.OriginalURL owned by req.UserID.
func (s *service) Shorten(ctx context.Context, req ShortenRequest) (URL, error) {
	const op = "shortener.service.Shorten"

	if err := validateURL(req.OriginalURL); err != nil {
		return URL{}, errx.E(op, errx.Invalid, err)
	}
	if req.UserID == uuid.Nil {
		return URL{}, errx.E(op, errx.Invalid, InputError("user id is required"))
	}

	userID := req.UserID
	for range s.idMaxAttempts {
		id, err := s.idGenerator.Generate(ShortIDLength)
		if err != nil {
			return URL{}, errx.E(op, errx.Internal, err)
		}

		created, err := s.repo.Create(ctx, URL{
			ID:          id,
			OriginalURL: req.OriginalURL,
			ShortURL:    s.shortURL(id),
			UserID:      &userID,
		})
		if err == nil {
			return created, nil
		}

		// Only an ID collision is worth another attempt.
		if !errx.Is(err, errx.Conflict) {
			return URL{}, errx.E(op, errx.KindOf(err), err)
		}
	}

	return URL{}, errx.E(op, errx.Unavailable,
		fmt.Errorf("could not generate unique short id in %d attempts", s.idMaxAttempts))
}

func (s *service) Resolve(ctx context.Context, shortID string) (Visit, error) {
	const op = "shortener.service.Resolve"

	if !isShortID(shortID) {
		return Visit{}, errx.Errorf(op, errx.NotFound, "no url for short id %q", shortID)
	}

	visit, err := s.repo.ResolveAndTrack(ctx, shortID)
	if err != nil {
		return Visit{}, errx.E(op, errx.KindOf(err), err)
	}
	return visit, nil
}

func (s *service) Stats(ctx context.Context, shortID string) (Stats, error) {
	const op = "shortener.service.Stats"

	if !isShortID(shortID) {
		return Stats{}, errx.Errorf(op, errx.NotFound, "no url for short id %q", shortID)
	}

	stats, err := s.repo.GetStats(ctx, shortID)
	if err != nil {
		return Stats{}, errx.E(op, errx.KindOf(err), err)
	}
	return stats, nil
}

func (s *service) Delete(ctx context.Context, shortID string) error {
	const op = "shortener.service.Delete"

	if !isShortID(shortID) {
		return errx.Errorf(op, errx.NotFound, "no url for short id %q", shortID)
	}

	if err := s.repo.Delete(ctx, shortID); err != nil {
		return errx.E(op, errx.KindOf(err), err)
	}
	return nil
}

func (s *service) shortURL(id string) string {
	return s.baseURL + "/" + id
}

// InputError is a client-facing description of a rejected shorten request.
type InputError string

func (e InputError) Error() string { return string(e) }

func validateURL(rawURL string) error {
	if rawURL == "" {
		return InputError("url cannot be empty")
	}
	if len(rawURL) > MaxURLLength {
		return InputError("url too long (max 2048 characters)")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return InputError("invalid url format")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return InputError("url scheme must be http or https")
	}
	if parsedURL.Host == "" {
		return InputError("url must include host")
	}
	return nil
}

// isShortID reports whether id could have been issued by any supported encoding.
func isShortID(id string) bool {
	if len(id) != ShortIDLength {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
