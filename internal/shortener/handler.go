package shortener

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sundayezeilo/linkly/internal/errx"
	"github.com/sundayezeilo/linkly/internal/httpx"
)

// ShortenRequestBody is the JSON body of POST /shorten.
type ShortenRequestBody struct {
	OriginalURL string `json:"originalUrl" validate:"required,http_url,max=2048"`
	UserID      string `json:"userId" validate:"required"`
}

// ShortenResponse is returned for a newly created short URL.
type ShortenResponse struct {
	ID          string `json:"id"`
	OriginalURL string `json:"originalUrl"`
	ShortURL    string `json:"shortUrl"`
}

// StatsResponse reports the click counter of a short URL.
type StatsResponse struct {
	ID            string     `json:"id"`
	OriginalURL   string     `json:"originalUrl"`
	ShortURL      string     `json:"shortUrl"`
	ClickCount    int64      `json:"clickCount"`
	LastClickedAt *time.Time `json:"lastClickedAt"`
}

// Handler provides HTTP handlers for the URL shortener service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Service Service
	Logger  *slog.Logger
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		service: cfg.Service,
		logger:  logger,
	}
}

func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With(
		"request_id", httpx.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
}

// Shorten handles POST /shorten.
func (h *Handler) Shorten(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	body, err := httpx.DecodeJSON[ShortenRequestBody](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	if err := httpx.Validate(body); err != nil {
		var verr *httpx.ValidationError
		errors.As(err, &verr)
		logger.WarnContext(ctx, "request validation failed",
			"error", err.Error(),
			"original_url", body.OriginalURL,
		)
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "request validation failed", verr.Fields)
		return
	}

	// uuid.Parse accepts any hex case, unlike the validator's uuid tag.
	userID, err := uuid.Parse(body.UserID)
	if err != nil {
		logger.WarnContext(ctx, "invalid user id", "user_id", body.UserID)
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "request validation failed",
			map[string]string{"userId": "must be a valid UUID"})
		return
	}

	url, err := h.service.Shorten(ctx, ShortenRequest{
		OriginalURL: body.OriginalURL,
		UserID:      userID,
	})
	if err != nil {
		h.handleShortenError(ctx, logger, w, err)
		return
	}

	logger.InfoContext(ctx, "short url created",
		"short_id", url.ID,
		"user_id", body.UserID,
	)

	httpx.WriteJSON(w, http.StatusCreated, ShortenResponse{
		ID:          url.ID,
		OriginalURL: url.OriginalURL,
		ShortURL:    url.ShortURL,
	})
}

// Redirect handles GET /{shortId}: it counts the click and answers 302.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	shortID := r.PathValue("shortId")

	visit, err := h.service.Resolve(ctx, shortID)
	if err != nil {
		h.handleLookupError(ctx, logger, w, err, shortID, "Unable to resolve this link at this time")
		return
	}

	logger.InfoContext(ctx, "short id resolved",
		"short_id", shortID,
		"click_count", visit.ClickCount,
		"last_clicked_at", visit.LastClickedAt,
		"user_agent", r.UserAgent(),
		"referer", r.Referer(),
	)

	http.Redirect(w, r, visit.OriginalURL, http.StatusFound)
}

// Stats handles GET /urls/{id}/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	shortID := r.PathValue("id")

	stats, err := h.service.Stats(ctx, shortID)
	if err != nil {
		h.handleLookupError(ctx, logger, w, err, shortID, "Unable to load stats at this time")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, StatsResponse{
		ID:            stats.ID,
		OriginalURL:   stats.OriginalURL,
		ShortURL:      stats.ShortURL,
		ClickCount:    stats.ClickCount,
		LastClickedAt: stats.LastClickedAt,
	})
}

// Delete handles DELETE /urls/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	shortID := r.PathValue("id")

	if err := h.service.Delete(ctx, shortID); err != nil {
		h.handleLookupError(ctx, logger, w, err, shortID, "Unable to delete this link at this time")
		return
	}

	logger.InfoContext(ctx, "short url deleted", "short_id", shortID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleShortenError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, err error) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
	}

	switch kind {
	case errx.Invalid:
		logger.WarnContext(ctx, "invalid shorten request", logAttrs...)
		msg := "invalid url"
		var inputErr InputError
		switch {
		case errors.Is(err, ErrUserNotFound):
			msg = "user does not exist"
		case errors.As(err, &inputErr):
			msg = string(inputErr)
		}
		httpx.WriteKindError(w, err, msg)

	case errx.Conflict:
		logger.WarnContext(ctx, "short id conflict", logAttrs...)
		httpx.WriteKindError(w, err, "short id already taken, please retry")

	case errx.Unavailable:
		logger.ErrorContext(ctx, "service unavailable", logAttrs...)
		httpx.WriteKindError(w, err, "Unable to create short link at this time. Please try again.")

	default:
		logger.ErrorContext(ctx, "unexpected error creating short url", logAttrs...)
		httpx.WriteKindError(w, err, "Unable to create short link at this time. Please try again.")
	}
}

func (h *Handler) handleLookupError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, err error, shortID, fallback string) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
		"short_id", shortID,
	}

	switch kind {
	case errx.NotFound:
		logger.WarnContext(ctx, "short id not found", logAttrs...)
		httpx.WriteKindError(w, err, "short link doesn't exist")

	default:
		logger.ErrorContext(ctx, "unexpected error looking up short id", logAttrs...)
		httpx.WriteKindError(w, err, fallback)
	}
}
