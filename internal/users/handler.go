package users

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

// CreateUserBody is the JSON body of POST /users.
type CreateUserBody struct {
	FirstName       string  `json:"firstName" validate:"required,max=100"`
	LastName        string  `json:"lastName" validate:"required,max=100"`
	Email           string  `json:"email" validate:"required,email,max=254"`
	PhoneNumber     *string `json:"phoneNumber" validate:"omitempty,max=32"`
	ProfileImageURL *string `json:"profileImageUrl" validate:"omitempty,http_url,max=2048"`
}

// UserResponse is the JSON form of a user.
type UserResponse struct {
	ID              string    `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	PhoneNumber     *string   `json:"phoneNumber"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ClicksResponse is the click counter nested in a user's URL listing.
type ClicksResponse struct {
	ClickCount    int64      `json:"clickCount"`
	LastClickedAt *time.Time `json:"lastClickedAt"`
}

// UserURLResponse is one entry of GET /users/{userId}/urls.
type UserURLResponse struct {
	ID          string         `json:"id"`
	OriginalURL string         `json:"originalUrl"`
	ShortURL    string         `json:"shortUrl"`
	Clicks      ClicksResponse `json:"clicks"`
}

// Handler serves the user endpoints.
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
	return &Handler{service: cfg.Service, logger: logger}
}

func toUserResponse(u User) UserResponse {
	return UserResponse{
		ID:              u.ID.String(),
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		PhoneNumber:     u.PhoneNumber,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
	}
}

func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With(
		"request_id", httpx.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
}

// Create handles POST /users.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	body, err := httpx.DecodeJSON[CreateUserBody](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	if err := httpx.Validate(body); err != nil {
		var verr *httpx.ValidationError
		errors.As(err, &verr)
		logger.WarnContext(ctx, "request validation failed", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "request validation failed", verr.Fields)
		return
	}

	user, err := h.service.Create(ctx, CreateUserRequest{
		FirstName:       body.FirstName,
		LastName:        body.LastName,
		Email:           body.Email,
		PhoneNumber:     body.PhoneNumber,
		ProfileImageURL: body.ProfileImageURL,
	})
	if err != nil {
		h.handleError(ctx, logger, w, err, "Unable to create user at this time. Please try again.")
		return
	}

	logger.InfoContext(ctx, "user created", "user_id", user.ID.String())
	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

// Get handles GET /users/{userId}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, ok := parseUserID(w, r)
	if !ok {
		return
	}

	user, err := h.service.Get(ctx, id)
	if err != nil {
		h.handleError(ctx, logger, w, err, "Unable to load user at this time")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// ListURLs handles GET /users/{userId}/urls.
func (h *Handler) ListURLs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, ok := parseUserID(w, r)
	if !ok {
		return
	}

	urls, err := h.service.ListURLs(ctx, id)
	if err != nil {
		h.handleError(ctx, logger, w, err, "Unable to list urls at this time")
		return
	}

	resp := make([]UserURLResponse, 0, len(urls))
	for _, u := range urls {
		resp = append(resp, UserURLResponse{
			ID:          u.ID,
			OriginalURL: u.OriginalURL,
			ShortURL:    u.ShortURL,
			Clicks: ClicksResponse{
				ClickCount:    u.ClickCount,
				LastClickedAt: u.LastClickedAt,
			},
		})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func parseUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "user id must be a valid UUID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) handleError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, err error, fallback string) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
	}

	switch kind {
	case errx.Conflict:
		logger.WarnContext(ctx, "user conflict", logAttrs...)
		msg := "user already exists"
		if errors.Is(err, ErrEmailTaken) {
			msg = "email is already registered"
		}
		httpx.WriteKindError(w, err, msg)

	case errx.NotFound:
		logger.WarnContext(ctx, "user not found", logAttrs...)
		httpx.WriteKindError(w, err, "user doesn't exist")

	case errx.Invalid:
		logger.WarnContext(ctx, "invalid user request", logAttrs...)
		msg := "invalid user data"
		var inputErr InputError
		if errors.As(err, &inputErr) {
			msg = inputErr.Error()
		}
		httpx.WriteKindError(w, err, msg)

	default:
		logger.ErrorContext(ctx, "unexpected user error", logAttrs...)
		httpx.WriteKindError(w, err, fallback)
	}
}
