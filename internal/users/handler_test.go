package users

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sundayezeilo/linkly/internal/errx"
	"github.com/sundayezeilo/linkly/internal/httpx"
)

type mockService struct {
	createFunc   func(ctx context.Context, req CreateUserRequest) (User, error)
	getFunc      func(ctx context.Context, id uuid.UUID) (User, error)
	listURLsFunc func(ctx context.Context, id uuid.UUID) ([]URLClicks, error)
}

func (m *mockService) Create(ctx context.Context, req CreateUserRequest) (User, error) {
	return m.createFunc(ctx, req)
}

func (m *mockService) Get(ctx context.Context, id uuid.UUID) (User, error) {
	return m.getFunc(ctx, id)
}

func (m *mockService) ListURLs(ctx context.Context, id uuid.UUID) ([]URLClicks, error) {
	return m.listURLsFunc(ctx, id)
}

func newTestMux(svc Service) *http.ServeMux {
	h := NewHandler(HandlerConfig{
		Service: svc,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	mux := http.NewServeMux()
	mux.HandleFunc("POST /users", h.Create)
	mux.HandleFunc("GET /users/{userId}", h.Get)
	mux.HandleFunc("GET /users/{userId}/urls", h.ListURLs)
	return mux
}

func TestHandler_Create(t *testing.T) {
	t.Run("201 with user", func(t *testing.T) {
		id := uuid.New()
		svc := &mockService{
			createFunc: func(ctx context.Context, req CreateUserRequest) (User, error) {
				if req.PhoneNumber != nil {
					t.Errorf("PhoneNumber = %v, want nil", *req.PhoneNumber)
				}
				return User{
					ID:        id,
					FirstName: req.FirstName,
					LastName:  req.LastName,
					Email:     req.Email,
					CreatedAt: time.Now(),
				}, nil
			},
		}

		body := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com"}`
		rec := httptest.NewRecorder()
		newTestMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)))

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusCreated, rec.Body.String())
		}

		var raw map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if raw["id"] != id.String() || raw["email"] != "ada@example.com" {
			t.Errorf("response = %v", raw)
		}
		if v, ok := raw["phoneNumber"]; !ok || v != nil {
			t.Errorf("phoneNumber = %v (present=%v), want null", v, ok)
		}
	})

	t.Run("400 lists invalid fields", func(t *testing.T) {
		svc := &mockService{
			createFunc: func(ctx context.Context, req CreateUserRequest) (User, error) {
				t.Error("service should not be called")
				return User{}, nil
			},
		}

		body := `{"firstName":"","lastName":"L","email":"nope","profileImageUrl":"not a url"}`
		rec := httptest.NewRecorder()
		newTestMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
		var resp struct {
			Error   string            `json:"error"`
			Details map[string]string `json:"details"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		for _, field := range []string{"firstName", "email", "profileImageUrl"} {
			if _, ok := resp.Details[field]; !ok {
				t.Errorf("details missing %s: %v", field, resp.Details)
			}
		}
		if _, ok := resp.Details["lastName"]; ok {
			t.Error("lastName should be valid")
		}
	})

	t.Run("400 on unknown field", func(t *testing.T) {
		body := `{"firstName":"A","lastName":"L","email":"a@b.co","admin":true}`
		rec := httptest.NewRecorder()
		newTestMux(&mockService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "duplicate email",
			err:         errx.E("users.service.Create", errx.Conflict, ErrEmailTaken),
			wantStatus:  http.StatusConflict,
			wantMessage: "email is already registered",
		},
		{
			name:        "service validation",
			err:         errx.E("users.service.Create", errx.Invalid, InputError("email is invalid")),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "email is invalid",
		},
		{
			name:        "check violation stays generic",
			err:         errx.E("users.repo.Create", errx.Invalid, errors.New(`new row violates check constraint "x"`)),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "invalid user data",
		},
		{
			name:        "unexpected",
			err:         errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Unable to create user at this time. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{
				createFunc: func(ctx context.Context, req CreateUserRequest) (User, error) { return User{}, tt.err },
			}

			body := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com"}`
			rec := httptest.NewRecorder()
			newTestMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp httpx.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMessage)
			}
		})
	}
}

func TestHandler_Get(t *testing.T) {
	t.Run("400 on malformed id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newTestMux(&mockService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/not-a-uuid", nil))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("404 when missing", func(t *testing.T) {
		svc := &mockService{
			getFunc: func(ctx context.Context, id uuid.UUID) (User, error) {
				return User{}, errx.E("users.service.Get", errx.NotFound, errors.New("no rows"))
			},
		}

		rec := httptest.NewRecorder()
		newTestMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/"+uuid.NewString(), nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}

func TestHandler_ListURLs(t *testing.T) {
	t.Run("nests click stats", func(t *testing.T) {
		clicked := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
		svc := &mockService{
			listURLsFunc: func(ctx context.Context, id uuid.UUID) ([]URLClicks, error) {
				return []URLClicks{
					{ID: "bbbbbbbb", OriginalURL: "https://b.example", ShortURL: "http://localhost/bbbbbbbb", ClickCount: 3, LastClickedAt: &clicked},
					{ID: "aaaaaaaa", OriginalURL: "https://a.example", ShortURL: "http://localhost/aaaaaaaa"},
				}, nil
			},
		}

		rec := httptest.NewRecorder()
		newTestMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/"+uuid.NewString()+"/urls", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var resp []UserURLResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(resp) != 2 {
			t.Fatalf("len = %d, want 2", len(resp))
		}
		if resp[0].Clicks.ClickCount != 3 || resp[0].Clicks.LastClickedAt == nil {
			t.Errorf("first clicks = %+v", resp[0].Clicks)
		}
		if resp[1].Clicks.ClickCount != 0 || resp[1].Clicks.LastClickedAt != nil {
			t.Errorf("second clicks = %+v", resp[1].Clicks)
		}
	})

	t.Run("empty list renders []", func(t *testing.T) {
		svc := &mockService{
			listURLsFunc: func(ctx context.Context, id uuid.UUID) ([]URLClicks, error) { return nil, nil },
		}

		rec := httptest.NewRecorder()
		newTestMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/"+uuid.NewString()+"/urls", nil))

		if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
			t.Errorf("body = %s, want []", got)
		}
	})

	t.Run("404 for unknown user", func(t *testing.T) {
		svc := &mockService{
			listURLsFunc: func(ctx context.Context, id uuid.UUID) ([]URLClicks, error) {
				return nil, errx.Errorf("users.service.ListURLs", errx.NotFound, "user %s not found", id)
			},
		}

		rec := httptest.NewRecorder()
		newTestMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/"+uuid.NewString()+"/urls", nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}

func TestHandler_LogsCarryRequestContext(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(HandlerConfig{
		Service: &mockService{
			listURLsFunc: func(ctx context.Context, id uuid.UUID) ([]URLClicks, error) {
				return nil, errx.Errorf("users.service.ListURLs", errx.NotFound, "user %s not found", id)
			},
		},
		Logger: slog.New(slog.NewJSONHandler(&buf, nil)),
	})

	path := "/users/" + uuid.NewString() + "/urls"
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req = req.WithContext(httpx.WithRequestID(req.Context(), "req-42"))
	req.SetPathValue("userId", strings.Split(path, "/")[2])
	h.ListURLs(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["request_id"] != "req-42" || entry["method"] != http.MethodGet || entry["path"] != path {
		t.Errorf("log entry = %v", entry)
	}
}
