package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sundayezeilo/linkly/internal/errx"
)

func TestErrorKindMapping(t *testing.T) {
	tests := []struct {
		kind       errx.Kind
		wantStatus int
		wantCode   string
	}{
		{errx.Invalid, http.StatusBadRequest, "invalid_input"},
		{errx.NotFound, http.StatusNotFound, "not_found"},
		{errx.Conflict, http.StatusConflict, "conflict"},
		{errx.Unavailable, http.StatusServiceUnavailable, "unavailable"},
		{errx.Internal, http.StatusInternalServerError, "internal_error"},
		{errx.Unknown, http.StatusInternalServerError, "internal_error"},
		{errx.Kind(99), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := ErrorKindToStatus(tt.kind); got != tt.wantStatus {
				t.Errorf("ErrorKindToStatus(%v) = %d, want %d", tt.kind, got, tt.wantStatus)
			}
			if got := ErrorKindToCode(tt.kind); got != tt.wantCode {
				t.Errorf("ErrorKindToCode(%v) = %q, want %q", tt.kind, got, tt.wantCode)
			}
		})
	}
}

func TestWriteKindError(t *testing.T) {
	t.Run("uses kind of wrapped error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		err := errx.E("users.service.Create", errx.Conflict, errors.New(`duplicate key value violates unique constraint "users_email_unique"`))

		WriteKindError(rr, err, "email is already registered")

		if rr.Code != http.StatusConflict {
			t.Errorf("status = %d, want %d", rr.Code, http.StatusConflict)
		}

		var resp ErrorResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.Error != "conflict" {
			t.Errorf("error = %q, want conflict", resp.Error)
		}
		if resp.Message != "email is already registered" {
			t.Errorf("message = %q, internals must not leak", resp.Message)
		}
	})

	t.Run("plain errors map to 500", func(t *testing.T) {
		rr := httptest.NewRecorder()
		WriteKindError(rr, errors.New("boom"), "something went wrong")

		if rr.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
		}
	})
}
