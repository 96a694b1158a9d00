package httpx

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

type shortenBody struct {
	OriginalURL string `json:"originalUrl"`
	UserID      string `json:"userId"`
	Tags        []int  `json:"tags"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		errContains string
	}{
		{name: "empty body", body: "", errContains: "request body is empty"},
		{name: "syntax error", body: `{"originalUrl":"https://x.io,"userId":"u"}`, errContains: "malformed JSON at position"},
		{name: "truncated", body: `{"originalUrl":`, errContains: "malformed JSON"},
		{name: "unknown field", body: `{"originalUrl":"https://x.io","admin":true}`, errContains: "unknown field"},
		{name: "wrong type", body: `{"originalUrl":42}`, errContains: `invalid value for field "originalUrl"`},
		{name: "two objects", body: `{"userId":"a"}{"userId":"b"}`, errContains: "multiple JSON objects"},
		{name: "trailing garbage", body: `{"userId":"a"} nope`, errContains: "multiple JSON objects"},
		{
			name:        "over size limit",
			body:        `{"originalUrl":"https://x.io/` + strings.Repeat("a", MaxRequestBodySize) + `"}`,
			errContains: "request body too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/shorten", strings.NewReader(tt.body))

			got, err := DecodeJSON[shortenBody](req)
			if err == nil {
				t.Fatalf("DecodeJSON() = %+v, want error", got)
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.errContains)
			}
			if got.OriginalURL != "" || got.UserID != "" || got.Tags != nil {
				t.Errorf("DecodeJSON() returned non-zero value on error: %+v", got)
			}
		})
	}
}

func TestDecodeJSON_Valid(t *testing.T) {
	body := &closeRecorder{Reader: strings.NewReader(`{"originalUrl":"https://x.io/a","userId":"u-1","tags":[1,2]}` + "\n")}
	req := httptest.NewRequest("POST", "/shorten", body)

	got, err := DecodeJSON[shortenBody](req)
	if err != nil {
		t.Fatalf("DecodeJSON() unexpected error: %v", err)
	}
	if got.OriginalURL != "https://x.io/a" || got.UserID != "u-1" || len(got.Tags) != 2 {
		t.Errorf("DecodeJSON() = %+v", got)
	}
	if !body.closed {
		t.Error("request body was not closed")
	}
}

type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}
