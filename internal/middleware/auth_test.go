package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/readmark/book-review-api/internal/config"
	"github.com/readmark/book-review-api/internal/model"
	"github.com/readmark/book-review-api/internal/token"
)

type fakeLookup struct {
	users map[string]model.User
	err   error
}

func (f *fakeLookup) GetByEmail(_ context.Context, email string) (model.User, error) {
	if f.err != nil {
		return model.User{}, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func serveProtected(t *testing.T, verifier *token.Verifier, lookup UserLookup, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		p, ok := Principal(c)
		if !ok {
			t.Fatalf("principal missing after successful auth")
		}
		return c.JSON(http.StatusOK, p)
	}, Auth(verifier, lookup))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body %q: %v", rec.Body.String(), err)
	}
	return body["message"]
}

func TestAuth_RejectionPrecedence(t *testing.T) {
	t.Parallel()

	secret := "gate-secret"
	verifier := token.NewVerifier(secret)
	lookup := &fakeLookup{users: map[string]model.User{
		"alice@example.com": {ID: 1, Email: "alice@example.com", Name: "Alice Smith"},
	}}

	valid, _, err := token.NewIssuer(secret, time.Hour).Issue("alice@example.com")
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}
	expired, _, err := token.NewIssuer(secret, -time.Minute).Issue("alice@example.com")
	if err != nil {
		t.Fatalf("issuing expired token: %v", err)
	}
	foreign, _, err := token.NewIssuer("other-secret", time.Hour).Issue("alice@example.com")
	if err != nil {
		t.Fatalf("issuing foreign token: %v", err)
	}
	ghost, _, err := token.NewIssuer(secret, time.Hour).Issue("gone@example.com")
	if err != nil {
		t.Fatalf("issuing ghost token: %v", err)
	}

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, "Authorization header missing"},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, "Invalid token format"},
		{"no token part", "Bearer", http.StatusUnauthorized, "Invalid token format"},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized, "Unauthorized"},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized, "Unauthorized"},
		{"foreign signature", "Bearer " + foreign, http.StatusUnauthorized, "Unauthorized"},
		{"account deleted", "Bearer " + ghost, http.StatusUnauthorized, "User not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveProtected(t, verifier, lookup, tt.header)
			if rec.Code != tt.status {
				t.Fatalf("status: got %d want %d", rec.Code, tt.status)
			}
			if got := message(t, rec); got != tt.message {
				t.Fatalf("message: got %q want %q", got, tt.message)
			}
		})
	}
}

func TestAuth_Success(t *testing.T) {
	t.Parallel()

	secret := "gate-secret"
	lookup := &fakeLookup{users: map[string]model.User{
		"alice@example.com": {ID: 42, Email: "alice@example.com", Name: "Alice Smith", PasswordHash: "$2a$10$x"},
	}}
	signed, _, err := token.NewIssuer(secret, time.Hour).Issue("alice@example.com")
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}

	rec := serveProtected(t, token.NewVerifier(secret), lookup, "Bearer "+signed)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200, body %s", rec.Code, rec.Body.String())
	}

	var p model.Principal
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decoding principal: %v", err)
	}
	if p.ID != 42 || p.Email != "alice@example.com" || p.Name != "Alice Smith" {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestAuth_StoreFailureIsServerFault(t *testing.T) {
	t.Parallel()

	secret := "gate-secret"
	lookup := &fakeLookup{err: errors.New("connection refused")}
	signed, _, err := token.NewIssuer(secret, time.Hour).Issue("alice@example.com")
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}

	rec := serveProtected(t, token.NewVerifier(secret), lookup, "Bearer "+signed)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d want 500", rec.Code)
	}
}

func TestCacheAndRateLimit_NoRedisPassThrough(t *testing.T) {
	t.Parallel()

	e := echo.New()
	h := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	e.GET("/cached", h, Cache(config.LoadCacheConfig(), nil))
	e.GET("/limited", h, RateLimit(config.LoadRateLimitConfig(), nil))

	for _, path := range []string{"/cached", "/limited"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
			t.Fatalf("%s: got %d %q", path, rec.Code, rec.Body.String())
		}
	}
}
