package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/readmark/book-review-api/internal/middleware"
	"github.com/readmark/book-review-api/internal/model"
	"github.com/readmark/book-review-api/internal/repository"
	"github.com/readmark/book-review-api/internal/token"
)

// fakeUserStore is an in-memory credential store satisfying both the handler
// UserStore and the middleware UserLookup interfaces.
type fakeUserStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[string]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]model.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, email, passwordHash, name string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[email]; ok {
		return 0, repository.ErrEmailExists
	}
	s.nextID++
	s.users[email] = model.User{ID: s.nextID, Email: email, PasswordHash: passwordHash, Name: name}
	return s.nextID, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

const testSecret = "test-signing-secret"

// newAuthServer wires signup, login and one token-guarded route against the
// fake store, the way the router wires the real repositories.
func newAuthServer(store *fakeUserStore) *echo.Echo {
	e := echo.New()
	a := NewAuthHandler(store, token.NewIssuer(testSecret, time.Hour), 4)
	e.POST("/signup", a.Signup)
	e.POST("/login", a.Login)
	e.POST("/books", func(c echo.Context) error {
		p, _ := middleware.Principal(c)
		return c.JSON(http.StatusCreated, echo.Map{"message": "Book added", "added_by_id": p.ID})
	}, middleware.Auth(token.NewVerifier(testSecret), store))
	return e
}

func doJSON(e *echo.Echo, method, path, body, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSignup_InvalidShape(t *testing.T) {
	t.Parallel()

	e := newAuthServer(newFakeUserStore())
	rec := doJSON(e, http.MethodPost, "/signup", `{"email":"a@x.com","password":"weak","name":"Alice"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want 400", rec.Code)
	}
	var body struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Message != "Invalid input" {
		t.Fatalf("message: got %q", body.Message)
	}
	if len(body.Errors["password"]) == 0 {
		t.Fatalf("expected password errors, got %v", body.Errors)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	t.Parallel()

	e := newAuthServer(newFakeUserStore())
	payload := `{"email":"a@x.com","password":"Abcdefgh","name":"Alice"}`

	if rec := doJSON(e, http.MethodPost, "/signup", payload, ""); rec.Code != http.StatusCreated {
		t.Fatalf("first signup: got %d want 201, body %s", rec.Code, rec.Body.String())
	}
	if rec := doJSON(e, http.MethodPost, "/signup", payload, ""); rec.Code != http.StatusConflict {
		t.Fatalf("second signup: got %d want 409, body %s", rec.Code, rec.Body.String())
	}
}

func TestSignup_StoresHashNotPlaintext(t *testing.T) {
	t.Parallel()

	store := newFakeUserStore()
	e := newAuthServer(store)
	if rec := doJSON(e, http.MethodPost, "/signup", `{"email":"a@x.com","password":"Abcdefgh","name":"Alice"}`, ""); rec.Code != http.StatusCreated {
		t.Fatalf("signup: got %d", rec.Code)
	}
	u, err := store.GetByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if u.PasswordHash == "Abcdefgh" || u.PasswordHash == "" {
		t.Fatalf("password stored badly: %q", u.PasswordHash)
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	e := newAuthServer(newFakeUserStore())
	if rec := doJSON(e, http.MethodPost, "/signup", `{"email":"a@x.com","password":"Abcdefgh","name":"Alice"}`, ""); rec.Code != http.StatusCreated {
		t.Fatalf("signup: got %d", rec.Code)
	}

	noUser := doJSON(e, http.MethodPost, "/login", `{"email":"nobody@x.com","password":"Abcdefgh"}`, "")
	badPass := doJSON(e, http.MethodPost, "/login", `{"email":"a@x.com","password":"Wrongpass1"}`, "")

	if noUser.Code != http.StatusUnauthorized || badPass.Code != http.StatusUnauthorized {
		t.Fatalf("statuses: got %d and %d, want 401 for both", noUser.Code, badPass.Code)
	}
	if noUser.Body.String() != badPass.Body.String() {
		t.Fatalf("bodies differ:\n%s\n%s", noUser.Body.String(), badPass.Body.String())
	}
}

func TestSignupLoginProtectedFlow(t *testing.T) {
	t.Parallel()

	e := newAuthServer(newFakeUserStore())

	if rec := doJSON(e, http.MethodPost, "/signup", `{"email":"a@x.com","password":"Abcdefgh","name":"Alice"}`, ""); rec.Code != http.StatusCreated {
		t.Fatalf("signup: got %d, body %s", rec.Code, rec.Body.String())
	}

	login := doJSON(e, http.MethodPost, "/login", `{"email":"a@x.com","password":"Abcdefgh"}`, "")
	if login.Code != http.StatusOK {
		t.Fatalf("login: got %d, body %s", login.Code, login.Body.String())
	}
	var loginBody struct {
		Token   string `json:"token"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(login.Body.Bytes(), &loginBody); err != nil {
		t.Fatalf("decoding login body: %v", err)
	}
	if loginBody.Token == "" || loginBody.Message != "Login Successful" {
		t.Fatalf("unexpected login body: %s", login.Body.String())
	}
	if got := login.Header().Get("Authorization"); got != "Bearer "+loginBody.Token {
		t.Fatalf("Authorization header: got %q", got)
	}

	ok := doJSON(e, http.MethodPost, "/books", `{"title":"Dune"}`, "Bearer "+loginBody.Token)
	if ok.Code != http.StatusCreated {
		t.Fatalf("protected request: got %d, body %s", ok.Code, ok.Body.String())
	}

	// Flipping the last character breaks the signature.
	tampered := []byte(loginBody.Token)
	if tampered[len(tampered)-1] == 'a' {
		tampered[len(tampered)-1] = 'b'
	} else {
		tampered[len(tampered)-1] = 'a'
	}
	bad := doJSON(e, http.MethodPost, "/books", `{"title":"Dune"}`, "Bearer "+string(tampered))
	if bad.Code != http.StatusUnauthorized {
		t.Fatalf("tampered token: got %d, body %s", bad.Code, bad.Body.String())
	}
}
