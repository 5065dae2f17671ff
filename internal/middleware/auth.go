package middleware // package middleware contains reusable HTTP middleware

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/readmark/book-review-api/internal/model"
	"github.com/readmark/book-review-api/internal/token"
)

// principalKey is the context key under which Auth stores the resolved
// identity for the downstream handler.
const principalKey = "principal"

// UserLookup resolves a stored account by email. *repository.UserRepo
// satisfies it; tests substitute an in-memory fake.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// Auth returns the middleware guarding every protected route. For each
// request it extracts the Authorization header, validates the bearer token
// and re-reads the account behind the claim, so a deleted account loses
// access immediately even while its token is unexpired. On success the
// Principal is stored in the context; on failure the request is rejected
// before any handler runs.
//
// All token failures collapse into one opaque 401 body. The underlying
// reason (malformed, bad signature, expired) is logged at debug level only —
// disclosing it would hand an attacker an oracle.
func Auth(verifier *token.Verifier, users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if auth == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Authorization header missing"})
			}

			scheme, raw, ok := strings.Cut(auth, " ")
			if !ok || scheme != "Bearer" || raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid token format"})
			}

			email, err := verifier.Verify(raw)
			if err != nil {
				c.Logger().Debugf("auth: token rejected: %v", err)
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
			}

			u, err := users.GetByEmail(c.Request().Context(), email)
			if err != nil {
				if err == sql.ErrNoRows {
					return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not found"})
				}
				c.Logger().Errorf("auth: user lookup failed: %v", err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
			}

			c.Set(principalKey, model.Principal{ID: u.ID, Email: u.Email, Name: u.Name})
			return next(c)
		}
	}
}

// Principal returns the identity stored by Auth, or false when the request
// did not pass through the middleware.
func Principal(c echo.Context) (model.Principal, bool) {
	p, ok := c.Get(principalKey).(model.Principal)
	return p, ok
}
