package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/readmark/book-review-api/internal/model"
	"github.com/readmark/book-review-api/internal/repository"
	"github.com/readmark/book-review-api/internal/token"
	"github.com/readmark/book-review-api/internal/utils"
)

// UserStore is the credential storage the auth endpoints depend on.
// *repository.UserRepo satisfies it; tests use an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash, name string) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// AuthHandler bundles dependencies for the signup and login endpoints.
type AuthHandler struct {
	Users  UserStore
	Issuer *token.Issuer
	Cost   int // bcrypt cost
}

func NewAuthHandler(users UserStore, issuer *token.Issuer, bcryptCost int) *AuthHandler {
	return &AuthHandler{Users: users, Issuer: issuer, Cost: bcryptCost}
}

type signupReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup validates the payload shape, hashes the password and stores the
// credential. The plaintext password exists only for the duration of this
// handler.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid input"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if errs := validateSignup(req.Email, req.Password, req.Name); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid input", "errors": errs})
	}

	hash, err := utils.HashPassword(req.Password, h.Cost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.Create(ctx, req.Email, hash, req.Name); err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"message": "Email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Signup successful"})
}

// Login verifies the credential pair and issues an access token. Unknown
// email and wrong password produce byte-identical responses so the endpoint
// cannot be used to probe which accounts exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid input"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid Credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid Credentials"})
	}

	signed, _, err := h.Issuer.Issue(u.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	c.Response().Header().Set("Authorization", "Bearer "+signed)
	return c.JSON(http.StatusOK, echo.Map{"token": signed, "message": "Login Successful"})
}
