package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/readmark/book-review-api/internal/config"
	"github.com/readmark/book-review-api/internal/handler"
	"github.com/readmark/book-review-api/internal/middleware"
	"github.com/readmark/book-review-api/internal/token"
)

// Deps carries everything route registration needs. The Redis client may be
// nil, in which case caching and rate limiting become pass-throughs.
type Deps struct {
	Auth     *handler.AuthHandler
	Books    *handler.BookHandler
	Reviews  *handler.ReviewHandler
	Verifier *token.Verifier
	Users    middleware.UserLookup
	Redis    *redis.Client
	Cache    config.CacheConfig
	Limit    config.RateLimitConfig
}

// Register wires all routes. Reads are public (and cached); every mutation
// sits behind the auth middleware so no handler runs without a resolved
// principal.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	limited := middleware.RateLimit(d.Limit, d.Redis)
	e.POST("/signup", d.Auth.Signup, limited)
	e.POST("/login", d.Auth.Login, limited)

	cached := middleware.Cache(d.Cache, d.Redis)
	e.GET("/books", d.Books.ListBooks, cached)
	e.GET("/books/:id", d.Books.GetBook, cached)
	e.GET("/search", d.Books.SearchBooks, cached)

	protected := middleware.Auth(d.Verifier, d.Users)
	e.POST("/books", d.Books.CreateBook, protected)
	e.POST("/books/:id/reviews", d.Reviews.CreateReview, protected)
	e.PUT("/reviews/:id", d.Reviews.UpdateReview, protected)
	e.DELETE("/reviews/:id", d.Reviews.DeleteReview, protected)
}
