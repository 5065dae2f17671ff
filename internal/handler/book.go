package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/readmark/book-review-api/internal/middleware"
	"github.com/readmark/book-review-api/internal/model"
	"github.com/readmark/book-review-api/internal/queue"
	"github.com/readmark/book-review-api/internal/repository"
	queue_publisher "github.com/readmark/book-review-api/internal/service"
)

// BookHandler bundles the book repository for the book endpoints.
type BookHandler struct {
	Books *repository.BookRepo
}

func NewBookHandler(books *repository.BookRepo) *BookHandler {
	if books == nil {
		panic("nil repository passed to NewBookHandler")
	}
	return &BookHandler{Books: books}
}

// CreateBook handles POST /books. The auth middleware has already resolved
// the principal; its id is recorded as the book's creator.
func (h *BookHandler) CreateBook(c echo.Context) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}

	var body struct {
		Title  string `json:"title"`
		Author string `json:"author"`
		Genre  string `json:"genre"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid input"})
	}
	body.Title = strings.TrimSpace(body.Title)
	body.Author = strings.TrimSpace(body.Author)
	body.Genre = strings.TrimSpace(body.Genre)
	if body.Title == "" || body.Author == "" || body.Genre == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Missing required fields"})
	}

	book := &model.Book{
		Title:     body.Title,
		Author:    body.Author,
		Genre:     body.Genre,
		AddedByID: p.ID,
	}
	if err := h.Books.Create(c.Request().Context(), book); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to add book"})
	}

	// best effort; the book is created whether or not the event lands
	_ = queue_publisher.PublishActivity(c.Request().Context(), queue.ActivityEvent{
		Kind:       queue.KindBookAdded,
		ActorID:    p.ID,
		ActorEmail: p.Email,
		BookID:     book.ID,
		Title:      book.Title,
		At:         time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{"message": "Book added", "book": book})
}

// ListBooks handles GET /books with page/limit pagination. page is
// zero-based; limit defaults to 10 and is capped at 100.
func (h *BookHandler) ListBooks(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 0 {
		page = 0
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	books, err := h.Books.List(c.Request().Context(), page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching books"})
	}
	return c.JSON(http.StatusOK, books)
}

// GetBook handles GET /books/:id and returns the book with its reviews.
func (h *BookHandler) GetBook(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid book ID"})
	}

	book, err := h.Books.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrBookNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Book not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, book)
}
