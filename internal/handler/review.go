package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/readmark/book-review-api/internal/middleware"
	"github.com/readmark/book-review-api/internal/model"
	"github.com/readmark/book-review-api/internal/queue"
	"github.com/readmark/book-review-api/internal/repository"
	queue_publisher "github.com/readmark/book-review-api/internal/service"
)

// ReviewHandler bundles the review repository for the review endpoints.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
}

func NewReviewHandler(reviews *repository.ReviewRepo) *ReviewHandler {
	if reviews == nil {
		panic("nil repository passed to NewReviewHandler")
	}
	return &ReviewHandler{Reviews: reviews}
}

type reviewBody struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}

// CreateReview handles POST /books/:id/reviews.
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}

	bookID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid book ID"})
	}

	var body reviewBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid input"})
	}
	if body.Rating < 1 || body.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Rating must be between 1 and 5"})
	}

	review := &model.Review{
		BookID:  bookID,
		UserID:  p.ID,
		Rating:  body.Rating,
		Comment: body.Comment,
	}
	if err := h.Reviews.Create(c.Request().Context(), review); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error adding review"})
	}

	_ = queue_publisher.PublishActivity(c.Request().Context(), queue.ActivityEvent{
		Kind:       queue.KindReviewAdded,
		ActorID:    p.ID,
		ActorEmail: p.Email,
		BookID:     bookID,
		ReviewID:   review.ID,
		At:         time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{"message": "Review added", "review": review})
}

// UpdateReview handles PUT /reviews/:id.
func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid review ID"})
	}

	var body reviewBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid input"})
	}
	if body.Rating < 1 || body.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Rating must be between 1 and 5"})
	}

	if err := h.Reviews.Update(c.Request().Context(), id, body.Rating, body.Comment); err != nil {
		if err == repository.ErrReviewNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error updating review"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Review updated"})
}

// DeleteReview handles DELETE /reviews/:id.
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid review ID"})
	}

	if err := h.Reviews.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrReviewNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error deleting review"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Review deleted"})
}
