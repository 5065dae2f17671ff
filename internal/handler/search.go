package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SearchBooks handles GET /search?q= with a case-insensitive substring match
// over title and author. An empty query returns all books.
func (h *BookHandler) SearchBooks(c echo.Context) error {
	books, err := h.Books.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Search failed"})
	}
	return c.JSON(http.StatusOK, books)
}
