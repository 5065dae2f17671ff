package repository

import (
	"context"
	"strings"

	"github.com/readmark/book-review-api/internal/model"
)

// Search returns books whose title or author contains q, case-insensitively.
// An empty q matches everything, mirroring an unfiltered listing.
func (r *BookRepo) Search(ctx context.Context, q string) ([]model.Book, error) {
	q = strings.TrimSpace(q)

	sqlStr := "SELECT id,title,author,genre,added_by_id,created_at FROM books"
	args := []any{}
	if q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		sqlStr += " WHERE LOWER(title) LIKE ? OR LOWER(author) LIKE ?"
		args = append(args, pattern, pattern)
	}
	sqlStr += " ORDER BY id"

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBooks(rows)
}
