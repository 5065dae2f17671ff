package repository

import (
	"context"
	"database/sql"

	"github.com/readmark/book-review-api/internal/model"
)

type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

// Create inserts a review and fills in its generated ID. A nil comment is
// stored as NULL.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (book_id, user_id, rating, comment) VALUES (?,?,?,?)",
		rv.BookID, rv.UserID, rv.Rating, rv.Comment)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	return nil
}

// Update changes rating and comment of an existing review.
// ErrReviewNotFound is returned when no row matches.
func (r *ReviewRepo) Update(ctx context.Context, id uint64, rating int, comment *string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE reviews SET rating=?, comment=? WHERE id=?",
		rating, comment, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes a review. ErrReviewNotFound is returned when no row
// matches.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM reviews WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReviewNotFound
	}
	return nil
}
