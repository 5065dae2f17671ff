package repository

import (
	"context"
	"database/sql"

	"github.com/readmark/book-review-api/internal/model"
)

type BookRepo struct{ DB *sql.DB }

func NewBookRepo(db *sql.DB) *BookRepo { return &BookRepo{DB: db} }

// Create inserts a book and fills in its generated ID.
func (r *BookRepo) Create(ctx context.Context, b *model.Book) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO books (title, author, genre, added_by_id) VALUES (?,?,?,?)",
		b.Title, b.Author, b.Genre, b.AddedByID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// List returns one page of books. page is zero-based; the caller clamps
// limit.
func (r *BookRepo) List(ctx context.Context, page, limit int) ([]model.Book, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,title,author,genre,added_by_id,created_at FROM books ORDER BY id LIMIT ? OFFSET ?",
		limit, page*limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBooks(rows)
}

// GetByID fetches a single book together with its reviews. ErrBookNotFound
// is returned when the id does not exist.
func (r *BookRepo) GetByID(ctx context.Context, id uint64) (model.Book, error) {
	var b model.Book
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,title,author,genre,added_by_id,created_at FROM books WHERE id=? LIMIT 1",
		id).Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.AddedByID, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return b, ErrBookNotFound
	}
	if err != nil {
		return b, err
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,book_id,user_id,rating,comment,created_at,updated_at FROM reviews WHERE book_id=? ORDER BY id",
		id)
	if err != nil {
		return b, err
	}
	defer rows.Close()
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.BookID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return b, err
		}
		b.Reviews = append(b.Reviews, rv)
	}
	return b, rows.Err()
}

func scanBooks(rows *sql.Rows) ([]model.Book, error) {
	books := []model.Book{}
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.AddedByID, &b.CreatedAt); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}
