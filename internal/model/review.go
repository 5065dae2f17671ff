package model

import "time"

// Review mirrors the `reviews` table. Comment is nullable in the schema and
// therefore a pointer here.
type Review struct {
	ID        uint64    `json:"id"`
	BookID    uint64    `json:"book_id"`
	UserID    uint64    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
