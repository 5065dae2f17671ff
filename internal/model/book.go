package model

import "time"

// Book mirrors the `books` table. AddedByID references the user that created
// the record.
type Book struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Genre     string    `json:"genre"`
	AddedByID uint64    `json:"added_by_id"`
	CreatedAt time.Time `json:"created_at"`
	Reviews   []Review  `json:"reviews,omitempty"`
}
