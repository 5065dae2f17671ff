// Package queue defines message payloads exchanged over the message broker
// and the background consumer that drains them.
package queue

// Event kinds published to the activity queue.
const (
	KindBookAdded   = "book.added"
	KindReviewAdded = "review.added"
)

// ActivityEvent is published when an authenticated user creates a book or a
// review. It carries enough for downstream consumers to log or notify
// without querying the primary database.
type ActivityEvent struct {
	Kind       string `json:"kind"`
	ActorID    uint64 `json:"actor_id"`
	ActorEmail string `json:"actor_email"`
	BookID     uint64 `json:"book_id"`
	ReviewID   uint64 `json:"review_id,omitempty"`
	Title      string `json:"title,omitempty"`
	At         string `json:"at"`
}
