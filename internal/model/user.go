package model

import "time"

// User mirrors the `users` table. PasswordHash holds the bcrypt digest and
// must never leave the server; response types are defined separately in the
// handler layer.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (unique, stored lower-case)
	PasswordHash string    // users.password_hash
	Name         string    // users.name
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Principal is the identity resolved for a single request after the auth
// middleware validated the bearer token and re-read the account. It carries
// only what downstream handlers need and never the password hash.
type Principal struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
