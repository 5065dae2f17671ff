// Package repository implements raw-SQL data access for users, books and
// reviews. Sentinel errors let handlers translate storage outcomes into the
// right HTTP status without inspecting driver error strings.
package repository

import "errors"

// ErrEmailExists is returned by UserRepo.Create when the email column's
// unique constraint fires. Handlers translate it into a 409.
var ErrEmailExists = errors.New("email already exists")

// ErrBookNotFound is returned when a book id does not exist.
var ErrBookNotFound = errors.New("book not found")

// ErrReviewNotFound is returned when an update or delete matches no review.
var ErrReviewNotFound = errors.New("review not found")
