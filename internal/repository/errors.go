// Package repository implements data access for the dealership catalog.
// Every multi-statement invariant (single main photo per car, singular
// rating slot per car/user pair, guarded status transitions) runs inside
// one database transaction here, so no concurrent caller can observe an
// intermediate state.  This file defines the sentinel error values that
// repositories return and handlers translate into HTTP responses.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as deleting another user's review
// without the admin role.  Handlers translate it into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrPhotoNotFound is returned when a photo ID does not resolve to an
// existing gallery row.
var ErrPhotoNotFound = errors.New("photo not found")

// ErrLastPhoto is returned when deleting a car's only remaining photo.
// A car that has photos must keep at least one, so the row is left
// untouched.
var ErrLastPhoto = errors.New("last photo cannot be deleted")

// ErrInvalidRating is returned when a rating value lies outside the 1–5
// range.  No row is written.
var ErrInvalidRating = errors.New("rating out of range")

// ErrEmptyComment is returned when a comment body is blank or exceeds
// the maximum length after trimming.
var ErrEmptyComment = errors.New("empty or oversized comment")

// ErrInvalidTransition is returned when a requested status change is not
// legal from the row's current status.  The row keeps its status and
// timestamps.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrOrderNotFound is returned when a reservation or purchase ID does
// not exist.
var ErrOrderNotFound = errors.New("order not found")

// ErrEntryNotFound is returned when a rating/comment row does not exist
// or is not visible to the caller.
var ErrEntryNotFound = errors.New("entry not found")

// ErrPastDate is returned when a reservation date lies in the past at
// commit time.  The check runs in the repository regardless of any
// validation the form already did.
var ErrPastDate = errors.New("reservation date is in the past")

// ErrEmailExists is returned on registration when the email is taken.
var ErrEmailExists = errors.New("email already exists")

// ErrCarNotFound is returned by listing writes when the car ID does not
// exist.
var ErrCarNotFound = errors.New("car not found")

// ErrUserNotFound is returned by account management writes when the
// user ID does not exist.
var ErrUserNotFound = errors.New("user not found")
