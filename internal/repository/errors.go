// Package repository contains the data access layer: stateless facades over
// a *sql.DB, one file per entity.  This file defines the sentinel error
// values shared by the repositories.  Higher layers match on them with
// errors.Is to pick the right HTTP/GraphQL status; detail is attached by
// wrapping with %w at the raising site.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches zero rows.  Handlers should
// translate this into a 404-equivalent response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert collides with existing state, such
// as a duplicate username.  Handlers should translate this into a
// 409-equivalent response.
var ErrConflict = errors.New("conflict")

// ErrOperationFailed is returned when a delete or update that was expected
// to touch at least one row affected none.  Handlers should translate this
// into a 409-equivalent response.
var ErrOperationFailed = errors.New("operation affected no rows")

// ErrValidation is returned for bad caller input, e.g. a release year below
// the accepted minimum or a missing id.  Handlers should translate this
// into a 422-equivalent response.
var ErrValidation = errors.New("validation failed")
