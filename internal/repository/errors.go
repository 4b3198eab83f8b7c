package repository

import "errors"

// ErrNotFound is returned when a query for a single entity finds no rows.
// The service layer translates it into a domain-level error, so business
// logic never depends on the database driver's error values.
var ErrNotFound = errors.New("repository: not found")
