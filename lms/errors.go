package lms

import "errors"

var (
	// ErrExists indicates Canvas already holds an entity the caller asked to create
	ErrExists = errors.New("already exists on canvas")
	// ErrNoRemote indicates a facade loaded from a file has no listing to reload from
	ErrNoRemote = errors.New("no remote source")
)
