package workspace

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates an upward search or cache lookup came up empty
	ErrNotFound = errors.New("file not found")
	// ErrExists indicates a fresh path is already taken
	ErrExists = errors.New("path already exists")
)

// SearchError reports an exhausted upward search.
type SearchError struct {
	Names    []string
	Start    string
	Depth    int
	Last     string
	Rejected []string
}

func (e *SearchError) Error() string {
	msg := fmt.Sprintf("couldn't locate a file named %s; looked in %s and in %d parent directories up to, and including, %s",
		describeNames(e.Names), e.Start, e.Depth, e.Last)
	if len(e.Rejected) > 0 {
		msg += fmt.Sprintf("; rejected %s", strings.Join(e.Rejected, ", "))
	}
	return msg
}

func (e *SearchError) Unwrap() error {
	return ErrNotFound
}

func describeNames(names []string) string {
	switch len(names) {
	case 0:
		return `""`
	case 1:
		return names[0]
	case 2:
		return "either " + names[0] + " or " + names[1]
	default:
		return "either " + strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
	}
}
