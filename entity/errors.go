package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Lookup and usage errors
var (
	// ErrNoCandidate indicates no entity matched the selector
	ErrNoCandidate = errors.New("no candidate")
	// ErrAmbiguous indicates more than one entity matched a name fragment
	ErrAmbiguous = errors.New("multiple candidates")
	// ErrUsage indicates a selector with conflicting or missing arguments
	ErrUsage = errors.New("invalid selector")
)

// LookupError reports a failed resolution together with everything the user
// could have picked instead.
type LookupError struct {
	Query      string
	Candidates []string
	Suggestion string
	Err        error

	// names marks Candidates as entity names, which are quoted when printed
	names bool
}

func (e *LookupError) Error() string {
	var sb strings.Builder
	if errors.Is(e.Err, ErrAmbiguous) {
		fmt.Fprintf(&sb, "Multiple candidates for %s: %s.", e.Query, quoteAll(e.Candidates))
		return sb.String()
	}

	fmt.Fprintf(&sb, "No candidate for %s.", e.Query)
	if len(e.Candidates) == 0 {
		sb.WriteString(" There is nothing to choose from.")
	} else {
		options := strings.Join(e.Candidates, ", ")
		if e.names {
			options = quoteAll(e.Candidates)
		}
		fmt.Fprintf(&sb, " Your options include %s.", options)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&sb, " Did you mean %q?", e.Suggestion)
	}
	return sb.String()
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(quoted, ", ")
}
