package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/antzucaro/matchr"
)

// suggestThreshold is the Jaro-Winkler similarity above which a "did you
// mean" hint is attached to a failed name lookup.
const suggestThreshold = 0.7

// Selector picks an entity out of a list by exact id or by name fragment.
// Exactly one of the two must be set.
type Selector struct {
	Name  string
	ID    int64
	HasID bool
}

// ByName selects by case-insensitive substring.
func ByName(name string) Selector {
	return Selector{Name: name}
}

// ByID selects by exact id.
func ByID(id int64) Selector {
	return Selector{ID: id, HasID: true}
}

// Validate reports ErrUsage unless exactly one selector is given.
func (s Selector) Validate() error {
	switch {
	case s.Name != "" && s.HasID:
		return fmt.Errorf("%w: both name %q and id %d given", ErrUsage, s.Name, s.ID)
	case s.Name == "" && !s.HasID:
		return fmt.Errorf("%w: a name or an id is required", ErrUsage)
	}
	return nil
}

func (s Selector) String() string {
	if s.HasID {
		return strconv.FormatInt(s.ID, 10)
	}
	return strconv.Quote(s.Name)
}

// Resolve returns the single entity of list matching sel.
func Resolve(list List, sel Selector) (Entity, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	if sel.HasID {
		return ResolveID(list, sel.ID)
	}
	return ResolveName(list, sel.Name)
}

// ResolveID scans list for an entity whose id is exactly id.
func ResolveID(list List, id int64) (Entity, error) {
	for _, e := range list {
		if eid, ok := e.ID(); ok && eid == id {
			return e, nil
		}
	}

	labels := make([]string, len(list))
	for i, e := range list {
		labels[i] = e.Label()
	}
	return nil, &LookupError{
		Query:      strconv.FormatInt(id, 10),
		Candidates: labels,
		Err:        ErrNoCandidate,
	}
}

// ResolveName returns the only entity whose name contains name, ignoring
// case. Zero or several matches are both errors; there is no tie-break.
func ResolveName(list List, name string) (Entity, error) {
	needle := strings.ToLower(name)

	var matches List
	for _, e := range list {
		if strings.Contains(strings.ToLower(e.Name()), needle) {
			matches = append(matches, e)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		all := list.Names()
		return nil, &LookupError{
			Query:      strconv.Quote(name),
			Candidates: all,
			Suggestion: closest(name, all),
			Err:        ErrNoCandidate,
			names:      true,
		}
	default:
		return nil, &LookupError{
			Query:      strconv.Quote(name),
			Candidates: matches.Names(),
			Err:        ErrAmbiguous,
			names:      true,
		}
	}
}

// closest returns the most similar candidate name, or "" if none is similar
// enough to be worth mentioning.
func closest(name string, candidates []string) string {
	best, bestScore := "", suggestThreshold
	needle := strings.ToLower(name)
	for _, c := range candidates {
		score := matchr.JaroWinkler(needle, strings.ToLower(c), false)
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}
