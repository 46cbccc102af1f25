package lms

import (
	"fmt"

	"github.com/s0up4200/staffeli/entity"
)

// Selector names the entity a facade is built for. Exactly one of Name, ID
// and FromCache must be set.
type Selector struct {
	Name  string
	ID    int64
	HasID bool

	// FromCache loads the entity from a cache file instead of Canvas.
	FromCache bool
	// Path is the cache file or directory; empty means the working directory.
	Path string
	// Walk searches parent directories of Path as well.
	Walk bool
}

// ByName selects by case-insensitive name fragment.
func ByName(name string) Selector {
	return Selector{Name: name}
}

// ByID selects by exact id.
func ByID(id int64) Selector {
	return Selector{ID: id, HasID: true}
}

// Cached selects the closest cache in the working directory or above.
func Cached() Selector {
	return Selector{FromCache: true, Walk: true}
}

// CachedAt selects the cache at path without searching parents.
func CachedAt(path string) Selector {
	return Selector{FromCache: true, Path: path}
}

// Validate reports entity.ErrUsage unless exactly one source is given.
func (s Selector) Validate() error {
	sources := 0
	if s.Name != "" {
		sources++
	}
	if s.HasID {
		sources++
	}
	if s.FromCache {
		sources++
	}

	switch sources {
	case 1:
		return nil
	case 0:
		return fmt.Errorf("%w: a name, an id, or a cache is required", entity.ErrUsage)
	default:
		return fmt.Errorf("%w: only one of name, id, or cache may be given (got %s)", entity.ErrUsage, s)
	}
}

func (s Selector) String() string {
	switch {
	case s.FromCache && s.Path != "":
		return "cache at " + s.Path
	case s.FromCache:
		return "cache"
	case s.HasID:
		return fmt.Sprintf("id %d", s.ID)
	default:
		return fmt.Sprintf("name %q", s.Name)
	}
}

func (s Selector) remote() entity.Selector {
	return entity.Selector{Name: s.Name, ID: s.ID, HasID: s.HasID}
}
