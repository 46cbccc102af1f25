package lms

import (
	"context"
	"fmt"

	"github.com/s0up4200/staffeli/entity"
)

// record is the state shared by the single-entity facades.
type record struct {
	kind     entity.Kind
	data     entity.Entity
	dir      string
	resolver Resolvable
	cache    Cacheable
}

func open(ctx context.Context, kind entity.Kind, sel Selector, resolver Resolvable, cache Cacheable) (record, error) {
	if err := sel.Validate(); err != nil {
		return record{}, err
	}

	r := record{kind: kind, resolver: resolver, cache: cache}

	if sel.FromCache {
		c, err := cache.Load(kind, sel.Path, sel.Walk)
		if err != nil {
			return record{}, err
		}
		data, err := singleEntity(c.Value)
		if err != nil {
			return record{}, fmt.Errorf("cached %s in %s: %w", kind, c.Path, err)
		}
		r.data, r.dir = data, c.Dir
	} else {
		if resolver == nil {
			return record{}, fmt.Errorf("%w for %s", ErrNoRemote, kind)
		}
		data, err := resolver.Resolve(ctx, sel.remote())
		if err != nil {
			return record{}, err
		}
		r.data = data
	}

	if _, ok := r.data.ID(); !ok {
		return record{}, fmt.Errorf("%s %q has no id", kind, r.data.Name())
	}
	return r, nil
}

func singleEntity(v any) (entity.Entity, error) {
	list, err := entity.FromValue(v)
	if err != nil {
		return nil, err
	}
	if len(list) != 1 {
		return nil, fmt.Errorf("expected one entity, found %d", len(list))
	}
	return list[0], nil
}

// ID returns the Canvas id.
func (r *record) ID() int64 {
	return r.data.MustID()
}

// Name returns the display name.
func (r *record) Name() string {
	return r.data.Name()
}

// Entity returns the underlying JSON document.
func (r *record) Entity() entity.Entity {
	return r.data
}

// Dir returns the directory of the cache the entity was loaded from, or ""
// if it came from Canvas.
func (r *record) Dir() string {
	return r.dir
}

// Cache writes the public view of the entity to path.
func (r *record) Cache(path string) (string, error) {
	return r.cache.Persist(r.kind, r.data, path)
}

// Reload fetches the entity's current state from Canvas by id.
func (r *record) Reload(ctx context.Context) error {
	if r.resolver == nil {
		return fmt.Errorf("%w for %s %s", ErrNoRemote, r.kind, r.data.Label())
	}
	data, err := r.resolver.Resolve(ctx, entity.ByID(r.ID()))
	if err != nil {
		return err
	}
	r.data = data
	return nil
}

// Listing is a cacheable list of entities of one kind.
type Listing struct {
	kind  entity.Kind
	items entity.List
	dir   string
	cache Cacheable
}

func newListing(kind entity.Kind, items entity.List, cache Cacheable) Listing {
	if items == nil {
		items = entity.List{}
	}
	return Listing{kind: kind, items: items, cache: cache}
}

func loadListing(cache Cacheable, kind entity.Kind, path string, walk bool) (Listing, error) {
	c, err := cache.Load(kind, path, walk)
	if err != nil {
		return Listing{}, err
	}
	items, err := entity.FromValue(c.Value)
	if err != nil {
		return Listing{}, fmt.Errorf("cached %s in %s: %w", kind, c.Path, err)
	}
	return Listing{kind: kind, items: items, dir: c.Dir, cache: cache}, nil
}

// Entities returns the listed entities in order.
func (l *Listing) Entities() entity.List {
	return l.items
}

// Len returns the number of entities.
func (l *Listing) Len() int {
	return len(l.items)
}

// Dir returns the directory the listing was loaded from, if any.
func (l *Listing) Dir() string {
	return l.dir
}

// Cache writes the public view of the listing to path.
func (l *Listing) Cache(path string) (string, error) {
	return l.cache.Persist(l.kind, l.items, path)
}
