package lms

import (
	"context"
	"fmt"
	"os"

	"github.com/s0up4200/staffeli/entity"
	"github.com/s0up4200/staffeli/workspace"
)

// Resolvable picks one entity out of a remote listing.
type Resolvable interface {
	Resolve(ctx context.Context, sel entity.Selector) (entity.Entity, error)
}

// Cacheable reads and writes entity caches.
type Cacheable interface {
	Load(kind entity.Kind, path string, walk bool) (*workspace.Cache, error)
	Persist(kind entity.Kind, value any, path string) (string, error)
}

// listResolver fetches the parent listing on every call and resolves in it.
type listResolver struct {
	kind entity.Kind
	list func(ctx context.Context) (entity.List, error)
}

func (r listResolver) Resolve(ctx context.Context, sel entity.Selector) (entity.Entity, error) {
	list, err := r.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s candidates: %w", r.kind, err)
	}

	e, err := entity.Resolve(list, sel)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", r.kind, err)
	}
	return e, nil
}

// fileCache stores entities in .staffeli.yml files.
type fileCache struct{}

func (fileCache) Load(kind entity.Kind, path string, walk bool) (*workspace.Cache, error) {
	if path == "" {
		path = "."
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is neither a directory nor a file", workspace.ErrNotFound, path)
	}
	if !info.IsDir() {
		return workspace.LoadCacheAt(kind, path)
	}

	depth := 0
	if walk {
		depth = workspace.MaxSearchDepth
	}
	return workspace.LoadSingleEntityCache(kind, path, depth)
}

func (fileCache) Persist(kind entity.Kind, value any, path string) (string, error) {
	return workspace.Persist(kind, value, path)
}
