package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/s0up4200/staffeli/entity"
)

// CacheFileName is the per-directory entity cache.
const CacheFileName = ".staffeli.yml"

// Cache is a loaded cache file.
type Cache struct {
	// Dir is the directory holding the file
	Dir string
	// Path is the file itself
	Path string
	// Value is the cached entity or list, with numbers normalised to int64
	Value any
}

// LoadSingleEntityCache walks up from searchDir for the closest .staffeli.yml
// whose only top-level key is kind. Files holding anything else are skipped
// and the walk continues above them; the whole walk visits at most maxDepth
// ancestors.
func LoadSingleEntityCache(kind entity.Kind, searchDir string, maxDepth int) (*Cache, error) {
	var (
		found    *Cache
		loadErr  error
		rejected []string
	)

	err := walkUp([]string{CacheFileName}, searchDir, maxDepth, func(dir string) bool {
		path := filepath.Join(dir, CacheFileName)
		if !isFile(path) {
			return false
		}

		doc, err := readCacheFile(path)
		if err != nil {
			loadErr = err
			return true
		}

		value, ok := doc[string(kind)]
		if len(doc) != 1 || !ok {
			rejected = append(rejected, fmt.Sprintf("%s (holds %s)", path, describeKeys(doc)))
			return false
		}

		found = &Cache{Dir: dir, Path: path, Value: value}
		return true
	})
	if loadErr != nil {
		return nil, loadErr
	}
	if err != nil {
		var se *SearchError
		if errors.As(err, &se) {
			se.Names = []string{fmt.Sprintf("%s holding a %s", CacheFileName, kind)}
			se.Rejected = rejected
		}
		return nil, err
	}
	return found, nil
}

// LoadCacheAt reads the kind entry from path, which is either a cache file or
// a directory containing one. No walking is done.
func LoadCacheAt(kind entity.Kind, path string) (*Cache, error) {
	if isDir(path) {
		path = filepath.Join(path, CacheFileName)
	} else if !isFile(path) {
		return nil, fmt.Errorf("%w: %s is neither a directory nor a file", ErrNotFound, path)
	}

	doc, err := readCacheFile(path)
	if err != nil {
		return nil, err
	}

	value, ok := doc[string(kind)]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %s entry (holds %s)", ErrNotFound, path, kind, describeKeys(doc))
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	return &Cache{Dir: dir, Path: path, Value: value}, nil
}

// Persist writes {kind: public view of value} to path. A directory path gets
// CacheFileName appended. It returns the file written.
func Persist(kind entity.Kind, value any, path string) (string, error) {
	if isDir(path) {
		path = filepath.Join(path, CacheFileName)
	}

	doc := map[string]any{string(kind): entity.PublicView(kind, value)}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s cache: %w", kind, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func readCacheFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for k, v := range doc {
		doc[k] = entity.Normalize(v)
	}
	return doc, nil
}

func describeKeys(doc map[string]any) string {
	if len(doc) == 0 {
		return "nothing"
	}
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
