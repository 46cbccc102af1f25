package workspace

import (
	"os"
	"path/filepath"
)

// MaxSearchDepth is how many parent directories an upward search visits
// beyond the starting directory.
const MaxSearchDepth = 9

// FindUpward looks for a regular file called name in startDir and at most
// maxDepth of its ancestors, returning the path of the closest match.
func FindUpward(name, startDir string, maxDepth int) (string, error) {
	return FindAnyUpward([]string{name}, startDir, maxDepth)
}

// FindAnyUpward is FindUpward for several candidate names. Within one
// directory, earlier names win.
func FindAnyUpward(names []string, startDir string, maxDepth int) (string, error) {
	var found string
	err := walkUp(names, startDir, maxDepth, func(dir string) bool {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if isFile(path) {
				found = path
				return true
			}
		}
		return false
	})
	if err != nil {
		return "", err
	}
	return found, nil
}

// walkUp calls visit for startDir and up to maxDepth ancestors until visit
// returns true. It stops early at the filesystem root.
func walkUp(names []string, startDir string, maxDepth int, visit func(dir string) bool) error {
	if maxDepth < 0 {
		maxDepth = 0
	}

	start, err := filepath.Abs(startDir)
	if err != nil {
		return err
	}

	dir := start
	depth := 0
	for {
		if visit(dir) {
			return nil
		}
		parent := filepath.Dir(dir)
		if depth == maxDepth || parent == dir {
			break
		}
		dir = parent
		depth++
	}

	return &SearchError{Names: names, Start: start, Depth: depth, Last: dir}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
