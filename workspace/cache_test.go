package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/staffeli/entity"
)

func writeCache(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CacheFileName), []byte(content), 0o600))
}

func TestPersist_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	course := entity.Entity{
		"id":          int64(2941),
		"name":        "Advanced Algorithms",
		"course_code": "AA",
		"enrollments": []any{map[string]any{"type": "ta"}},
		"start_at":    "2024-09-02T00:00:00Z",
		"score":       85.5,
		"public":      true,
		"syllabus":    nil,
	}

	path, err := Persist(entity.KindCourse, course, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, CacheFileName), path)

	loaded, err := LoadCacheAt(entity.KindCourse, dir)
	require.NoError(t, err)
	assert.Equal(t, entity.PublicView(entity.KindCourse, course), loaded.Value)
	assert.NotContains(t, loaded.Value, "enrollments")
	assert.Contains(t, course, "enrollments", "persist must not modify its input")

	// Persisting what was loaded writes the same file again.
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	_, err = Persist(entity.KindCourse, loaded.Value, path)
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestPersist_List(t *testing.T) {
	dir := t.TempDir()
	groups := entity.List{
		{"id": int64(1), "name": "Group 1", "is_member": false},
		{"id": int64(2), "name": "Group 2", "is_member": true},
	}

	file := filepath.Join(dir, "Projects.yml")
	_, err := Persist(entity.KindGroups, groups, file)
	require.NoError(t, err)

	loaded, err := LoadCacheAt(entity.KindGroups, file)
	require.NoError(t, err)
	list, err := entity.FromValue(loaded.Value)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []int64{1, 2}, list.IDs())
	for _, g := range list {
		assert.False(t, g.Has("is_member"))
	}
}

func TestLoadSingleEntityCache_SkipsOtherKinds(t *testing.T) {
	root := t.TempDir()
	students := filepath.Join(root, "students")
	deeper := filepath.Join(students, "notes")
	require.NoError(t, os.MkdirAll(deeper, 0o755))

	writeCache(t, root, "course:\n  id: 7\n  name: Algorithms\n")
	writeCache(t, students, "students:\n- id: 1\n  name: Alice\n")

	cache, err := LoadSingleEntityCache(entity.KindCourse, deeper, MaxSearchDepth)
	require.NoError(t, err)
	assert.Equal(t, root, cache.Dir)
	assert.Equal(t, map[string]any{"id": int64(7), "name": "Algorithms"}, cache.Value)

	cache, err = LoadSingleEntityCache(entity.KindStudents, deeper, MaxSearchDepth)
	require.NoError(t, err)
	assert.Equal(t, students, cache.Dir)
}

func TestLoadSingleEntityCache_RejectsMultiKeyFile(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	writeCache(t, root, "course:\n  id: 7\n")
	writeCache(t, sub, "course:\n  id: 8\nextra: 1\n")

	cache, err := LoadSingleEntityCache(entity.KindCourse, sub, MaxSearchDepth)
	require.NoError(t, err)
	assert.Equal(t, root, cache.Dir)
}

func TestLoadSingleEntityCache_Exhausted(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeCache(t, root, "students: []\n")
	writeCache(t, sub, "assignment:\n  id: 3\n")

	_, err := LoadSingleEntityCache(entity.KindCourse, sub, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var se *SearchError
	require.True(t, errors.As(err, &se))
	assert.Len(t, se.Rejected, 2)
	assert.Contains(t, err.Error(), "holds assignment")
	assert.Contains(t, err.Error(), "holds students")
}

func TestLoadSingleEntityCache_NoWalk(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeCache(t, root, "course:\n  id: 7\n")

	_, err := LoadSingleEntityCache(entity.KindCourse, sub, 0)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadSingleEntityCache_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeCache(t, dir, "course: [unterminated\n")

	_, err := LoadSingleEntityCache(entity.KindCourse, dir, MaxSearchDepth)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestLoadCacheAt_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadCacheAt(entity.KindCourse, filepath.Join(dir, "missing"))
	assert.True(t, errors.Is(err, ErrNotFound))

	writeCache(t, dir, "students: []\n")
	_, err = LoadCacheAt(entity.KindCourse, dir)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "holds students")
}
