package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/staffeli/canvas"
	"github.com/s0up4200/staffeli/config"
	"github.com/s0up4200/staffeli/entity"
	"github.com/s0up4200/staffeli/filter"
	"github.com/s0up4200/staffeli/lms"
	"github.com/s0up4200/staffeli/workspace"
)

// newClone lays out a course clone with a cached course and roster, points
// the command globals at srvURL and changes into the clone.
func newClone(t *testing.T, srvURL string) string {
	t.Helper()

	root := t.TempDir()
	_, err := workspace.Persist(entity.KindCourse, entity.Entity{"id": int64(1), "name": "Compilers"}, root)
	require.NoError(t, err)

	students := filepath.Join(root, "students")
	require.NoError(t, workspace.EnsureDir(students))
	_, err = workspace.Persist(entity.KindStudents, entity.List{
		{"id": int64(10), "name": "Ada", "sis_login_id": "abc123@ku.dk"},
		{"id": int64(11), "name": "Bob", "sis_login_id": "def456@ku.dk"},
		{"id": int64(12), "name": "Test Student"},
	}, students)
	require.NoError(t, err)

	logger = zerolog.Nop()
	cfg = &config.Config{Fetch: config.FetchConfig{AssignmentFilter: filter.DefaultAssignmentFilter}}
	client, err = canvas.NewClient(srvURL, "token", logger)
	require.NoError(t, err)
	session = lms.NewSession(client, logger)

	chdir(t, root)
	return root
}

func prepare(cmd *cobra.Command) *bytes.Buffer {
	var out bytes.Buffer
	cmd.SetContext(context.Background())
	cmd.SetOut(&out)
	return &out
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestPairArgs(t *testing.T) {
	args, err := pairArgs([]string{"include[]", "students", "include[]", "avatar_url"})
	require.NoError(t, err)
	assert.Equal(t, "include[]=students&include[]=avatar_url", args.Encode())

	args, err = pairArgs(nil)
	require.NoError(t, err)
	assert.Empty(t, args)

	_, err = pairArgs([]string{"search_term"})
	assert.True(t, errors.Is(err, entity.ErrUsage))
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"10", "11,12", " 13 "})
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11, 12, 13}, ids)

	_, err = parseIDs([]string{"10", "ada"})
	assert.Error(t, err)
}

func TestGroupSelector(t *testing.T) {
	assert.Equal(t, lms.ByID(42), groupSelector("42"))
	assert.Equal(t, lms.ByName("Team 4"), groupSelector("Team 4"))
}

func TestAssignmentDirName(t *testing.T) {
	assert.Equal(t, "week-1", assignmentDirName("Week 1"))
	assert.Equal(t, "a1-a2", assignmentDirName("A1/A2"))
	assert.Equal(t, "Hand_in", normalizePathname("Hand"+string(filepath.Separator)+"in"))
}

func TestRunFetch_Shorthand(t *testing.T) {
	saved := fetchHandlers
	t.Cleanup(func() { fetchHandlers = saved })

	var gotWhat string
	var gotArgs []string
	record := func(what string) func(*cobra.Command, []string) error {
		return func(_ *cobra.Command, args []string) error {
			gotWhat, gotArgs = what, args
			return nil
		}
	}
	fetchHandlers = map[string]func(*cobra.Command, []string) error{
		"students": record("students"),
		"groups":   record("groups"),
		"group":    record("group"),
		"subs":     record("subs"),
	}

	tests := []struct {
		args     []string
		wantWhat string
		wantArgs []string
	}{
		{[]string{"students"}, "students", []string{}},
		{[]string{"group/Projects"}, "group", []string{"Projects"}},
		{[]string{"group/"}, "group", []string{}},
		{[]string{"subs", "Week", "1"}, "subs", []string{"Week", "1"}},
		{[]string{"subs/Week", "1"}, "subs", []string{"Week", "1"}},
	}
	for _, tt := range tests {
		require.NoError(t, runFetch(fetchCmd, tt.args), tt.args)
		assert.Equal(t, tt.wantWhat, gotWhat, tt.args)
		assert.Equal(t, tt.wantArgs, gotArgs, tt.args)
	}

	assert.Error(t, runFetch(fetchCmd, []string{"grades"}))
}

func TestGroupsplit(t *testing.T) {
	root := newClone(t, "http://canvas.invalid")

	groups := filepath.Join(root, "groups")
	require.NoError(t, workspace.EnsureDir(groups))
	_, err := workspace.Persist(entity.KindGroups, entity.List{
		{"id": int64(5), "name": "Team 1", "members": []any{
			map[string]any{"id": int64(10), "name": "Ada"},
			map[string]any{"id": int64(11), "name": "Bob"},
		}},
		{"id": int64(6), "name": "Team 2", "members": []any{
			map[string]any{"id": int64(12), "name": "Test Student"},
		}},
	}, filepath.Join(groups, "Projects.yml"))
	require.NoError(t, err)

	// Bob did not hand in
	require.NoError(t, os.MkdirAll(filepath.Join(root, "subs", "week-1", "abc123_10"), 0o755))

	out := prepare(groupsplitCmd)
	require.NoError(t, runGroupsplit(groupsplitCmd, []string{"week-1", "Projects"}))
	assert.Contains(t, out.String(), "Linked 1 submissions")

	link := filepath.Join(root, "splits", "week-1", "Team 1", "abc123_10")
	target, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("..", "..", "..", "subs", "week-1", "abc123_10"), target)

	info, err := os.Stat(link)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.DirExists(t, filepath.Join(root, "splits", "week-1", "Team 2"))
	assert.NoFileExists(t, filepath.Join(root, "splits", "week-1", "Team 1", "def456_11"))

	// Running again leaves the existing links alone
	require.NoError(t, runGroupsplit(groupsplitCmd, []string{"week-1", "Projects"}))
	assert.Contains(t, out.String(), "Linked 0 submissions")
}

func TestGroupsplit_UnknownSubsDir(t *testing.T) {
	newClone(t, "http://canvas.invalid")
	prepare(groupsplitCmd)

	err := runGroupsplit(groupsplitCmd, []string{"week-9", "Projects"})
	assert.True(t, errors.Is(err, workspace.ErrNotFound))
}

func TestFetchSubs(t *testing.T) {
	downloads := 0
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses/1/assignments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []map[string]any{
			{"id": 7, "name": "Week 1", "grading_type": "pass_fail"},
			{"id": 8, "name": "Survey", "grading_type": "not_graded"},
		})
	})
	mux.HandleFunc("/api/v1/courses/1/assignments/7/submissions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []map[string]any{
			{"id": 100, "user_id": 10, "assignment_id": 7, "attachments": []map[string]any{
				{"id": 1, "filename": "main.c", "display_name": "main.c", "url": srvURL + "/files/1/download"},
			}},
			{"id": 101, "user_id": 11, "assignment_id": 7, "preview_url": srvURL + "/preview/101"},
			{"id": 102, "user_id": 99, "assignment_id": 7},
		})
	})
	mux.HandleFunc("/files/1/download", func(w http.ResponseWriter, r *http.Request) {
		downloads++
		_, _ = w.Write([]byte("int main() {}\n"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	srvURL = srv.URL

	root := newClone(t, srv.URL)
	metadataOnly, subsFilter = false, ""
	out := prepare(fetchSubsCmd)

	require.NoError(t, runFetchSubs(fetchSubsCmd, nil))
	assert.FileExists(t, filepath.Join(root, "subs", "week-1", workspace.CacheFileName))
	assert.NoDirExists(t, filepath.Join(root, "subs", "survey"))

	require.NoError(t, runFetchSubs(fetchSubsCmd, []string{"Week", "1"}))
	assert.Contains(t, out.String(), "Fetched Week 1")

	data, err := os.ReadFile(filepath.Join(root, "subs", "week-1", "abc123_10", "main.c"))
	require.NoError(t, err)
	assert.Equal(t, "int main() {}\n", string(data))

	sub, err := session.Submission(filepath.Join(root, "subs", "week-1", "abc123_10"), false)
	require.NoError(t, err)
	assert.Equal(t, int64(100), sub.ID())

	// Bob has a directory with metadata but nothing to download
	assert.FileExists(t, filepath.Join(root, "subs", "week-1", "def456_11", workspace.CacheFileName))
	// User 99 is not on the roster
	entries, err := os.ReadDir(filepath.Join(root, "subs", "week-1"))
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	require.NoError(t, runFetchSubs(fetchSubsCmd, []string{"Week 1"}))
	assert.Equal(t, 1, downloads)
}

func TestFetchSubs_Filter(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses/1/assignments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []map[string]any{
			{"id": 7, "name": "Week 1", "grading_type": "pass_fail"},
			{"id": 8, "name": "Survey", "grading_type": "not_graded"},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	root := newClone(t, srv.URL)
	subsFilter = `name == "Survey"`
	t.Cleanup(func() { subsFilter = "" })
	prepare(fetchSubsCmd)

	require.NoError(t, runFetchSubs(fetchSubsCmd, nil))
	assert.DirExists(t, filepath.Join(root, "subs", "survey"))
	assert.NoDirExists(t, filepath.Join(root, "subs", "week-1"))

	subsFilter = `name ==`
	assert.Error(t, runFetchSubs(fetchSubsCmd, nil))
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
