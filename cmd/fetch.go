package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/staffeli/filter"
	"github.com/s0up4200/staffeli/lms"
	"github.com/s0up4200/staffeli/workspace"
)

var (
	metadataOnly  bool
	subsFilter    string
	fetchHandlers map[string]func(*cobra.Command, []string) error
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <students|groups|group|subs> [name...]",
	Short: "Fetch something that might have changed",
	Long: `Refresh part of the course clone from Canvas.

  fetch students           cache the roster in students/
  fetch groups             cache every group category in groups/
  fetch group <category>   cache one category as groups/<category>.yml
  fetch subs               cache every graded assignment in subs/
  fetch subs <assignment>  cache one assignment and all its submissions

"fetch group/Projects" is short for "fetch group Projects".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

var fetchStudentsCmd = &cobra.Command{
	Use:   "students",
	Short: "Cache the student list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		course, root, err := currentCourse(cmd.Context())
		if err != nil {
			return err
		}
		return fetchStudents(cmd.Context(), cmd.OutOrStdout(), course, root)
	},
}

var fetchGroupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Cache every group category with its groups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		course, root, err := currentCourse(cmd.Context())
		if err != nil {
			return err
		}
		return fetchGroups(cmd.Context(), cmd.OutOrStdout(), course, root)
	},
}

var fetchGroupCmd = &cobra.Command{
	Use:   "group <category>...",
	Short: "Cache one group category with its groups",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFetchGroup,
}

var fetchSubsCmd = &cobra.Command{
	Use:   "subs [assignment...]",
	Short: "Cache assignments and submissions",
	Long: `Without an assignment name, cache every assignment matching --filter under
subs/<assignment>/. With a name, cache that assignment and every submission
under subs/<assignment>/<login>_<user id>/, downloading attachments unless
--metadata is given. Files already present are not downloaded again.`,
	RunE: runFetchSubs,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.AddCommand(fetchStudentsCmd, fetchGroupsCmd, fetchGroupCmd, fetchSubsCmd)

	fetchCmd.PersistentFlags().BoolVar(&metadataOnly, "metadata", false, "fetch metadata only, no attachments")
	fetchCmd.PersistentFlags().StringVarP(&subsFilter, "filter", "f", "", "assignment filter expression (default from fetch.assignment_filter)")

	fetchHandlers = map[string]func(*cobra.Command, []string) error{
		"students": fetchStudentsCmd.RunE,
		"groups":   fetchGroupsCmd.RunE,
		"group":    fetchGroupCmd.RunE,
		"subs":     fetchSubsCmd.RunE,
	}
}

// runFetch handles the "what/name" shorthand, which cobra cannot route to a
// subcommand by itself.
func runFetch(cmd *cobra.Command, args []string) error {
	what, rest, found := strings.Cut(args[0], "/")
	tail := args[1:]
	if found && rest != "" {
		tail = append([]string{rest}, tail...)
	}

	handler, ok := fetchHandlers[what]
	if !ok {
		return fmt.Errorf("don't know how to fetch %q, try one of students, groups, group, or subs", args[0])
	}
	return handler(cmd, tail)
}

func runFetchGroup(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("fetch group needs a group category name")
	}
	ctx := cmd.Context()

	course, root, err := currentCourse(ctx)
	if err != nil {
		return err
	}

	gcat, err := course.GroupCategory(ctx, lms.ByName(strings.Join(args, " ")))
	if err != nil {
		return err
	}

	dir := filepath.Join(root, "groups")
	if err := workspace.EnsureDir(dir); err != nil {
		return err
	}

	path, err := cacheGroupList(ctx, gcat, dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Fetched %s as %s.\n", gcat.Name(), path)
	return nil
}

func runFetchSubs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	course, root, err := currentCourse(ctx)
	if err != nil {
		return err
	}

	subsDir := filepath.Join(root, "subs")
	if err := workspace.EnsureDir(subsDir); err != nil {
		return err
	}

	name := strings.Trim(strings.Join(args, " "), "/")
	if name == "" {
		return fetchAllSubs(ctx, cmd.OutOrStdout(), course, subsDir)
	}
	return fetchSubs(ctx, cmd.OutOrStdout(), course, root, subsDir, name)
}

func assignmentDirName(name string) string {
	return workspace.Slug(normalizePathname(name))
}

func fetchAllSubs(ctx context.Context, out io.Writer, course *lms.Course, subsDir string) error {
	expression := subsFilter
	if expression == "" {
		expression = cfg.Fetch.AssignmentFilter
	}
	if expression == "" {
		expression = filter.DefaultAssignmentFilter
	}

	f, err := filter.Compile(expression)
	if err != nil {
		return fmt.Errorf("invalid filter expression: %w", err)
	}

	fmt.Fprintln(out, "Fetching all assignments..")
	assignments, err := course.Assignments(ctx)
	if err != nil {
		return err
	}

	for _, a := range assignments {
		ok, err := f.Match(a.Entity())
		if err != nil {
			logger.Warn().Err(err).Str("assignment", a.Name()).Msg("Skipping assignment the filter cannot evaluate")
			continue
		}
		if !ok {
			logger.Debug().Str("assignment", a.Name()).Str("filter", expression).Msg("Filtered out")
			continue
		}

		fmt.Fprintf(out, "Fetching %s..\n", a.Name())
		dir := filepath.Join(subsDir, assignmentDirName(a.Name()))
		if err := workspace.EnsureDir(dir); err != nil {
			return err
		}
		if _, err := a.Cache(dir); err != nil {
			return err
		}
	}
	return nil
}

func fetchSubs(ctx context.Context, out io.Writer, course *lms.Course, root, subsDir, name string) error {
	var (
		assignment *lms.Assignment
		err        error
	)

	// A directory from an earlier fetch pins the assignment
	if dir := filepath.Join(subsDir, assignmentDirName(name)); isDir(dir) {
		assignment, err = course.Assignment(ctx, lms.CachedAt(dir))
	} else {
		assignment, err = course.Assignment(ctx, lms.ByName(name))
	}
	if err != nil {
		return err
	}

	dir := filepath.Join(subsDir, assignmentDirName(assignment.Name()))
	if err := workspace.EnsureDir(dir); err != nil {
		return err
	}
	if _, err := assignment.Cache(dir); err != nil {
		return err
	}
	fmt.Fprintf(out, "Fetched %s as %s.\n", assignment.Name(), dir)

	students, err := courseStudents(root)
	if err != nil {
		return err
	}

	subs, err := assignment.SubmissionList(ctx)
	if err != nil {
		return err
	}

	for _, sub := range subs {
		if err := fetchSub(ctx, out, students, dir, sub); err != nil {
			return err
		}
	}
	return nil
}

func fetchSub(ctx context.Context, out io.Writer, students *lms.StudentList, dir string, sub *lms.Submission) error {
	uid, _ := sub.UserID()

	dirname, err := students.DirName(uid)
	if err != nil {
		logger.Warn().
			Err(err).
			Int64("user_id", uid).
			Str("preview", sub.PreviewURL()).
			Msg("Skipping submission, have a look in SpeedGrader")
		return nil
	}

	subDir := filepath.Join(dir, dirname)
	if err := workspace.EnsureDir(subDir); err != nil {
		return err
	}
	if _, err := sub.Cache(subDir); err != nil {
		return err
	}

	if metadataOnly {
		return nil
	}
	if !sub.HasAttachments() {
		logger.Warn().
			Int64("user_id", uid).
			Str("preview", sub.PreviewURL()).
			Msg("Submission has no attachments, this might be a 'No submission' submission")
		return nil
	}

	for _, att := range sub.Attachments() {
		target := filepath.Join(subDir, normalizePathname(att.Filename))
		if isFile(target) {
			logger.Debug().Str("file", target).Msg("Already downloaded")
			continue
		}
		fmt.Fprintf(out, "Downloading %s..\n", target)
		if err := client.Download(ctx, att.URL, target); err != nil {
			return err
		}
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
