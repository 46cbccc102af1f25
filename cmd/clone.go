package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/staffeli/lms"
	"github.com/s0up4200/staffeli/workspace"
)

var cloneCmd = &cobra.Command{
	Use:   "clone <course name>...",
	Short: "Create a local clone of a course",
	Long: `Look up a course by (part of) its name, create a directory with that name,
and fetch the course, its students and its groups into it.

The directory must not exist yet.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClone,
}

func init() {
	rootCmd.AddCommand(cloneCmd)
}

func runClone(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	name := strings.Join(args, " ")

	course, err := session.Course(ctx, lms.ByName(name))
	if err != nil {
		return err
	}

	dir := name
	if err := workspace.MakeFreshDir(dir); err != nil {
		return err
	}
	if _, err := course.Cache(dir); err != nil {
		return err
	}
	fmt.Fprintf(out, "Cloned %s into %s.\n", course.Name(), dir)

	if err := fetchStudents(ctx, out, course, dir); err != nil {
		return err
	}
	return fetchGroups(ctx, out, course, dir)
}

func fetchStudents(ctx context.Context, out io.Writer, course *lms.Course, root string) error {
	fmt.Fprintln(out, "Fetching students..")

	students, err := course.Students(ctx)
	if err != nil {
		return err
	}

	dir := filepath.Join(root, "students")
	if err := workspace.EnsureDir(dir); err != nil {
		return err
	}
	if _, err := students.Cache(dir); err != nil {
		return err
	}

	logger.Info().Int("count", students.Len()).Str("dir", dir).Msg("Cached students")
	return nil
}

func fetchGroups(ctx context.Context, out io.Writer, course *lms.Course, root string) error {
	fmt.Fprintln(out, "Fetching group categories..")

	dir := filepath.Join(root, "groups")
	if err := workspace.EnsureDir(dir); err != nil {
		return err
	}

	listing, err := course.GroupCategories(ctx)
	if err != nil {
		return err
	}
	if _, err := listing.Cache(dir); err != nil {
		return err
	}

	fmt.Fprintln(out, "Fetching group lists for each category..")
	for _, gcat := range listing.Categories() {
		fmt.Fprintf(out, "Fetching %s..\n", gcat.Name())
		if _, err := cacheGroupList(ctx, gcat, dir); err != nil {
			return err
		}
	}
	return nil
}

func cacheGroupList(ctx context.Context, gcat *lms.GroupCategory, dir string) (string, error) {
	groups, err := gcat.GroupList(ctx)
	if err != nil {
		return "", err
	}
	return groups.Cache(filepath.Join(dir, normalizePathname(gcat.Name())+".yml"))
}
