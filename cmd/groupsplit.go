package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/s0up4200/staffeli/workspace"
)

var groupsplitCmd = &cobra.Command{
	Use:   "groupsplit <subs dir> <group list file>",
	Short: "Split fetched submissions into one directory per group",
	Long: `Create splits/<assignment>/<group>/ for every group of a cached group list
and symlink each member's submission directory into it.

The subs directory may be given as a path or as a name under subs/. The group
list may be given as a path or as a category name under groups/.`,
	Args: cobra.ExactArgs(2),
	RunE: runGroupsplit,
}

func init() {
	rootCmd.AddCommand(groupsplitCmd)
}

func runGroupsplit(cmd *cobra.Command, args []string) error {
	_, root, err := currentCourse(cmd.Context())
	if err != nil {
		return err
	}

	subsDir, err := resolveSubsDir(root, args[0])
	if err != nil {
		return err
	}

	groups, err := session.GroupList(resolveGroupListFile(root, args[1]))
	if err != nil {
		return err
	}
	students, err := courseStudents(root)
	if err != nil {
		return err
	}

	splitDir := filepath.Join(root, "splits", filepath.Base(subsDir))
	if err := workspace.EnsureDir(splitDir); err != nil {
		return err
	}

	linked := 0
	for name, uids := range groups.UIDMap() {
		groupDir := filepath.Join(splitDir, normalizePathname(name))
		if err := workspace.EnsureDir(groupDir); err != nil {
			return err
		}

		for _, uid := range uids {
			dirname, err := students.DirName(uid)
			if err != nil {
				logger.Warn().Err(err).Str("group", name).Msg("Skipping group member")
				continue
			}

			src := filepath.Join(subsDir, dirname)
			if !isDir(src) {
				logger.Debug().Str("group", name).Str("student", dirname).Msg("No submission")
				continue
			}

			rel, err := filepath.Rel(groupDir, src)
			if err != nil {
				return err
			}
			if err := os.Symlink(rel, filepath.Join(groupDir, dirname)); err != nil {
				if errors.Is(err, os.ErrExist) {
					continue
				}
				return fmt.Errorf("failed to link %s: %w", dirname, err)
			}
			linked++
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Linked %d submissions into %s.\n", linked, splitDir)
	return nil
}

func resolveSubsDir(root, arg string) (string, error) {
	if isDir(arg) {
		return filepath.Abs(arg)
	}
	for _, candidate := range []string{
		filepath.Join(root, "subs", arg),
		filepath.Join(root, "subs", assignmentDirName(arg)),
	} {
		if isDir(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("can't resolve subs directory %q: %w", arg, workspace.ErrNotFound)
}

func resolveGroupListFile(root, arg string) string {
	if isFile(arg) {
		return arg
	}
	candidate := filepath.Join(root, "groups", normalizePathname(arg)+".yml")
	if isFile(candidate) {
		return candidate
	}
	return arg
}
