package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/staffeli/format"
	"github.com/s0up4200/staffeli/lms"
)

var sectionCmd = &cobra.Command{
	Use:   "section",
	Short: "Manage course sections",
}

var sectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sections with their size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		course, _, err := currentCourse(cmd.Context())
		if err != nil {
			return err
		}
		sections, err := course.ListSections(cmd.Context())
		if err != nil {
			return err
		}
		format.Entities(cmd.OutOrStdout(), sections, "id", "name", "total_students")
		return nil
	},
}

var sectionAddCmd = &cobra.Command{
	Use:   "add <name>...",
	Short: "Create a section",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		course, _, err := currentCourse(cmd.Context())
		if err != nil {
			return err
		}
		created, err := course.CreateSection(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created section %s.\n", created.Label())
		return nil
	},
}

var sectionEnrollCmd = &cobra.Command{
	Use:   "enroll <section> <user id>",
	Short: "Enroll a user in a section",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		userID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", args[1], err)
		}

		course, _, err := currentCourse(ctx)
		if err != nil {
			return err
		}
		section, err := course.Section(ctx, sectionSelector(args[0]))
		if err != nil {
			return err
		}
		if _, err := section.Enroll(ctx, userID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Enrolled %d in %s.\n", userID, section.Name())
		return nil
	},
}

var sectionDeleteCmd = &cobra.Command{
	Use:   "delete <section>",
	Short: "Delete a section",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		course, _, err := currentCourse(ctx)
		if err != nil {
			return err
		}
		section, err := course.Section(ctx, sectionSelector(args[0]))
		if err != nil {
			return err
		}
		if _, err := section.Delete(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted section %s.\n", section.Entity().Label())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sectionCmd)
	sectionCmd.AddCommand(sectionListCmd, sectionAddCmd, sectionEnrollCmd, sectionDeleteCmd)
}

func sectionSelector(arg string) lms.Selector {
	return groupSelector(arg)
}
