package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/staffeli/format"
)

var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "List or create courses",
}

var courseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the courses the token can see",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		courses, err := session.Courses(cmd.Context())
		if err != nil {
			return err
		}
		format.Entities(cmd.OutOrStdout(), courses, "id", "name", "course_code", "workflow_state")
		return nil
	},
}

var courseCreateCmd = &cobra.Command{
	Use:   "create <name>...",
	Short: "Create a course under canvas.account_id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := session.CreateCourse(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created course %s: %s\n", created.Label(), client.WebURL(fmt.Sprintf("courses/%d", created.MustID())))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(courseCmd)
	courseCmd.AddCommand(courseListCmd, courseCreateCmd)
}
