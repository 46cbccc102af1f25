package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/staffeli/format"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Look up course users",
}

var userFindCmd = &cobra.Command{
	Use:   "find <term>...",
	Short: "Search the users of the course by name, login or email",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		course, _, err := currentCourse(cmd.Context())
		if err != nil {
			return err
		}
		users, err := course.SearchUsers(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		format.Entities(cmd.OutOrStdout(), users, "id", "name", "login_id", "sis_login_id")
		return nil
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show <user id>",
	Short: "Print a course user as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", args[0], err)
		}
		course, _, err := currentCourse(cmd.Context())
		if err != nil {
			return err
		}
		user, err := course.User(cmd.Context(), id)
		if err != nil {
			return err
		}
		return format.JSON(cmd.OutOrStdout(), user)
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userFindCmd, userShowCmd)
}
