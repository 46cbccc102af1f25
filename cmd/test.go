package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/staffeli/format"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to Canvas",
	Long:  `Test the access token against Canvas and list the courses it can see.`,
	RunE:  runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Testing connection to Canvas at %s...\n", client.APIBase())

	profile, err := client.TestConnection(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Connected as %s (id %d)\n", profile.Name(), profile.MustID())

	courses, err := session.Courses(ctx)
	if err != nil {
		return fmt.Errorf("failed to list courses: %w", err)
	}

	fmt.Fprintf(out, "\n%s\n", format.Heading("Course", len(courses)))
	format.Entities(out, courses, "id", "name", "course_code")
	return nil
}
