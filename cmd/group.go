package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/s0up4200/staffeli/format"
	"github.com/s0up4200/staffeli/lms"
)

var deleteAllGroups bool

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage the groups of a group category",
}

var groupCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the group categories of the course",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		course, _, err := currentCourse(cmd.Context())
		if err != nil {
			return err
		}
		list, err := course.ListGroupCategories(cmd.Context())
		if err != nil {
			return err
		}
		format.Entities(cmd.OutOrStdout(), list, "id", "name", "group_limit")
		return nil
	},
}

var groupCategoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Create or delete group categories",
}

var groupCategoryAddCmd = &cobra.Command{
	Use:   "add <name>...",
	Short: "Create a group category",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		course, _, err := currentCourse(cmd.Context())
		if err != nil {
			return err
		}
		created, err := course.CreateGroupCategory(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created group category %s.\n", created.Label())
		return nil
	},
}

var groupCategoryDeleteCmd = &cobra.Command{
	Use:   "delete <category>",
	Short: "Delete a group category with all its groups",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		course, _, err := currentCourse(ctx)
		if err != nil {
			return err
		}
		gcat, err := course.GroupCategory(ctx, groupSelector(args[0]))
		if err != nil {
			return err
		}
		if _, err := course.DeleteGroupCategory(ctx, gcat.ID()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted group category %s.\n", gcat.Entity().Label())
		return nil
	},
}

var groupListCmd = &cobra.Command{
	Use:   "list <category>",
	Short: "List the groups of a category with their members",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		course, _, err := currentCourse(ctx)
		if err != nil {
			return err
		}
		gcat, err := course.GroupCategory(ctx, lms.ByName(args[0]))
		if err != nil {
			return err
		}
		groups, err := gcat.GroupList(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, format.Heading(gcat.Name()+" group", groups.Len()))

		t := format.NewTable(out)
		t.AppendHeader(table.Row{"ID", "Name", "Members"})
		for _, g := range groups.Entities() {
			t.AppendRow(table.Row{g.MustID(), g.Name(), format.Value(g["members"])})
		}
		t.Render()
		return nil
	},
}

var groupAddCmd = &cobra.Command{
	Use:   "add <category> <name> [user id...]",
	Short: "Create a group, optionally with members",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ids, err := parseIDs(args[2:])
		if err != nil {
			return err
		}

		course, _, err := currentCourse(ctx)
		if err != nil {
			return err
		}
		gcat, err := course.GroupCategory(ctx, lms.ByName(args[0]))
		if err != nil {
			return err
		}

		created, err := gcat.CreateGroup(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created group %s in %s.\n", created.Label(), gcat.Name())

		if len(ids) == 0 {
			return nil
		}
		group, err := gcat.Group(ctx, lms.ByID(created.MustID()))
		if err != nil {
			return err
		}
		if _, err := group.AddMembers(ctx, ids); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d members.\n", len(ids))
		return nil
	},
}

var groupSetCmd = &cobra.Command{
	Use:   "set <category> <group> <user id>...",
	Short: "Replace the members of a group",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ids, err := parseIDs(args[2:])
		if err != nil {
			return err
		}

		course, _, err := currentCourse(ctx)
		if err != nil {
			return err
		}
		gcat, err := course.GroupCategory(ctx, lms.ByName(args[0]))
		if err != nil {
			return err
		}
		group, err := gcat.Group(ctx, groupSelector(args[1]))
		if err != nil {
			return err
		}

		if _, err := group.AddMembers(ctx, ids); err != nil {
			return err
		}

		members, err := group.Members(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", format.Heading(group.Name()+" member", len(members)), group.WebURL())
		format.Entities(out, members, "id", "name", "sis_login_id")
		return nil
	},
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete <category> [group]",
	Short: "Delete a group, or with --all every group of the category",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if deleteAllGroups == (len(args) == 2) {
			return fmt.Errorf("give either a group or --all")
		}

		course, _, err := currentCourse(ctx)
		if err != nil {
			return err
		}
		gcat, err := course.GroupCategory(ctx, lms.ByName(args[0]))
		if err != nil {
			return err
		}

		if deleteAllGroups {
			n, err := gcat.DeleteAllGroups(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted %d groups from %s.\n", n, gcat.Name())
			return nil
		}

		group, err := gcat.Group(ctx, groupSelector(args[1]))
		if err != nil {
			return err
		}
		if _, err := group.Delete(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted group %s.\n", group.Entity().Label())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(groupCmd)
	groupCmd.AddCommand(groupCategoriesCmd, groupCategoryCmd, groupListCmd, groupAddCmd, groupSetCmd, groupDeleteCmd)
	groupCategoryCmd.AddCommand(groupCategoryAddCmd, groupCategoryDeleteCmd)

	groupDeleteCmd.Flags().BoolVar(&deleteAllGroups, "all", false, "delete every group of the category")
}

// groupSelector treats an all-digit argument as a group id.
func groupSelector(arg string) lms.Selector {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return lms.ByID(id)
	}
	return lms.ByName(arg)
}

// parseIDs parses Canvas user ids, accepting comma separated lists too.
func parseIDs(args []string) ([]int64, error) {
	var ids []int64
	for _, arg := range args {
		for _, field := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' }) {
			id, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid user id %q: %w", field, err)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
