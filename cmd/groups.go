package cmd

import (
	"fmt"
	"strconv"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/events"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/render"
	"github.com/spf13/cobra"
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List, show and delete groups",
}

var groupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		groups, err := newCatalog(ctx).GetGroupList(ctx)
		if err != nil {
			return err
		}
		return render.Groups(cmd.OutOrStdout(), groups)
	},
}

var groupsShowCmd = &cobra.Command{
	Use:   "show <group-id>",
	Short: "Show a group with its members and attributes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID, err := parseGroupID(args[0])
		if err != nil {
			return err
		}

		ctx := commandContext(cmd)
		group, err := newCatalog(ctx).GetGroupDetails(ctx, groupID)
		if err != nil {
			return err
		}
		return render.Group(cmd.OutOrStdout(), group)
	},
}

var groupsDeleteCmd = &cobra.Command{
	Use:   "delete <group-id>",
	Short: "Delete a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID, err := parseGroupID(args[0])
		if err != nil {
			return err
		}

		ctx := commandContext(cmd)
		if err := newCatalog(ctx).DeleteGroup(ctx, groupID); err != nil {
			return err
		}

		notifier := newNotifier()
		defer notifier.Close()
		events.Notify(ctx, notifier, events.NewEvent(events.ActionDelete, events.EntityGroup, args[0]))

		fmt.Fprintf(cmd.OutOrStdout(), "Group %d deleted\n", groupID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(groupsCmd)
	groupsCmd.AddCommand(groupsListCmd, groupsShowCmd, groupsDeleteCmd)
}

func parseGroupID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid group id %q", arg)
	}
	return id, nil
}
