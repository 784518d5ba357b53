package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/editor"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/events"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/render"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/search"
	"github.com/spf13/cobra"
)

var (
	userSearch     string
	userSort       string
	userDescending bool

	editFirstName   string
	editLastName    string
	editDisplayName string
	editEmail       string
	editAddGroups   []int
	editRemoveGroup []int
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List, show, edit and delete users",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users, optionally fuzzy-filtered",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		return listUsers(ctx, newCatalog(ctx), cmd.OutOrStdout(), userSearch, userSort, userDescending)
	},
}

var usersShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show a user and its groups",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		ed := editor.New(newCatalog(ctx), args[0])
		if err := ed.Load(ctx); err != nil {
			return err
		}
		return render.UserDetail(cmd.OutOrStdout(), ed)
	},
}

var usersEditCmd = &cobra.Command{
	Use:   "edit <user-id>",
	Short: "Edit the fields and group membership of a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)

		edits := userEdits{
			fields: map[string]string{},
			add:    editAddGroups,
			remove: editRemoveGroup,
		}
		flagFields := map[string]*string{
			"first-name":   &editFirstName,
			"last-name":    &editLastName,
			"display-name": &editDisplayName,
			"email":        &editEmail,
		}
		for flag, value := range flagFields {
			if cmd.Flags().Changed(flag) {
				edits.fields[fieldNames[flag]] = *value
			}
		}

		notifier := newNotifier()
		defer notifier.Close()

		return editUser(ctx, newCatalog(ctx), notifier, cmd.OutOrStdout(), args[0], edits)
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <user-id>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		if err := newCatalog(ctx).DeleteUser(ctx, args[0]); err != nil {
			return err
		}

		notifier := newNotifier()
		defer notifier.Close()
		events.Notify(ctx, notifier, events.NewEvent(events.ActionDelete, events.EntityUser, args[0]))

		fmt.Fprintf(cmd.OutOrStdout(), "User %s deleted\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd, usersShowCmd, usersEditCmd, usersDeleteCmd)

	usersListCmd.Flags().StringVar(&userSearch, "search", "", "fuzzy search on display name, email, first and last name")
	usersListCmd.Flags().StringVar(&userSort, "sort", "", "sort column: id, email, displayName, firstName, lastName or created")
	usersListCmd.Flags().BoolVar(&userDescending, "desc", false, "sort in descending order")

	usersEditCmd.Flags().StringVar(&editFirstName, "first-name", "", "new first name")
	usersEditCmd.Flags().StringVar(&editLastName, "last-name", "", "new last name")
	usersEditCmd.Flags().StringVar(&editDisplayName, "display-name", "", "new display name")
	usersEditCmd.Flags().StringVar(&editEmail, "email", "", "new email")
	usersEditCmd.Flags().IntSliceVar(&editAddGroups, "add-group", nil, "id of a group to join, repeatable")
	usersEditCmd.Flags().IntSliceVar(&editRemoveGroup, "remove-group", nil, "id of a group to leave, repeatable")
}

// fieldNames maps edit flags to editor field names.
var fieldNames = map[string]string{
	"first-name":   "firstName",
	"last-name":    "lastName",
	"display-name": "displayName",
	"email":        "email",
}

// searchMatcher returns the fuzzy matcher tuned by the config.
func searchMatcher() search.Matcher {
	matcher := search.DefaultMatcher()
	if appCfg != nil && appCfg.Search.Threshold > 0 {
		matcher.Threshold = appCfg.Search.Threshold
	}
	return matcher
}

func listUsers(ctx context.Context, lister search.UserLister, w io.Writer, query, column string, descending bool) error {
	view := search.NewListView(lister, searchMatcher())
	if err := view.Load(ctx); err != nil {
		return err
	}

	view.Filter(query)
	rows := view.Rows()
	if column != "" {
		if err := search.SortBy(rows, column, descending); err != nil {
			return err
		}
	}

	if len(rows) == 0 && query != "" {
		_, err := fmt.Fprintf(w, "No users match %q\n", query)
		return err
	}
	return render.Users(w, rows)
}

// userEdits are the changes requested on the command line.
type userEdits struct {
	fields map[string]string
	add    []int
	remove []int
}

func editUser(ctx context.Context, c editor.Catalog, notifier events.Notifier, w io.Writer, userID string, edits userEdits) error {
	ed := editor.New(c, userID)
	if err := ed.Load(ctx); err != nil {
		return err
	}

	for field, value := range edits.fields {
		if err := ed.SetField(field, value); err != nil {
			return err
		}
	}

	if len(edits.add) > 0 || len(edits.remove) > 0 {
		user, err := ed.Editable()
		if err != nil {
			return err
		}
		leave := make(map[int]bool, len(edits.remove))
		for _, id := range edits.remove {
			leave[id] = true
		}

		var desired []int
		for _, id := range append(user.GroupIDs(), edits.add...) {
			if !leave[id] {
				desired = append(desired, id)
			}
		}
		if err := ed.SetGroups(desired); err != nil {
			return err
		}
	}

	report, err := ed.Save(ctx)
	if err != nil {
		return err
	}

	editor.NotifySaved(ctx, notifier, report)

	if err := render.SaveReport(w, report); err != nil {
		return err
	}
	if !report.OK() {
		return fmt.Errorf("%d of %d calls failed", len(report.Failures()), len(report.Outcomes))
	}
	return nil
}
