package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/creation"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/events"
	"github.com/spf13/cobra"
)

var (
	newUser    creation.UserFields
	avatarFile string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user or a group",
}

var createUserCmd = &cobra.Command{
	Use:   "user",
	Short: "Create a user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fields := newUser
		if avatarFile != "" {
			avatar, err := os.ReadFile(avatarFile)
			if err != nil {
				return fmt.Errorf("failed to read avatar: %w", err)
			}
			fields.Avatar = avatar
		}

		ctx := commandContext(cmd)
		notifier := newNotifier()
		defer notifier.Close()

		form := creation.Form{Mode: creation.ModeUser, User: fields}
		return submitForm(ctx, form, newCatalog(ctx), notifier, cmd.OutOrStdout())
	},
}

var createGroupCmd = &cobra.Command{
	Use:   "group <name>",
	Short: "Create a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		notifier := newNotifier()
		defer notifier.Close()

		form := creation.Form{Mode: creation.ModeGroup, Group: creation.GroupFields{GroupName: args[0]}}
		return submitForm(ctx, form, newCatalog(ctx), notifier, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.AddCommand(createUserCmd, createGroupCmd)

	flags := createUserCmd.Flags()
	flags.StringVar(&newUser.ID, "id", "", "user id")
	flags.StringVar(&newUser.Email, "email", "", "email address")
	flags.StringVar(&newUser.Password, "password", "", "initial password")
	flags.StringVar(&newUser.ConfirmPassword, "confirm-password", "", "initial password, repeated")
	flags.StringVar(&newUser.DisplayName, "display-name", "", "display name")
	flags.StringVar(&newUser.FirstName, "first-name", "", "first name")
	flags.StringVar(&newUser.LastName, "last-name", "", "last name")
	flags.StringVar(&avatarFile, "avatar", "", "path to a JPEG avatar")
}

// submitForm submits the creation form and prints what was created, or every
// failed validation rule.
func submitForm(ctx context.Context, form creation.Form, c creation.Creator, notifier events.Notifier, w io.Writer) error {
	result, err := form.Submit(ctx, c)

	var invalid *creation.ValidationError
	if errors.As(err, &invalid) {
		for _, message := range invalid.Messages() {
			fmt.Fprintf(w, "  - %s\n", message)
		}
		return errors.New("the form is invalid, nothing was created")
	}
	if err != nil {
		return err
	}

	if result.Mode == creation.ModeGroup {
		groupID := strconv.Itoa(result.GroupID)
		events.Notify(ctx, notifier, events.NewEvent(events.ActionCreate, events.EntityGroup, groupID))
		_, err = fmt.Fprintf(w, "Group %s created with id %s\n", result.DisplayName, groupID)
		return err
	}

	events.Notify(ctx, notifier, events.NewEvent(events.ActionCreate, events.EntityUser, result.UserID))
	_, err = fmt.Fprintf(w, "User %s created\n", result.UserID)
	return err
}
