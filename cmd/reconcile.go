package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/editor"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/events"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/render"
	"github.com/EO-DataHub/eodhp-directory-admin/models"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var (
	membershipFile string
	reconcileDry   bool
)

// Membership maps user ids to the display names of the groups they belong to.
type Membership struct {
	Users map[string][]string `yaml:"users"`
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Bring the group membership of users in line with a membership file",
	Long: `Read a YAML file of the form

  users:
    alice: [admins, developers]

and add or remove group memberships until each listed user belongs to exactly
the named groups. Users missing from the file are left alone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		membership, err := loadMembership(membershipFile)
		if err != nil {
			return err
		}

		ctx := commandContext(cmd)
		notifier := newNotifier()
		defer notifier.Close()

		return reconcile(ctx, newCatalog(ctx), notifier, cmd.OutOrStdout(), membership, reconcileDry)
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
	reconcileCmd.Flags().StringVar(&membershipFile, "file", "membership.yaml", "path to the membership file")
	reconcileCmd.Flags().BoolVar(&reconcileDry, "dry-run", false, "print the changes without saving them")
}

func loadMembership(path string) (*Membership, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read membership file: %w", err)
	}

	var m Membership
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse membership file: %w", err)
	}
	return &m, nil
}

// reconcile saves each listed user in turn and keeps going past failures. It
// returns an error naming how many users could not be reconciled.
func reconcile(ctx context.Context, c editor.Catalog, notifier events.Notifier, w io.Writer, m *Membership, dryRun bool) error {
	logger := zerolog.Ctx(ctx)

	userIDs := make([]string, 0, len(m.Users))
	for id := range m.Users {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)

	failed := 0
	for _, userID := range userIDs {
		if err := reconcileUser(ctx, c, notifier, w, userID, m.Users[userID], dryRun); err != nil {
			logger.Error().Err(err).Str("user_id", userID).Msg("failed to reconcile user")
			fmt.Fprintf(w, "%s: %s\n", userID, err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d users could not be reconciled", failed, len(userIDs))
	}
	return nil
}

func reconcileUser(ctx context.Context, c editor.Catalog, notifier events.Notifier, w io.Writer, userID string, groupNames []string, dryRun bool) error {
	ed := editor.New(c, userID)
	if err := ed.Load(ctx); err != nil {
		return err
	}

	ids, err := groupIDsByName(ed.AllGroups(), groupNames)
	if err != nil {
		return err
	}
	if err := ed.SetGroups(ids); err != nil {
		return err
	}

	diff := ed.Diff()
	if diff.Empty() {
		fmt.Fprintf(w, "%s: up to date\n", userID)
		return nil
	}

	if dryRun {
		for _, g := range diff.Added {
			fmt.Fprintf(w, "%s: + %s\n", userID, g.DisplayName)
		}
		for _, g := range diff.Removed {
			fmt.Fprintf(w, "%s: - %s\n", userID, g.DisplayName)
		}
		return nil
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
		return fmt.Errorf("%s", report.LastError())
	}
	return nil
}

func groupIDsByName(all []models.Group, names []string) ([]int, error) {
	byName := make(map[string]int, len(all))
	for _, g := range all {
		byName[g.DisplayName] = g.ID
	}

	ids := make([]int, 0, len(names))
	for _, name := range names {
		id, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%q: %w", name, editor.ErrUnknownGroup)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
