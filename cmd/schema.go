package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/catalog"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/events"
	"github.com/EO-DataHub/eodhp-directory-admin/models"
	"github.com/spf13/cobra"
)

var (
	attributeType     string
	attributeList     bool
	attributeVisible  bool
	attributeEditable bool
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Add and delete user and group attributes",
}

var schemaAddCmd = &cobra.Command{
	Use:       "add <user|group> <name>",
	Short:     "Add an attribute to the user or group schema",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"user", "group"},
	RunE: func(cmd *cobra.Command, args []string) error {
		def := catalog.AttributeDefinition{
			Name:       args[1],
			Type:       models.AttributeType(strings.ToUpper(attributeType)),
			IsList:     attributeList,
			IsVisible:  attributeVisible,
			IsEditable: attributeEditable,
		}

		ctx := commandContext(cmd)
		c := newCatalog(ctx)

		var (
			entity string
			create func(context.Context, catalog.AttributeDefinition) error
		)
		switch args[0] {
		case "user":
			entity, create = events.EntityUserAttribute, c.CreateUserAttribute
		case "group":
			entity, create = events.EntityGroupAttribute, c.CreateGroupAttribute
		default:
			return fmt.Errorf("unknown schema %q, expected user or group", args[0])
		}

		if err := create(ctx, def); err != nil {
			return err
		}

		notifier := newNotifier()
		defer notifier.Close()
		events.Notify(ctx, notifier, events.NewEvent(events.ActionCreate, entity, def.Name))

		fmt.Fprintf(cmd.OutOrStdout(), "Attribute %s added to the %s schema\n", def.Name, args[0])
		return nil
	},
}

var schemaDeleteCmd = &cobra.Command{
	Use:       "delete <user|group> <name>",
	Short:     "Delete an attribute from the user or group schema",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"user", "group"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		c := newCatalog(ctx)

		var (
			entity string
			remove func(context.Context, string) error
		)
		switch args[0] {
		case "user":
			entity, remove = events.EntityUserAttribute, c.DeleteUserAttribute
		case "group":
			entity, remove = events.EntityGroupAttribute, c.DeleteGroupAttribute
		default:
			return fmt.Errorf("unknown schema %q, expected user or group", args[0])
		}

		if err := remove(ctx, args[1]); err != nil {
			return err
		}

		notifier := newNotifier()
		defer notifier.Close()
		events.Notify(ctx, notifier, events.NewEvent(events.ActionDelete, entity, args[1]))

		fmt.Fprintf(cmd.OutOrStdout(), "Attribute %s deleted from the %s schema\n", args[1], args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.AddCommand(schemaAddCmd, schemaDeleteCmd)

	schemaAddCmd.Flags().StringVar(&attributeType, "type", string(models.AttributeString),
		"attribute type: STRING, INTEGER, JPEG_PHOTO or DATE_TIME")
	schemaAddCmd.Flags().BoolVar(&attributeList, "list", false, "the attribute holds a list of values")
	schemaAddCmd.Flags().BoolVar(&attributeVisible, "visible", true, "the attribute is visible to users")
	schemaAddCmd.Flags().BoolVar(&attributeEditable, "editable", false, "users may edit the attribute")
}
