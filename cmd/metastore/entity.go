// Entity commands manage instances of runtime-defined record kinds.
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kindlab/metastore/pkg/types"
)

var (
	entityDefID string
	entitySets  []string
)

var entityCmd = &cobra.Command{
	Use:   "entity",
	Short: "Manage entities",
}

var entityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List entities",
	Long: `List shows entity headers using the denormalized listing attribute;
attribute instances are not loaded. Use --def to restrict to one kind.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			ents []types.Entity
			err  error
		)
		if entityDefID != "" {
			ents, err = services.Entities.ListByDefID(cmd.Context(), entityDefID, pagination())
		} else {
			ents, err = services.Entities.List(cmd.Context(), pagination())
		}
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(ents)
		}
		if len(ents) == 0 {
			fmt.Println("No entities found.")
			return nil
		}
		var sb strings.Builder
		w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKIND\tLISTING\tVALUE")
		for _, ent := range ents {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				shortID(ent.ID), ent.Kind, ent.ListingAttrName, ent.ListingAttrValue)
		}
		w.Flush()
		fmt.Print(sb.String())
		fmt.Printf("Total: %d\n", len(ents))
		return nil
	},
}

var entityGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show an entity with its attributes in display order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ent, err := services.Entities.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if ent == nil {
			return fmt.Errorf("entity %s not found", args[0])
		}
		return printJSON(ent)
	},
}

var entityAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an entity",
	Long: `Add creates an entity of the given definition. Every referenced
attribute gets an instance seeded from its default value; --set overrides
individual values by attribute name.

Example:
  metastore entity add --def <book-def-id> --set "title=Dune" --set "pages=412"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ent, err := services.Entities.NewEntity(cmd.Context(), entityDefID)
		if err != nil {
			return err
		}
		for _, s := range entitySets {
			name, value, err := parseSetPair(s)
			if err != nil {
				return err
			}
			if err := setEntityAttribute(ent, name, value); err != nil {
				return err
			}
		}
		ent, err = services.Entities.Add(cmd.Context(), ent)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(ent)
		}
		fmt.Printf("Created entity: %s\n", ent.ID)
		return nil
	},
}

var entityUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit an entity's attribute values",
	Long: `Update writes new attribute values by name. Writing the listing
attribute also refreshes the entity's cached listing value.

Example:
  metastore entity update <id> --set "title=Dune Messiah"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ent, err := services.Entities.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if ent == nil {
			return fmt.Errorf("entity %s not found", args[0])
		}
		for _, s := range entitySets {
			name, value, err := parseSetPair(s)
			if err != nil {
				return err
			}
			if err := setEntityAttribute(ent, name, value); err != nil {
				return err
			}
		}
		if err := services.Entities.Update(cmd.Context(), ent); err != nil {
			return err
		}
		fmt.Printf("Updated entity: %s\n", ent.ID)
		return nil
	},
}

var entityDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an entity and its attribute instances",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := services.Entities.Remove(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted entity: %s\n", args[0])
		return nil
	},
}

func init() {
	addPageFlags(entityListCmd)
	entityListCmd.Flags().StringVar(&entityDefID, "def", "", "restrict to one entity definition id")

	entityAddCmd.Flags().StringVar(&entityDefID, "def", "", "entity definition id (required)")
	entityAddCmd.Flags().StringArrayVar(&entitySets, "set", nil, "attribute assignment name=value, repeatable")
	_ = entityAddCmd.MarkFlagRequired("def")

	entityUpdateCmd.Flags().StringArrayVar(&entitySets, "set", nil, "attribute assignment name=value, repeatable")

	entityCmd.AddCommand(entityListCmd)
	entityCmd.AddCommand(entityGetCmd)
	entityCmd.AddCommand(entityAddCmd)
	entityCmd.AddCommand(entityUpdateCmd)
	entityCmd.AddCommand(entityDeleteCmd)
}
