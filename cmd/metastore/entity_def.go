// Entity-definition commands manage runtime-defined record kinds.
package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kindlab/metastore/pkg/types"
)

var (
	entityDefName        string
	entityDefDescription string
	entityDefAttrIDs     []string
	entityDefListing     string
)

var entityDefCmd = &cobra.Command{
	Use:   "entdef",
	Short: "Manage entity definitions",
}

var entityDefListCmd = &cobra.Command{
	Use:   "list",
	Short: "List entity definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		defs, err := services.EntityDefs.List(cmd.Context(), pagination())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(defs)
		}
		if len(defs) == 0 {
			fmt.Println("No entity definitions found.")
			return nil
		}
		var sb strings.Builder
		w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tATTRIBUTES")
		for _, def := range defs {
			names := make([]string, len(def.Attributes))
			for i, attr := range def.Attributes {
				names[i] = attr.Name
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", shortID(def.ID), def.Name, strings.Join(names, ", "))
		}
		w.Flush()
		fmt.Print(sb.String())
		return nil
	},
}

var entityDefGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show an entity definition with its ordered attributes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := services.EntityDefs.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if def == nil {
			return fmt.Errorf("entity definition %s not found", args[0])
		}
		return printJSON(def)
	},
}

var entityDefAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an entity definition",
	Long: `Add creates an entity definition referencing existing attribute
definitions. The order of --attr flags is the display order of the
attributes on every entity of this kind.

Example:
  metastore entdef add --name Book --attr <title-id> --attr <pages-id> --listing <title-id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs, err := resolveAttrDefs(cmd.Context(), entityDefAttrIDs)
		if err != nil {
			return err
		}
		def, err := services.EntityDefs.Add(cmd.Context(), &types.EntityDef{
			Name:             entityDefName,
			Description:      optString(entityDefDescription),
			Attributes:       attrs,
			ListingAttrDefID: entityDefListing,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(def)
		}
		fmt.Printf("Created entity definition: %s\n", def.ID)
		return nil
	},
}

var entityDefUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit an entity definition",
	Long: `Update edits an entity definition. Passing --attr flags replaces the
whole membership in the given order; changing --listing rebuilds the cached
listing attribute of every entity of this kind.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := services.EntityDefs.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if def == nil {
			return fmt.Errorf("entity definition %s not found", args[0])
		}
		if entityDefName != "" {
			def.Name = entityDefName
		}
		if entityDefDescription != "" {
			def.Description = optString(entityDefDescription)
		}
		if cmd.Flags().Changed("attr") {
			attrs, err := resolveAttrDefs(cmd.Context(), entityDefAttrIDs)
			if err != nil {
				return err
			}
			def.Attributes = attrs
		}
		if cmd.Flags().Changed("listing") {
			def.ListingAttrDefID = entityDefListing
		}
		if err := services.EntityDefs.Update(cmd.Context(), def); err != nil {
			return err
		}
		fmt.Printf("Updated entity definition: %s\n", def.ID)
		return nil
	},
}

var entityDefDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an entity definition",
	Long: `Delete removes an entity definition. The delete is rejected when
entities or link definitions still depend on it; the error names the
dependents.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := services.EntityDefs.Remove(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted entity definition: %s\n", args[0])
		return nil
	},
}

// resolveAttrDefs loads the referenced attribute definitions, preserving the
// argument order.
func resolveAttrDefs(ctx context.Context, ids []string) ([]types.AttributeDef, error) {
	attrs := make([]types.AttributeDef, 0, len(ids))
	for _, id := range ids {
		def, err := services.AttrDefs.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if def == nil {
			return nil, fmt.Errorf("attribute definition %s not found", id)
		}
		attrs = append(attrs, *def)
	}
	return attrs, nil
}

func init() {
	addPageFlags(entityDefListCmd)

	entityDefAddCmd.Flags().StringVar(&entityDefName, "name", "", "definition name (required)")
	entityDefAddCmd.Flags().StringVar(&entityDefDescription, "description", "", "definition description")
	entityDefAddCmd.Flags().StringArrayVar(&entityDefAttrIDs, "attr", nil, "attribute definition id, repeatable, in display order")
	entityDefAddCmd.Flags().StringVar(&entityDefListing, "listing", "", "listing attribute definition id")
	_ = entityDefAddCmd.MarkFlagRequired("name")

	entityDefUpdateCmd.Flags().StringVar(&entityDefName, "name", "", "new name")
	entityDefUpdateCmd.Flags().StringVar(&entityDefDescription, "description", "", "new description")
	entityDefUpdateCmd.Flags().StringArrayVar(&entityDefAttrIDs, "attr", nil, "attribute definition id, repeatable, replaces the membership")
	entityDefUpdateCmd.Flags().StringVar(&entityDefListing, "listing", "", "new listing attribute definition id")

	entityDefCmd.AddCommand(entityDefListCmd)
	entityDefCmd.AddCommand(entityDefGetCmd)
	entityDefCmd.AddCommand(entityDefAddCmd)
	entityDefCmd.AddCommand(entityDefUpdateCmd)
	entityDefCmd.AddCommand(entityDefDeleteCmd)
}
