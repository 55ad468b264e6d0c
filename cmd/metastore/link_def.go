// Link-definition commands manage the shapes of relationships between
// entity kinds.
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kindlab/metastore/pkg/types"
)

var (
	linkDefName        string
	linkDefDescription string
	linkDefCardinality string
	linkDefSource      string
	linkDefTarget      string
	linkDefAttrIDs     []string
)

var linkDefCmd = &cobra.Command{
	Use:   "linkdef",
	Short: "Manage entity link definitions",
}

var linkDefListCmd = &cobra.Command{
	Use:   "list",
	Short: "List link definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		defs, err := services.LinkDefs.List(cmd.Context(), pagination())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(defs)
		}
		if len(defs) == 0 {
			fmt.Println("No link definitions found.")
			return nil
		}
		var sb strings.Builder
		w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCARDINALITY\tSOURCE\tTARGET")
		for _, def := range defs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				shortID(def.ID), def.Name, def.Cardinality.Code(),
				shortID(def.SourceEntityDefID), shortID(def.TargetEntityDefID))
		}
		w.Flush()
		fmt.Print(sb.String())
		return nil
	},
}

var linkDefGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a link definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := services.LinkDefs.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if def == nil {
			return fmt.Errorf("link definition %s not found", args[0])
		}
		return printJSON(def)
	},
}

var linkDefAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a link definition",
	Long: `Add creates a link definition between two entity definitions.

Cardinalities: 1:1, 1:M, M:M

Example:
  metastore linkdef add --name "authored by" --source <book-id> --target <author-id> --cardinality M:M`,
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs, err := resolveAttrDefs(cmd.Context(), linkDefAttrIDs)
		if err != nil {
			return err
		}
		def, err := services.LinkDefs.Add(cmd.Context(), &types.EntityLinkDef{
			Name:              linkDefName,
			Description:       optString(linkDefDescription),
			Cardinality:       types.CardinalityFromCode(linkDefCardinality),
			SourceEntityDefID: linkDefSource,
			TargetEntityDefID: linkDefTarget,
			Attributes:        attrs,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(def)
		}
		fmt.Printf("Created link definition: %s\n", def.ID)
		return nil
	},
}

var linkDefUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit a link definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := services.LinkDefs.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if def == nil {
			return fmt.Errorf("link definition %s not found", args[0])
		}
		if linkDefName != "" {
			def.Name = linkDefName
		}
		if linkDefDescription != "" {
			def.Description = optString(linkDefDescription)
		}
		if cmd.Flags().Changed("cardinality") {
			def.Cardinality = types.CardinalityFromCode(linkDefCardinality)
		}
		if cmd.Flags().Changed("attr") {
			attrs, err := resolveAttrDefs(cmd.Context(), linkDefAttrIDs)
			if err != nil {
				return err
			}
			def.Attributes = attrs
		}
		if err := services.LinkDefs.Update(cmd.Context(), def); err != nil {
			return err
		}
		fmt.Printf("Updated link definition: %s\n", def.ID)
		return nil
	},
}

var linkDefDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a link definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := services.LinkDefs.Remove(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted link definition: %s\n", args[0])
		return nil
	},
}

func init() {
	addPageFlags(linkDefListCmd)

	linkDefAddCmd.Flags().StringVar(&linkDefName, "name", "", "definition name (required)")
	linkDefAddCmd.Flags().StringVar(&linkDefDescription, "description", "", "definition description")
	linkDefAddCmd.Flags().StringVar(&linkDefCardinality, "cardinality", "1:1", "link cardinality (1:1, 1:M, M:M)")
	linkDefAddCmd.Flags().StringVar(&linkDefSource, "source", "", "source entity definition id (required)")
	linkDefAddCmd.Flags().StringVar(&linkDefTarget, "target", "", "target entity definition id (required)")
	linkDefAddCmd.Flags().StringArrayVar(&linkDefAttrIDs, "attr", nil, "attribute definition id, repeatable")
	_ = linkDefAddCmd.MarkFlagRequired("name")
	_ = linkDefAddCmd.MarkFlagRequired("source")
	_ = linkDefAddCmd.MarkFlagRequired("target")

	linkDefUpdateCmd.Flags().StringVar(&linkDefName, "name", "", "new name")
	linkDefUpdateCmd.Flags().StringVar(&linkDefDescription, "description", "", "new description")
	linkDefUpdateCmd.Flags().StringVar(&linkDefCardinality, "cardinality", "", "new cardinality")
	linkDefUpdateCmd.Flags().StringArrayVar(&linkDefAttrIDs, "attr", nil, "attribute definition id, repeatable, replaces the membership")

	linkDefCmd.AddCommand(linkDefListCmd)
	linkDefCmd.AddCommand(linkDefGetCmd)
	linkDefCmd.AddCommand(linkDefAddCmd)
	linkDefCmd.AddCommand(linkDefUpdateCmd)
	linkDefCmd.AddCommand(linkDefDeleteCmd)
}
