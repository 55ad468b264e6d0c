// Attribute-definition commands manage the reusable typed attribute schema.
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kindlab/metastore/pkg/types"
)

var (
	attrDefName        string
	attrDefDescription string
	attrDefValueType   string
	attrDefDefault     string
	attrDefRequired    bool
	attrDefTagID       string
)

var attrDefCmd = &cobra.Command{
	Use:   "attrdef",
	Short: "Manage attribute definitions",
}

var attrDefListCmd = &cobra.Command{
	Use:   "list",
	Short: "List attribute definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		defs, err := services.AttrDefs.List(cmd.Context(), pagination())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(defs)
		}
		if len(defs) == 0 {
			fmt.Println("No attribute definitions found.")
			return nil
		}
		var sb strings.Builder
		w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tDEFAULT\tREQUIRED")
		for _, def := range defs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n",
				shortID(def.ID), def.Name, def.ValueType.Label(), def.DefaultValue, def.IsRequired)
		}
		w.Flush()
		fmt.Print(sb.String())
		return nil
	},
}

var attrDefGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show an attribute definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := services.AttrDefs.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if def == nil {
			return fmt.Errorf("attribute definition %s not found", args[0])
		}
		return printJSON(def)
	},
}

var attrDefAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an attribute definition",
	Long: `Add creates an attribute definition with the given value type.

Value types: ` + valueTypeCodes() + `

Example:
  metastore attrdef add --name title --type text --default Untitled
  metastore attrdef add --name pages --type integer --required`,
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := services.AttrDefs.Add(cmd.Context(), &types.AttributeDef{
			Name:         attrDefName,
			Description:  optString(attrDefDescription),
			ValueType:    types.ValueTypeFromCode(attrDefValueType),
			DefaultValue: attrDefDefault,
			IsRequired:   attrDefRequired,
			TagID:        optString(attrDefTagID),
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(def)
		}
		fmt.Printf("Created attribute definition: %s\n", def.ID)
		return nil
	},
}

var attrDefUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit an attribute definition",
	Long: `Update edits an attribute definition. Renaming it also renames the
cached listing attribute of every entity listing by it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := services.AttrDefs.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if def == nil {
			return fmt.Errorf("attribute definition %s not found", args[0])
		}
		if attrDefName != "" {
			def.Name = attrDefName
		}
		if attrDefDescription != "" {
			def.Description = optString(attrDefDescription)
		}
		if cmd.Flags().Changed("default") {
			def.DefaultValue = attrDefDefault
		}
		if cmd.Flags().Changed("required") {
			def.IsRequired = attrDefRequired
		}
		if err := services.AttrDefs.Update(cmd.Context(), def); err != nil {
			return err
		}
		fmt.Printf("Updated attribute definition: %s\n", def.ID)
		return nil
	},
}

var attrDefDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an attribute definition",
	Long: `Delete removes an attribute definition. The delete is rejected when
any entity or link definition still references it; the error names the
dependents.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := services.AttrDefs.Remove(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted attribute definition: %s\n", args[0])
		return nil
	},
}

// valueTypeCodes renders the machine codes of every value type.
func valueTypeCodes() string {
	codes := make([]string, len(types.AllValueTypes))
	for i, vt := range types.AllValueTypes {
		codes[i] = vt.Code()
	}
	return strings.Join(codes, ", ")
}

func init() {
	addPageFlags(attrDefListCmd)

	attrDefAddCmd.Flags().StringVar(&attrDefName, "name", "", "definition name (required)")
	attrDefAddCmd.Flags().StringVar(&attrDefDescription, "description", "", "definition description")
	attrDefAddCmd.Flags().StringVar(&attrDefValueType, "type", "text", "value type")
	attrDefAddCmd.Flags().StringVar(&attrDefDefault, "default", "", "default value for new instances")
	attrDefAddCmd.Flags().BoolVar(&attrDefRequired, "required", false, "mark the attribute required")
	attrDefAddCmd.Flags().StringVar(&attrDefTagID, "tag", "", "tag id")
	_ = attrDefAddCmd.MarkFlagRequired("name")

	attrDefUpdateCmd.Flags().StringVar(&attrDefName, "name", "", "new name")
	attrDefUpdateCmd.Flags().StringVar(&attrDefDescription, "description", "", "new description")
	attrDefUpdateCmd.Flags().StringVar(&attrDefDefault, "default", "", "new default value")
	attrDefUpdateCmd.Flags().BoolVar(&attrDefRequired, "required", false, "mark the attribute required")

	attrDefCmd.AddCommand(attrDefListCmd)
	attrDefCmd.AddCommand(attrDefGetCmd)
	attrDefCmd.AddCommand(attrDefAddCmd)
	attrDefCmd.AddCommand(attrDefUpdateCmd)
	attrDefCmd.AddCommand(attrDefDeleteCmd)
}
