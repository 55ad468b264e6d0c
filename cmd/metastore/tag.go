// Tag commands manage the labels attribute definitions can reference.
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kindlab/metastore/pkg/types"
)

var (
	tagName        string
	tagDescription string
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags",
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		tags, err := services.Tags.List(cmd.Context(), pagination())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(tags)
		}
		if len(tags) == 0 {
			fmt.Println("No tags found.")
			return nil
		}
		var sb strings.Builder
		w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
		for _, tag := range tags {
			fmt.Fprintf(w, "%s\t%s\t%s\n", shortID(tag.ID), tag.Name, derefString(tag.Description))
		}
		w.Flush()
		fmt.Print(sb.String())
		return nil
	},
}

var tagGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, err := services.Tags.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if tag == nil {
			return fmt.Errorf("tag %s not found", args[0])
		}
		if jsonOutput {
			return printJSON(tag)
		}
		fmt.Printf("%s\t%s\t%s\n", tag.ID, tag.Name, derefString(tag.Description))
		return nil
	},
}

var tagAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a tag",
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, err := services.Tags.Add(cmd.Context(), &types.Tag{
			Name:        tagName,
			Description: optString(tagDescription),
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(tag)
		}
		fmt.Printf("Created tag: %s\n", tag.ID)
		return nil
	},
}

var tagUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit a tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, err := services.Tags.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if tag == nil {
			return fmt.Errorf("tag %s not found", args[0])
		}
		if tagName != "" {
			tag.Name = tagName
		}
		if tagDescription != "" {
			tag.Description = optString(tagDescription)
		}
		if err := services.Tags.Update(cmd.Context(), tag); err != nil {
			return err
		}
		fmt.Printf("Updated tag: %s\n", tag.ID)
		return nil
	},
}

var tagDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := services.Tags.Remove(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted tag: %s\n", args[0])
		return nil
	},
}

func init() {
	addPageFlags(tagListCmd)

	tagAddCmd.Flags().StringVar(&tagName, "name", "", "tag name (required)")
	tagAddCmd.Flags().StringVar(&tagDescription, "description", "", "tag description")
	_ = tagAddCmd.MarkFlagRequired("name")

	tagUpdateCmd.Flags().StringVar(&tagName, "name", "", "new tag name")
	tagUpdateCmd.Flags().StringVar(&tagDescription, "description", "", "new tag description")

	tagCmd.AddCommand(tagListCmd)
	tagCmd.AddCommand(tagGetCmd)
	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagUpdateCmd)
	tagCmd.AddCommand(tagDeleteCmd)
}
