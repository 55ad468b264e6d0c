// Link commands manage relationship instances between entities.
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kindlab/metastore/pkg/types"
)

var (
	linkDefIDFlag string
	linkSource    string
	linkTarget    string
	linkSets      []string
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Manage entity links",
}

var linkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List links",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			links []types.EntityLink
			err   error
		)
		if linkDefIDFlag != "" {
			links, err = services.Links.ListByDefID(cmd.Context(), linkDefIDFlag, pagination())
		} else {
			links, err = services.Links.List(cmd.Context(), pagination())
		}
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(links)
		}
		if len(links) == 0 {
			fmt.Println("No links found.")
			return nil
		}
		var sb strings.Builder
		w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKIND\tSOURCE\tTARGET")
		for _, link := range links {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				shortID(link.ID), link.Kind, shortID(link.SourceEntityID), shortID(link.TargetEntityID))
		}
		w.Flush()
		fmt.Print(sb.String())
		return nil
	},
}

var linkGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a link with its attributes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		link, err := services.Links.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if link == nil {
			return fmt.Errorf("link %s not found", args[0])
		}
		return printJSON(link)
	},
}

var linkAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a link between two entities",
	Long: `Add creates a link of the given definition between two entities.
Attribute instances are seeded from the definitions' default values; --set
overrides individual values by attribute name.

Example:
  metastore link add --def <authored-by-id> --source <book-id> --target <author-id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		link, err := services.Links.NewLink(cmd.Context(), linkDefIDFlag, linkSource, linkTarget)
		if err != nil {
			return err
		}
		for _, s := range linkSets {
			name, value, err := parseSetPair(s)
			if err != nil {
				return err
			}
			if err := setLinkAttribute(link, name, value); err != nil {
				return err
			}
		}
		link, err = services.Links.Add(cmd.Context(), link)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(link)
		}
		fmt.Printf("Created link: %s\n", link.ID)
		return nil
	},
}

var linkUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit a link's attribute values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		link, err := services.Links.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if link == nil {
			return fmt.Errorf("link %s not found", args[0])
		}
		for _, s := range linkSets {
			name, value, err := parseSetPair(s)
			if err != nil {
				return err
			}
			if err := setLinkAttribute(link, name, value); err != nil {
				return err
			}
		}
		if err := services.Links.Update(cmd.Context(), link); err != nil {
			return err
		}
		fmt.Printf("Updated link: %s\n", link.ID)
		return nil
	},
}

var linkDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a link and its attribute instances",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := services.Links.Remove(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted link: %s\n", args[0])
		return nil
	},
}

func init() {
	addPageFlags(linkListCmd)
	linkListCmd.Flags().StringVar(&linkDefIDFlag, "def", "", "restrict to one link definition id")

	linkAddCmd.Flags().StringVar(&linkDefIDFlag, "def", "", "link definition id (required)")
	linkAddCmd.Flags().StringVar(&linkSource, "source", "", "source entity id (required)")
	linkAddCmd.Flags().StringVar(&linkTarget, "target", "", "target entity id (required)")
	linkAddCmd.Flags().StringArrayVar(&linkSets, "set", nil, "attribute assignment name=value, repeatable")
	_ = linkAddCmd.MarkFlagRequired("def")
	_ = linkAddCmd.MarkFlagRequired("source")
	_ = linkAddCmd.MarkFlagRequired("target")

	linkUpdateCmd.Flags().StringArrayVar(&linkSets, "set", nil, "attribute assignment name=value, repeatable")

	linkCmd.AddCommand(linkListCmd)
	linkCmd.AddCommand(linkGetCmd)
	linkCmd.AddCommand(linkAddCmd)
	linkCmd.AddCommand(linkUpdateCmd)
	linkCmd.AddCommand(linkDeleteCmd)
}
