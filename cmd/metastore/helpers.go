// Shared helpers for metastore CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kindlab/metastore/pkg/types"
)

// Shared pagination flag values. Only one command runs per invocation, so
// the list commands can share them.
var (
	flagPage  int
	flagLimit int
)

// addPageFlags registers --page and --limit on a list command.
func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagPage, "page", types.DefaultPage, "page number (1-based)")
	cmd.Flags().IntVar(&flagLimit, "limit", types.DefaultLimit, "page size")
}

// pagination resolves the shared pagination flags.
func pagination() *types.Pagination {
	return &types.Pagination{Page: flagPage, Limit: flagLimit}
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

// optString returns nil for an empty string, a pointer otherwise.
func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// derefString renders an optional string for table output.
func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// shortID truncates an id to its first 8 characters for table output.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// parseSetPair splits a "name=value" assignment.
func parseSetPair(s string) (name, value string, err error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return "", "", fmt.Errorf("invalid assignment %q, expected name=value", s)
	}
	return name, value, nil
}

// setEntityAttribute writes an assignment into the entity's typed attribute
// collections, parsing the value per the attribute's type.
func setEntityAttribute(ent *types.Entity, name, value string) error {
	return setTypedAttribute(
		ent.TextAttributes, ent.SmallintAttributes, ent.IntAttributes, ent.BooleanAttributes,
		name, value)
}

// setLinkAttribute is setEntityAttribute for links.
func setLinkAttribute(link *types.EntityLink, name, value string) error {
	return setTypedAttribute(
		link.TextAttributes, link.SmallintAttributes, link.IntAttributes, link.BooleanAttributes,
		name, value)
}

func setTypedAttribute(
	text []types.TextAttribute,
	smallint []types.SmallintAttribute,
	integer []types.IntegerAttribute,
	boolean []types.BooleanAttribute,
	name, value string,
) error {
	for i := range text {
		if text[i].Name == name {
			text[i].Value = value
			return nil
		}
	}
	for i := range smallint {
		if smallint[i].Name == name {
			v, err := strconv.ParseInt(value, 10, 16)
			if err != nil {
				return fmt.Errorf("attribute %q takes a small integer: %w", name, err)
			}
			smallint[i].Value = int16(v)
			return nil
		}
	}
	for i := range integer {
		if integer[i].Name == name {
			v, err := strconv.ParseInt(value, 10, 32)
			if err != nil {
				return fmt.Errorf("attribute %q takes an integer: %w", name, err)
			}
			integer[i].Value = int32(v)
			return nil
		}
	}
	for i := range boolean {
		if boolean[i].Name == name {
			v, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("attribute %q takes a boolean: %w", name, err)
			}
			boolean[i].Value = v
			return nil
		}
	}
	return fmt.Errorf("no attribute named %q", name)
}
