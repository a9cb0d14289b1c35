package cli

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/jpl-au/nosqlite"
	"github.com/spf13/cobra"
)

var errNoMatch = errors.New("one of --id or --where is required")

// addMatchFlags registers --id and --where on a write command.
func addMatchFlags(cmd *cobra.Command) {
	cmd.Flags().String("id", "", wrapString("Target the document with this id"))
	cmd.Flags().String("where", "", wrapString("Target every document where FIELD=JSON, e.g. --where 'age=30' or --where 'name=\"Bob\"'"))
	cmd.MarkFlagsMutuallyExclusive("id", "where")
}

// match builds the target selector from --id or --where.
func match(cmd *cobra.Command) (nosqlite.Match, error) {
	id, _ := cmd.Flags().GetString("id")
	where, _ := cmd.Flags().GetString("where")
	switch {
	case id != "":
		return nosqlite.ByID(id), nil
	case where != "":
		field, raw, ok := strings.Cut(where, "=")
		if !ok || field == "" {
			return nosqlite.Match{}, fmt.Errorf("--where must be FIELD=VALUE, got %q", where)
		}
		return nosqlite.Where(field, literal(raw)), nil
	default:
		return nosqlite.Match{}, errNoMatch
	}
}

// literal parses raw as JSON, falling back to the raw string so that
// --where name=Bob works without quoting.
func literal(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

// parseJSON decodes a JSON argument.
func parseJSON(what, raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("invalid JSON %s: %w", what, err)
	}
	return v, nil
}

// parseObject decodes a JSON object argument.
func parseObject(what, raw string) (map[string]any, error) {
	v, err := parseJSON(what, raw)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid JSON %s: expected an object", what)
	}
	return obj, nil
}

// printJSON writes v as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
