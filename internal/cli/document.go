package cli

import (
	"fmt"

	"github.com/jpl-au/nosqlite"
	"github.com/spf13/cobra"
)

var insertCmd = &cobra.Command{
	Use:   "insert [collection] [document]",
	Short: "Insert a JSON document",
	Args:  cobra.ExactArgs(2),
	RunE: withStore(func(cmd *cobra.Command, args []string, s *nosqlite.Store) error {
		doc, err := parseJSON("document", args[1])
		if err != nil {
			return err
		}
		if err := s.Insert(args[0], doc); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Document inserted.")
		return nil
	}),
}

var findCmd = &cobra.Command{
	Use:   "find [collection] [filter] [projection]",
	Short: "Find documents by field equality",
	Long: `Print every document matching the filter with its id and
timestamps. The projection keeps only the named top-level fields of
the payload:

  nosqlite find users '{"age": 30}' '{"name": 1}'`,
	Args: cobra.RangeArgs(1, 3),
	RunE: withStore(func(cmd *cobra.Command, args []string, s *nosqlite.Store) error {
		var filter, projection map[string]any
		var err error
		if len(args) > 1 {
			if filter, err = parseObject("filter", args[1]); err != nil {
				return err
			}
		}
		if len(args) > 2 {
			if projection, err = parseObject("projection", args[2]); err != nil {
				return err
			}
		}
		docs, err := s.Find(args[0], filter, projection)
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if err := printJSON(cmd, doc); err != nil {
				return err
			}
		}
		return nil
	}),
}

var getCmd = &cobra.Command{
	Use:   "get [collection] [id]",
	Short: "Print one document with its metadata",
	Args:  cobra.ExactArgs(2),
	RunE: withStore(func(cmd *cobra.Command, args []string, s *nosqlite.Store) error {
		doc, err := s.Get(args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(cmd, doc)
	}),
}

var listCmd = &cobra.Command{
	Use:   "list [collection]",
	Short: "Print every document of a collection with its metadata",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(cmd *cobra.Command, args []string, s *nosqlite.Store) error {
		docs, err := s.Documents(args[0])
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if err := printJSON(cmd, doc); err != nil {
				return err
			}
		}
		return nil
	}),
}

var updateCmd = &cobra.Command{
	Use:   "update [collection] [document]",
	Short: "Replace the payload of the targeted documents",
	Args:  cobra.ExactArgs(2),
	RunE: withStore(func(cmd *cobra.Command, args []string, s *nosqlite.Store) error {
		m, err := match(cmd)
		if err != nil {
			return err
		}
		doc, err := parseJSON("document", args[1])
		if err != nil {
			return err
		}
		if err := s.Replace(args[0], m, doc); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Document(s) updated.")
		return nil
	}),
}

var patchCmd = &cobra.Command{
	Use:   "patch [collection] [field] [value]",
	Short: "Set one top-level field of the targeted documents",
	Long: `Set one top-level field of the targeted documents. The value is
parsed as JSON, falling back to a plain string. Patches are not checked
against the collection structure.`,
	Args: cobra.ExactArgs(3),
	RunE: withStore(func(cmd *cobra.Command, args []string, s *nosqlite.Store) error {
		m, err := match(cmd)
		if err != nil {
			return err
		}
		if err := s.PatchField(args[0], m, args[1], literal(args[2])); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Document(s) patched.")
		return nil
	}),
}

var deleteCmd = &cobra.Command{
	Use:   "delete [collection]",
	Short: "Delete the targeted documents",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(cmd *cobra.Command, args []string, s *nosqlite.Store) error {
		m, err := match(cmd)
		if err != nil {
			return err
		}
		if err := s.Delete(args[0], m); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Document(s) deleted.")
		return nil
	}),
}

func init() {
	addMatchFlags(updateCmd)
	addMatchFlags(patchCmd)
	addMatchFlags(deleteCmd)

	rootCmd.AddCommand(insertCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(patchCmd)
	rootCmd.AddCommand(deleteCmd)
}
