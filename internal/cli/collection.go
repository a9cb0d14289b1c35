package cli

import (
	"fmt"

	"github.com/jpl-au/nosqlite"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new empty store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := nosqlite.Create(storePath(), storeConfig(cmd))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s (key %s)\n", s.Path(), s.Fingerprint())
		return s.Close()
	},
}

var createCollectionCmd = &cobra.Command{
	Use:   "create-collection [name] [structure]",
	Short: "Create a collection with an optional structure",
	Long: `Create a collection. The structure maps field names to type names
(string, number, boolean, array, object) or to nested structures:

  nosqlite create-collection users '{"name": "string", "age": "number"}'

Without a structure every JSON object is accepted.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: withStore(func(cmd *cobra.Command, args []string, s *nosqlite.Store) error {
		var structure any = map[string]any{}
		if len(args) == 2 {
			v, err := parseJSON("structure", args[1])
			if err != nil {
				return err
			}
			structure = v
		}
		if err := s.AddCollection(args[0], structure); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Collection '%s' created.\n", args[0])
		return nil
	}),
}

var dropCollectionCmd = &cobra.Command{
	Use:   "drop-collection [name]",
	Short: "Delete a collection and all of its documents",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(cmd *cobra.Command, args []string, s *nosqlite.Store) error {
		if err := s.RemoveCollection(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Collection '%s' deleted.\n", args[0])
		return nil
	}),
}

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List collections",
	Args:  cobra.NoArgs,
	RunE: withStore(func(cmd *cobra.Command, _ []string, s *nosqlite.Store) error {
		fmt.Fprint(cmd.OutOrStdout(), s)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(createCollectionCmd)
	rootCmd.AddCommand(dropCollectionCmd)
	rootCmd.AddCommand(collectionsCmd)
}
