package cli

import (
	"fmt"
	"os"

	"github.com/jpl-au/nosqlite"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write an unencrypted, zstd-compressed dump of the store",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(cmd *cobra.Command, args []string, s *nosqlite.Store) error {
		f, err := os.OpenFile(args[0], os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return err
		}
		if err := s.Export(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", args[0])
		return nil
	}),
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace the store contents with a dump written by export",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(cmd *cobra.Command, args []string, s *nosqlite.Store) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		if err := s.Import(f); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d collection(s) from %s\n", len(s.ListCollections()), args[0])
		return nil
	}),
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show store location, key fingerprint and contents",
	Args:  cobra.NoArgs,
	RunE: withStore(func(cmd *cobra.Command, _ []string, s *nosqlite.Store) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Store:       %s\n", s.Path())
		fmt.Fprintf(out, "Log:         %s\n", s.LogPath())
		fmt.Fprintf(out, "Key:         %s\n", s.Fingerprint())
		summaries := s.ListCollections()
		docs := 0
		for _, c := range summaries {
			docs += c.Count
		}
		fmt.Fprintf(out, "Collections: %d\n", len(summaries))
		fmt.Fprintf(out, "Documents:   %d\n", docs)
		return nil
	}),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "nosqlite version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(versionCmd)
}
