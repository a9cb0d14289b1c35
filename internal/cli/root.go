// Package cli implements the nosqlite command line.
package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jpl-au/nosqlite"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time with -ldflags.
var version = "dev"

var (
	started time.Time

	rootCmd = &cobra.Command{
		Use:   "nosqlite",
		Short: "Encrypted embedded document store",
		Long: `nosqlite keeps collections of JSON documents in a single
AES-256-GCM encrypted file. Every command opens the store, applies
its change and saves the file before exiting.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRun:  func(*cobra.Command, []string) { started = time.Now() },
		PersistentPostRun: reportTiming,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("db", nosqlite.DefaultPath, wrapString("Store file; the .nosqlite extension is added when missing"))
	flags.String("key", nosqlite.DefaultKeyFile, wrapString("Hex key file, generated on first use"))
	flags.Bool("timing", false, wrapString("Print how long the command took"))
	flags.BoolP("verbose", "v", false, wrapString("Log debug output to stderr"))

	_ = viper.BindPFlags(flags)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

func reportTiming(cmd *cobra.Command, _ []string) {
	if viper.GetBool("timing") {
		fmt.Fprintf(cmd.OutOrStdout(), "Elapsed: %s\n", time.Since(started).Round(time.Microsecond))
	}
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func storeConfig(cmd *cobra.Command) nosqlite.Config {
	return nosqlite.Config{
		KeyFile: viper.GetString("key"),
		Logger:  newLogger(cmd),
	}
}

// withStore opens the configured store around fn and closes it afterwards,
// which saves any pending change.
func withStore(fn func(cmd *cobra.Command, args []string, s *nosqlite.Store) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := nosqlite.Open(storePath(), storeConfig(cmd))
		if err != nil {
			return err
		}
		if err := fn(cmd, args, s); err != nil {
			s.Close()
			return err
		}
		return s.Close()
	}
}
