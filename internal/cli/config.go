package cli

import (
	"path/filepath"
	"strings"

	"github.com/jpl-au/nosqlite"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// wrap is the number of characters help text is wrapped at.
const wrap = 50

// initConfig loads .env files and binds NOSQLITE_* environment variables.
func initConfig() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix("nosqlite")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// storePath returns the configured store file, adding the .nosqlite
// extension when it is missing.
func storePath() string {
	path := viper.GetString("db")
	if path == "" {
		return nosqlite.DefaultPath
	}
	if filepath.Ext(path) != nosqlite.Extension {
		path += nosqlite.Extension
	}
	return path
}

// wrapString wraps help text at wrap characters.
func wrapString(text string) string {
	var lines []string
	var line strings.Builder
	width := 0

	for _, word := range strings.Fields(text) {
		if width > 0 && width+1+len(word) > wrap {
			lines = append(lines, line.String())
			line.Reset()
			width = 0
		}
		if width > 0 {
			line.WriteString(" ")
			width++
		}
		line.WriteString(word)
		width += len(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
