package main

import (
	"os"

	"github.com/jpl-au/nosqlite/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
