package main

import (
	"os"

	"github.com/dshills/bbake/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
