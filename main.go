package main

import (
	"os"

	"github.com/mwaldner/deployctl/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
