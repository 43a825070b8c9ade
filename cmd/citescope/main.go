package main

import (
	"os"

	"github.com/vkuzmenko/citescope/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
