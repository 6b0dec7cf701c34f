package main

import (
	"os"

	"github.com/craftline/sitecms/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
