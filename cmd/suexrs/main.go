package main

import (
	"os"

	"github.com/hnrobert/suexrs/internal/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:]))
}
