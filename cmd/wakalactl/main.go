package main

import (
	"os"

	"github.com/wakaladigital/wakala/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
