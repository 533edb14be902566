package main

import (
	"fmt"
	"os"

	"github.com/Makepad-fr/talentlink/internal/cli"
)

const version = "0.1.0"

func main() {
	app := cli.NewApp(version)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
