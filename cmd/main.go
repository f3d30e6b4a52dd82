package main

import (
	"fmt"
	"os"

	"github.com/destake/go-destake/cmd/destake/launcher"
)

func main() {
	if err := launcher.Launch(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
