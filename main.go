package main

import (
	"os"

	"github.com/taktflow/taktd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
