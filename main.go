// main is the entry point for the asoscan CLI.
package main

import (
	"os"

	"github.com/listinglab/asoscan/cmd"
	"github.com/listinglab/asoscan/internal/contract"
)

func main() {
	err := cmd.Execute()
	if closeErr := cmd.CloseHistory(); closeErr != nil {
		contract.LogWarn("Cannot close history store", closeErr)
	}
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
	os.Exit(0)
}
