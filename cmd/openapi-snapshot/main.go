package cmd

import (
	"errors"
	"fmt"
	"os"
)

// Main is the entry point called from the root main.go.
func Main() {
	if err := Execute(); err != nil {
		// Check if it's an exit error with a specific code.
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitErr.ExitCode())
		}

		// Default error handling.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
