package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/ngpepin/finder/cmd"
	"github.com/ngpepin/finder/pkg/logging"
	"github.com/ngpepin/finder/pkg/version"
)

func main() {
	// The logger exists before cobra parses anything, so verbosity is
	// sniffed from the raw arguments.
	logger, err := logging.Setup(verboseRequested(os.Args[1:]), "finder", version.Get().Version)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	runErr := cmd.Execute(logger)

	// Check if stderr is a terminal or a regular file before attempting to
	// sync; syncing other targets fails spuriously.
	if term.IsTerminal(int(os.Stderr.Fd())) || isRegularFile(os.Stderr) {
		if syncErr := logger.Sync(); syncErr != nil {
			lowerErr := strings.ToLower(syncErr.Error())
			if !strings.Contains(lowerErr, "invalid argument") {
				log.Printf("Logger sync failed: %v", syncErr)
			}
		}
	}

	// The command tree silences cobra's own reporting, so every error is
	// printed exactly once here.
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			fmt.Fprintln(os.Stderr, "\nInterrupted")
		} else {
			fmt.Fprintln(os.Stderr, "Error:", runErr)
		}
		os.Exit(1)
	}
}

// verboseRequested scans the raw arguments for the verbose flag, including
// bundled short flags like -cv, stopping at the -- terminator.
func verboseRequested(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			break
		}
		if arg == "--verbose" {
			return true
		}
		if len(arg) > 1 && arg[0] == '-' && arg[1] != '-' && strings.ContainsRune(arg[1:], 'v') {
			return true
		}
	}
	return false
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false // Assume not a regular file if we can't get the file info
	}
	return fileInfo.Mode().IsRegular()
}
