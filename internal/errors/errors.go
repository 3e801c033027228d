// Package errors renders command failures for the terminal.
package errors

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/wellday/internal/logger"
)

// Format renders err as a single "Error: ..." line; nil renders as ""
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Report logs err, writes it to w and returns the process exit code
func Report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	logger.Error("Command failed", "error", err)
	fmt.Fprintln(w, Format(err))
	return 1
}

// Fatal exits the process when err is non-nil
func Fatal(err error) {
	if code := Report(os.Stderr, err); code != 0 {
		os.Exit(code)
	}
}
