package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
)

// CLIErrorAdapter prints errors for humans and exits with the code of
// their category.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	stderr  io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter logs through logger, or slog.Default when nil.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger, stderr: os.Stderr, exit: os.Exit}
}

// ExitCodeFor is 0 for nil, 1 for unclassified errors and the category's
// code otherwise.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	ce, ok := AsClassified(err)
	if !ok {
		return 1
	}
	return ce.category.ExitCode()
}

// FormatError renders err as a single line. Verbose output appends the
// error context as sorted key=value pairs.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	ce, ok := AsClassified(err)
	if !ok {
		return "Error: " + err.Error()
	}
	if ce.category == CategoryInternal && !a.verbose {
		return "Internal error (run with -v for details)"
	}

	line := fmt.Sprintf("Error (%s): %s", ce.category, ce.message)
	if ce.cause != nil {
		line += ": " + ce.cause.Error()
	}
	if a.verbose && len(ce.context) > 0 {
		line += " [" + formatContext(ce.context) + "]"
	}
	return line
}

func formatContext(c ErrorContext) string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, c[k])
	}
	return strings.Join(parts, " ")
}

// HandleError prints err and exits. It does nothing for nil.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	if a.verbose {
		a.log(err)
	}
	fmt.Fprintln(a.stderr, a.FormatError(err))
	a.exit(a.ExitCodeFor(err))
}

func (a *CLIErrorAdapter) log(err error) {
	ce, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Command failed", slog.String("error", err.Error()))
		return
	}
	attrs := []slog.Attr{slog.String("category", string(ce.category))}
	for k, v := range ce.context {
		attrs = append(attrs, slog.Any(k, v))
	}
	a.logger.LogAttrs(context.Background(), ce.severity.level(), ce.message, attrs...)
}
