package errors

import (
	"log/slog"
	"net/http"
)

// ErrorCategory says what kind of failure an error is. It decides the HTTP
// status and process exit code the adapters report.
type ErrorCategory string

const (
	// CategoryConfig covers option sets, renderer shapes and config files.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"
	// CategoryFileSystem covers reading documents and writing output.
	CategoryFileSystem ErrorCategory = "filesystem"
	// CategoryRender covers the pipeline around the scanners, which never
	// fail on malformed markup themselves.
	CategoryRender   ErrorCategory = "render"
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity decides how loudly an error is logged.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning"
)

type categoryInfo struct {
	status   int
	exit     int
	severity ErrorSeverity
}

var categories = map[ErrorCategory]categoryInfo{
	CategoryValidation: {http.StatusBadRequest, 2, SeverityFatal},
	CategoryNotFound:   {http.StatusNotFound, 3, SeverityError},
	CategoryConfig:     {http.StatusBadRequest, 7, SeverityFatal},
	CategoryFileSystem: {http.StatusInternalServerError, 9, SeverityError},
	CategoryInternal:   {http.StatusInternalServerError, 10, SeverityFatal},
	CategoryRender:     {http.StatusUnprocessableEntity, 11, SeverityError},
	CategoryRuntime:    {http.StatusServiceUnavailable, 12, SeverityFatal},
}

// HTTPStatus is the response status for errors of c; unknown categories
// are server errors.
func (c ErrorCategory) HTTPStatus() int {
	if info, ok := categories[c]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// ExitCode is the process exit code for errors of c; unknown categories
// exit with 1.
func (c ErrorCategory) ExitCode() int {
	if info, ok := categories[c]; ok {
		return info.exit
	}
	return 1
}

func (c ErrorCategory) defaultSeverity() ErrorSeverity {
	if info, ok := categories[c]; ok {
		return info.severity
	}
	return SeverityError
}

func (s ErrorSeverity) level() slog.Level {
	if s == SeverityWarning {
		return slog.LevelWarn
	}
	return slog.LevelError
}
