package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderDefaults(t *testing.T) {
	tests := []struct {
		builder  *ErrorBuilder
		category ErrorCategory
		severity ErrorSeverity
	}{
		{ConfigError("x"), CategoryConfig, SeverityFatal},
		{ValidationError("x"), CategoryValidation, SeverityFatal},
		{NotFoundError("x"), CategoryNotFound, SeverityError},
		{FileSystemError("x"), CategoryFileSystem, SeverityError},
		{RenderError("x"), CategoryRender, SeverityError},
		{RuntimeError("x"), CategoryRuntime, SeverityFatal},
		{InternalError("x"), CategoryInternal, SeverityFatal},
		{NewError("custom", "x"), "custom", SeverityError},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			err := tt.builder.Build()
			assert.Equal(t, tt.category, err.Category())
			assert.Equal(t, tt.severity, err.Severity())
			assert.Equal(t, tt.severity == SeverityFatal, err.IsFatal())
		})
	}
}

func TestWrapError(t *testing.T) {
	cause := errors.New("permission denied")
	err := WrapError(cause, CategoryFileSystem, "failed to read document").
		Warning().
		WithContext("path", "README.md").
		Build()

	assert.Equal(t, "filesystem: failed to read document: permission denied", err.Error())
	assert.Equal(t, SeverityWarning, err.Severity())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Cause())

	path, ok := err.Context().GetString("path")
	require.True(t, ok)
	assert.Equal(t, "README.md", path)
}

func TestErrorWithoutCause(t *testing.T) {
	assert.Equal(t, "config: renderer is required", ConfigError("renderer is required").Build().Error())
}

func TestBuiltErrorsAreIndependent(t *testing.T) {
	b := ValidationError("unknown option").WithContext("key", "tabels")
	first := b.Build()
	second := b.WithContext("key", "footnote").Build()

	v, _ := first.Context().GetString("key")
	assert.Equal(t, "tabels", v)
	v, _ = second.Context().GetString("key")
	assert.Equal(t, "footnote", v)

	derived := first.WithContext("document", "a.md")
	_, ok := first.Context().GetString("document")
	assert.False(t, ok)
	doc, _ := derived.Context().GetString("document")
	assert.Equal(t, "a.md", doc)
}

func TestChainHelpers(t *testing.T) {
	err := fmt.Errorf("setup: %w", ConfigError("bad renderer").Build())

	ce, ok := AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, "bad renderer", ce.Message())
	assert.True(t, HasCategory(err, CategoryConfig))
	assert.False(t, HasCategory(err, CategoryValidation))
	assert.Equal(t, CategoryConfig, GetCategory(err))

	plain := errors.New("plain")
	_, ok = AsClassified(plain)
	assert.False(t, ok)
	assert.Equal(t, CategoryInternal, GetCategory(plain))
}

func TestIsMatchesCategoryAndMessage(t *testing.T) {
	sentinel := NotFoundError("document not found").Build()
	err := fmt.Errorf("lookup: %w", NotFoundError("document not found").WithContext("path", "x").Build())

	assert.ErrorIs(t, err, sentinel)
	assert.NotErrorIs(t, err, NotFoundError("other").Build())
	assert.NotErrorIs(t, err, ValidationError("document not found").Build())
}

func TestCategoryCodes(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, CategoryValidation.HTTPStatus())
	assert.Equal(t, http.StatusServiceUnavailable, CategoryRuntime.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, ErrorCategory("unknown").HTTPStatus())
	assert.Equal(t, 12, CategoryRuntime.ExitCode())
	assert.Equal(t, 1, ErrorCategory("unknown").ExitCode())
}
