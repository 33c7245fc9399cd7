package normalization

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"git.home.luguber.info/inful/mdrender/internal/foundation/errors"
)

// Normalizer maps user-supplied spellings onto a closed set of values.
// Input is folded with Key before lookup, so "No-Links", " no_links " and
// "NO_LINKS" all name the same value.
type Normalizer[T comparable] struct {
	name   string
	values map[string]T
	keys   []string
	def    T
}

// NewNormalizer builds an unnamed Normalizer; see NewEnumNormalizer.
func NewNormalizer[T comparable](values map[string]T, def T) *Normalizer[T] {
	return NewEnumNormalizer("", values, def)
}

// NewEnumNormalizer builds a Normalizer for the setting called name, which
// is used in error messages. def is returned for empty or unknown input by
// Normalize.
func NewEnumNormalizer[T comparable](name string, values map[string]T, def T) *Normalizer[T] {
	n := &Normalizer[T]{name: name, values: make(map[string]T, len(values)), def: def}
	for k, v := range values {
		n.values[Key(k)] = v
	}
	n.keys = slices.Sorted(maps.Keys(n.values))
	return n
}

// Name is the setting name given at construction.
func (n *Normalizer[T]) Name() string { return n.name }

// Lookup resolves raw without falling back to the default.
func (n *Normalizer[T]) Lookup(raw string) (T, bool) {
	v, ok := n.values[Key(raw)]
	return v, ok
}

// Normalize resolves raw, or returns the default.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.Lookup(raw); ok {
		return v
	}
	return n.def
}

func (n *Normalizer[T]) IsValid(raw string) bool {
	_, ok := n.Lookup(raw)
	return ok
}

// NormalizeWithValidation resolves raw. Empty input yields the default;
// unknown input is a validation error listing the accepted spellings.
func (n *Normalizer[T]) NormalizeWithValidation(raw string) (T, error) {
	if Key(raw) == "" {
		return n.def, nil
	}
	if v, ok := n.Lookup(raw); ok {
		return v, nil
	}

	name := n.name
	if name == "" {
		name = "value"
	}
	var zero T
	return zero, errors.ValidationError(
		fmt.Sprintf("invalid %s %q (valid: %s)", name, raw, strings.Join(n.keys, ", "))).
		WithContext("value", raw).
		WithContext("valid", n.ValidValues()).
		Build()
}

// ValidValues lists the accepted spellings in sorted order.
func (n *Normalizer[T]) ValidValues() []string {
	return slices.Clone(n.keys)
}

// Key folds configuration keys and enum values: lower case, surrounding
// space trimmed, dashes turned into underscores.
func Key(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
}
