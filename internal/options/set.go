package options

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/foundation/normalization"
)

// Set is an immutable snapshot of option values. The zero Set has every flag
// disabled and LabelFold label normalisation.
type Set struct {
	flags     map[Flag]bool
	labels    LabelMode
	labelsSet bool
}

// New builds a Set from caller overrides. Keys are matched case-insensitively
// with dashes accepted for underscores, and two keys naming the same setting
// are rejected. The map is copied; the caller keeps ownership of it.
func New(values map[string]any) (Set, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := Set{flags: make(map[Flag]bool, len(values))}
	seen := make(map[string]string, len(keys))
	for _, raw := range keys {
		v := values[raw]
		key := normalization.Key(raw)
		if prev, dup := seen[key]; dup {
			return Set{}, errors.ValidationError(fmt.Sprintf("options %q and %q name the same setting", prev, raw)).
				WithContext("key", raw).
				WithContext("duplicate_of", prev).
				Build()
		}
		seen[key] = raw

		if key == ReferenceLabels {
			str, ok := v.(string)
			if !ok {
				return Set{}, errors.ValidationError("reference_labels must be a string").
					WithContext("key", raw).
					WithContext("valid", LabelModes()).
					Build()
			}
			mode, err := ParseLabelMode(str)
			if err != nil {
				return Set{}, errors.WrapError(err, errors.CategoryValidation, "invalid option value").
					Fatal().
					WithContext("key", raw).
					Build()
			}
			s.labels, s.labelsSet = mode, true
			continue
		}

		f, ok := LookupFlag(raw)
		if !ok {
			return Set{}, errors.ValidationError(fmt.Sprintf("unknown option %q", raw)).
				WithContext("key", raw).
				Build()
		}
		b, ok := v.(bool)
		if !ok {
			return Set{}, errors.ValidationError(fmt.Sprintf("option %q must be a boolean, got %T", raw, v)).
				WithContext("key", raw).
				Build()
		}
		s.flags[f] = b
	}

	if err := s.Validate(); err != nil {
		return Set{}, err
	}
	return s, nil
}

// Of returns a Set with the given flags enabled.
func Of(flags ...Flag) Set {
	s := Set{flags: make(map[Flag]bool, len(flags))}
	for _, f := range flags {
		s.flags[f] = true
	}
	return s
}

// FromYAML decodes a YAML mapping of option names to values.
func FromYAML(data []byte) (Set, error) {
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return Set{}, errors.WrapError(err, errors.CategoryValidation, "failed to parse options").Build()
	}
	return New(values)
}

// Enabled reports whether f is switched on.
func (s Set) Enabled(f Flag) bool {
	return s.flags[f]
}

// LabelMode returns the reference label normalisation.
func (s Set) LabelMode() LabelMode {
	if !s.labelsSet {
		return LabelFold
	}
	return s.labels
}

// WithLabelMode returns a copy of s using mode for reference labels.
func (s Set) WithLabelMode(mode LabelMode) Set {
	out := s.Merge(Set{})
	out.labels, out.labelsSet = mode, true
	return out
}

// Merge returns a new Set holding the values of s overridden by every value
// explicitly present in other.
func (s Set) Merge(other Set) Set {
	out := Set{
		flags:     make(map[Flag]bool, len(s.flags)+len(other.flags)),
		labels:    s.labels,
		labelsSet: s.labelsSet,
	}
	for f, v := range s.flags {
		out.flags[f] = v
	}
	for f, v := range other.flags {
		out.flags[f] = v
	}
	if other.labelsSet {
		out.labels, out.labelsSet = other.labels, true
	}
	return out
}

// Validate rejects flag combinations that cannot be honoured together.
func (s Set) Validate() error {
	if s.Enabled(EscapeHTML) && s.Enabled(FilterHTML) {
		return errors.ConfigError("escape_html and filter_html are mutually exclusive").
			WithContext("flags", []string{string(EscapeHTML), string(FilterHTML)}).
			Build()
	}
	return nil
}

// Flags returns the enabled flags in catalog order.
func (s Set) Flags() []Flag {
	var out []Flag
	for _, f := range Known() {
		if s.flags[f] {
			out = append(out, f)
		}
	}
	return out
}

// Map returns a fresh map of the explicitly set values.
func (s Set) Map() map[string]any {
	out := make(map[string]any, len(s.flags)+1)
	for f, v := range s.flags {
		out[string(f)] = v
	}
	if s.labelsSet {
		out[ReferenceLabels] = string(s.labels)
	}
	return out
}

// Equal reports whether s and other make the same decisions.
func (s Set) Equal(other Set) bool {
	if s.LabelMode() != other.LabelMode() {
		return false
	}
	for _, f := range Known() {
		if s.Enabled(f) != other.Enabled(f) {
			return false
		}
	}
	return true
}

func (s Set) String() string {
	parts := make([]string, 0, len(s.flags)+1)
	for _, f := range s.Flags() {
		parts = append(parts, string(f))
	}
	if s.LabelMode() != LabelFold {
		parts = append(parts, ReferenceLabels+"="+string(s.LabelMode()))
	}
	return strings.Join(parts, ",")
}
