package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdrender/internal/foundation/errors"
)

func TestNew(t *testing.T) {
	t.Run("defaults are disabled", func(t *testing.T) {
		s, err := New(nil)
		require.NoError(t, err)
		for _, f := range Known() {
			assert.False(t, s.Enabled(f), f)
		}
		assert.Equal(t, LabelFold, s.LabelMode())
		assert.Equal(t, "", s.String())
	})

	t.Run("keys are normalised", func(t *testing.T) {
		s, err := New(map[string]any{
			"Tables":             true,
			" no-intra-emphasis": true,
			"strikethrough":      false,
			"Reference-Labels":   "CommonMark",
		})
		require.NoError(t, err)
		assert.True(t, s.Enabled(Tables))
		assert.True(t, s.Enabled(NoIntraEmphasis))
		assert.False(t, s.Enabled(Strikethrough))
		assert.Equal(t, LabelCommonMark, s.LabelMode())
		assert.Equal(t, "no_intra_emphasis,tables,reference_labels=commonmark", s.String())
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := New(map[string]any{"tabels": true})
		require.Error(t, err)
		assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	})

	t.Run("duplicate normalised keys", func(t *testing.T) {
		_, err := New(map[string]any{"Tables": true, "tables": false})
		require.Error(t, err)
		assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
		assert.Contains(t, err.Error(), `"Tables" and "tables"`)

		_, err = New(map[string]any{"reference-labels": "exact", "reference_labels": "fold"})
		require.Error(t, err)
		assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	})

	t.Run("non boolean value", func(t *testing.T) {
		_, err := New(map[string]any{"tables": "yes"})
		require.Error(t, err)
		assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	})

	t.Run("unknown label mode", func(t *testing.T) {
		_, err := New(map[string]any{"reference_labels": "loose"})
		require.Error(t, err)
		assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	})

	t.Run("incompatible flags", func(t *testing.T) {
		_, err := New(map[string]any{"escape_html": true, "filter_html": true})
		require.Error(t, err)
		assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	})
}

func TestNew_DefensiveCopy(t *testing.T) {
	caller := map[string]any{"tables": true}
	s, err := New(caller)
	require.NoError(t, err)

	caller["tables"] = false
	caller["autolink"] = true
	assert.True(t, s.Enabled(Tables))
	assert.False(t, s.Enabled(Autolink))

	m := s.Map()
	m["tables"] = false
	assert.True(t, s.Enabled(Tables))
}

func TestNew_Idempotent(t *testing.T) {
	in := map[string]any{"tables": true, "footnotes": true, "reference_labels": "exact"}
	a, err := New(in)
	require.NoError(t, err)
	b, err := New(in)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Map(), b.Map())
}

func TestMerge(t *testing.T) {
	base := Of(Tables, Autolink)
	over, err := New(map[string]any{"autolink": false, "footnotes": true})
	require.NoError(t, err)

	merged := base.Merge(over)
	assert.True(t, merged.Enabled(Tables))
	assert.False(t, merged.Enabled(Autolink))
	assert.True(t, merged.Enabled(Footnotes))

	// inputs untouched
	assert.True(t, base.Enabled(Autolink))
	assert.False(t, base.Enabled(Footnotes))
}

func TestMerge_LabelMode(t *testing.T) {
	exact := Set{}.WithLabelMode(LabelExact)
	assert.Equal(t, LabelExact, exact.Merge(Of(Tables)).LabelMode())
	assert.Equal(t, LabelCommonMark, exact.Merge(Set{}.WithLabelMode(LabelCommonMark)).LabelMode())
}

func TestEqual(t *testing.T) {
	explicitOff, err := New(map[string]any{"tables": false})
	require.NoError(t, err)
	assert.True(t, explicitOff.Equal(Set{}))
	assert.False(t, Of(Tables).Equal(Set{}))
}

func TestFromYAML(t *testing.T) {
	s, err := FromYAML([]byte("tables: true\nfenced-code-blocks: true\nreference_labels: exact\n"))
	require.NoError(t, err)
	assert.Equal(t, []Flag{Tables, FencedCodeBlocks}, s.Flags())
	assert.Equal(t, LabelExact, s.LabelMode())

	_, err = FromYAML([]byte("tables: [true"))
	require.Error(t, err)
}

func TestCatalog(t *testing.T) {
	for _, f := range Known() {
		help, ok := Describe(f)
		assert.True(t, ok, f)
		assert.NotEmpty(t, help, f)
	}
	_, ok := Describe("bogus")
	assert.False(t, ok)
	assert.True(t, IsRenderFlag(WithTOCData))
	assert.False(t, IsRenderFlag(Tables))
}
