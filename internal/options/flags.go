package options

import "git.home.luguber.info/inful/mdrender/internal/foundation/normalization"

// Flag names one boolean option. The set of flags is closed.
type Flag string

// Parse (extension) flags alter what the scanners recognise.
const (
	NoIntraEmphasis           Flag = "no_intra_emphasis"
	Tables                    Flag = "tables"
	FencedCodeBlocks          Flag = "fenced_code_blocks"
	Autolink                  Flag = "autolink"
	DisableIndentedCodeBlocks Flag = "disable_indented_code_blocks"
	Strikethrough             Flag = "strikethrough"
	LaxSpacing                Flag = "lax_spacing"
	SpaceAfterHeaders         Flag = "space_after_headers"
	Superscript               Flag = "superscript"
	Underline                 Flag = "underline"
	Highlight                 Flag = "highlight"
	Quote                     Flag = "quote"
	Footnotes                 Flag = "footnotes"
)

// Render flags are read by renderers only.
const (
	FilterHTML    Flag = "filter_html"
	NoImages      Flag = "no_images"
	NoLinks       Flag = "no_links"
	NoStyles      Flag = "no_styles"
	EscapeHTML    Flag = "escape_html"
	SafeLinksOnly Flag = "safe_links_only"
	WithTOCData   Flag = "with_toc_data"
	HardWrap      Flag = "hard_wrap"
	XHTML         Flag = "xhtml"
	Prettify      Flag = "prettify"
)

// ReferenceLabels is the key of the label normalisation setting.
const ReferenceLabels = "reference_labels"

// LabelMode selects how reference labels are normalised before lookup.
type LabelMode string

const (
	// LabelFold folds Unicode case and collapses internal whitespace.
	LabelFold LabelMode = "fold"
	// LabelCommonMark applies the CommonMark link label rules.
	LabelCommonMark LabelMode = "commonmark"
	// LabelExact only trims surrounding whitespace.
	LabelExact LabelMode = "exact"
)

var labelModes = normalization.NewEnumNormalizer(ReferenceLabels, map[string]LabelMode{
	"fold":       LabelFold,
	"commonmark": LabelCommonMark,
	"exact":      LabelExact,
}, LabelFold)

// ParseLabelMode validates a reference_labels value; empty means LabelFold.
func ParseLabelMode(raw string) (LabelMode, error) {
	return labelModes.NormalizeWithValidation(raw)
}

// LabelModes lists the accepted reference_labels values.
func LabelModes() []string {
	return labelModes.ValidValues()
}

type flagInfo struct {
	flag   Flag
	render bool
	help   string
}

var catalog = []flagInfo{
	{NoIntraEmphasis, false, "do not parse emphasis inside of words"},
	{Tables, false, "parse pipe tables"},
	{FencedCodeBlocks, false, "parse ``` and ~~~ fenced code blocks"},
	{Autolink, false, "link bare URLs, www. hosts and e-mail addresses"},
	{DisableIndentedCodeBlocks, false, "do not treat 4-space indented text as code"},
	{Strikethrough, false, "parse ~~text~~ as strikethrough"},
	{LaxSpacing, false, "let lists and HTML blocks interrupt paragraphs"},
	{SpaceAfterHeaders, false, "require a space after # in headers"},
	{Superscript, false, "parse ^text and ^(text) as superscript"},
	{Underline, false, "render _text_ as underline instead of emphasis"},
	{Highlight, false, "parse ==text== as highlight"},
	{Quote, false, "parse \"text\" as an inline quote"},
	{Footnotes, false, "parse [^label] footnotes"},
	{FilterHTML, true, "drop raw HTML from the output"},
	{NoImages, true, "do not emit <img> tags"},
	{NoLinks, true, "do not emit <a> tags"},
	{NoStyles, true, "drop <style> tags"},
	{EscapeHTML, true, "escape raw HTML instead of passing it through"},
	{SafeLinksOnly, true, "only link http, https, ftp, mailto and relative URLs"},
	{WithTOCData, true, "add id anchors to headers"},
	{HardWrap, true, "turn newlines inside paragraphs into <br>"},
	{XHTML, true, "emit self-closing XHTML tags"},
	{Prettify, true, "add prettyprint classes to code"},
}

var flagNames = func() *normalization.Normalizer[Flag] {
	values := make(map[string]Flag, len(catalog))
	for _, info := range catalog {
		values[string(info.flag)] = info.flag
	}
	return normalization.NewNormalizer(values, "")
}()

// Known returns every flag in catalog order.
func Known() []Flag {
	out := make([]Flag, len(catalog))
	for i, info := range catalog {
		out[i] = info.flag
	}
	return out
}

// Describe returns the help text of f and whether f is a known flag.
func Describe(f Flag) (string, bool) {
	for _, info := range catalog {
		if info.flag == f {
			return info.help, true
		}
	}
	return "", false
}

// IsRenderFlag reports whether f only affects renderers.
func IsRenderFlag(f Flag) bool {
	for _, info := range catalog {
		if info.flag == f {
			return info.render
		}
	}
	return false
}

// LookupFlag resolves a user-supplied flag name.
func LookupFlag(raw string) (Flag, bool) {
	return flagNames.Lookup(raw)
}
