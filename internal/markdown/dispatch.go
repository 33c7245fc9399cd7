package markdown

import (
	"fmt"
	"reflect"
	"slices"

	"git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/render"
)

// handlerShapes lists, per handler method name, the interfaces a method of
// that name may satisfy. A renderer declaring a method with one of these
// names but none of the shapes is rejected at setup.
var handlerShapes = map[string][]reflect.Type{
	"BlockCode":       {reflect.TypeFor[render.BlockCodeHandler]()},
	"BlockQuote":      {reflect.TypeFor[render.BlockQuoteHandler]()},
	"BlockHTML":       {reflect.TypeFor[render.BlockHTMLHandler]()},
	"Header":          {reflect.TypeFor[render.HeaderHandler]()},
	"HRule":           {reflect.TypeFor[render.HRuleHandler]()},
	"List":            {reflect.TypeFor[render.ListHandler]()},
	"ListItem":        {reflect.TypeFor[render.ListItemHandler]()},
	"Paragraph":       {reflect.TypeFor[render.ParagraphHandler]()},
	"Table":           {reflect.TypeFor[render.TableHandler]()},
	"TableRow":        {reflect.TypeFor[render.TableRowHandler]()},
	"TableCell":       {reflect.TypeFor[render.TableCellHandler](), reflect.TypeFor[render.HeaderTableCellHandler]()},
	"Footnotes":       {reflect.TypeFor[render.FootnotesHandler]()},
	"FootnoteDef":     {reflect.TypeFor[render.FootnoteDefHandler]()},
	"Autolink":        {reflect.TypeFor[render.AutolinkHandler]()},
	"CodeSpan":        {reflect.TypeFor[render.CodeSpanHandler]()},
	"DoubleEmphasis":  {reflect.TypeFor[render.DoubleEmphasisHandler]()},
	"Emphasis":        {reflect.TypeFor[render.EmphasisHandler]()},
	"TripleEmphasis":  {reflect.TypeFor[render.TripleEmphasisHandler]()},
	"Strikethrough":   {reflect.TypeFor[render.StrikethroughHandler]()},
	"Superscript":     {reflect.TypeFor[render.SuperscriptHandler]()},
	"Underline":       {reflect.TypeFor[render.UnderlineHandler]()},
	"Highlight":       {reflect.TypeFor[render.HighlightHandler]()},
	"Quote":           {reflect.TypeFor[render.QuoteHandler]()},
	"Image":           {reflect.TypeFor[render.ImageHandler]()},
	"LineBreak":       {reflect.TypeFor[render.LineBreakHandler]()},
	"Link":            {reflect.TypeFor[render.LinkHandler]()},
	"RawHTML":         {reflect.TypeFor[render.RawHTMLHandler]()},
	"FootnoteRef":     {reflect.TypeFor[render.FootnoteRefHandler]()},
	"DanglingLinkRef": {reflect.TypeFor[render.DanglingLinkRefHandler]()},
	"NormalText":      {reflect.TypeFor[render.NormalTextHandler]()},
	"Entity":          {reflect.TypeFor[render.EntityHandler]()},
	"DocHeader":       {reflect.TypeFor[render.DocHeaderHandler]()},
	"DocFooter":       {reflect.TypeFor[render.DocFooterHandler]()},
	"Preprocess":      {reflect.TypeFor[render.PreprocessHandler]()},
	"Postprocess":     {reflect.TypeFor[render.PostprocessHandler]()},
	"Reset":           {reflect.TypeFor[render.Resetter]()},
}

// validateShape rejects renderers declaring a handler name with a signature
// the scanners cannot call.
func validateShape(r render.Renderer) error {
	t := reflect.TypeOf(r)
	for i := range t.NumMethod() {
		m := t.Method(i)
		accepted, ok := handlerShapes[m.Name]
		if !ok {
			continue
		}
		if slices.ContainsFunc(accepted, t.Implements) {
			continue
		}
		want := make([]string, len(accepted))
		for j, iface := range accepted {
			want[j] = iface.Method(0).Type.String()
		}
		return errors.ConfigError(fmt.Sprintf("renderer %s: method %s has an unsupported signature", t, m.Name)).
			WithContext("renderer", t.String()).
			WithContext("method", m.Name).
			WithContext("got", m.Type.String()).
			WithContext("want", want).
			Build()
	}
	return nil
}

// dispatcher holds the handlers a renderer implements, resolved once at
// setup. A nil field means the construct is not implemented.
type dispatcher struct {
	renderer render.Renderer

	blockCode   render.BlockCodeHandler
	blockQuote  render.BlockQuoteHandler
	blockHTML   render.BlockHTMLHandler
	header      render.HeaderHandler
	hrule       render.HRuleHandler
	list        render.ListHandler
	listItem    render.ListItemHandler
	paragraph   render.ParagraphHandler
	table       render.TableHandler
	tableRow    render.TableRowHandler
	tableCell   render.TableCellHandler
	tableCellH  render.HeaderTableCellHandler
	footnotes   render.FootnotesHandler
	footnoteDef render.FootnoteDefHandler

	autolink       render.AutolinkHandler
	codeSpan       render.CodeSpanHandler
	doubleEmphasis render.DoubleEmphasisHandler
	emphasis       render.EmphasisHandler
	tripleEmphasis render.TripleEmphasisHandler
	strikethrough  render.StrikethroughHandler
	superscript    render.SuperscriptHandler
	underline      render.UnderlineHandler
	highlight      render.HighlightHandler
	quote          render.QuoteHandler
	image          render.ImageHandler
	lineBreak      render.LineBreakHandler
	link           render.LinkHandler
	rawHTML        render.RawHTMLHandler
	footnoteRef    render.FootnoteRefHandler
	dangling       render.DanglingLinkRefHandler

	normalText render.NormalTextHandler
	entity     render.EntityHandler

	docHeader   render.DocHeaderHandler
	docFooter   render.DocFooterHandler
	preprocess  render.PreprocessHandler
	postprocess render.PostprocessHandler
	resetter    render.Resetter
}

func newDispatcher(r render.Renderer) (*dispatcher, error) {
	if err := validateShape(r); err != nil {
		return nil, err
	}

	d := &dispatcher{renderer: r}
	d.blockCode, _ = r.(render.BlockCodeHandler)
	d.blockQuote, _ = r.(render.BlockQuoteHandler)
	d.blockHTML, _ = r.(render.BlockHTMLHandler)
	d.header, _ = r.(render.HeaderHandler)
	d.hrule, _ = r.(render.HRuleHandler)
	d.list, _ = r.(render.ListHandler)
	d.listItem, _ = r.(render.ListItemHandler)
	d.paragraph, _ = r.(render.ParagraphHandler)
	d.table, _ = r.(render.TableHandler)
	d.tableRow, _ = r.(render.TableRowHandler)
	d.tableCell, _ = r.(render.TableCellHandler)
	d.tableCellH, _ = r.(render.HeaderTableCellHandler)
	d.footnotes, _ = r.(render.FootnotesHandler)
	d.footnoteDef, _ = r.(render.FootnoteDefHandler)

	d.autolink, _ = r.(render.AutolinkHandler)
	d.codeSpan, _ = r.(render.CodeSpanHandler)
	d.doubleEmphasis, _ = r.(render.DoubleEmphasisHandler)
	d.emphasis, _ = r.(render.EmphasisHandler)
	d.tripleEmphasis, _ = r.(render.TripleEmphasisHandler)
	d.strikethrough, _ = r.(render.StrikethroughHandler)
	d.superscript, _ = r.(render.SuperscriptHandler)
	d.underline, _ = r.(render.UnderlineHandler)
	d.highlight, _ = r.(render.HighlightHandler)
	d.quote, _ = r.(render.QuoteHandler)
	d.image, _ = r.(render.ImageHandler)
	d.lineBreak, _ = r.(render.LineBreakHandler)
	d.link, _ = r.(render.LinkHandler)
	d.rawHTML, _ = r.(render.RawHTMLHandler)
	d.footnoteRef, _ = r.(render.FootnoteRefHandler)
	d.dangling, _ = r.(render.DanglingLinkRefHandler)

	d.normalText, _ = r.(render.NormalTextHandler)
	d.entity, _ = r.(render.EntityHandler)

	d.docHeader, _ = r.(render.DocHeaderHandler)
	d.docFooter, _ = r.(render.DocFooterHandler)
	d.preprocess, _ = r.(render.PreprocessHandler)
	d.postprocess, _ = r.(render.PostprocessHandler)
	d.resetter, _ = r.(render.Resetter)
	return d, nil
}

func (d *dispatcher) hasTableCell() bool {
	return d.tableCell != nil || d.tableCellH != nil
}

// cell calls whichever table cell form the renderer declares; header is only
// passed to the three-argument form.
func (d *dispatcher) cell(content string, align render.Alignment, header bool) string {
	switch {
	case d.tableCell != nil:
		return d.tableCell.TableCell(content, align)
	case d.tableCellH != nil:
		return d.tableCellH.TableCell(content, align, header)
	}
	return ""
}
