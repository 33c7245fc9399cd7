// Package render defines the renderer capability set consumed by the
// markdown scanners, together with the bundled renderers.
//
// A renderer is any value implementing Renderer. Every construct the
// scanners recognise has its own single-method interface (EmphasisHandler,
// ParagraphHandler, ...); a renderer implements as many of them as it wants.
// Constructs without a handler fall back as follows:
//
//   - block constructs produce nothing,
//   - span constructs are emitted as literal source text,
//   - NormalText and Entity emit the raw text.
//
// Renderers usually embed *Base (or one of the bundled renderers) and
// override individual handlers:
//
//	type shouting struct{ *render.HTML }
//
//	func (shouting) Emphasis(text string) (string, bool) {
//		return "<em>" + strings.ToUpper(text) + "</em>", true
//	}
//
// Span handlers return ok == false to decline; the construct is then emitted
// as literal text. A block handler returning "" renders nothing for that
// occurrence.
package render
