package markdown

import (
	"bytes"

	"git.home.luguber.info/inful/mdrender/internal/render"
)

// table recognises a header row followed by a delimiter row with the same
// number of cells, then body rows up to a blank line or a line without a
// pipe.
func (p *parser) table(out *bytes.Buffer, data []byte) int {
	headerEnd := lineLen(data)
	headerLine := bytes.TrimRight(data[:headerEnd], "\n")
	if countPipes(headerLine) == 0 || headerEnd >= len(data) {
		return 0
	}
	delimEnd := headerEnd + lineLen(data[headerEnd:])
	aligns, ok := parseDelimiterRow(bytes.TrimRight(data[headerEnd:delimEnd], "\n"))
	if !ok {
		return 0
	}
	cells := splitRow(headerLine)
	if len(cells) != len(aligns) {
		return 0
	}

	var header, body bytes.Buffer
	p.tableRow(&header, cells, aligns, true)

	i := delimEnd
	for i < len(data) {
		end := i + lineLen(data[i:])
		line := bytes.TrimRight(data[i:end], "\n")
		if isEmpty(data[i:end]) > 0 || countPipes(line) == 0 {
			break
		}
		p.tableRow(&body, splitRow(line), aligns, false)
		i = end
	}

	if p.d.table != nil {
		p.emit(out, ConstructTable, p.d.table.Table(header.String(), body.String()))
	}
	return i
}

// tableRow renders one row. Missing cells are rendered empty, surplus cells
// are dropped.
func (p *parser) tableRow(out *bytes.Buffer, cells [][]byte, aligns []render.Alignment, header bool) {
	var row bytes.Buffer
	for col, align := range aligns {
		var content bytes.Buffer
		if col < len(cells) {
			p.parseInline(&content, cells[col])
		}
		if p.d.hasTableCell() {
			p.emit(&row, ConstructTableCell, p.d.cell(content.String(), align, header))
		}
	}
	if p.d.tableRow != nil {
		p.emit(out, ConstructTableRow, p.d.tableRow.TableRow(row.String()))
	}
}

// countPipes counts the pipes of line that are not escaped.
func countPipes(line []byte) int {
	n := 0
	for i, c := range line {
		if c == '|' && (i == 0 || line[i-1] != '\\') {
			n++
		}
	}
	return n
}

// splitRow splits a row on unescaped pipes, dropping the optional outer
// pipes and trimming every cell.
func splitRow(line []byte) [][]byte {
	line = bytes.TrimSpace(line)
	if len(line) > 0 && line[0] == '|' {
		line = line[1:]
	}
	if n := len(line); n > 0 && line[n-1] == '|' && (n < 2 || line[n-2] != '\\') {
		line = line[:n-1]
	}

	var cells [][]byte
	start := 0
	for i := 0; i < len(line); i++ {
		if line[i] == '\\' {
			i++
			continue
		}
		if line[i] == '|' {
			cells = append(cells, bytes.TrimSpace(line[start:i]))
			start = i + 1
		}
	}
	return append(cells, bytes.TrimSpace(line[start:]))
}

// parseDelimiterRow reads the alignment of every column from a row of cells
// made of dashes with optional leading and trailing colons.
func parseDelimiterRow(line []byte) ([]render.Alignment, bool) {
	if countPipes(line) == 0 && !bytes.Contains(line, []byte("-")) {
		return nil, false
	}
	cells := splitRow(line)
	aligns := make([]render.Alignment, len(cells))
	for i, cell := range cells {
		if len(cell) == 0 {
			return nil, false
		}
		left := cell[0] == ':'
		right := cell[len(cell)-1] == ':'
		dashes := bytes.Trim(cell, ":")
		if len(dashes) == 0 || len(bytes.Trim(dashes, "-")) != 0 {
			return nil, false
		}
		switch {
		case left && right:
			aligns[i] = render.AlignCenter
		case left:
			aligns[i] = render.AlignLeft
		case right:
			aligns[i] = render.AlignRight
		}
	}
	return aligns, true
}
