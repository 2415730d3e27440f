package manifest

import (
	"github.com/pelletier/go-toml/v2/unstable"
)

type lineKind int

const (
	lineBlank lineKind = iota
	lineComment
	lineTable      // [a.b]
	lineArrayTable // [[a.b]]
	lineKeyValue   // a.b = value
)

// line is one logical line of a TOML document. A key/value line spans
// several physical lines when its value contains a multi-line string or
// array, and includes any comment trailing the value.
type line struct {
	kind  lineKind
	start int      // offset of the first byte
	end   int      // offset just past the terminating newline
	path  []string // header path, or the full key path of a key/value
}

// lex splits src into logical lines using the go-toml expression parser.
// Key/value paths are absolute: they include the path of the enclosing table
// header. Blank lines between expressions become lineBlank entries.
func lex(src []byte) ([]line, error) {
	p := unstable.Parser{KeepComments: true}
	p.Reset(src)

	var (
		lines   []line
		header  []string
		pending *line
		pos     int
	)
	for p.NextExpression() {
		ln := expression(p.Expression())
		ln.start = lineStart(src, ln.start)

		if pending != nil {
			pending.end = trimBlankTail(src, pending.start, ln.start)
			lines = append(lines, *pending)
			pos = pending.end
		}
		lines = appendBlanks(lines, src, pos, ln.start)

		switch ln.kind {
		case lineTable, lineArrayTable:
			header = ln.path
		case lineKeyValue:
			ln.path = append(append([]string(nil), header...), ln.path...)
		}
		pending = &ln
	}
	if err := p.Error(); err != nil {
		return nil, err
	}

	if pending != nil {
		pending.end = trimBlankTail(src, pending.start, len(src))
		lines = append(lines, *pending)
		pos = pending.end
	}
	return appendBlanks(lines, src, pos, len(src)), nil
}

// expression converts a top-level parser node into a line whose start is
// the offset of the node's first token. The node is only valid until the
// next call to NextExpression, so key data is copied.
func expression(n *unstable.Node) line {
	var ln line
	switch n.Kind {
	case unstable.Comment:
		ln.kind = lineComment
		ln.start = int(n.Raw.Offset)
		return ln
	case unstable.Table:
		ln.kind = lineTable
	case unstable.ArrayTable:
		ln.kind = lineArrayTable
	default:
		ln.kind = lineKeyValue
	}

	ln.start = -1
	it := n.Key()
	for it.Next() {
		k := it.Node()
		if ln.start < 0 {
			ln.start = int(k.Raw.Offset)
		}
		ln.path = append(ln.path, string(k.Data))
	}
	return ln
}

// lineStart returns the offset of the first byte of the physical line
// containing p.
func lineStart(src []byte, p int) int {
	for p > 0 && src[p-1] != '\n' {
		p--
	}
	return p
}

// trimBlankTail returns the end of the content in src[start:limit] once
// trailing whitespace-only lines are dropped. The first line is never
// dropped.
func trimBlankTail(src []byte, start, limit int) int {
	end := limit
	for end > start {
		ls := end - 1
		if src[ls] == '\n' {
			ls--
		}
		for ls >= start && src[ls] != '\n' {
			ls--
		}
		ls++
		if ls <= start || !isBlank(src[ls:end]) {
			break
		}
		end = ls
	}
	return end
}

// appendBlanks appends one lineBlank per physical line in src[from:to].
func appendBlanks(lines []line, src []byte, from, to int) []line {
	for from < to {
		end := from
		for end < to && src[end] != '\n' {
			end++
		}
		if end < to {
			end++
		}
		lines = append(lines, line{kind: lineBlank, start: from, end: end})
		from = end
	}
	return lines
}

func isBlank(b []byte) bool {
	for _, c := range b {
		if c != ' ' && c != '\t' && c != '\r' && c != '\n' {
			return false
		}
	}
	return true
}
