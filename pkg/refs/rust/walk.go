package rust

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/matzehuels/cargodead/pkg/refs"
)

// keywords never name a crate even where the grammar yields an identifier.
var keywords = map[string]bool{"self": true, "Self": true, "super": true, "crate": true}

// walker visits every node of a Rust syntax tree and records leading path
// segments into set.
type walker struct {
	src []byte
	set refs.Set
}

// add records name unless it is a path keyword.
func (w *walker) add(name string) {
	if !keywords[name] {
		w.set.Add(name)
	}
}

// visit records the references rooted at n and recurses into all children.
// relative is true below the list of a scoped use list, where paths continue
// an outer prefix instead of starting at a crate root.
func (w *walker) visit(n *sitter.Node, relative bool) {
	switch n.Kind() {
	case "line_comment", "block_comment", "string_literal", "raw_string_literal", "char_literal":
		return
	case "token_tree":
		w.tokens(n)
		return
	case "scoped_identifier", "scoped_type_identifier", "scoped_use_list":
		if !relative {
			w.add(w.leading(n))
		}
	case "use_declaration":
		if arg := n.ChildByFieldName("argument"); arg != nil && arg.Kind() == "identifier" {
			w.add(arg.Utf8Text(w.src))
		}
	case "use_as_clause":
		if p := n.ChildByFieldName("path"); p != nil && !relative && p.Kind() == "identifier" {
			w.add(p.Utf8Text(w.src))
		}
	case "use_wildcard":
		if n.NamedChildCount() > 0 && !relative {
			if p := n.NamedChild(0); p != nil && p.Kind() == "identifier" {
				w.add(p.Utf8Text(w.src))
			}
		}
	case "use_list":
		if !relative {
			for i := uint(0); i < n.NamedChildCount(); i++ {
				if c := n.NamedChild(i); c != nil && c.Kind() == "identifier" {
					w.add(c.Utf8Text(w.src))
				}
			}
		}
	case "extern_crate_declaration":
		if name := n.ChildByFieldName("name"); name != nil {
			w.add(name.Utf8Text(w.src))
		}
	}

	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		w.visit(c, relative || (n.Kind() == "scoped_use_list" && c.Kind() == "use_list"))
	}
}

// leading returns the first segment of the path rooted at n, or "" when the
// path starts at self, super, crate, a metavariable or a qualified type.
func (w *walker) leading(n *sitter.Node) string {
	for n != nil {
		switch n.Kind() {
		case "identifier", "type_identifier":
			return n.Utf8Text(w.src)
		case "scoped_identifier", "scoped_type_identifier", "scoped_use_list":
			if p := n.ChildByFieldName("path"); p != nil {
				n = p
				continue
			}
			// `::name` starts at the extern prelude.
			n = n.ChildByFieldName("name")
		case "generic_type", "generic_type_with_turbofish":
			n = n.ChildByFieldName("type")
		default:
			return ""
		}
	}
	return ""
}

// tokens scans an unparsed token tree (macro body or attribute arguments)
// for `ident ::` sequences that start a path.
func (w *walker) tokens(tt *sitter.Node) {
	for i := uint(0); i < tt.ChildCount(); i++ {
		c := tt.Child(i)
		if c == nil {
			continue
		}
		switch c.Kind() {
		case "token_tree":
			w.tokens(c)
		case "identifier":
			if start := int(c.StartByte()); start > 0 && w.src[start-1] == '$' {
				continue
			}
			if w.followedByPathSep(c) && !w.precededByPathSep(c) {
				w.add(c.Utf8Text(w.src))
			}
		}
	}
}

// followedByPathSep reports whether `::` and another path segment follow n.
func (w *walker) followedByPathSep(n *sitter.Node) bool {
	p := skipSpaceForward(w.src, int(n.EndByte()))
	if p+1 >= len(w.src) || w.src[p] != ':' || w.src[p+1] != ':' {
		return false
	}
	p = skipSpaceForward(w.src, p+2)
	return p < len(w.src) && (isIdentByte(w.src[p]) || w.src[p] == '<' || w.src[p] == '{' || w.src[p] == '*')
}

// precededByPathSep reports whether n continues a path, i.e. it follows
// `seg::` rather than starting one. A bare leading `::` starts a path.
func (w *walker) precededByPathSep(n *sitter.Node) bool {
	p := skipSpaceBackward(w.src, int(n.StartByte()))
	if p < 2 || w.src[p-1] != ':' || w.src[p-2] != ':' {
		return false
	}
	p = skipSpaceBackward(w.src, p-2)
	return p > 0 && (isIdentByte(w.src[p-1]) || w.src[p-1] == '>')
}

func skipSpaceForward(src []byte, p int) int {
	for p < len(src) && isSpace(src[p]) {
		p++
	}
	return p
}

// skipSpaceBackward returns the offset just after the last non-space byte
// before p.
func skipSpaceBackward(src []byte, p int) int {
	for p > 0 && isSpace(src[p-1]) {
		p--
	}
	return p
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b >= 0x80
}
