// Package manifest edits Cargo.toml files in place.
//
// A [Document] keeps the manifest's original bytes and removes whole
// dependency entries by byte range, so comments, ordering, whitespace and
// every unrelated table survive an edit unchanged. Entry ranges come from
// the go-toml/v2 expression parser with comments kept. The full document is
// validated with BurntSushi/toml before and after editing; a document that
// does not parse is never edited or written.
package manifest

import (
	"bytes"
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cargodead/pkg/deps"
	"github.com/matzehuels/cargodead/pkg/errors"
)

// Document is a format-preserving view of one manifest.
type Document struct {
	src []byte
}

// Parse validates data as TOML and returns a Document over it.
func Parse(data []byte) (*Document, error) {
	if err := validate(data); err != nil {
		return nil, err
	}
	if _, err := lex(data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "unsupported manifest layout")
	}
	return &Document{src: slices.Clone(data)}, nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeReadFailed, err, "read %s", path)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	return doc, nil
}

// Bytes returns the current document text.
func (d *Document) Bytes() []byte {
	return slices.Clone(d.src)
}

// HasTable reports whether table exists at the top level and is a table
// (declared with a [table] or [table.key] header, or through dotted keys).
// A plain value, an inline table or an array of tables does not count.
func (d *Document) HasTable(table string) bool {
	lines, err := lex(d.src)
	if err != nil {
		return false
	}
	return tableShaped(lines, table)
}

// Remove deletes the entry name from the top-level table. It removes the
// `name = ...` line (including a multi-line value), dotted `name.x = ...`
// lines, `[table.name]` sections and comment lines directly above a removed
// entry. It reports whether anything was removed; a missing table or key is
// not an error.
func (d *Document) Remove(table, name string) bool {
	lines, err := lex(d.src)
	if err != nil || !tableShaped(lines, table) {
		return false
	}

	prefix := []string{table, name}
	drop := make([]bool, len(lines))
	removed := false

	for i := 0; i < len(lines); i++ {
		ln := lines[i]
		switch ln.kind {
		case lineTable, lineArrayTable:
			if !hasPrefix(ln.path, prefix) {
				continue
			}
			end := sectionEnd(lines, i)
			for j := i; j < end; j++ {
				drop[j] = true
			}
			dropAttachedComments(lines, drop, i)
			removed = true
			i = end - 1
		case lineKeyValue:
			if !hasPrefix(ln.path, prefix) {
				continue
			}
			drop[i] = true
			dropAttachedComments(lines, drop, i)
			removed = true
		}
	}
	if !removed {
		return false
	}

	var buf bytes.Buffer
	buf.Grow(len(d.src))
	for i, ln := range lines {
		if !drop[i] {
			buf.Write(d.src[ln.start:ln.end])
		}
	}
	d.src = buf.Bytes()
	return true
}

// Apply removes every name in unused from the table of its kind and returns
// the number of entries removed.
func (d *Document) Apply(unused deps.Unused) int {
	n := 0
	for _, k := range deps.AllKinds {
		for _, name := range unused[k] {
			if d.Remove(k.Table(), name) {
				n++
			}
		}
	}
	return n
}

// Save validates the document and overwrites path with it, keeping the
// file's permissions.
func (d *Document) Save(path string) error {
	if err := validate(d.src); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "edited manifest %s no longer parses", path)
	}
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, d.src, mode); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "write %s", path)
	}
	return nil
}

// Fix loads the manifest at path, removes every entry in unused and writes
// the result back. The file is left untouched when nothing was removed.
// It returns the number of removed entries.
func Fix(path string, unused deps.Unused) (int, error) {
	doc, err := Load(path)
	if err != nil {
		return 0, err
	}
	n := doc.Apply(unused)
	if n == 0 {
		return 0, nil
	}
	if err := doc.Save(path); err != nil {
		return 0, err
	}
	return n, nil
}

func validate(data []byte) error {
	var v map[string]any
	if _, err := toml.Decode(string(data), &v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidManifest, err, "invalid TOML")
	}
	return nil
}

// tableShaped reports whether the top-level key table holds a table.
func tableShaped(lines []line, table string) bool {
	found := false
	for _, ln := range lines {
		switch ln.kind {
		case lineTable:
			if hasPrefix(ln.path, []string{table}) {
				found = true
			}
		case lineArrayTable:
			if len(ln.path) == 1 && ln.path[0] == table {
				return false
			}
		case lineKeyValue:
			if len(ln.path) == 1 && ln.path[0] == table {
				return false
			}
			if len(ln.path) > 1 && ln.path[0] == table {
				found = true
			}
		}
	}
	return found
}

// sectionEnd returns the index one past the last line belonging to the
// section whose header is at i. Trailing blank and comment lines are left
// to the next section.
func sectionEnd(lines []line, i int) int {
	end := i + 1
	for end < len(lines) && lines[end].kind != lineTable && lines[end].kind != lineArrayTable {
		end++
	}
	for end > i+1 && (lines[end-1].kind == lineBlank || lines[end-1].kind == lineComment) {
		end--
	}
	return end
}

// dropAttachedComments marks the comment lines directly above line i.
func dropAttachedComments(lines []line, drop []bool, i int) {
	for j := i - 1; j >= 0 && lines[j].kind == lineComment; j-- {
		drop[j] = true
	}
}

func hasPrefix(path, prefix []string) bool {
	return len(path) >= len(prefix) && slices.Equal(path[:len(prefix)], prefix)
}
