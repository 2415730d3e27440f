package deps

// Declared holds declared dependency names per kind, each list in
// declaration order without duplicates.
type Declared map[Kind][]string

// Classify partitions deps by kind and projects them to names. A name
// declared under two kinds appears in both lists.
func Classify(deps []Dependency) Declared {
	out := make(Declared, len(AllKinds))
	seen := make(map[Dependency]bool, len(deps))
	for _, d := range deps {
		if seen[d] {
			continue
		}
		seen[d] = true
		out[d.Kind] = append(out[d.Kind], d.Name)
	}
	return out
}

// Count returns the total number of declarations.
func (d Declared) Count() int {
	n := 0
	for _, names := range d {
		n += len(names)
	}
	return n
}
