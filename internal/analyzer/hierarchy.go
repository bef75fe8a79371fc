package analyzer

import (
	"github.com/ludo-technologies/solidscan/internal/parser"
)

// IndexBuilder accumulates the classes of one module. It is append-only;
// Build freezes the accumulated state into a ClassIndex.
type IndexBuilder struct {
	order   []string
	classes map[string]*parser.ClassDef
}

// NewIndexBuilder creates an empty builder
func NewIndexBuilder() *IndexBuilder {
	return &IndexBuilder{classes: make(map[string]*parser.ClassDef)}
}

// Add records a class. A later class with the same name replaces the
// earlier one but keeps its position.
func (b *IndexBuilder) Add(class *parser.ClassDef) {
	if class == nil {
		return
	}
	if _, exists := b.classes[class.Name]; !exists {
		b.order = append(b.order, class.Name)
	}
	b.classes[class.Name] = class
}

// Len returns the number of distinct class names recorded
func (b *IndexBuilder) Len() int {
	return len(b.order)
}

// Build returns an immutable snapshot of the recorded classes
func (b *IndexBuilder) Build() *ClassIndex {
	idx := &ClassIndex{
		order:   make([]string, len(b.order)),
		classes: make(map[string]*parser.ClassDef, len(b.classes)),
	}
	copy(idx.order, b.order)
	for name, class := range b.classes {
		idx.classes[name] = class
	}
	return idx
}

// ClassIndex maps class names to declarations within a single module
type ClassIndex struct {
	order   []string
	classes map[string]*parser.ClassDef
}

// Lookup resolves a class by name
func (idx *ClassIndex) Lookup(name string) (*parser.ClassDef, bool) {
	class, ok := idx.classes[name]
	return class, ok
}

// Resolve resolves a base reference. Qualified references never resolve.
func (idx *ClassIndex) Resolve(base parser.BaseRef) (*parser.ClassDef, bool) {
	if base.Qualified {
		return nil, false
	}
	return idx.Lookup(base.Name)
}

// Classes returns the indexed classes in first-declaration order
func (idx *ClassIndex) Classes() []*parser.ClassDef {
	classes := make([]*parser.ClassDef, 0, len(idx.order))
	for _, name := range idx.order {
		classes = append(classes, idx.classes[name])
	}
	return classes
}

// Len returns the number of indexed classes
func (idx *ClassIndex) Len() int {
	return len(idx.order)
}

// FindInBases searches the base chain of class depth-first, bases in
// declaration order, for a method named name that satisfies match. Each
// base's own method is checked before its ancestors. Unresolved bases end
// that branch only, and every class is visited at most once so cyclic
// declarations terminate. The first match wins.
func (idx *ClassIndex) FindInBases(class *parser.ClassDef, name string, match func(*parser.FunctionDef) bool) (*parser.FunctionDef, bool) {
	if class == nil {
		return nil, false
	}
	visited := map[*parser.ClassDef]bool{class: true}
	return idx.searchBases(class, name, match, visited)
}

func (idx *ClassIndex) searchBases(class *parser.ClassDef, name string, match func(*parser.FunctionDef) bool, visited map[*parser.ClassDef]bool) (*parser.FunctionDef, bool) {
	for _, ref := range class.Bases {
		base, ok := idx.Resolve(ref)
		if !ok || visited[base] {
			continue
		}
		visited[base] = true

		if method, ok := base.Method(name); ok && match(method) {
			return method, true
		}
		if method, ok := idx.searchBases(base, name, match, visited); ok {
			return method, true
		}
	}
	return nil, false
}

// NearestDeclarations returns, for each base branch of class, the first
// method named name met depth-first. A branch stops at the first resolved
// base that declares the name, so ancestors behind an override are never
// returned. Unresolved bases and already visited classes are skipped.
func (idx *ClassIndex) NearestDeclarations(class *parser.ClassDef, name string) []*parser.FunctionDef {
	if class == nil {
		return nil
	}
	var found []*parser.FunctionDef
	visited := map[*parser.ClassDef]bool{class: true}
	idx.collectNearest(class, name, visited, &found)
	return found
}

func (idx *ClassIndex) collectNearest(class *parser.ClassDef, name string, visited map[*parser.ClassDef]bool, found *[]*parser.FunctionDef) {
	for _, ref := range class.Bases {
		base, ok := idx.Resolve(ref)
		if !ok || visited[base] {
			continue
		}
		visited[base] = true

		if method, ok := base.Method(name); ok {
			*found = append(*found, method)
			continue
		}
		idx.collectNearest(base, name, visited, found)
	}
}
