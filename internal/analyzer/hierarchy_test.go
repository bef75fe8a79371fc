package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/solidscan/internal/parser"
	"github.com/ludo-technologies/solidscan/internal/testutil"
)

func buildIndex(t *testing.T, source string) *ClassIndex {
	t.Helper()
	module := testutil.ParseModule(t, source)
	b := NewIndexBuilder()
	for _, class := range module.Classes() {
		b.Add(class)
	}
	return b.Build()
}

func anyMethod(*parser.FunctionDef) bool { return true }

func TestClassIndex_LookupAndOrder(t *testing.T) {
	idx := buildIndex(t, `
class A:
    pass

class B(A):
    pass

class A:
    def replaced(self):
        pass
`)
	require.Equal(t, 2, idx.Len())

	classes := idx.Classes()
	assert.Equal(t, "A", classes[0].Name)
	assert.Equal(t, "B", classes[1].Name)

	a, ok := idx.Lookup("A")
	require.True(t, ok)
	_, hasReplaced := a.Method("replaced")
	assert.True(t, hasReplaced, "later declaration wins")

	_, ok = idx.Lookup("Missing")
	assert.False(t, ok)
}

func TestClassIndex_BuildIsSnapshot(t *testing.T) {
	b := NewIndexBuilder()
	b.Add(&parser.ClassDef{Name: "A"})
	idx := b.Build()
	b.Add(&parser.ClassDef{Name: "B"})

	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, 2, b.Len())
}

func TestClassIndex_ResolveQualified(t *testing.T) {
	idx := buildIndex(t, "class ABC:\n    pass\n")
	_, ok := idx.Resolve(parser.BaseRef{Name: "ABC"})
	assert.True(t, ok)
	_, ok = idx.Resolve(parser.BaseRef{Name: "ABC", Qualified: true})
	assert.False(t, ok)
}

func TestClassIndex_FindInBasesDepthFirst(t *testing.T) {
	idx := buildIndex(t, `
class Root:
    def m(self):
        return "root"

class Left(Root):
    pass

class Right:
    def m(self):
        return "right"

class Child(External, Left, Right):
    def m(self):
        pass
`)
	child, _ := idx.Lookup("Child")
	found, ok := idx.FindInBases(child, "m", anyMethod)
	require.True(t, ok)
	assert.Equal(t, "Root", found.Class.Name, "unresolved External is skipped and Left's ancestors come before Right")

	_, ok = idx.FindInBases(child, "missing", anyMethod)
	assert.False(t, ok)
}

func TestClassIndex_FindInBasesHonorsPredicate(t *testing.T) {
	idx := buildIndex(t, `
class Root:
    def m(self):
        return 1

class Mid(Root):
    def m(self):
        pass

class Leaf(Mid):
    def m(self):
        pass
`)
	leaf, _ := idx.Lookup("Leaf")
	d := NewStubDetector(nil)
	found, ok := idx.FindInBases(leaf, "m", func(fn *parser.FunctionDef) bool { return !d.IsStubMethod(fn) })
	require.True(t, ok)
	assert.Equal(t, "Root", found.Class.Name)
}

func TestClassIndex_FindInBasesTerminatesOnCycles(t *testing.T) {
	idx := buildIndex(t, `
class A(B):
    def m(self):
        pass

class B(A):
    def n(self):
        pass
`)
	a, _ := idx.Lookup("A")
	_, ok := idx.FindInBases(a, "missing", anyMethod)
	assert.False(t, ok)

	found, ok := idx.FindInBases(a, "n", anyMethod)
	require.True(t, ok)
	assert.Equal(t, "B", found.Class.Name)

	_, ok = idx.FindInBases(a, "m", anyMethod)
	assert.False(t, ok, "a class is never its own base")
}

func TestClassIndex_NearestDeclarationsStopAtOverride(t *testing.T) {
	idx := buildIndex(t, `
class Root:
    def m(self):
        return 1

class Mid(Root):
    def m(self):
        raise NotImplementedError

class Other(Root):
    pass

class Side:
    def m(self):
        return 3

class Leaf(Mid, External, Side):
    def m(self):
        return 2

class Far(Other):
    pass
`)
	leaf, _ := idx.Lookup("Leaf")
	found := idx.NearestDeclarations(leaf, "m")
	require.Len(t, found, 2)
	assert.Equal(t, "Mid", found[0].Class.Name, "Root is hidden behind Mid")
	assert.Equal(t, "Side", found[1].Class.Name)

	far, _ := idx.Lookup("Far")
	found = idx.NearestDeclarations(far, "m")
	require.Len(t, found, 1)
	assert.Equal(t, "Root", found[0].Class.Name)

	assert.Empty(t, idx.NearestDeclarations(leaf, "missing"))
}
