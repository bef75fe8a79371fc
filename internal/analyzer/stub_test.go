package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ludo-technologies/solidscan/internal/config"
	"github.com/ludo-technologies/solidscan/internal/parser"
	"github.com/ludo-technologies/solidscan/internal/testutil"
)

const stubFixture = `
import abc

class Shapes:
    @abstractmethod
    def annotated(self):
        return 42

    @abc.abstractmethod
    def qualified_marker(self):
        return 42

    @abstractmethod()
    def called_marker(self):
        return 42

    def passes(self):
        pass

    def bare_return(self):
        return

    def returns_none(self):
        return None

    def raises_class(self):
        raise NotImplementedError

    def raises_call(self):
        raise NotImplementedError("todo")

    def raises_qualified(self):
        raise builtins.NotImplementedError()

    def raises_other(self):
        raise ValueError("no")

    def concrete(self):
        return 42

    def docstring_only(self):
        """Only documented."""

    def conditional_stub(self, x):
        if x:
            return 1
        else:
            pass

    def loop_stub(self, xs):
        for x in xs:
            raise NotImplementedError

    def second_statement_stub(self):
        x = 1
        pass

    def nested_def_not_entered(self):
        def helper():
            pass
        return helper
`

func TestStubDetector_IsStub(t *testing.T) {
	module := testutil.ParseModule(t, stubFixture)
	class := testutil.FindClass(t, module, "Shapes")
	d := NewStubDetector(nil)

	tests := []struct {
		method string
		want   bool
	}{
		{"annotated", true},
		{"qualified_marker", true},
		{"called_marker", true},
		{"passes", true},
		{"bare_return", true},
		{"returns_none", true},
		{"raises_class", true},
		{"raises_call", true},
		{"raises_qualified", true},
		{"raises_other", false},
		{"concrete", false},
		{"docstring_only", false},
		{"conditional_stub", true},
		{"loop_stub", true},
		{"second_statement_stub", false},
		{"nested_def_not_entered", false},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			fn, ok := class.Method(tt.method)
			if !ok {
				t.Fatalf("method %s missing", tt.method)
			}
			assert.Equal(t, tt.want, d.IsStub(fn, fn.FirstStatement()))
		})
	}
}

func TestStubDetector_Variants(t *testing.T) {
	module := testutil.ParseModule(t, stubFixture)
	class := testutil.FindClass(t, module, "Shapes")
	d := NewStubDetector(nil)

	tests := []struct {
		method  string
		deep    bool
		shallow bool
	}{
		{"docstring_only", true, true},
		{"second_statement_stub", true, false},
		{"conditional_stub", true, false},
		{"concrete", false, false},
		{"passes", true, true},
		{"annotated", true, true},
		{"nested_def_not_entered", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			fn, _ := class.Method(tt.method)
			assert.Equal(t, tt.deep, d.IsStubMethod(fn), "IsStubMethod")
			assert.Equal(t, tt.shallow, d.IsStubShallow(fn), "IsStubShallow")
		})
	}
}

func TestStubDetector_CustomMarkers(t *testing.T) {
	module := testutil.ParseModule(t, `
class A:
    @abstract
    def a(self):
        return 1

    @abstractmethod
    def b(self):
        return 1
`)
	d := NewStubDetector([]string{"abstract"})

	a := testutil.FindMethod(t, module, "A", "a")
	b := testutil.FindMethod(t, module, "A", "b")
	assert.True(t, d.IsAbstract(a))
	assert.False(t, d.IsAbstract(b))
}

func TestStubDetector_NilInputs(t *testing.T) {
	d := NewStubDetector(nil)
	assert.False(t, d.IsStub(&parser.FunctionDef{Name: "f"}, nil))
	assert.False(t, d.IsStubMethod(nil))
	assert.False(t, d.IsStubShallow(nil))
	assert.False(t, d.IsAbstract(nil))
}

func TestStubDetector_DefaultMarkerMatchesConfig(t *testing.T) {
	assert.Equal(t, []string{config.DefaultAbstractMarker}, NewStubDetector(nil).markers)
	assert.Equal(t, config.DefaultConfig().Stub.AbstractMarkers, NewStubDetector([]string{}).markers)
}
