package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/solidscan/internal/testutil"
)

func TestISP_IsInterface(t *testing.T) {
	module := testutil.ParseModule(t, `
class Empty:
    pass

class AllStubs:
    def a(self):
        pass

    @abstractmethod
    def b(self):
        return 1

class DocOnly:
    def a(self):
        """Declared only."""

class Mixed:
    def a(self):
        pass

    def b(self):
        return 1
`)
	c := NewISPChecker(NewStubDetector(nil), nil, NewRuleFilter(nil, nil))

	assert.False(t, c.IsInterface(testutil.FindClass(t, module, "Empty")), "zero methods is never an interface")
	assert.True(t, c.IsInterface(testutil.FindClass(t, module, "AllStubs")))
	assert.True(t, c.IsInterface(testutil.FindClass(t, module, "DocOnly")))
	assert.False(t, c.IsInterface(testutil.FindClass(t, module, "Mixed")))
}

func TestISP(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   [][]any
	}{
		{
			name: "partial implementation",
			source: `
class I:
    def a(self):
        pass

    def b(self):
        raise NotImplementedError

class C(I):
    def a(self):
        return 1
`,
			want: [][]any{{"I", "C"}},
		},
		{
			name: "stubbed implementation",
			source: `
class I:
    def a(self):
        pass

class C(I):
    def a(self):
        return None
`,
			want: [][]any{{"I", "C"}},
		},
		{
			name: "empty implementation",
			source: `
class I:
    def a(self):
        pass

class C(I):
    def a(self):
        """Nothing."""
`,
			want: [][]any{{"I", "C"}},
		},
		{
			name: "full implementation",
			source: `
class I:
    def a(self):
        pass

    def b(self):
        pass

class C(I):
    def a(self):
        return 1

    def b(self):
        return 2
`,
			want: nil,
		},
		{
			name: "only direct bases",
			source: `
class I:
    def a(self):
        pass

class Impl(I):
    def a(self):
        return 1

class Sub(Impl):
    pass
`,
			want: nil,
		},
		{
			name: "one violation per interface and client",
			source: `
class I:
    def a(self):
        pass

    def b(self):
        pass

class J:
    def c(self):
        pass

class C(I, J):
    pass

class D(I):
    def a(self):
        return 1
    def b(self):
        return 1
`,
			want: [][]any{{"I", "C"}, {"J", "C"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := byRule(lint(t, tt.source, nil, nil), RuleISPIncompleteImplementation)
			if tt.want == nil {
				assert.Empty(t, violations)
				return
			}
			require.Len(t, violations, len(tt.want))
			for i, v := range violations {
				assert.Equal(t, tt.want[i], v.Args)
				assert.Equal(t, tt.want[i][0], v.Symbol, "anchored on the interface")
			}
		})
	}
}

func TestISP_MessageArguments(t *testing.T) {
	source := "class I:\n    def a(self):\n        pass\n    def b(self):\n        pass\n\nclass C(I):\n    def a(self):\n        return 1\n"
	violations := byRule(lint(t, source, nil, nil), RuleISPIncompleteImplementation)
	require.Len(t, violations, 1)
	assert.Equal(t, `Interface is potentially violating Interface Segregation Principle. Interface "I" is not fully implemented by client class "C".`, violations[0].Message)
	assert.Equal(t, 1, violations[0].Location.StartLine)
}
