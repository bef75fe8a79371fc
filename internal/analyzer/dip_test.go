package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/solidscan/internal/testutil"
)

func TestDIP(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   [][]any
	}{
		{
			name: "reimplementation",
			source: `
class Base:
    def m(self, x):
        return x * 2

class Derived(Base):
    def m(self, x):
        y = x + 1
        return y * 2
`,
			want: [][]any{{"Derived", "m"}},
		},
		{
			name: "pure delegation",
			source: `
class Base:
    def m(self, x):
        return x * 2

class Derived(Base):
    def m(self, x):
        return super().m(x)
`,
			want: nil,
		},
		{
			name: "delegation as expression statement",
			source: `
class Base:
    def m(self, x):
        print(x)

class Derived(Base):
    def m(self, x):
        super(Derived, self).m(x)
`,
			want: nil,
		},
		{
			name: "delegation plus extra statement",
			source: `
class Base:
    def __init__(self, a):
        self.a = a

class Derived(Base):
    def __init__(self, a):
        super().__init__(a)
        self.b = a
`,
			want: [][]any{{"Derived", "__init__"}},
		},
		{
			name: "delegation to a different method",
			source: `
class Base:
    def m(self):
        return 1

    def n(self):
        return 2

class Derived(Base):
    def m(self):
        return super().n()
`,
			want: [][]any{{"Derived", "m"}},
		},
		{
			name: "overriding abstract base",
			source: `
class Base:
    @abstractmethod
    def m(self):
        return 1

    def n(self):
        raise NotImplementedError

class Derived(Base):
    def m(self):
        return 2

    def n(self):
        return 3
`,
			want: nil,
		},
		{
			name: "conditional base stub is concrete",
			source: `
class Base:
    def m(self, x):
        if x:
            return x
        else:
            pass

class Derived(Base):
    def m(self, x):
        return 0
`,
			want: [][]any{{"Derived", "m"}},
		},
		{
			name: "stub derived method is left to LSP",
			source: `
class Base:
    def m(self):
        return 1

class Derived(Base):
    def m(self):
        pass
`,
			want: nil,
		},
		{
			name: "concrete grandparent",
			source: `
class Root:
    def m(self):
        return 1

class Mid(Root):
    pass

class Leaf(Mid):
    def m(self):
        return 2
`,
			want: [][]any{{"Leaf", "m"}},
		},
		{
			name: "abstract parent hides concrete grandparent",
			source: `
class Root:
    def m(self):
        return 1

class Mid(Root):
    @abstractmethod
    def m(self):
        raise NotImplementedError

class Leaf(Mid):
    def m(self):
        return 2
`,
			want: nil,
		},
		{
			name: "concrete method on a second base branch",
			source: `
class Port:
    @abstractmethod
    def m(self):
        raise NotImplementedError

class Impl:
    def m(self):
        return 1

class Leaf(Port, Impl):
    def m(self):
        return 2
`,
			want: [][]any{{"Leaf", "m"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := byRule(lint(t, tt.source, nil, nil), RuleDIPConcreteOverrideReplaced)
			if tt.want == nil {
				assert.Empty(t, violations)
				return
			}
			require.Len(t, violations, len(tt.want))
			for i, v := range violations {
				assert.Equal(t, tt.want[i], v.Args)
			}
		})
	}
}

func TestDIP_Message(t *testing.T) {
	source := "class Base:\n    def m(self):\n        return 1\n\nclass Derived(Base):\n    def m(self):\n        return 2\n"
	violations := byRule(lint(t, source, nil, nil), RuleDIPConcreteOverrideReplaced)
	require.Len(t, violations, 1)
	assert.Equal(t, `Class is potentially violating Dependency Inversion Principle. Class "Derived" overrides already implemented base class method "m".`, violations[0].Message)
	assert.Equal(t, "Derived.m", violations[0].Symbol)
}

func TestIsSuperDelegation(t *testing.T) {
	module := testutil.ParseModule(t, `
class D(B):
    def a(self):
        return super().a()

    def b(self):
        super().b()

    def c(self):
        return super().other()

    def d(self):
        return self.d()

    def e(self):
        return Base.e(self)

    def f(self):
        x = super().f()
`)
	tests := map[string]bool{"a": true, "b": true, "c": false, "d": false, "e": false, "f": false}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, IsSuperDelegation(testutil.FindMethod(t, module, "D", name)))
		})
	}
}
