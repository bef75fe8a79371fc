package analyzer

import (
	"strings"
	"testing"

	"github.com/ludo-technologies/solidscan/internal/testutil"
)

func functionComplexity(t *testing.T, source, name string) *ComplexityResult {
	t.Helper()
	module := testutil.ParseModule(t, source)
	cfg, err := NewCFGBuilder().Build(testutil.FindFunction(t, module, name))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return CalculateComplexity(cfg)
}

func TestCalculateComplexity(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected int
	}{
		{
			name:     "straight line",
			source:   "def f():\n    x = 1\n    return x\n",
			expected: 1,
		},
		{
			name:     "if else",
			source:   "def f(a):\n    if a:\n        x = 1\n    else:\n        x = 2\n    return x\n",
			expected: 2,
		},
		{
			name:     "if elif else",
			source:   "def f(a):\n    if a > 1:\n        return 1\n    elif a > 0:\n        return 0\n    else:\n        return -1\n",
			expected: 3,
		},
		{
			name:     "both branches return",
			source:   "def f(a):\n    if a:\n        return 1\n    else:\n        return 2\n",
			expected: 2,
		},
		{
			name:     "boolean operators are not decisions",
			source:   "def f(a, b):\n    if a and b or not a:\n        return 1\n    return 0\n",
			expected: 2,
		},
		{
			name:     "for loop",
			source:   "def f(xs):\n    for x in xs:\n        print(x)\n",
			expected: 2,
		},
		{
			name:     "for else",
			source:   "def f(xs):\n    for x in xs:\n        pass\n    else:\n        pass\n",
			expected: 2,
		},
		{
			name:     "while with break",
			source:   "def f(x):\n    while x:\n        if x > 5:\n            break\n        x -= 1\n",
			expected: 3,
		},
		{
			name:     "try with two handlers",
			source:   "def f():\n    try:\n        g()\n    except ValueError:\n        pass\n    except KeyError:\n        pass\n",
			expected: 3,
		},
		{
			name:     "try finally",
			source:   "def f():\n    try:\n        g()\n    except ValueError:\n        pass\n    finally:\n        h()\n",
			expected: 2,
		},
		{
			name:     "match three cases",
			source:   "def f(x):\n    match x:\n        case 1:\n            return 'a'\n        case 2:\n            return 'b'\n        case _:\n            return 'c'\n",
			expected: 4,
		},
		{
			name:     "unreachable code ignored",
			source:   "def f(x):\n    return 1\n    if x:\n        pass\n",
			expected: 1,
		},
		{
			name:     "closure branches count toward the enclosing function",
			source:   "def f(x):\n    def g(y):\n        if y:\n            return 1\n        return 2\n    return g(x)\n",
			expected: 3,
		},
		{
			name:     "straight line closure adds one path",
			source:   "def f():\n    def g():\n        return 1\n    return g\n",
			expected: 2,
		},
		{
			name:     "local class methods fold like closures",
			source:   "def f():\n    class C:\n        def m(self, y):\n            if y:\n                return 1\n            return 2\n    return C\n",
			expected: 3,
		},
		{
			name:     "return inside closure does not end the enclosing function",
			source:   "def f(x):\n    def g():\n        return 1\n    if x:\n        return g()\n    return 0\n",
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := functionComplexity(t, tt.source, "f")
			if result.Complexity != tt.expected {
				t.Errorf("Expected complexity %d, got %d (nodes=%d, edges=%d)",
					tt.expected, result.Complexity, result.Nodes, result.Edges)
			}
		})
	}
}

func TestCalculateComplexity_Nil(t *testing.T) {
	if got := CalculateComplexity(nil).Complexity; got != 1 {
		t.Errorf("Expected 1 for nil graph, got %d", got)
	}
}

func TestCalculateComplexity_DecisionCounts(t *testing.T) {
	source := `
def f(xs):
    for x in xs:
        if x:
            try:
                g()
            except ValueError:
                pass
        elif x is None:
            pass
`
	result := functionComplexity(t, source, "f")

	if result.IfStatements != 2 {
		t.Errorf("Expected 2 if statements, got %d", result.IfStatements)
	}
	if result.LoopStatements != 1 {
		t.Errorf("Expected 1 loop, got %d", result.LoopStatements)
	}
	if result.ExceptionHandlers != 1 {
		t.Errorf("Expected 1 handler, got %d", result.ExceptionHandlers)
	}
	if result.NestingDepth != 3 {
		t.Errorf("Expected nesting depth 3, got %d", result.NestingDepth)
	}

	metrics := result.GetDetailedMetrics()
	if metrics["nodes"] != result.Nodes || metrics["edges"] != result.Edges {
		t.Error("Detailed metrics should mirror node and edge counts")
	}
}

func TestCalculateComplexity_DecisionCountsIncludeClosures(t *testing.T) {
	source := "def f(xs):\n    def keep(x):\n        if x:\n            return True\n        return False\n    for x in xs:\n        keep(x)\n"
	result := functionComplexity(t, source, "f")

	if result.IfStatements != 1 {
		t.Errorf("Expected the closure's if statement to be counted, got %d", result.IfStatements)
	}
	if result.LoopStatements != 1 {
		t.Errorf("Expected 1 loop, got %d", result.LoopStatements)
	}
	if result.Complexity != 4 {
		t.Errorf("Expected complexity 4, got %d", result.Complexity)
	}
}

func TestCalculateNestingDepth_ElifIsFlat(t *testing.T) {
	source := "def f(x):\n    if x == 1:\n        pass\n    elif x == 2:\n        pass\n    elif x == 3:\n        pass\n"
	result := functionComplexity(t, source, "f")
	if result.NestingDepth != 1 {
		t.Errorf("Expected nesting depth 1, got %d", result.NestingDepth)
	}
}

func TestComplexityAnalyzer_AnalyzeModule(t *testing.T) {
	var b strings.Builder
	b.WriteString("x = 0\n")
	for i := 0; i < 12; i++ {
		b.WriteString("if x:\n    x += 1\n")
	}
	b.WriteString("class A:\n    def m(self, y):\n        if y:\n            return 1\n        return 0\n")
	module := testutil.ParseModule(t, b.String())

	results, err := NewComplexityAnalyzer().AnalyzeModule(module)
	if err != nil {
		t.Fatalf("AnalyzeModule failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	main := results[0]
	if !main.IsModuleLevel() {
		t.Error("First result should be module level")
	}
	if main.Complexity != 13 {
		t.Errorf("Expected module-level complexity 13, got %d", main.Complexity)
	}

	method := results[1]
	if method.FunctionName != "A.m" || method.Complexity != 2 {
		t.Errorf("Unexpected method result: %s", method)
	}
	if method.StartLine == 0 {
		t.Error("Method result should carry its location")
	}
}

func TestComplexityAnalyzer_NilModule(t *testing.T) {
	if _, err := NewComplexityAnalyzer().AnalyzeModule(nil); err == nil {
		t.Error("Expected error for nil module")
	}
}
