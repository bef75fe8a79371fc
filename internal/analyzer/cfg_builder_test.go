package analyzer

import (
	"testing"

	"github.com/ludo-technologies/solidscan/internal/testutil"
)

func TestCFGBuilder_BuildAllNamesInDocumentOrder(t *testing.T) {
	source := `
import os

class Shape:
    def area(self):
        return 0

    class Meta:
        def describe(self):
            return "meta"

def outer():
    def inner():
        return 1
    return inner()

if __name__ == "__main__":
    outer()
`
	module := testutil.ParseModule(t, source)

	cfgs, err := NewCFGBuilder().BuildAll(module)
	if err != nil {
		t.Fatalf("BuildAll failed: %v", err)
	}

	expected := []string{"__main__", "Shape.area", "Shape.Meta.describe", "outer"}
	if len(cfgs) != len(expected) {
		names := make([]string, len(cfgs))
		for i, c := range cfgs {
			names[i] = c.Name
		}
		t.Fatalf("Expected graphs %v, got %v", expected, names)
	}
	for i, name := range expected {
		if cfgs[i].Name != name {
			t.Errorf("graph %d: expected %s, got %s", i, name, cfgs[i].Name)
		}
	}

	if !cfgs[0].IsModuleLevel() {
		t.Error("First graph must be the module-level graph")
	}
	for _, cfg := range cfgs[1:] {
		if cfg.IsModuleLevel() {
			t.Errorf("%s should belong to a function", cfg.Name)
		}
	}
}

func TestCFGBuilder_BuildSingleFunction(t *testing.T) {
	module := testutil.ParseModule(t, "class A:\n    def m(self):\n        def helper():\n            pass\n        return helper\n")
	fn := testutil.FindMethod(t, module, "A", "m")

	cfg, err := NewCFGBuilder().Build(fn)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if cfg.Name != "A.m" {
		t.Errorf("Expected name A.m, got %s", cfg.Name)
	}
	if cfg.Function != fn {
		t.Error("Graph should reference its function")
	}
}

func TestCFGBuilder_FoldsClosureIntoEnclosingGraph(t *testing.T) {
	module := testutil.ParseModule(t, "def outer(x):\n    def inner():\n        return 1\n    return inner()\n")
	cfg, err := NewCFGBuilder().Build(testutil.FindFunction(t, module, "outer"))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	var body, exit *BasicBlock
	for _, block := range cfg.Blocks {
		switch block.Label {
		case LabelClosureBody:
			body = block
		case LabelClosureExit:
			exit = block
		}
	}
	if body == nil || exit == nil {
		t.Fatal("Expected closure body and exit blocks in the enclosing graph")
	}

	reachable := cfg.Reachable()
	if !reachable[body] || !reachable[exit] {
		t.Error("Closure blocks should be reachable from entry")
	}
	for _, edge := range body.Successors {
		if edge.To == cfg.Exit {
			t.Error("A return inside the closure must not reach the enclosing exit")
		}
	}
	if !NewCFGBuilder().hasSuccessor(exit, cfg.Exit) {
		t.Error("The enclosing return should follow the closure exit")
	}
}

func TestCFGBuilder_BuildNil(t *testing.T) {
	if _, err := NewCFGBuilder().Build(nil); err == nil {
		t.Error("Expected error for nil function")
	}
	if _, err := NewCFGBuilder().BuildAll(nil); err == nil {
		t.Error("Expected error for nil module")
	}
}

func TestCFGBuilder_UnreachableAfterReturn(t *testing.T) {
	module := testutil.ParseModule(t, "def f():\n    return 1\n    x = 2\n")
	cfg, err := NewCFGBuilder().Build(testutil.FindFunction(t, module, "f"))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	reachable := cfg.Reachable()
	foundUnreachable := false
	for _, block := range cfg.Blocks {
		if block.Label == LabelUnreachable {
			foundUnreachable = true
			if reachable[block] {
				t.Error("Code after return must not be reachable")
			}
		}
	}
	if !foundUnreachable {
		t.Error("Expected an unreachable block")
	}
}
