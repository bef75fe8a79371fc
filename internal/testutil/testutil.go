// Package testutil provides helper functions for testing solidscan components
package testutil

import (
	"testing"

	"github.com/ludo-technologies/solidscan/internal/parser"
)

// ParseModule parses Python source through the real front end
func ParseModule(t *testing.T, source string) *parser.Module {
	t.Helper()
	p := parser.NewParser()
	defer p.Close()

	module, err := p.ParseString(source)
	if err != nil {
		t.Fatalf("Failed to parse test code: %v", err)
	}
	return module
}

// ParseModuleNoFail parses Python source, returning the error instead of failing
func ParseModuleNoFail(source string) (*parser.Module, error) {
	p := parser.NewParser()
	defer p.Close()
	return p.ParseString(source)
}

// FindClass returns the first class with the given name anywhere in the module
func FindClass(t *testing.T, module *parser.Module, name string) *parser.ClassDef {
	t.Helper()
	for _, class := range module.Classes() {
		if class.Name == name {
			return class
		}
	}
	t.Fatalf("class %q not found", name)
	return nil
}

// FindMethod returns the named method of the named class
func FindMethod(t *testing.T, module *parser.Module, class, method string) *parser.FunctionDef {
	t.Helper()
	fn, ok := FindClass(t, module, class).Method(method)
	if !ok {
		t.Fatalf("method %s.%s not found", class, method)
	}
	return fn
}

// FindFunction returns the first function with the given name anywhere in the module
func FindFunction(t *testing.T, module *parser.Module, name string) *parser.FunctionDef {
	t.Helper()
	var found *parser.FunctionDef
	parser.Walk(module.Body, func(s parser.Statement) bool {
		if fn, ok := s.(*parser.FunctionDef); ok && found == nil && fn.Name == name {
			found = fn
		}
		return found == nil
	})
	if found == nil {
		t.Fatalf("function %q not found", name)
	}
	return found
}
