package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Parser wraps the tree-sitter parser for Python
type Parser struct {
	parser   *sitter.Parser
	language *sitter.Language
}

// NewParser creates a new Python parser
func NewParser() *Parser {
	parser := sitter.NewParser()
	lang := python.GetLanguage()
	parser.SetLanguage(lang)

	return &Parser{
		parser:   parser,
		language: lang,
	}
}

// ParseFile parses a Python file into a module. The module path is made
// absolute so it can key external tools.
func (p *Parser) ParseFile(ctx context.Context, filename string, source []byte) (*Module, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse file %s: %v", filename, err)
	}
	defer tree.Close()

	rootNode := tree.RootNode()
	if rootNode == nil {
		return nil, fmt.Errorf("no root node in parse tree for %s", filename)
	}

	builder := NewASTBuilder(filename, source)
	module := builder.Build(rootNode)
	module.Name = ModuleName(filename)
	module.Path = ResolvePath(filename)

	return module, nil
}

// Parse parses Python source code
func (p *Parser) Parse(source []byte) (*Module, error) {
	return p.ParseFile(context.Background(), "<input>", source)
}

// ParseString parses Python source code from a string
func (p *Parser) ParseString(source string) (*Module, error) {
	return p.Parse([]byte(source))
}

// Close closes the parser and frees resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ParseSource parses a file with a throwaway parser. Parsers are not safe for
// concurrent use, so parallel callers go through here.
func ParseSource(ctx context.Context, filename string, source []byte) (*Module, error) {
	parser := NewParser()
	defer parser.Close()

	return parser.ParseFile(ctx, filename, source)
}

// ModuleName derives the dotted module name from a file name
func ModuleName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ResolvePath returns the absolute, cleaned form of filename. Pseudo file
// names such as "<input>" are returned unchanged.
func ResolvePath(filename string) string {
	if strings.HasPrefix(filename, "<") {
		return filename
	}
	abs, err := filepath.Abs(filename)
	if err != nil {
		return filepath.Clean(filename)
	}
	return abs
}

// IsPythonFile reports whether the file has a Python source extension
func IsPythonFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py", ".pyi":
		return true
	}
	return false
}
