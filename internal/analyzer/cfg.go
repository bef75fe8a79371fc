package analyzer

import (
	"fmt"

	"github.com/ludo-technologies/solidscan/internal/parser"
)

// EdgeType classifies control-flow edges
type EdgeType int

const (
	EdgeNormal EdgeType = iota
	EdgeCondTrue
	EdgeCondFalse
	EdgeLoop
	EdgeException
	EdgeReturn
	EdgeBreak
	EdgeContinue
)

// String returns the edge type name
func (e EdgeType) String() string {
	switch e {
	case EdgeNormal:
		return "normal"
	case EdgeCondTrue:
		return "true"
	case EdgeCondFalse:
		return "false"
	case EdgeLoop:
		return "loop"
	case EdgeException:
		return "exception"
	case EdgeReturn:
		return "return"
	case EdgeBreak:
		return "break"
	case EdgeContinue:
		return "continue"
	}
	return "unknown"
}

// Edge is a directed control-flow edge
type Edge struct {
	From *BasicBlock
	To   *BasicBlock
	Type EdgeType
}

// BasicBlock is a straight-line run of statements
type BasicBlock struct {
	ID           string
	Label        string
	Statements   []parser.Statement
	Successors   []*Edge
	Predecessors []*Edge
}

// NewBasicBlock creates an empty block
func NewBasicBlock(id, label string) *BasicBlock {
	return &BasicBlock{ID: id, Label: label}
}

// AddStatement appends a statement to the block
func (bb *BasicBlock) AddStatement(stmt parser.Statement) {
	bb.Statements = append(bb.Statements, stmt)
}

// IsEmpty reports whether the block holds no statements
func (bb *BasicBlock) IsEmpty() bool {
	return len(bb.Statements) == 0
}

// CFG is the control-flow graph of one function-like unit
type CFG struct {
	Name   string
	Entry  *BasicBlock
	Exit   *BasicBlock
	Blocks map[string]*BasicBlock

	// Function is nil for the module-level script graph
	Function *parser.FunctionDef

	nextID int
}

// NewCFG creates a graph with its entry and exit blocks
func NewCFG(name string) *CFG {
	cfg := &CFG{
		Name:   name,
		Blocks: make(map[string]*BasicBlock),
	}
	cfg.Entry = cfg.CreateBlock(LabelEntry)
	cfg.Exit = cfg.CreateBlock(LabelExit)
	return cfg
}

// CreateBlock allocates a new block with a unique ID
func (c *CFG) CreateBlock(label string) *BasicBlock {
	id := fmt.Sprintf("bb%d", c.nextID)
	c.nextID++
	block := NewBasicBlock(id, label)
	c.Blocks[id] = block
	return block
}

// ConnectBlocks adds an edge between two blocks
func (c *CFG) ConnectBlocks(from, to *BasicBlock, edgeType EdgeType) *Edge {
	if from == nil || to == nil {
		return nil
	}
	edge := &Edge{From: from, To: to, Type: edgeType}
	from.Successors = append(from.Successors, edge)
	to.Predecessors = append(to.Predecessors, edge)
	return edge
}

// IsModuleLevel reports whether the graph models top-level script code
func (c *CFG) IsModuleLevel() bool {
	return c.Function == nil
}

// Size returns the total number of blocks
func (c *CFG) Size() int {
	return len(c.Blocks)
}

// Reachable returns the blocks reachable from the entry block
func (c *CFG) Reachable() map[*BasicBlock]bool {
	visited := make(map[*BasicBlock]bool)
	if c.Entry == nil {
		return visited
	}
	stack := []*BasicBlock{c.Entry}
	for len(stack) > 0 {
		block := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[block] {
			continue
		}
		visited[block] = true
		for _, edge := range block.Successors {
			if !visited[edge.To] {
				stack = append(stack, edge.To)
			}
		}
	}
	return visited
}
