package analyzer

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ludo-technologies/solidscan/internal/parser"
)

// Block label constants
const (
	LabelFunctionBody = "func_body"
	LabelUnreachable  = "unreachable"
	LabelMainModule   = "__main__"
	LabelEntry        = "ENTRY"
	LabelExit         = "EXIT"

	LabelIfThen  = "if_then"
	LabelIfElse  = "if_else"
	LabelIfMerge = "if_merge"

	LabelLoopHeader = "loop_header"
	LabelLoopBody   = "loop_body"
	LabelLoopElse   = "loop_else"
	LabelLoopExit   = "loop_exit"

	LabelTryBlock     = "try_block"
	LabelExceptBlock  = "except_block"
	LabelTryElse      = "try_else"
	LabelFinallyBlock = "finally_block"
	LabelTryMerge     = "try_merge"

	LabelMatchCase  = "match_case"
	LabelMatchMerge = "match_merge"

	LabelClosureBody = "closure_body"
	LabelClosureExit = "closure_exit"
)

// loopContext tracks the targets of break and continue
type loopContext struct {
	headerBlock *BasicBlock
	exitBlock   *BasicBlock
}

// CFGBuilder builds control flow graphs from the structural model
type CFGBuilder struct {
	cfg          *CFG
	currentBlock *BasicBlock
	scopeStack   []string
	graphs       []*CFG
	logger       *slog.Logger
	loopStack    []*loopContext

	// returnTarget receives return and raise edges; a folded closure
	// redirects them to its own exit block
	returnTarget *BasicBlock
}

// NewCFGBuilder creates a new CFG builder
func NewCFGBuilder() *CFGBuilder {
	return &CFGBuilder{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets an optional logger for diagnostics
func (b *CFGBuilder) SetLogger(logger *slog.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// Build constructs the CFG of a single function. Definitions nested in its
// body are folded into the same graph.
func (b *CFGBuilder) Build(fn *parser.FunctionDef) (*CFG, error) {
	if fn == nil {
		return nil, fmt.Errorf("cannot build CFG from nil function")
	}
	graphs := b.buildUnit(fn.QualifiedName(), fn, fn.Body, false)
	return graphs[0], nil
}

// BuildAll builds the module-level graph followed by one graph per function
// and method, in document order. Methods are named Class.method and nested
// class scopes are joined with dots. Closures have no graph of their own.
func (b *CFGBuilder) BuildAll(module *parser.Module) ([]*CFG, error) {
	if module == nil {
		return nil, fmt.Errorf("cannot build CFGs from nil module")
	}
	b.scopeStack = nil
	return b.buildUnit(LabelMainModule, nil, module.Body, true), nil
}

// buildUnit builds one graph and, when recurse is set, the graphs of the
// definitions nested in it. The unit's own graph is always first.
func (b *CFGBuilder) buildUnit(name string, fn *parser.FunctionDef, body []parser.Statement, recurse bool) []*CFG {
	saved := b.saveState()
	defer b.restoreState(saved)

	b.cfg = NewCFG(name)
	b.cfg.Function = fn
	b.currentBlock = b.cfg.Entry
	b.returnTarget = b.cfg.Exit
	b.loopStack = nil
	b.graphs = []*CFG{b.cfg}

	if fn != nil {
		bodyBlock := b.createBlock(LabelFunctionBody)
		b.cfg.ConnectBlocks(b.currentBlock, bodyBlock, EdgeNormal)
		b.currentBlock = bodyBlock
	}

	b.processStatements(body, recurse)

	if b.currentBlock != nil && !b.hasSuccessor(b.currentBlock, b.cfg.Exit) {
		b.cfg.ConnectBlocks(b.currentBlock, b.cfg.Exit, EdgeNormal)
	}

	b.logger.Debug("built control flow graph", "name", name, "blocks", b.cfg.Size())
	return b.graphs
}

type builderState struct {
	cfg          *CFG
	currentBlock *BasicBlock
	graphs       []*CFG
	loopStack    []*loopContext
	returnTarget *BasicBlock
}

func (b *CFGBuilder) saveState() builderState {
	return builderState{
		cfg:          b.cfg,
		currentBlock: b.currentBlock,
		graphs:       b.graphs,
		loopStack:    b.loopStack,
		returnTarget: b.returnTarget,
	}
}

func (b *CFGBuilder) restoreState(s builderState) {
	b.cfg = s.cfg
	b.currentBlock = s.currentBlock
	b.graphs = s.graphs
	b.loopStack = s.loopStack
	b.returnTarget = s.returnTarget
}

// processStatements processes a list of statements sequentially
func (b *CFGBuilder) processStatements(stmts []parser.Statement, recurse bool) {
	for _, stmt := range stmts {
		if stmt == nil {
			continue
		}

		// Code after a jump starts a fresh unreachable block
		if b.currentBlock == nil {
			b.currentBlock = b.createBlock(LabelUnreachable)
		}

		b.processStatement(stmt, recurse)
	}
}

// processStatement processes a single statement
func (b *CFGBuilder) processStatement(stmt parser.Statement, recurse bool) {
	switch s := stmt.(type) {
	case *parser.IfStmt:
		b.processIfStatement(s, recurse)
	case *parser.LoopStmt:
		b.processLoopStatement(s, recurse)
	case *parser.TryStmt:
		b.processTryStatement(s, recurse)
	case *parser.MatchStmt:
		b.processMatchStatement(s, recurse)
	case *parser.WithStmt:
		b.currentBlock.AddStatement(s)
		b.processStatements(s.Body, recurse)
	case *parser.ReturnStmt:
		b.currentBlock.AddStatement(s)
		b.cfg.ConnectBlocks(b.currentBlock, b.returnTarget, EdgeReturn)
		b.currentBlock = nil
	case *parser.RaiseStmt:
		b.currentBlock.AddStatement(s)
		b.cfg.ConnectBlocks(b.currentBlock, b.returnTarget, EdgeException)
		b.currentBlock = nil
	case *parser.BreakStmt:
		b.processJump(s, EdgeBreak)
	case *parser.ContinueStmt:
		b.processJump(s, EdgeContinue)
	case *parser.FunctionDef:
		b.currentBlock.AddStatement(s)
		if b.insideFunction() {
			b.foldClosure(s, recurse)
		} else if recurse {
			b.buildNested(s.Name, s, s.Body)
		}
	case *parser.ClassDef:
		b.currentBlock.AddStatement(s)
		if b.insideFunction() {
			// Methods of a local class fold like closures
			b.processStatements(s.Body, recurse)
		} else if recurse {
			b.processClass(s)
		}
	default:
		b.currentBlock.AddStatement(s)
	}
}

func (b *CFGBuilder) insideFunction() bool {
	return b.cfg.Function != nil
}

// foldClosure splices a nested definition into the current graph. The body
// hangs between a closure entry and a closure exit that is also reachable
// directly, so each closure adds one path plus its own branches.
func (b *CFGBuilder) foldClosure(fn *parser.FunctionDef, recurse bool) {
	bodyBlock := b.createBlock(LabelClosureBody)
	exitBlock := b.createBlock(LabelClosureExit)
	b.cfg.ConnectBlocks(b.currentBlock, bodyBlock, EdgeNormal)
	b.cfg.ConnectBlocks(b.currentBlock, exitBlock, EdgeNormal)

	savedLoops, savedTarget := b.loopStack, b.returnTarget
	b.loopStack, b.returnTarget = nil, exitBlock

	b.currentBlock = bodyBlock
	b.processStatements(fn.Body, recurse)
	b.connectTo(exitBlock, EdgeNormal)

	b.loopStack, b.returnTarget = savedLoops, savedTarget
	b.currentBlock = exitBlock
}

// buildNested builds the graph of a nested definition and its descendants
func (b *CFGBuilder) buildNested(name string, fn *parser.FunctionDef, body []parser.Statement) {
	b.scopeStack = append(b.scopeStack, name)
	qualified := strings.Join(b.scopeStack, ".")
	nested := b.buildUnit(qualified, fn, body, true)
	b.scopeStack = b.scopeStack[:len(b.scopeStack)-1]
	b.graphs = append(b.graphs, nested...)
}

// processClass builds graphs for the methods of a class. Class bodies have
// no graph of their own.
func (b *CFGBuilder) processClass(class *parser.ClassDef) {
	b.scopeStack = append(b.scopeStack, class.Name)
	for _, stmt := range class.Body {
		switch s := stmt.(type) {
		case *parser.FunctionDef:
			b.buildNested(s.Name, s, s.Body)
		case *parser.ClassDef:
			b.processClass(s)
		default:
			// Control flow in class bodies still hides nested definitions
			parser.Walk([]parser.Statement{s}, func(inner parser.Statement) bool {
				switch d := inner.(type) {
				case *parser.FunctionDef:
					b.buildNested(d.Name, d, d.Body)
					return false
				case *parser.ClassDef:
					b.processClass(d)
					return false
				}
				return true
			})
		}
	}
	b.scopeStack = b.scopeStack[:len(b.scopeStack)-1]
}

// processIfStatement handles if/elif/else
func (b *CFGBuilder) processIfStatement(s *parser.IfStmt, recurse bool) {
	b.currentBlock.AddStatement(s)
	condBlock := b.currentBlock

	thenBlock := b.createBlock(LabelIfThen)
	mergeBlock := b.createBlock(LabelIfMerge)
	b.cfg.ConnectBlocks(condBlock, thenBlock, EdgeCondTrue)

	b.currentBlock = thenBlock
	b.processStatements(s.Body, recurse)
	b.connectTo(mergeBlock, EdgeNormal)

	if len(s.Else) > 0 {
		elseBlock := b.createBlock(LabelIfElse)
		b.cfg.ConnectBlocks(condBlock, elseBlock, EdgeCondFalse)
		b.currentBlock = elseBlock
		b.processStatements(s.Else, recurse)
		b.connectTo(mergeBlock, EdgeNormal)
	} else {
		b.cfg.ConnectBlocks(condBlock, mergeBlock, EdgeCondFalse)
	}

	b.currentBlock = mergeBlock
}

// processLoopStatement handles for and while loops. The else block runs when
// the loop finishes without break.
func (b *CFGBuilder) processLoopStatement(s *parser.LoopStmt, recurse bool) {
	headerBlock := b.createBlock(LabelLoopHeader)
	b.cfg.ConnectBlocks(b.currentBlock, headerBlock, EdgeNormal)
	headerBlock.AddStatement(s)

	bodyBlock := b.createBlock(LabelLoopBody)
	exitBlock := b.createBlock(LabelLoopExit)
	b.cfg.ConnectBlocks(headerBlock, bodyBlock, EdgeCondTrue)

	if len(s.Else) > 0 {
		elseBlock := b.createBlock(LabelLoopElse)
		b.cfg.ConnectBlocks(headerBlock, elseBlock, EdgeCondFalse)
		saved := b.currentBlock
		b.currentBlock = elseBlock
		b.processStatements(s.Else, recurse)
		b.connectTo(exitBlock, EdgeNormal)
		b.currentBlock = saved
	} else {
		b.cfg.ConnectBlocks(headerBlock, exitBlock, EdgeCondFalse)
	}

	b.loopStack = append(b.loopStack, &loopContext{
		headerBlock: headerBlock,
		exitBlock:   exitBlock,
	})
	b.currentBlock = bodyBlock
	b.processStatements(s.Body, recurse)
	b.connectTo(headerBlock, EdgeLoop)
	b.loopStack = b.loopStack[:len(b.loopStack)-1]

	b.currentBlock = exitBlock
}

// processTryStatement handles try/except/else/finally
func (b *CFGBuilder) processTryStatement(s *parser.TryStmt, recurse bool) {
	b.currentBlock.AddStatement(s)
	tryBlock := b.createBlock(LabelTryBlock)
	b.cfg.ConnectBlocks(b.currentBlock, tryBlock, EdgeNormal)

	mergeBlock := b.createBlock(LabelTryMerge)
	target := mergeBlock
	var finallyBlock *BasicBlock
	if len(s.Finally) > 0 {
		finallyBlock = b.createBlock(LabelFinallyBlock)
		target = finallyBlock
	}

	b.currentBlock = tryBlock
	b.processStatements(s.Body, recurse)

	if len(s.Else) > 0 {
		elseBlock := b.createBlock(LabelTryElse)
		b.connectTo(elseBlock, EdgeNormal)
		b.currentBlock = elseBlock
		b.processStatements(s.Else, recurse)
	}
	b.connectTo(target, EdgeNormal)

	for _, handler := range s.Handlers {
		handlerBlock := b.createBlock(LabelExceptBlock)
		b.cfg.ConnectBlocks(tryBlock, handlerBlock, EdgeException)
		b.currentBlock = handlerBlock
		b.processStatements(handler, recurse)
		b.connectTo(target, EdgeNormal)
	}

	if finallyBlock != nil {
		b.currentBlock = finallyBlock
		b.processStatements(s.Finally, recurse)
		b.connectTo(mergeBlock, EdgeNormal)
	}

	b.currentBlock = mergeBlock
}

// processMatchStatement handles match/case. Falling through every case
// continues after the statement.
func (b *CFGBuilder) processMatchStatement(s *parser.MatchStmt, recurse bool) {
	b.currentBlock.AddStatement(s)
	subjectBlock := b.currentBlock
	mergeBlock := b.createBlock(LabelMatchMerge)

	for _, body := range s.Cases {
		caseBlock := b.createBlock(LabelMatchCase)
		b.cfg.ConnectBlocks(subjectBlock, caseBlock, EdgeCondTrue)
		b.currentBlock = caseBlock
		b.processStatements(body, recurse)
		b.connectTo(mergeBlock, EdgeNormal)
	}
	b.cfg.ConnectBlocks(subjectBlock, mergeBlock, EdgeCondFalse)

	b.currentBlock = mergeBlock
}

// processJump handles break and continue
func (b *CFGBuilder) processJump(stmt parser.Statement, edgeType EdgeType) {
	b.currentBlock.AddStatement(stmt)
	if len(b.loopStack) == 0 {
		b.logger.Debug("jump outside loop", "location", stmt.Loc().String())
		b.cfg.ConnectBlocks(b.currentBlock, b.returnTarget, EdgeNormal)
		b.currentBlock = nil
		return
	}

	loop := b.loopStack[len(b.loopStack)-1]
	if edgeType == EdgeBreak {
		b.cfg.ConnectBlocks(b.currentBlock, loop.exitBlock, EdgeBreak)
	} else {
		b.cfg.ConnectBlocks(b.currentBlock, loop.headerBlock, EdgeContinue)
	}
	b.currentBlock = nil
}

// connectTo connects the current block to target unless control already left
func (b *CFGBuilder) connectTo(target *BasicBlock, edgeType EdgeType) {
	if b.currentBlock != nil {
		b.cfg.ConnectBlocks(b.currentBlock, target, edgeType)
	}
}

func (b *CFGBuilder) createBlock(label string) *BasicBlock {
	return b.cfg.CreateBlock(label)
}

func (b *CFGBuilder) hasSuccessor(from, to *BasicBlock) bool {
	for _, edge := range from.Successors {
		if edge.To == to {
			return true
		}
	}
	return false
}
