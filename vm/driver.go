// Package vm is the UnDAG evaluator: the tagged Value model and
// hierarchical Table environment (spec §3), the fixed instruction set
// (spec §4.4), and the driver that steps a program counter across a
// *dag.Graph until it reaches the commit tagged _end (spec §4.4 "Driver
// state machine").
package vm

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/Omnikar/undag/dag"
	"github.com/Omnikar/undag/internal/uio"
	"github.com/Omnikar/undag/lexer"
)

// Option configures an Instance at construction time, following the
// teacher's functional-option pattern (vm.Option in db47h/ngaro's
// vm/vm.go: DataSize, AddressSize, Input, Output).
type Option func(*Instance) error

// WithInput sets the reader inpln consumes lines from. The default is an
// already-exhausted reader, so inpln returns "" immediately (spec §4.4
// "End-of-stream yields an empty string") unless an input is supplied.
func WithInput(r io.Reader) Option {
	return func(i *Instance) error {
		i.in = bufio.NewReader(r)
		return nil
	}
}

// WithOutput sets the writer print/println write to. The default is
// io.Discard.
func WithOutput(w io.Writer) Option {
	return func(i *Instance) error {
		i.out = uio.NewErrWriter(w)
		return nil
	}
}

// WithContext attaches a cancellation context to the run. The driver
// checks it once per step; a cancelled context aborts the run with an
// IOError-kind RunError wrapping ctx.Err(). This is an ambient safety net
// (a wall-clock or caller-driven abort), not the sandboxing spec.md's
// Non-goals exclude.
func WithContext(ctx context.Context) Option {
	return func(i *Instance) error {
		i.ctx = ctx
		return nil
	}
}

// Instance is one running (or halted) UnDAG program: the immutable graph
// it steps across, the router branch consults, the program counter, and
// the variable environment's current cursor.
type Instance struct {
	graph  *dag.Graph
	router *dag.Router
	pc     dag.Commit
	root   *Table
	table  *Table
	in     *bufio.Reader
	out    *uio.ErrWriter
	ctx    context.Context

	insCount int64
}

// New creates an Instance bound to g, with its program counter at
// g.Start() and its table cursor at a fresh root namespace.
func New(g *dag.Graph, opts ...Option) (*Instance, error) {
	root := NewTable()
	i := &Instance{
		graph:  g,
		router: dag.NewRouter(g),
		pc:     g.Start(),
		root:   root,
		table:  root,
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	if i.in == nil {
		i.in = bufio.NewReader(strings.NewReader(""))
	}
	if i.out == nil {
		i.out = uio.NewErrWriter(io.Discard)
	}
	return i, nil
}

// PC returns the commit currently being executed (or that halted the run).
func (i *Instance) PC() dag.Commit { return i.pc }

// InstructionCount returns the number of instructions executed so far,
// mirroring the teacher's Instance.InstructionCount in vm/vm.go.
func (i *Instance) InstructionCount() int64 { return i.insCount }

// Run steps the program from its current PC until it reaches the commit
// tagged _end, implementing spec §4.4's driver state machine:
//
//  1. lex and evaluate the message at PC;
//  2. if PC is now the _end commit, halt;
//  3. if the instruction was branch, advance PC via the router;
//  4. otherwise advance PC to PC's unique child, failing with a
//     GraphError if it doesn't have exactly one.
func (i *Instance) Run() error {
	for {
		if err := i.ctx.Err(); err != nil {
			return wrapRunError(IOError, i.pc, err, "run cancelled")
		}

		msg, ok := i.graph.Message(i.pc)
		if !ok {
			return runErrorf(GraphError, i.pc, "no message recorded for current commit")
		}
		args, err := lexer.Lex(msg)
		if err != nil {
			return wrapRunError(LexError, i.pc, err, "lex failed")
		}

		var branchTo *dag.Commit
		if len(args) > 0 {
			branchTo, err = i.eval(args)
			if err != nil {
				return err
			}
		}
		i.insCount++

		if i.pc == i.graph.End() {
			return nil
		}

		if branchTo != nil {
			next, rerr := i.router.NextHop(i.pc, *branchTo)
			if rerr != nil {
				return fromDagError(rerr, i.pc)
			}
			i.pc = next
			continue
		}

		next, gerr := i.graph.UniqueChild(i.pc)
		if gerr != nil {
			return fromDagError(gerr, i.pc)
		}
		i.pc = next
	}
}

// eval dispatches the first token as an instruction name and runs it
// against the remaining tokens as arguments.
func (i *Instance) eval(args []lexer.Arg) (*dag.Commit, error) {
	head := args[0]
	var name string
	if head.Kind != lexer.IntLit {
		name = head.Str
	}
	if name == "" {
		if len(args) > 1 {
			return nil, runErrorf(ParseError, i.pc, "empty instruction name with arguments present")
		}
		return nil, runErrorf(ParseError, i.pc, "empty instruction name")
	}
	h, ok := opcodes[name]
	if !ok {
		return nil, runErrorf(ParseError, i.pc, "unknown instruction %q", name)
	}
	target, err := h(i, args[1:])
	if err != nil {
		if re, ok := err.(*RunError); ok {
			if re.Commit == "" {
				re.Commit = i.pc
			}
			return nil, re
		}
		return nil, wrapRunError(ParseError, i.pc, err, "instruction failed")
	}
	return target, nil
}
