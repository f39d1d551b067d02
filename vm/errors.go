package vm

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/Omnikar/undag/dag"
)

// ErrKind classifies a RunError (spec §7's error taxonomy).
type ErrKind int

const (
	// LexError: the lexer could not tokenize a commit message.
	LexError ErrKind = iota
	// ParseError: empty instruction name with arguments, or an unknown
	// instruction name.
	ParseError
	// ArityError: wrong argument count for an instruction.
	ArityError
	// TypeError: arithmetic or comparison on a non-integer-coercible value.
	TypeError
	// NameError: read of an undefined variable, get of an undefined
	// source, or exit at the root table.
	NameError
	// TagError: branch to an unknown tag name.
	TagError
	// RoutingError: no path from the current commit to the branch target.
	RoutingError
	// GraphError: a non-branch instruction sits at a commit without
	// exactly one child, or the graph is otherwise ambiguous.
	GraphError
	// DivisionByZero: div or mod with a zero divisor.
	DivisionByZero
	// IOError: a stdout write or stdin read failed.
	IOError
)

func (k ErrKind) String() string {
	switch k {
	case LexError:
		return "LexError"
	case ParseError:
		return "ParseError"
	case ArityError:
		return "ArityError"
	case TypeError:
		return "TypeError"
	case NameError:
		return "NameError"
	case TagError:
		return "TagError"
	case RoutingError:
		return "RoutingError"
	case GraphError:
		return "GraphError"
	case DivisionByZero:
		return "DivisionByZero"
	case IOError:
		return "IOError"
	default:
		return "UnknownError"
	}
}

// RunError is the single error type a run can fail with: every error kind
// in spec §7 is fatal to the run, so there is no in-language recovery path
// and no need for per-kind Go types beyond this one tagged struct. It
// always identifies the offending commit, per spec §7's propagation
// policy ("identifying the error kind and the offending commit").
type RunError struct {
	Kind    ErrKind
	Commit  dag.Commit
	Message string
	cause   error
}

func (e *RunError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s at %s", e.Kind, e.Commit)
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Commit, e.Message)
}

// Cause implements github.com/pkg/errors' Causer, so errors.Cause reaches
// the lower-level failure a RunError wraps (a lex error, an I/O error, a
// *dag.Error). RunError has no Format method: %+v prints Error() only.
func (e *RunError) Cause() error { return e.cause }

func runErrorf(kind ErrKind, commit dag.Commit, format string, args ...interface{}) *RunError {
	return &RunError{Kind: kind, Commit: commit, Message: fmt.Sprintf(format, args...)}
}

func wrapRunError(kind ErrKind, commit dag.Commit, cause error, context string) *RunError {
	return &RunError{
		Kind:    kind,
		Commit:  commit,
		Message: context,
		cause:   errors.Wrap(cause, context),
	}
}

// fromDagError reclassifies a *dag.Error (raised by the router or graph)
// into this package's RunError taxonomy, preserving the offending commit.
func fromDagError(err error, at dag.Commit) *RunError {
	de, ok := err.(*dag.Error)
	if !ok {
		return wrapRunError(GraphError, at, err, "graph error")
	}
	var kind ErrKind
	switch de.Kind {
	case dag.TagError:
		kind = TagError
	case dag.RoutingError:
		kind = RoutingError
	case dag.GraphError:
		kind = GraphError
	default:
		kind = GraphError
	}
	commit := de.Commit
	if commit == "" {
		commit = at
	}
	return &RunError{Kind: kind, Commit: commit, Message: de.Msg, cause: de}
}
