package vm

import (
	"github.com/Omnikar/undag/dag"
	"github.com/Omnikar/undag/lexer"
)

// handler implements one instruction. args are the tokens following the
// instruction name. A non-nil return means the instruction was branch and
// names the tag's resolved commit; the driver still routes that through
// Router.NextHop to get the actual next hop (spec §4.4).
type handler func(ins *Instance, args []lexer.Arg) (branchTarget *dag.Commit, err error)

// opcodes is the fixed instruction catalog (spec §4.4), generalized from
// the teacher's integer-indexed opcode table (vm/opcodes.go in db47h/ngaro)
// to a name-indexed one, since an UnDAG instruction's opcode is literally
// its commit-message word, never a compiled byte.
var opcodes = map[string]handler{
	"set":     opSet,
	"get":     opGet,
	"del":     opDel,
	"exists":  opExists,
	"branch":  opBranch,
	"enter":   opEnter,
	"exit":    opExit,
	"match":   opMatch,
	"print":   opPrint,
	"println": opPrintln,
	"inpln":   opInpln,
	"concat":  opConcat,
	"chars":   opChars,
	"eq":      opEq,
	"gt":      opGt,
	"add":     opAdd,
	"sub":     opSub,
	"mul":     opMul,
	"div":     opDiv,
	"mod":     opMod,
	"and":     opAnd,
	"or":      opOr,
	"xor":     opXor,
}
