package vm

import (
	"strconv"

	"github.com/Omnikar/undag/dag"
	"github.com/Omnikar/undag/lexer"
)

// resolveArg turns a lexer token into its Value: a Literal is a string, an
// IntLit is an integer, a VarRef is looked up in the current table (spec
// §4.4 "An argument is resolved to a Value as follows").
func (i *Instance) resolveArg(a lexer.Arg) (Value, error) {
	switch a.Kind {
	case lexer.Literal:
		return Str(a.Str), nil
	case lexer.IntLit:
		return Int(a.Int), nil
	case lexer.VarRef:
		v, ok := i.table.Get(a.Str)
		if !ok {
			return Value{}, runErrorf(NameError, i.pc, "undefined variable %q", a.Str)
		}
		return v, nil
	default:
		return Value{}, runErrorf(ParseError, i.pc, "unrecognized argument token")
	}
}

// literalName returns a's text without resolving it, for the instruction
// arguments spec documents as "a literal name (not resolved)" (set's V,
// get's S, del/exists/enter's names). Both Literal and VarRef tokens carry
// usable text (a VarRef's Str is its bare name with the sigil already
// stripped by the lexer); only an IntLit has none.
func literalName(a lexer.Arg) (string, error) {
	switch a.Kind {
	case lexer.Literal, lexer.VarRef:
		return a.Str, nil
	default:
		return "", runErrorf(ParseError, "", "expected a variable name, got an integer literal")
	}
}

func (i *Instance) arityError(op string, want int, got int) error {
	return runErrorf(ArityError, i.pc, "%s: expected %d argument(s), got %d", op, want, got)
}

func (i *Instance) coerceInt(v Value) (int64, error) {
	n, ok := IntValue(v)
	if !ok {
		return 0, runErrorf(TypeError, i.pc, "value %q is not integer-coercible", StringOf(v))
	}
	return n, nil
}

func opSet(ins *Instance, args []lexer.Arg) (*dag.Commit, error) {
	if len(args) != 2 {
		return nil, ins.arityError("set", 2, len(args))
	}
	name, err := literalName(args[0])
	if err != nil {
		return nil, err
	}
	v, err := ins.resolveArg(args[1])
	if err != nil {
		return nil, err
	}
	ins.table.Set(name, v)
	return nil, nil
}

func opGet(ins *Instance, args []lexer.Arg) (*dag.Commit, error) {
	if len(args) != 2 {
		return nil, ins.arityError("get", 2, len(args))
	}
	dst, err := literalName(args[0])
	if err != nil {
		return nil, err
	}
	src, err := literalName(args[1])
	if err != nil {
		return nil, err
	}
	v, ok := ins.table.Get(src)
	if !ok {
		return nil, runErrorf(NameError, ins.pc, "undefined variable %q", src)
	}
	ins.table.Set(dst, v)
	return nil, nil
}

func opDel(ins *Instance, args []lexer.Arg) (*dag.Commit, error) {
	if len(args) != 1 {
		return nil, ins.arityError("del", 1, len(args))
	}
	name, err := literalName(args[0])
	if err != nil {
		return nil, err
	}
	ins.table.Del(name)
	return nil, nil
}

func opExists(ins *Instance, args []lexer.Arg) (*dag.Commit, error) {
	if len(args) != 2 {
		return nil, ins.arityError("exists", 2, len(args))
	}
	dst, err := literalName(args[0])
	if err != nil {
		return nil, err
	}
	src, err := literalName(args[1])
	if err != nil {
		return nil, err
	}
	if ins.table.Exists(src) {
		ins.table.Set(dst, Int(1))
	} else {
		ins.table.Set(dst, Int(0))
	}
	return nil, nil
}

func opBranch(ins *Instance, args []lexer.Arg) (*dag.Commit, error) {
	if len(args) != 1 {
		return nil, ins.arityError("branch", 1, len(args))
	}
	v, err := ins.resolveArg(args[0])
	if err != nil {
		return nil, err
	}
	name := StringOf(v)
	target, err := ins.graph.ResolveTag(name, ins.pc)
	if err != nil {
		return nil, fromDagError(err, ins.pc)
	}
	return &target, nil
}

func opEnter(ins *Instance, args []lexer.Arg) (*dag.Commit, error) {
	if len(args) != 1 {
		return nil, ins.arityError("enter", 1, len(args))
	}
	name, err := literalName(args[0])
	if err != nil {
		return nil, err
	}
	ins.table = ins.table.Enter(name)
	return nil, nil
}

func opExit(ins *Instance, args []lexer.Arg) (*dag.Commit, error) {
	if len(args) != 0 {
		return nil, ins.arityError("exit", 0, len(args))
	}
	p := ins.table.Parent()
	if p == nil {
		return nil, runErrorf(NameError, ins.pc, "exit at root table")
	}
	ins.table = p
	return nil, nil
}

func opMatch(ins *Instance, args []lexer.Arg) (*dag.Commit, error) {
	if len(args) < 2 || (len(args)-2)%2 != 0 {
		return nil, ins.arityError("match", 2, len(args))
	}
	dst, err := literalName(args[0])
	if err != nil {
		return nil, err
	}
	s, err := ins.resolveArg(args[1])
	if err != nil {
		return nil, err
	}
	pairs := args[2:]
	for p := 0; p+1 < len(pairs); p += 2 {
		b, err := ins.resolveArg(pairs[p])
		if err != nil {
			return nil, err
		}
		if !Equal(b, s) {
			continue
		}
		r, err := ins.resolveArg(pairs[p+1])
		if err != nil {
			return nil, err
		}
		ins.table.Set(dst, r)
		break
	}
	return nil, nil
}

func opPrint(ins *Instance, args []lexer.Arg) (*dag.Commit, error) {
	if len(args) != 1 {
		return nil, ins.arityError("print", 1, len(args))
	}
	v, err := ins.resolveArg(args[0])
	if err != nil {
		return nil, err
	}
	if err := ins.writeOut(StringOf(v)); err != nil {
		return nil, wrapRunError(IOError, ins.pc, err, "stdout write failed")
	}
	return nil, nil
}

func opPrintln(ins *Instance, args []lexer.Arg) (*dag.Commit, error) {
	if len(args) != 1 {
		return nil, ins.arityError("println", 1, len(args))
	}
	v, err := ins.resolveArg(args[0])
	if err != nil {
		return nil, err
	}
	if err := ins.writeOut(StringOf(v) + "\n"); err != nil {
		return nil, wrapRunError(IOError, ins.pc, err, "stdout write failed")
	}
	return nil, nil
}

func opInpln(ins *Instance, args []lexer.Arg) (*dag.Commit, error) {
	if len(args) != 1 {
		return nil, ins.arityError("inpln", 1, len(args))
	}
	name, err := literalName(args[0])
	if err != nil {
		return nil, err
	}
	line, err := ins.readLine()
	if err != nil {
		return nil, wrapRunError(IOError, ins.pc, err, "stdin read failed")
	}
	ins.table.Set(name, Str(line))
	return nil, nil
}

func opConcat(ins *Instance, args []lexer.Arg) (*dag.Commit, error) {
	if len(args) != 3 {
		return nil, ins.arityError("concat", 3, len(args))
	}
	dst, err := literalName(args[0])
	if err != nil {
		return nil, err
	}
	a, err := ins.resolveArg(args[1])
	if err != nil {
		return nil, err
	}
	b, err := ins.resolveArg(args[2])
	if err != nil {
		return nil, err
	}
	ins.table.Set(dst, Str(StringOf(a)+StringOf(b)))
	return nil, nil
}

func opChars(ins *Instance, args []lexer.Arg) (*dag.Commit, error) {
	if len(args) != 2 {
		return nil, ins.arityError("chars", 2, len(args))
	}
	dst, err := literalName(args[0])
	if err != nil {
		return nil, err
	}
	s, err := ins.resolveArg(args[1])
	if err != nil {
		return nil, err
	}
	runes := []rune(StringOf(s))
	owner, leaf := resolveWrite(ins.table, dst)
	sub := owner.Enter(leaf)
	sub.Reset()
	for idx, r := range runes {
		sub.Set(strconv.Itoa(idx), Str(string(r)))
	}
	sub.Set("len", Int(int64(len(runes))))
	return nil, nil
}

func opEq(ins *Instance, args []lexer.Arg) (*dag.Commit, error) {
	if len(args) != 3 {
		return nil, ins.arityError("eq", 3, len(args))
	}
	dst, err := literalName(args[0])
	if err != nil {
		return nil, err
	}
	a, err := ins.resolveArg(args[1])
	if err != nil {
		return nil, err
	}
	b, err := ins.resolveArg(args[2])
	if err != nil {
		return nil, err
	}
	if Equal(a, b) {
		ins.table.Set(dst, Int(1))
	} else {
		ins.table.Set(dst, Int(0))
	}
	return nil, nil
}

func opGt(ins *Instance, args []lexer.Arg) (*dag.Commit, error) {
	if len(args) != 3 {
		return nil, ins.arityError("gt", 3, len(args))
	}
	dst, a, b, err := ins.binaryInts("gt", args)
	if err != nil {
		return nil, err
	}
	if a > b {
		ins.table.Set(dst, Int(1))
	} else {
		ins.table.Set(dst, Int(0))
	}
	return nil, nil
}

// binaryInts resolves args[1] and args[2] to int64, erroring with
// TypeError if either is not integer-coercible, and returns args[0]'s
// literal destination name alongside them. Shared by every arithmetic and
// bitwise instruction.
func (i *Instance) binaryInts(op string, args []lexer.Arg) (dst string, a, b int64, err error) {
	dst, err = literalName(args[0])
	if err != nil {
		return "", 0, 0, err
	}
	av, err := i.resolveArg(args[1])
	if err != nil {
		return "", 0, 0, err
	}
	bv, err := i.resolveArg(args[2])
	if err != nil {
		return "", 0, 0, err
	}
	a, err = i.coerceInt(av)
	if err != nil {
		return "", 0, 0, err
	}
	b, err = i.coerceInt(bv)
	if err != nil {
		return "", 0, 0, err
	}
	return dst, a, b, nil
}

func opAdd(ins *Instance, args []lexer.Arg) (*dag.Commit, error) {
	if len(args) != 3 {
		return nil, ins.arityError("add", 3, len(args))
	}
	dst, a, b, err := ins.binaryInts("add", args)
	if err != nil {
		return nil, err
	}
	ins.table.Set(dst, Int(a+b))
	return nil, nil
}

func opSub(ins *Instance, args []lexer.Arg) (*dag.Commit, error) {
	if len(args) != 3 {
		return nil, ins.arityError("sub", 3, len(args))
	}
	dst, a, b, err := ins.binaryInts("sub", args)
	if err != nil {
		return nil, err
	}
	ins.table.Set(dst, Int(a-b))
	return nil, nil
}

func opMul(ins *Instance, args []lexer.Arg) (*dag.Commit, error) {
	if len(args) != 3 {
		return nil, ins.arityError("mul", 3, len(args))
	}
	dst, a, b, err := ins.binaryInts("mul", args)
	if err != nil {
		return nil, err
	}
	ins.table.Set(dst, Int(a*b))
	return nil, nil
}

func opDiv(ins *Instance, args []lexer.Arg) (*dag.Commit, error) {
	if len(args) != 3 {
		return nil, ins.arityError("div", 3, len(args))
	}
	dst, a, b, err := ins.binaryInts("div", args)
	if err != nil {
		return nil, err
	}
	if b == 0 {
		return nil, runErrorf(DivisionByZero, ins.pc, "division by zero")
	}
	ins.table.Set(dst, Int(a/b))
	return nil, nil
}

func opMod(ins *Instance, args []lexer.Arg) (*dag.Commit, error) {
	if len(args) != 3 {
		return nil, ins.arityError("mod", 3, len(args))
	}
	dst, a, b, err := ins.binaryInts("mod", args)
	if err != nil {
		return nil, err
	}
	if b == 0 {
		return nil, runErrorf(DivisionByZero, ins.pc, "modulo by zero")
	}
	ins.table.Set(dst, Int(a%b))
	return nil, nil
}

func opAnd(ins *Instance, args []lexer.Arg) (*dag.Commit, error) {
	if len(args) != 3 {
		return nil, ins.arityError("and", 3, len(args))
	}
	dst, a, b, err := ins.binaryInts("and", args)
	if err != nil {
		return nil, err
	}
	ins.table.Set(dst, Int(a&b))
	return nil, nil
}

func opOr(ins *Instance, args []lexer.Arg) (*dag.Commit, error) {
	if len(args) != 3 {
		return nil, ins.arityError("or", 3, len(args))
	}
	dst, a, b, err := ins.binaryInts("or", args)
	if err != nil {
		return nil, err
	}
	ins.table.Set(dst, Int(a|b))
	return nil, nil
}

func opXor(ins *Instance, args []lexer.Arg) (*dag.Commit, error) {
	if len(args) != 3 {
		return nil, ins.arityError("xor", 3, len(args))
	}
	dst, a, b, err := ins.binaryInts("xor", args)
	if err != nil {
		return nil, err
	}
	ins.table.Set(dst, Int(a^b))
	return nil, nil
}
