/*
Package eval implements gkg's tree-walking evaluator: a recursive
traversal of the parser's AST against the current lexical environment.
It is grounded on the teacher's Evaluator (a scope, a builtin table,
and an output writer threaded through every Eval call) but walks the
generalized AST and value system instead of Go-Mix's.
*/
package eval

import (
	"fmt"
	"io"
	"os"

	"gkg/environment"
	"gkg/function"
	"gkg/natives"
	"gkg/parser"
	"gkg/value"
)

// RuntimeError is a failure raised while executing an already-parsed
// program: a type mismatch, an undefined name, calling a non-callable,
// wrong arity, and so on. It is distinct from *function.ReturnSignal,
// which signals ordinary control flow rather than failure.
type RuntimeError struct {
	Line    int
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[line %d] Runtime error: %s", e.Line, e.Message)
}

func newRuntimeError(line int, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Line: line, Message: fmt.Sprintf(format, args...)}
}

// Interpreter walks a gkg AST against a chain of lexical environments.
// A fresh Interpreter owns the global scope and has every native
// binding from the natives package pre-installed in it.
type Interpreter struct {
	Globals *environment.Environment
	env     *environment.Environment
	Out     io.Writer
}

// New creates an Interpreter with its global scope populated with
// gkg's native bindings (clock, print), writing program output to out.
// A nil out defaults to os.Stdout.
func New(out io.Writer) *Interpreter {
	if out == nil {
		out = os.Stdout
	}
	globals := environment.New(nil)
	for _, n := range natives.All() {
		globals.Define(n.Name, n)
	}
	return &Interpreter{Globals: globals, env: globals, Out: out}
}

// Run executes a parsed program's top-level statements in the global
// scope, stopping at the first runtime error. It returns the value
// produced by the last statement, which callers such as the REPL may
// choose to display; script execution ignores it.
func (in *Interpreter) Run(stmts []parser.Stmt) (value.Value, error) {
	var result value.Value = value.Nil{}
	for _, stmt := range stmts {
		v, err := in.execute(stmt)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// nativeCallable is the shape the evaluator looks for on a
// natives.NativeFunction value; the interpreter itself satisfies
// natives.Runtime via CallFunction below.
type nativeCallable interface {
	Call(rt natives.Runtime, out io.Writer, args []value.Value) (value.Value, error)
}

// userCallable is the shape a function.UserFunction exposes; declared
// locally so this file's call dispatch doesn't need to name the
// concrete type twice.
type userCallable interface {
	Call(ev function.Evaluator, args []value.Value) (value.Value, error)
}

// CallFunction implements natives.Runtime, letting a native builtin
// call back into gkg code (no current native does, but the hook exists
// for ones that might, e.g. a future comparator-based sort).
func (in *Interpreter) CallFunction(callee value.Value, args []value.Value) (value.Value, error) {
	return in.call(callee, args, 0)
}

// ExecuteBlock implements function.Evaluator: it runs stmts in env,
// restoring the interpreter's previous environment on every exit path.
func (in *Interpreter) ExecuteBlock(stmts []parser.Stmt, env *environment.Environment) (value.Value, error) {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	var result value.Value = value.Nil{}
	for _, stmt := range stmts {
		v, err := in.execute(stmt)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func (in *Interpreter) call(callee value.Value, args []value.Value, line int) (value.Value, error) {
	switch c := callee.(type) {
	case *value.Class:
		return in.instantiate(c, args, line)
	case userCallable:
		return c.Call(in, args)
	case nativeCallable:
		return c.Call(in, in.Out, args)
	default:
		return nil, newRuntimeError(line, "can only call functions and classes")
	}
}

// instantiate constructs a new instance of class, running its `init`
// method (if any) with args; the constructor call's result is always
// the instance itself.
func (in *Interpreter) instantiate(class *value.Class, args []value.Value, line int) (value.Value, error) {
	inst := value.NewInstance(class)
	if init, ok := class.FindMethod("init"); ok {
		bound := bind(init, inst)
		if _, err := in.call(bound, args, line); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// bind produces a freshly `this`-bound copy of a method callable.
func bind(method value.Callable, inst *value.Instance) value.Callable {
	if b, ok := method.(interface{ Bind(*value.Instance) value.Callable }); ok {
		return b.Bind(inst)
	}
	return method
}
