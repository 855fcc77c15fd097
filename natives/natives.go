// Package natives implements gkg's built-in native functions, grounded
// on the teacher's std.Builtin/std.Runtime shape (a name, a callback,
// and a Runtime the callback can call back into) but narrowed to the
// two natives the evaluator actually wires in: clock() and print(...).
package natives

import (
	"fmt"
	"io"
	"strings"
	"time"

	"gkg/value"
)

// Runtime is the subset of the evaluator natives may call back into.
// None of gkg's current natives need it, but it is kept so a future
// native (e.g. a sort callback) has somewhere to invoke a gkg function
// without natives importing eval directly.
type Runtime interface {
	CallFunction(callee value.Value, args []value.Value) (value.Value, error)
}

// Callback is the function signature every native implements: it
// receives the active Runtime, the output writer print should target,
// and the already-evaluated argument list.
type Callback func(rt Runtime, out io.Writer, args []value.Value) (value.Value, error)

// Builtin is a native function: a name (for registration in the
// global scope) plus the Go function that implements it.
type Builtin struct {
	Name     string
	Arity    int // -1 means variadic, matching print's "any" arity
	Callback Callback
}

func (b *Builtin) String() string { return fmt.Sprintf("<native fn %s>", b.Name) }

// NativeArity reports the arity the evaluator should enforce before
// calling this native's Callback; -1 bypasses the check entirely.
func (b *Builtin) NativeArity() int { return b.Arity }

// NativeFunction is the runtime value wrapping a Builtin so it can be
// defined directly into the global environment as a value.Callable.
type NativeFunction struct {
	*Builtin
}

func (n *NativeFunction) Arity() int { return n.Builtin.Arity }

// Call invokes the wrapped native, matching the Call signature the
// evaluator looks for via a type assertion on any callable value.
func (n *NativeFunction) Call(rt Runtime, out io.Writer, args []value.Value) (value.Value, error) {
	return n.Callback(rt, out, args)
}

// All returns the complete set of natives bound into the global scope
// at interpreter startup.
func All() []*NativeFunction {
	return []*NativeFunction{
		{Builtin: &Builtin{Name: "clock", Arity: 0, Callback: clock}},
		{Builtin: &Builtin{Name: "print", Arity: -1, Callback: printNative}},
	}
}

// clock returns the number of seconds since the Unix epoch as a
// fractional Number, matching the spec's native clock() used for
// timing benchmarks in gkg scripts.
func clock(rt Runtime, out io.Writer, args []value.Value) (value.Value, error) {
	return value.Number(float64(time.Now().UnixNano()) / 1e9), nil
}

// printNative prints the string representation of each argument,
// space-separated, followed by a newline, mirroring print/println in
// the teacher's std.common but collapsed into gkg's single print
// builtin (the language's print statement already covers the common
// single-value case; this native exists for variadic, expression-
// position printing).
func printNative(rt Runtime, out io.Writer, args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	fmt.Fprintln(out, strings.Join(parts, " "))
	return value.Nil{}, nil
}
