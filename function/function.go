// Package function implements gkg's user-defined function and method
// values, grounded on the teacher's Function type (name, params, body,
// captured scope) but generalized to the spec's call/bind/return
// semantics.
package function

import (
	"fmt"

	"gkg/environment"
	"gkg/parser"
	"gkg/value"
)

// Evaluator is the subset of the evaluator a UserFunction needs to run
// its body. Declaring it here, rather than importing the eval package
// directly, keeps function free of a dependency cycle: eval imports
// function, and *eval.Interpreter satisfies this interface implicitly.
type Evaluator interface {
	ExecuteBlock(stmts []parser.Stmt, env *environment.Environment) (value.Value, error)
}

// ReturnSignal is the distinguished error value a `return` statement
// produces to unwind the Go call stack up to the nearest enclosing
// function call. It is never surfaced to the user as a runtime error.
type ReturnSignal struct {
	Value value.Value
}

func (r *ReturnSignal) Error() string { return "return outside function" }

// UserFunction is a function or method declared in gkg source: its
// declaration AST, the environment it closed over at definition time,
// and whether it is a class initializer (whose call result is always
// the bound instance, regardless of what `return` passed).
type UserFunction struct {
	Decl          *parser.FunctionStmt
	Closure       *environment.Environment
	IsInitializer bool
}

func (f *UserFunction) String() string { return fmt.Sprintf("<fn %s>", f.Decl.Name.Lexeme) }

func (f *UserFunction) Arity() int { return len(f.Decl.Params) }

// Call runs the function body in a fresh environment nested directly
// inside its closure, with parameters bound to args.
func (f *UserFunction) Call(ev Evaluator, args []value.Value) (value.Value, error) {
	callEnv := environment.New(f.Closure)
	for i, param := range f.Decl.Params {
		callEnv.Define(param.Lexeme, args[i])
	}

	_, err := ev.ExecuteBlock(f.Decl.Body, callEnv)
	if err != nil {
		if ret, ok := err.(*ReturnSignal); ok {
			if f.IsInitializer {
				return f.boundThis(), nil
			}
			return ret.Value, nil
		}
		return nil, err
	}

	if f.IsInitializer {
		return f.boundThis(), nil
	}
	return value.Nil{}, nil
}

func (f *UserFunction) boundThis() value.Value {
	this, _ := f.Closure.Get("this")
	return this
}

// Bind returns a copy of the function whose closure additionally binds
// `this` to inst, implementing method-call semantics: each property
// access that resolves to a method produces a freshly bound callable.
func (f *UserFunction) Bind(inst *value.Instance) value.Callable {
	env := environment.New(f.Closure)
	env.Define("this", inst)
	return &UserFunction{Decl: f.Decl, Closure: env, IsInitializer: f.IsInitializer}
}
