package eval

import (
	"fmt"

	"gkg/environment"
	"gkg/function"
	"gkg/parser"
	"gkg/value"
)

// execute dispatches a statement node to its execution rule. The
// returned value is only meaningful for the REPL, which wants to show
// the value of the last statement executed; ordinary script execution
// ignores it. An error is either a *RuntimeError (real failure) or a
// *function.ReturnSignal (return unwinding through block/loop execution).
func (in *Interpreter) execute(stmt parser.Stmt) (value.Value, error) {
	switch s := stmt.(type) {
	case *parser.ExprStmt:
		return in.evaluate(s.Expression)
	case *parser.PrintStmt:
		return in.executePrint(s)
	case *parser.VarStmt:
		return in.executeVar(s)
	case *parser.BlockStmt:
		return in.ExecuteBlock(s.Statements, environment.New(in.env))
	case *parser.IfStmt:
		return in.executeIf(s)
	case *parser.WhileStmt:
		return in.executeWhile(s)
	case *parser.FunctionStmt:
		return in.executeFunctionDecl(s)
	case *parser.ReturnStmt:
		return in.executeReturn(s)
	case *parser.ClassStmt:
		return in.executeClassDecl(s)
	default:
		return nil, newRuntimeError(0, "unknown statement node %T", stmt)
	}
}

func (in *Interpreter) executePrint(s *parser.PrintStmt) (value.Value, error) {
	v, err := in.evaluate(s.Expression)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(in.Out, v.String())
	return value.Nil{}, nil
}

func (in *Interpreter) executeVar(s *parser.VarStmt) (value.Value, error) {
	var v value.Value = value.Nil{}
	if s.Initializer != nil {
		var err error
		v, err = in.evaluate(s.Initializer)
		if err != nil {
			return nil, err
		}
	}
	in.env.Define(s.Name.Lexeme, v)
	return value.Nil{}, nil
}

func (in *Interpreter) executeIf(s *parser.IfStmt) (value.Value, error) {
	cond, err := in.evaluate(s.Condition)
	if err != nil {
		return nil, err
	}
	if value.Truthy(cond) {
		return in.execute(s.Then)
	}
	if s.ElseBranch != nil {
		return in.execute(s.ElseBranch)
	}
	return value.Nil{}, nil
}

func (in *Interpreter) executeWhile(s *parser.WhileStmt) (value.Value, error) {
	var result value.Value = value.Nil{}
	for {
		cond, err := in.evaluate(s.Condition)
		if err != nil {
			return nil, err
		}
		if !value.Truthy(cond) {
			return result, nil
		}
		result, err = in.execute(s.Body)
		if err != nil {
			return nil, err
		}
	}
}

func (in *Interpreter) executeFunctionDecl(s *parser.FunctionStmt) (value.Value, error) {
	fn := &function.UserFunction{Decl: s, Closure: in.env}
	in.env.Define(s.Name.Lexeme, fn)
	return value.Nil{}, nil
}

func (in *Interpreter) executeReturn(s *parser.ReturnStmt) (value.Value, error) {
	var v value.Value = value.Nil{}
	if s.Value != nil {
		var err error
		v, err = in.evaluate(s.Value)
		if err != nil {
			return nil, err
		}
	}
	return nil, &function.ReturnSignal{Value: v}
}

// executeClassDecl implements class declaration: evaluate an optional
// superclass expression (must resolve to a class), define the class
// name up front so methods may self-reference it, push a `super`
// scope when there is a superclass, build each method as a closure
// over that scope, then bind the finished class back to its name.
func (in *Interpreter) executeClassDecl(s *parser.ClassStmt) (value.Value, error) {
	var super *value.Class
	if s.Superclass != nil {
		superVal, err := in.env.Get(s.Superclass.Name.Lexeme)
		if err != nil {
			return nil, newRuntimeError(s.Superclass.Name.Line, "%s", err.Error())
		}
		sc, ok := superVal.(*value.Class)
		if !ok {
			return nil, newRuntimeError(s.Superclass.Name.Line, "superclass must be a class")
		}
		super = sc
	}

	in.env.Define(s.Name.Lexeme, value.Nil{})

	methodEnv := in.env
	if super != nil {
		methodEnv = environment.New(in.env)
		methodEnv.Define("super", super)
	}

	methods := make(map[string]value.Callable, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &function.UserFunction{
			Decl:          m,
			Closure:       methodEnv,
			IsInitializer: m.Name.Lexeme == "init",
		}
	}

	class := &value.Class{Name: s.Name.Lexeme, Superclass: super, Methods: methods}
	in.env.Assign(s.Name.Lexeme, class)
	return value.Nil{}, nil
}
