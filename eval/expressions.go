package eval

import (
	"gkg/lexer"
	"gkg/parser"
	"gkg/value"
)

// evaluate dispatches an expression node to its evaluation rule,
// returning the value it produces or a *RuntimeError.
func (in *Interpreter) evaluate(expr parser.Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *parser.Literal:
		return literalValue(e.Value), nil
	case *parser.Grouping:
		return in.evaluate(e.Inner)
	case *parser.Unary:
		return in.evalUnary(e)
	case *parser.Binary:
		return in.evalBinary(e)
	case *parser.Variable:
		v, err := in.env.Get(e.Name.Lexeme)
		if err != nil {
			return nil, newRuntimeError(e.Name.Line, "%s", err.Error())
		}
		return v, nil
	case *parser.Assign:
		return in.evalAssign(e)
	case *parser.Call:
		return in.evalCall(e)
	case *parser.Get:
		return in.evalGet(e)
	case *parser.Set:
		return in.evalSet(e)
	case *parser.This:
		v, err := in.env.Get("this")
		if err != nil {
			return nil, newRuntimeError(e.Keyword.Line, "%s", err.Error())
		}
		return v, nil
	case *parser.Super:
		return in.evalSuper(e)
	default:
		return nil, newRuntimeError(0, "unknown expression node %T", expr)
	}
}

func literalValue(v interface{}) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Nil{}
	case bool:
		return value.Bool(t)
	case float64:
		return value.Number(t)
	case string:
		return value.Str(t)
	default:
		return value.Nil{}
	}
}

func (in *Interpreter) evalUnary(e *parser.Unary) (value.Value, error) {
	operand, err := in.evaluate(e.Operand)
	if err != nil {
		return nil, err
	}
	switch e.Op.Type {
	case lexer.MINUS:
		n, ok := operand.(value.Number)
		if !ok {
			return nil, newRuntimeError(e.Op.Line, "operand of '-' must be a number")
		}
		return -n, nil
	case lexer.BANG:
		return value.Bool(!value.Truthy(operand)), nil
	default:
		return nil, newRuntimeError(e.Op.Line, "unknown unary operator %s", e.Op.Type)
	}
}

// evalBinary implements arithmetic, comparison, equality, and the
// short-circuiting logical operators and/or, which the parser encodes
// as Binary nodes sharing the AND/OR token types.
func (in *Interpreter) evalBinary(e *parser.Binary) (value.Value, error) {
	if e.Op.Type == lexer.AND || e.Op.Type == lexer.OR {
		return in.evalLogical(e)
	}

	left, err := in.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Type {
	case lexer.EQUAL_EQUAL:
		return value.Bool(value.Equal(left, right)), nil
	case lexer.BANG_EQUAL:
		return value.Bool(!value.Equal(left, right)), nil
	}

	switch e.Op.Type {
	case lexer.PLUS:
		return in.evalPlus(left, right, e.Op.Line)
	case lexer.MINUS, lexer.STAR, lexer.SLASH,
		lexer.GREATER, lexer.GREATER_EQUAL, lexer.LESS, lexer.LESS_EQUAL:
		ln, lok := left.(value.Number)
		rn, rok := right.(value.Number)
		if !lok || !rok {
			return nil, newRuntimeError(e.Op.Line, "operands of '%s' must be numbers", e.Op.Type)
		}
		return numericBinary(e.Op.Type, ln, rn, e.Op.Line)
	default:
		return nil, newRuntimeError(e.Op.Line, "unknown binary operator %s", e.Op.Type)
	}
}

// evalPlus implements '+' overloaded over numbers (addition) and
// strings (concatenation); mixed operand types are a runtime error.
func (in *Interpreter) evalPlus(left, right value.Value, line int) (value.Value, error) {
	if ln, ok := left.(value.Number); ok {
		if rn, ok := right.(value.Number); ok {
			return ln + rn, nil
		}
	}
	if ls, ok := left.(value.Str); ok {
		if rs, ok := right.(value.Str); ok {
			return ls + rs, nil
		}
	}
	return nil, newRuntimeError(line, "operands of '+' must both be numbers or both be strings")
}

func numericBinary(op lexer.TokenType, l, r value.Number, line int) (value.Value, error) {
	switch op {
	case lexer.MINUS:
		return l - r, nil
	case lexer.STAR:
		return l * r, nil
	case lexer.SLASH:
		// Division by zero is not special-cased: it follows Go's (and
		// IEEE 754's) float division, producing +Inf, -Inf, or NaN.
		return l / r, nil
	case lexer.GREATER:
		return value.Bool(l > r), nil
	case lexer.GREATER_EQUAL:
		return value.Bool(l >= r), nil
	case lexer.LESS:
		return value.Bool(l < r), nil
	case lexer.LESS_EQUAL:
		return value.Bool(l <= r), nil
	default:
		return nil, newRuntimeError(line, "unknown numeric operator %s", op)
	}
}

// evalLogical short-circuits: `or` returns its left operand if truthy
// without evaluating the right; `and` returns its left operand if
// falsy without evaluating the right. Otherwise the right operand's
// value is returned.
func (in *Interpreter) evalLogical(e *parser.Binary) (value.Value, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op.Type == lexer.OR {
		if value.Truthy(left) {
			return left, nil
		}
	} else {
		if !value.Truthy(left) {
			return left, nil
		}
	}
	return in.evaluate(e.Right)
}

func (in *Interpreter) evalAssign(e *parser.Assign) (value.Value, error) {
	v, err := in.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	if err := in.env.Assign(e.Name.Lexeme, v); err != nil {
		return nil, newRuntimeError(e.Name.Line, "%s", err.Error())
	}
	return v, nil
}

// evalCall evaluates the callee and arguments left-to-right, checks
// arity (bypassed for variadic natives, encoded as Arity() == -1), and
// dispatches to the callable's call rule.
func (in *Interpreter) evalCall(e *parser.Call) (value.Value, error) {
	callee, err := in.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]value.Value, len(e.Arguments))
	for i, a := range e.Arguments {
		v, err := in.evaluate(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	callable, ok := callee.(value.Callable)
	if !ok {
		return nil, newRuntimeError(e.Paren.Line, "can only call functions and classes")
	}
	if arity := callable.Arity(); arity != -1 && arity != len(args) {
		return nil, newRuntimeError(e.Paren.Line, "expected %d arguments but got %d", arity, len(args))
	}

	return in.call(callee, args, e.Paren.Line)
}

func (in *Interpreter) evalGet(e *parser.Get) (value.Value, error) {
	obj, err := in.evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*value.Instance)
	if !ok {
		return nil, newRuntimeError(e.Name.Line, "only instances have properties")
	}
	v, ok := inst.Get(e.Name.Lexeme)
	if !ok {
		return nil, newRuntimeError(e.Name.Line, "undefined property '%s'", e.Name.Lexeme)
	}
	return v, nil
}

func (in *Interpreter) evalSet(e *parser.Set) (value.Value, error) {
	obj, err := in.evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*value.Instance)
	if !ok {
		return nil, newRuntimeError(e.Name.Line, "only instances have fields")
	}
	v, err := in.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	inst.Set(e.Name.Lexeme, v)
	return v, nil
}

// evalSuper resolves `super.method`: looks up the superclass bound
// into the method's closure chain under the name "super", finds the
// method there, and binds it to the current `this`.
func (in *Interpreter) evalSuper(e *parser.Super) (value.Value, error) {
	superVal, err := in.env.Get("super")
	if err != nil {
		return nil, newRuntimeError(e.Keyword.Line, "'super' used outside a subclass method")
	}
	super, ok := superVal.(*value.Class)
	if !ok {
		return nil, newRuntimeError(e.Keyword.Line, "'super' did not resolve to a class")
	}
	method, ok := super.FindMethod(e.Method.Lexeme)
	if !ok {
		return nil, newRuntimeError(e.Method.Line, "undefined property '%s'", e.Method.Lexeme)
	}
	thisVal, err := in.env.Get("this")
	if err != nil {
		return nil, newRuntimeError(e.Keyword.Line, "'super' used outside a method")
	}
	inst, ok := thisVal.(*value.Instance)
	if !ok {
		return nil, newRuntimeError(e.Keyword.Line, "'this' did not resolve to an instance")
	}
	return bind(method, inst), nil
}
