// Package value defines the runtime value system of gkg: the tagged
// sum of values a gkg program can produce and operate on.
package value

import (
	"fmt"
	"strconv"
)

// Value is implemented by every runtime value. It is intentionally
// minimal — type dispatch in the evaluator switches on a Go type
// assertion against the concrete variants below, not on a GetType()
// string tag, since Go's type system already gives an exhaustive,
// compiler-checked tag.
type Value interface {
	// String returns the representation used by print and by the REPL.
	String() string
}

// Nil is the unit value.
type Nil struct{}

func (Nil) String() string { return "nil" }

// Bool wraps a boolean value.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Number wraps an IEEE-754 double, gkg's only numeric type.
type Number float64

func (n Number) String() string {
	s := strconv.FormatFloat(float64(n), 'f', -1, 64)
	return s
}

// Str wraps a string value.
type Str string

func (s Str) String() string { return string(s) }

// Callable is implemented by every invocable value: user-defined
// functions, bound methods, classes (as constructors), and native
// functions.
type Callable interface {
	Value
	// Arity returns the number of arguments this callable expects, or
	// -1 for a variadic native that accepts any count.
	Arity() int
}

// Class is a user-defined class: a name, an optional superclass, and
// its own method table (method name -> user function). Inherited
// methods are NOT copied in; lookup walks Superclass when a name is
// missing locally.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]Callable
}

// FindMethod looks up a method by name, walking the superclass chain.
func (c *Class) FindMethod(name string) (Callable, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

func (c *Class) String() string { return c.Name }

// Arity reports the arity of the class's initializer, or 0 if it has
// none — calling a class with no "init" takes zero arguments.
func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// Instance is an instance of a Class: a class reference plus its own
// field map. Method lookup is dynamic and field shadows method.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

// NewInstance allocates a fresh, field-less instance of class.
func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]Value)}
}

func (i *Instance) String() string { return i.Class.Name + " instance" }

// Get resolves a property read: a field if present, else a bound
// method, else ok=false.
func (i *Instance) Get(name string) (Value, bool) {
	if v, ok := i.Fields[name]; ok {
		return v, true
	}
	if m, ok := i.Class.FindMethod(name); ok {
		if bindable, ok := m.(interface{ Bind(*Instance) Callable }); ok {
			return bindable.Bind(i), true
		}
		return m, true
	}
	return nil, false
}

// Set assigns (or creates) a field on the instance.
func (i *Instance) Set(name string, v Value) {
	i.Fields[name] = v
}

// Truthy implements gkg's truthiness rule: nil is false, booleans are
// themselves, everything else (including 0 and "") is true.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(t)
	default:
		return true
	}
}

// Equal implements gkg's structural-equality rule for `==`/`!=`:
// nil equals only nil; numbers, booleans,
// and strings compare by value; instances, classes, and callables
// compare by reference identity; mismatched variants are unequal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case Str:
		bv, ok := b.(Str)
		return ok && av == bv
	case *Instance:
		bv, ok := b.(*Instance)
		return ok && av == bv
	case *Class:
		bv, ok := b.(*Class)
		return ok && av == bv
	default:
		// Callables (user/native functions, bound methods): reference
		// identity via the underlying pointer.
		return a == b
	}
}

// TypeName returns a short lowercase tag for error messages.
func TypeName(v Value) string {
	switch v.(type) {
	case Nil:
		return "nil"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case Str:
		return "string"
	case *Class:
		return "class"
	case *Instance:
		return "instance"
	case Callable:
		return "function"
	default:
		return fmt.Sprintf("%T", v)
	}
}
