package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(Nil{}))
	assert.False(t, Truthy(Bool(false)))
	assert.True(t, Truthy(Bool(true)))
	assert.True(t, Truthy(Number(0)))
	assert.True(t, Truthy(Str("")))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Nil{}, Nil{}))
	assert.True(t, Equal(Number(3), Number(3)))
	assert.False(t, Equal(Number(3), Str("3")))
	assert.True(t, Equal(Str("hi"), Str("hi")))

	a := NewInstance(&Class{Name: "A"})
	b := NewInstance(&Class{Name: "A"})
	assert.True(t, Equal(a, a))
	assert.False(t, Equal(a, b))
}

func TestNumberStringification(t *testing.T) {
	assert.Equal(t, "3", Number(3).String())
	assert.Equal(t, "3.5", Number(3.5).String())
}

func TestClassFindMethod_Inherited(t *testing.T) {
	type stubFn struct{ Callable }
	base := &Class{Name: "Base", Methods: map[string]Callable{}}
	derived := &Class{Name: "Derived", Superclass: base, Methods: map[string]Callable{}}

	var fn Callable = fakeCallable{}
	base.Methods["greet"] = fn

	got, ok := derived.FindMethod("greet")
	assert.True(t, ok)
	assert.Equal(t, fn, got)
}

type fakeCallable struct{}

func (fakeCallable) String() string { return "<fn>" }
func (fakeCallable) Arity() int     { return 0 }

func TestInstanceFieldShadowsMethod(t *testing.T) {
	class := &Class{Name: "A", Methods: map[string]Callable{"name": fakeCallable{}}}
	inst := NewInstance(class)
	inst.Set("name", Str("field-value"))

	got, ok := inst.Get("name")
	assert.True(t, ok)
	assert.Equal(t, Str("field-value"), got)
}
