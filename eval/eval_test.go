package eval

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gkg/lexer"
	"gkg/parser"
)

// run lexes, parses, and executes src, returning whatever it wrote to
// standard output.
func run(t *testing.T, src string) string {
	t.Helper()
	lx := lexer.New(src)
	toks := lx.Tokens()
	require.Empty(t, lx.Errors())

	p := parser.NewParser(toks)
	stmts := p.Parse()
	require.False(t, p.HasErrors(), "parse errors: %v", p.GetErrors())

	var out bytes.Buffer
	in := New(&out)
	_, err := in.Run(stmts)
	require.NoError(t, err)
	return out.String()
}

func TestScenario1_ArithmeticPrecedence(t *testing.T) {
	assert.Equal(t, "3\n", run(t, `print 1 + 2;`))
}

func TestScenario2_StringConcatenation(t *testing.T) {
	assert.Equal(t, "hi there\n", run(t, `var a = "hi"; print a + " there";`))
}

func TestScenario3_RecursiveFibonacci(t *testing.T) {
	src := `def f(n){ if (n<2) return n; return f(n-1)+f(n-2); } print f(10);`
	assert.Equal(t, "55\n", run(t, src))
}

func TestScenario4_BlockScopingShadowsThenRestores(t *testing.T) {
	src := `var x=1; { var x=2; print x; } print x;`
	assert.Equal(t, "2\n1\n", run(t, src))
}

func TestScenario5_MethodCallOnInstance(t *testing.T) {
	src := `class A{ greet(){ print "hi"; } } A().greet();`
	assert.Equal(t, "hi\n", run(t, src))
}

func TestScenario6_InheritedConstructorAndFieldAccess(t *testing.T) {
	src := `class A{ init(n){ this.n=n; } } class B<A{ show(){ print this.n; } } B(7).show();`
	assert.Equal(t, "7\n", run(t, src))
}

func TestScenario7_ClosureSharesMutableState(t *testing.T) {
	src := `def make(){ var c=0; def inc(){ c = c+1; return c; } return inc; } var i=make(); print i(); print i();`
	assert.Equal(t, "1\n2\n", run(t, src))
}

func TestInvariant_LeftToRightArgumentEvaluation(t *testing.T) {
	// f(a(), b()): a's visible side effect (its print) must happen
	// before b's, proving arguments are evaluated in index order.
	src := `
def a() { print "a"; return 1; }
def b() { print "b"; return 2; }
def f(x, y) { return x + y; }
print f(a(), b());
`
	assert.Equal(t, "a\nb\n3\n", run(t, src))
}

func TestInvariant_InheritedMethodAccessWithOverride(t *testing.T) {
	src := `
class Animal { speak() { print "..."; } }
class Dog < Animal {}
class Cat < Animal { speak() { print "meow"; } }
Dog().speak();
Cat().speak();
`
	assert.Equal(t, "...\nmeow\n", run(t, src))
}

func TestInvariant_StringificationWholeNumberHasNoFraction(t *testing.T) {
	assert.Equal(t, "3\n", run(t, `var x = 3; print x;`))
}

func TestInvariant_AndOrShortCircuit(t *testing.T) {
	// the right operand of `and`/`or` must not evaluate when it would
	// raise a runtime error, proving short-circuit actually skips it.
	src := `
def boom() { return undefined_name; }
print false and boom();
print true or boom();
`
	assert.Equal(t, "false\ntrue\n", run(t, src))
}

func TestInvariant_EqualityStructuralForPrimitivesReferenceForInstances(t *testing.T) {
	src := `
class A {}
var a = A();
var b = A();
print a == a;
print a == b;
print 1 == 1.0;
print "x" == "x";
`
	assert.Equal(t, "true\nfalse\ntrue\ntrue\n", run(t, src))
}

func TestRuntimeError_UndefinedVariable(t *testing.T) {
	toks := lexer.New(`print undefined_name;`).Tokens()
	p := parser.NewParser(toks)
	stmts := p.Parse()
	require.False(t, p.HasErrors())

	var out bytes.Buffer
	in := New(&out)
	_, err := in.Run(stmts)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "undefined variable")
}

func TestDivisionByZero_ProducesIEEEInfinityNotError(t *testing.T) {
	assert.Equal(t, "+Inf\n", run(t, `print 1/0;`))
	assert.Equal(t, "-Inf\n", run(t, `print -1/0;`))
	assert.Equal(t, "NaN\n", run(t, `print 0/0;`))
}

func TestNativeClockReturnsNumber(t *testing.T) {
	out := run(t, `var t = clock(); print t >= 0;`)
	assert.Equal(t, "true\n", out)
}

func TestNativePrintVariadicSpacedOutput(t *testing.T) {
	out := run(t, `print(1, "two", 3);`)
	assert.True(t, strings.HasPrefix(out, "1 two 3"))
}

func TestForLoopDesugaring(t *testing.T) {
	src := `var sum = 0; for (var i = 1; i <= 3; i = i + 1) { sum = sum + i; } print sum;`
	assert.Equal(t, "6\n", run(t, src))
}
