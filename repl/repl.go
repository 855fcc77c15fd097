// Package repl implements gkg's interactive Read-Eval-Print Loop,
// grounded on the teacher's Repl type (readline-backed line editing,
// colored output, a persistent evaluator across lines) but driving
// gkg's lexer/parser/eval pipeline instead of Go-Mix's.
package repl

import (
	"bufio"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"gkg/eval"
	"gkg/lexer"
	"gkg/parser"
	"gkg/value"
)

var (
	blueColor   = color.New(color.FgBlue)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
	yellowColor = color.New(color.FgYellow)
)

// Repl is a configured interactive session: its banner, version
// string, and prompt.
type Repl struct {
	Banner  string
	Version string
	Prompt  string
}

// New creates a Repl with the given banner, version string, and
// prompt (e.g. "gkg> ").
func New(banner, version, prompt string) *Repl {
	return &Repl{Banner: banner, Version: version, Prompt: prompt}
}

func (r *Repl) printBanner(writer io.Writer) {
	greenColor.Fprintf(writer, "%s\n", r.Banner)
	cyanColor.Fprintf(writer, "gkg %s — a tree-walking interpreter\n", r.Version)
	cyanColor.Fprintln(writer, "Type gkg code and press enter. Type 'exit' or '.exit' to quit.")
}

// Start runs the REPL loop until the user exits or EOF is reached on
// the input stream (Ctrl-D). Every line shares one Interpreter, so
// top-level variable and function declarations persist across lines.
func (r *Repl) Start(writer io.Writer) {
	r.printBanner(writer)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	interp := eval.New(writer)

	for {
		line, err := rl.Readline()
		if err != nil { // EOF (Ctrl-D) or read error
			writer.Write([]byte("\n"))
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == ".exit" {
			return
		}

		rl.SaveHistory(line)
		r.evalLine(writer, interp, line)
	}
}

// ServeStream runs the same line-at-a-time evaluation loop as Start,
// but reads from an arbitrary stream instead of a readline-managed
// terminal. Used for non-interactive clients such as a raw TCP
// connection, where there is no pty for readline to attach to.
func (r *Repl) ServeStream(rw io.ReadWriter) {
	r.printBanner(rw)
	interp := eval.New(rw)

	scanner := bufio.NewScanner(rw)
	for {
		rw.Write([]byte(r.Prompt))
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == ".exit" {
			return
		}
		r.evalLine(rw, interp, line)
	}
}

func (r *Repl) evalLine(writer io.Writer, interp *eval.Interpreter, line string) {
	lex := lexer.New(line)
	tokens := lex.Tokens()
	if len(lex.Errors()) > 0 {
		for _, e := range lex.Errors() {
			redColor.Fprintln(writer, e)
		}
		return
	}

	p := parser.NewParser(tokens)
	stmts := p.Parse()
	if p.HasErrors() {
		for _, e := range p.GetErrors() {
			redColor.Fprintln(writer, e)
		}
		return
	}

	result, err := interp.Run(stmts)
	if err != nil {
		redColor.Fprintln(writer, err.Error())
		return
	}
	if len(stmts) == 0 {
		return
	}
	if _, isExprStmt := stmts[len(stmts)-1].(*parser.ExprStmt); !isExprStmt {
		return
	}
	if _, isNil := result.(value.Nil); isNil {
		return
	}
	yellowColor.Fprintln(writer, result.String())
}
