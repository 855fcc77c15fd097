package parser

import (
	"fmt"

	"gkg/lexer"
)

// Parser is a hand-rolled recursive-descent parser over a gkg token
// stream, grounded on the teacher's two-token-lookahead, error-
// accumulating parser shape (CurrToken/NextToken, Errors/HasErrors).
type Parser struct {
	tokens []lexer.Token
	pos    int

	CurrToken lexer.Token
	NextToken lexer.Token

	Errors []string
}

// NewParser creates a Parser over the full token slice produced by the
// lexer (including the trailing EOF token).
func NewParser(tokens []lexer.Token) *Parser {
	p := &Parser{tokens: tokens}
	p.CurrToken = p.tokenAt(0)
	p.NextToken = p.tokenAt(1)
	return p
}

func (p *Parser) tokenAt(i int) lexer.Token {
	if i >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[i]
}

// HasErrors reports whether any parse error was recorded.
func (p *Parser) HasErrors() bool { return len(p.Errors) > 0 }

// GetErrors returns the parse errors accumulated so far.
func (p *Parser) GetErrors() []string { return p.Errors }

func (p *Parser) addError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.Errors = append(p.Errors, fmt.Sprintf("[line %d] Parse error: %s", p.CurrToken.Line, msg))
}

func (p *Parser) addErrorAt(line int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.Errors = append(p.Errors, fmt.Sprintf("[line %d] Parse error: %s", line, msg))
}

// advance moves the parser forward by one token: CurrToken becomes
// NextToken, and NextToken is pulled from the buffered token slice.
func (p *Parser) advance() {
	p.pos++
	p.CurrToken = p.NextToken
	p.NextToken = p.tokenAt(p.pos + 1)
}

func (p *Parser) check(t lexer.TokenType) bool { return p.CurrToken.Type == t }

func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes CurrToken if it matches t, else records a parse
// error and leaves the cursor in place so synchronize() can recover.
func (p *Parser) expect(t lexer.TokenType, msgOnFail string) lexer.Token {
	if p.check(t) {
		tok := p.CurrToken
		p.advance()
		return tok
	}
	p.addError("%s (got %s)", msgOnFail, p.CurrToken.Type)
	return p.CurrToken
}

// prevToken returns the token most recently consumed by match()/advance().
func (p *Parser) prevToken() lexer.Token {
	if p.pos == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.pos-1]
}

// Parse parses the full token stream into a program: a list of
// top-level declarations/statements.
func (p *Parser) Parse() []Stmt {
	var stmts []Stmt
	for p.CurrToken.Type != lexer.EOF {
		stmt := p.declaration()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// declaration dispatches to class/function/var declarations, falling
// back to statement. On a parse error it synchronizes to the next
// statement boundary (panic-mode recovery).
func (p *Parser) declaration() Stmt {
	startErrs := len(p.Errors)

	var stmt Stmt
	switch {
	case p.match(lexer.CLASS):
		stmt = p.classDecl()
	case p.match(lexer.DEF):
		stmt = p.function("function")
	case p.match(lexer.VAR):
		stmt = p.varDecl()
	default:
		stmt = p.statement()
	}

	if len(p.Errors) > startErrs {
		p.synchronize()
	}
	return stmt
}

func (p *Parser) synchronize() {
	for p.CurrToken.Type != lexer.EOF {
		if p.CurrToken.Type == lexer.SEMICOLON {
			p.advance()
			return
		}
		switch p.CurrToken.Type {
		case lexer.CLASS, lexer.DEF, lexer.VAR, lexer.FOR, lexer.IF,
			lexer.WHILE, lexer.PRINT, lexer.RETURN:
			return
		}
		p.advance()
	}
}

func (p *Parser) classDecl() Stmt {
	name := p.expect(lexer.IDENTIFIER, "expected class name")

	var super *Variable
	if p.match(lexer.LESS) {
		superName := p.expect(lexer.IDENTIFIER, "expected superclass name")
		super = &Variable{Name: superName}
	}

	p.expect(lexer.LEFT_BRACE, "expected '{' before class body")

	var methods []*FunctionStmt
	for !p.check(lexer.RIGHT_BRACE) && p.CurrToken.Type != lexer.EOF {
		m := p.function("method")
		if fn, ok := m.(*FunctionStmt); ok {
			methods = append(methods, fn)
		}
	}
	p.expect(lexer.RIGHT_BRACE, "expected '}' after class body")

	return &ClassStmt{Name: name, Superclass: super, Methods: methods}
}

// function parses `name(params) { body }`. kind is "function" or
// "method", used only in error messages.
func (p *Parser) function(kind string) Stmt {
	name := p.expect(lexer.IDENTIFIER, "expected "+kind+" name")
	p.expect(lexer.LEFT_PAREN, "expected '(' after "+kind+" name")

	var params []lexer.Token
	if !p.check(lexer.RIGHT_PAREN) {
		for {
			if len(params) >= 255 {
				p.addError("cannot have more than 255 parameters")
			}
			params = append(params, p.expect(lexer.IDENTIFIER, "expected parameter name"))
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.expect(lexer.RIGHT_PAREN, "expected ')' after parameters")
	p.expect(lexer.LEFT_BRACE, "expected '{' before "+kind+" body")
	body := p.block()

	return &FunctionStmt{Name: name, Params: params, Body: body}
}

func (p *Parser) varDecl() Stmt {
	name := p.expect(lexer.IDENTIFIER, "expected variable name")

	var init Expr
	if p.match(lexer.EQUAL) {
		init = p.expression()
	}
	p.expect(lexer.SEMICOLON, "expected ';' after variable declaration")
	return &VarStmt{Name: name, Initializer: init}
}

func (p *Parser) statement() Stmt {
	switch {
	case p.match(lexer.PRINT):
		return p.printStmt()
	case p.match(lexer.LEFT_BRACE):
		return &BlockStmt{Statements: p.block()}
	case p.match(lexer.IF):
		return p.ifStmt()
	case p.match(lexer.WHILE):
		return p.whileStmt()
	case p.match(lexer.FOR):
		return p.forStmt()
	case p.match(lexer.RETURN):
		return p.returnStmt()
	default:
		return p.exprStmt()
	}
}

// printStmt parses the `print` statement. Since `print` is a reserved
// word, it can never appear as an IDENT in primary, so the only way to
// reach the variadic native print(...) binding is through this same
// keyword: `print(a, b, c);` is read as a call to the native, while
// `print expr;` is the ordinary single-value print statement. A
// single parenthesized expression, e.g. `print (1+2);`, is accepted by
// both readings and produces identical output either way.
func (p *Parser) printStmt() Stmt {
	if p.check(lexer.LEFT_PAREN) {
		calleeName := lexer.Token{Type: lexer.IDENTIFIER, Lexeme: "print", Line: p.CurrToken.Line}
		p.advance() // consume '('

		var args []Expr
		if !p.check(lexer.RIGHT_PAREN) {
			for {
				if len(args) >= 255 {
					p.addError("cannot have more than 255 arguments")
				}
				args = append(args, p.expression())
				if !p.match(lexer.COMMA) {
					break
				}
			}
		}
		paren := p.expect(lexer.RIGHT_PAREN, "expected ')' after arguments")
		p.expect(lexer.SEMICOLON, "expected ';' after value")
		return &ExprStmt{Expression: &Call{Callee: &Variable{Name: calleeName}, Paren: paren, Arguments: args}}
	}

	value := p.expression()
	p.expect(lexer.SEMICOLON, "expected ';' after value")
	return &PrintStmt{Expression: value}
}

func (p *Parser) exprStmt() Stmt {
	expr := p.expression()
	p.expect(lexer.SEMICOLON, "expected ';' after expression")
	return &ExprStmt{Expression: expr}
}

func (p *Parser) block() []Stmt {
	var stmts []Stmt
	for !p.check(lexer.RIGHT_BRACE) && p.CurrToken.Type != lexer.EOF {
		stmt := p.declaration()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.expect(lexer.RIGHT_BRACE, "expected '}' after block")
	return stmts
}

func (p *Parser) ifStmt() Stmt {
	p.expect(lexer.LEFT_PAREN, "expected '(' after 'if'")
	cond := p.expression()
	p.expect(lexer.RIGHT_PAREN, "expected ')' after if condition")

	then := p.statement()
	var elseBranch Stmt
	if p.match(lexer.ELSE) {
		elseBranch = p.statement()
	}
	return &IfStmt{Condition: cond, Then: then, ElseBranch: elseBranch}
}

func (p *Parser) whileStmt() Stmt {
	p.expect(lexer.LEFT_PAREN, "expected '(' after 'while'")
	cond := p.expression()
	p.expect(lexer.RIGHT_PAREN, "expected ')' after while condition")
	body := p.statement()
	return &WhileStmt{Condition: cond, Body: body}
}

// forStmt parses a C-style `for (init; cond; incr) body` and desugars
// it into the equivalent while loop, so the evaluator never needs a
// dedicated for-loop node.
func (p *Parser) forStmt() Stmt {
	p.expect(lexer.LEFT_PAREN, "expected '(' after 'for'")

	var initializer Stmt
	switch {
	case p.match(lexer.SEMICOLON):
		initializer = nil
	case p.match(lexer.VAR):
		initializer = p.varDecl()
	default:
		initializer = p.exprStmt()
	}

	var condition Expr
	if !p.check(lexer.SEMICOLON) {
		condition = p.expression()
	}
	p.expect(lexer.SEMICOLON, "expected ';' after loop condition")

	var increment Expr
	if !p.check(lexer.RIGHT_PAREN) {
		increment = p.expression()
	}
	p.expect(lexer.RIGHT_PAREN, "expected ')' after for clauses")

	body := p.statement()

	if increment != nil {
		body = &BlockStmt{Statements: []Stmt{body, &ExprStmt{Expression: increment}}}
	}
	if condition == nil {
		condition = &Literal{Value: true}
	}
	body = &WhileStmt{Condition: condition, Body: body}

	if initializer != nil {
		body = &BlockStmt{Statements: []Stmt{initializer, body}}
	}
	return body
}

func (p *Parser) returnStmt() Stmt {
	keyword := p.prevToken()
	var value Expr
	if !p.check(lexer.SEMICOLON) {
		value = p.expression()
	}
	p.expect(lexer.SEMICOLON, "expected ';' after return value")
	return &ReturnStmt{Keyword: keyword, Value: value}
}

// expression is the grammar entry point: assignment.
func (p *Parser) expression() Expr { return p.assignment() }

// assignment produces a left-hand expression at logic_or precedence,
// then checks for '='; if matched the left-hand side must be a
// Variable (-> Assign) or a Get (-> Set), else it's a parse error.
func (p *Parser) assignment() Expr {
	expr := p.or()

	if p.match(lexer.EQUAL) {
		equals := p.prevToken()
		value := p.assignment()

		switch target := expr.(type) {
		case *Variable:
			return &Assign{Name: target.Name, Value: value}
		case *Get:
			return &Set{Object: target.Object, Name: target.Name, Value: value}
		default:
			p.addErrorAt(equals.Line, "invalid assignment target")
			return expr
		}
	}
	return expr
}

func (p *Parser) or() Expr {
	expr := p.and()
	for p.match(lexer.OR) {
		op := p.prevToken()
		right := p.and()
		expr = &Binary{Op: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) and() Expr {
	expr := p.equality()
	for p.match(lexer.AND) {
		op := p.prevToken()
		right := p.equality()
		expr = &Binary{Op: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) equality() Expr {
	expr := p.comparison()
	for p.match(lexer.BANG_EQUAL, lexer.EQUAL_EQUAL) {
		op := p.prevToken()
		right := p.comparison()
		expr = &Binary{Op: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) comparison() Expr {
	expr := p.term()
	for p.match(lexer.GREATER, lexer.GREATER_EQUAL, lexer.LESS, lexer.LESS_EQUAL) {
		op := p.prevToken()
		right := p.term()
		expr = &Binary{Op: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) term() Expr {
	expr := p.factor()
	for p.match(lexer.MINUS, lexer.PLUS) {
		op := p.prevToken()
		right := p.factor()
		expr = &Binary{Op: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) factor() Expr {
	expr := p.unary()
	for p.match(lexer.STAR, lexer.SLASH) {
		op := p.prevToken()
		right := p.unary()
		expr = &Binary{Op: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) unary() Expr {
	if p.match(lexer.BANG, lexer.MINUS) {
		op := p.prevToken()
		operand := p.unary()
		return &Unary{Op: op, Operand: operand}
	}
	return p.call()
}

func (p *Parser) call() Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(lexer.LEFT_PAREN):
			expr = p.finishCall(expr)
		case p.match(lexer.DOT):
			name := p.expect(lexer.IDENTIFIER, "expected property name after '.'")
			expr = &Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee Expr) Expr {
	var args []Expr
	if !p.check(lexer.RIGHT_PAREN) {
		for {
			if len(args) >= 255 {
				p.addError("cannot have more than 255 arguments")
			}
			args = append(args, p.expression())
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	paren := p.expect(lexer.RIGHT_PAREN, "expected ')' after arguments")
	return &Call{Callee: callee, Paren: paren, Arguments: args}
}

func (p *Parser) primary() Expr {
	switch {
	case p.match(lexer.FALSE):
		return &Literal{Value: false}
	case p.match(lexer.TRUE):
		return &Literal{Value: true}
	case p.match(lexer.NIL):
		return &Literal{Value: nil}
	case p.match(lexer.NUMBER):
		return &Literal{Value: p.prevToken().Literal}
	case p.match(lexer.STRING):
		return &Literal{Value: p.prevToken().Literal}
	case p.match(lexer.THIS):
		return &This{Keyword: p.prevToken()}
	case p.match(lexer.SUPER):
		keyword := p.prevToken()
		p.expect(lexer.DOT, "expected '.' after 'super'")
		method := p.expect(lexer.IDENTIFIER, "expected superclass method name")
		return &Super{Keyword: keyword, Method: method}
	case p.match(lexer.IDENTIFIER):
		return &Variable{Name: p.prevToken()}
	case p.match(lexer.LEFT_PAREN):
		expr := p.expression()
		p.expect(lexer.RIGHT_PAREN, "expected ')' after expression")
		return &Grouping{Inner: expr}
	}

	p.addError("expected expression")
	p.advance()
	return &Literal{Value: nil}
}
