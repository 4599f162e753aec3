package parser

import (
	"fmt"
	"strings"

	"github.com/funvibe/ruchy/internal/ast"
	"github.com/funvibe/ruchy/internal/diagnostics"
	"github.com/funvibe/ruchy/internal/lexer"
	"github.com/funvibe/ruchy/internal/pipeline"
	"github.com/funvibe/ruchy/internal/token"
)

// MaxRecursionDepth bounds nesting so hostile input cannot blow the stack.
const MaxRecursionDepth = 400

const (
	_ int = iota
	LOWEST
	ASSIGN      // = += -= ...
	PIPE        // |>
	SEND        // ! <?
	LOGIC_OR    // ||
	LOGIC_AND   // &&
	EQUALS      // == !=
	RANGE       // .. ..=
	LESSGREATER // < > <= >=
	BIT_OR      // |
	BIT_XOR     // ^
	BIT_AND     // &
	SHIFT       // << >>
	SUM         // + -
	PRODUCT     // * / %
	CAST        // as
	PREFIX      // -x !x ~x
	POWER       // **
	CALL        // f(x) a[i] a.b x?
	PATH        // A::b
)

var precedences = map[token.TokenType]int{
	token.ASSIGN:          ASSIGN,
	token.PLUS_ASSIGN:     ASSIGN,
	token.MINUS_ASSIGN:    ASSIGN,
	token.ASTERISK_ASSIGN: ASSIGN,
	token.SLASH_ASSIGN:    ASSIGN,
	token.PERCENT_ASSIGN:  ASSIGN,
	token.POWER_ASSIGN:    ASSIGN,
	token.AND_ASSIGN:      ASSIGN,
	token.OR_ASSIGN:       ASSIGN,
	token.XOR_ASSIGN:      ASSIGN,
	token.LSHIFT_ASSIGN:   ASSIGN,
	token.RSHIFT_ASSIGN:   ASSIGN,
	token.PIPE_GT:         PIPE,
	token.BANG:            SEND,
	token.ASK:             SEND,
	token.OR:              LOGIC_OR,
	token.AND:             LOGIC_AND,
	token.EQ:              EQUALS,
	token.NOT_EQ:          EQUALS,
	token.DOT_DOT:         RANGE,
	token.DOT_DOT_EQ:      RANGE,
	token.LT:              LESSGREATER,
	token.GT:              LESSGREATER,
	token.LTE:             LESSGREATER,
	token.GTE:             LESSGREATER,
	token.PIPE:            BIT_OR,
	token.CARET:           BIT_XOR,
	token.AMPERSAND:       BIT_AND,
	token.LSHIFT:          SHIFT,
	token.RSHIFT:          SHIFT,
	token.PLUS:            SUM,
	token.MINUS:           SUM,
	token.ASTERISK:        PRODUCT,
	token.SLASH:           PRODUCT,
	token.PERCENT:         PRODUCT,
	token.AS:              CAST,
	token.POWER:           POWER,
	token.LPAREN:          CALL,
	token.LBRACKET:        CALL,
	token.DOT:             CALL,
	token.QUESTION:        CALL,
	token.DOUBLE_COLON:    PATH,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	stream lexer.TokenStream
	ctx    *pipeline.PipelineContext

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn

	depth               int
	inRecursionRecovery bool

	// noStructLiteral is set while parsing if/while/for/match heads where
	// `Name {` opens the body, not a struct literal.
	noStructLiteral bool
	// noArrowLambda is set while parsing match guards so `x =>` ends the guard.
	noArrowLambda bool
	// nlStack records whether a line break ends an expression in the
	// current bracket context; it does inside blocks but not inside ( or [.
	nlStack []bool
}

func New(stream lexer.TokenStream, ctx *pipeline.PipelineContext) *Parser {
	p := &Parser{stream: stream, ctx: ctx, nlStack: []bool{true}}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.CHAR, p.parseCharLiteral)
	p.registerPrefix(token.BYTE, p.parseByteLiteral)
	p.registerPrefix(token.ATOM, p.parseAtomLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.NULL, p.parseNull)
	p.registerPrefix(token.FSTRING_START, p.parseInterpolatedString)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.TILDE, p.parsePrefixExpression)
	p.registerPrefix(token.AMPERSAND, p.parseReferenceExpression)
	p.registerPrefix(token.ASTERISK, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseListLiteral)
	p.registerPrefix(token.LBRACE, p.parseBraceExpression)
	p.registerPrefix(token.PIPE, p.parsePipeLambda)
	p.registerPrefix(token.OR, p.parsePipeLambda)
	p.registerPrefix(token.DOT_DOT, p.parsePrefixRange)
	p.registerPrefix(token.DOT_DOT_EQ, p.parsePrefixRange)
	p.registerPrefix(token.IF, p.parseIfExpression)
	p.registerPrefix(token.MATCH, p.parseMatchExpression)
	p.registerPrefix(token.WHILE, p.parseWhileExpression)
	p.registerPrefix(token.FOR, p.parseForExpression)
	p.registerPrefix(token.LOOP, p.parseLoopExpression)
	p.registerPrefix(token.LABEL, p.parseLabeledLoop)
	p.registerPrefix(token.BREAK, p.parseBreakExpression)
	p.registerPrefix(token.CONTINUE, p.parseContinueExpression)
	p.registerPrefix(token.RETURN, p.parseReturnExpression)
	p.registerPrefix(token.LET, p.parseLetExpression)
	p.registerPrefix(token.VAR, p.parseLetExpression)
	p.registerPrefix(token.FN, p.parseFunction)
	p.registerPrefix(token.ASYNC, p.parseAsync)
	p.registerPrefix(token.AWAIT, p.parseAwaitExpression)
	p.registerPrefix(token.SPAWN, p.parseSpawnExpression)
	p.registerPrefix(token.TRY, p.parseTryCatchExpression)
	p.registerPrefix(token.THROW, p.parseThrowExpression)
	p.registerPrefix(token.STRUCT, p.parseStructDeclaration)
	p.registerPrefix(token.CLASS, p.parseClassDeclaration)
	p.registerPrefix(token.ACTOR, p.parseActorDeclaration)
	p.registerPrefix(token.ENUM, p.parseEnumDeclaration)
	p.registerPrefix(token.IMPL, p.parseImplBlock)
	p.registerPrefix(token.USE, p.parseUseDeclaration)
	p.registerPrefix(token.IMPORT, p.parseUseDeclaration)
	p.registerPrefix(token.MODULE, p.parseModuleDeclaration)
	p.registerPrefix(token.PUB, p.parsePub)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for _, t := range []token.TokenType{
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT,
		token.EQ, token.NOT_EQ, token.LT, token.GT, token.LTE, token.GTE,
		token.AND, token.OR, token.PIPE, token.CARET, token.AMPERSAND,
		token.LSHIFT, token.RSHIFT, token.PIPE_GT,
	} {
		p.registerInfix(t, p.parseInfixExpression)
	}
	p.registerInfix(token.POWER, p.parsePowerExpression)
	p.registerInfix(token.ASSIGN, p.parseAssignExpression)
	for _, t := range []token.TokenType{
		token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.ASTERISK_ASSIGN, token.SLASH_ASSIGN,
		token.PERCENT_ASSIGN, token.POWER_ASSIGN, token.AND_ASSIGN, token.OR_ASSIGN,
		token.XOR_ASSIGN, token.LSHIFT_ASSIGN, token.RSHIFT_ASSIGN,
	} {
		p.registerInfix(t, p.parseCompoundAssignExpression)
	}
	p.registerInfix(token.DOT_DOT, p.parseRangeExpression)
	p.registerInfix(token.DOT_DOT_EQ, p.parseRangeExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)
	p.registerInfix(token.DOT, p.parseDotExpression)
	p.registerInfix(token.QUESTION, p.parseTryOperator)
	p.registerInfix(token.DOUBLE_COLON, p.parsePathExpression)
	p.registerInfix(token.BANG, p.parseSendExpression)
	p.registerInfix(token.ASK, p.parseSendExpression)
	p.registerInfix(token.AS, p.parseCastExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// Parse lexes and parses source, returning the program and every lex and
// parse diagnostic. It never panics.
func Parse(source string) (*ast.Program, []*diagnostics.DiagnosticError) {
	ctx := pipeline.NewPipelineContext(source, "")
	l := lexer.New(source)
	p := New(lexer.NewTokenStream(l), ctx)
	prog := p.ParseProgram()
	var errs []*diagnostics.DiagnosticError
	for _, e := range l.Errors() {
		errs = append(errs, e.Diagnostic())
	}
	errs = append(errs, ctx.Errors...)
	return prog, errs
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.stream.Next()
}

// peekAt returns the token n positions after peekToken (0 is the first
// token after peekToken).
func (p *Parser) peekAt(n int) token.Token {
	toks := p.stream.Peek(n + 1)
	if n < len(toks) {
		return toks[n]
	}
	return token.Token{Type: token.EOF}
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) pushNL(significant bool) { p.nlStack = append(p.nlStack, significant) }

func (p *Parser) popNL() {
	if len(p.nlStack) > 1 {
		p.nlStack = p.nlStack[:len(p.nlStack)-1]
	}
}

func (p *Parser) newlineSignificant() bool {
	return p.nlStack[len(p.nlStack)-1]
}

// peekEndsExpression reports whether a line break before peekToken ends
// the current expression.
func (p *Parser) peekEndsExpression() bool {
	if !p.peekToken.NewlineBefore || !p.newlineSignificant() {
		return false
	}
	return !isContinuationOperator(p.peekToken.Type)
}

// isContinuationOperator returns true for operators that can continue on next line
func isContinuationOperator(t token.TokenType) bool {
	switch t {
	case token.DOT, token.PIPE_GT, token.AND, token.OR:
		return true
	}
	return false
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// spanFrom covers start through the current token.
func (p *Parser) spanFrom(start token.Token) token.Span {
	return token.NewSpan(int(start.Span.Start), int(p.curToken.Span.End))
}

func describe(t token.Token) string {
	switch t.Type {
	case token.EOF:
		return "end of input"
	case token.IDENT:
		return fmt.Sprintf("identifier %q", t.Lexeme)
	case token.ILLEGAL:
		return fmt.Sprintf("invalid token %q", t.Lexeme)
	}
	if t.Lexeme != "" {
		return fmt.Sprintf("%q", t.Lexeme)
	}
	return string(t.Type)
}

func tokenName(t token.TokenType) string {
	switch t {
	case token.IDENT:
		return "identifier"
	case token.EOF:
		return "end of input"
	}
	if strings.ToUpper(string(t)) == string(t) && len(t) > 2 {
		return strings.ToLower(string(t))
	}
	return fmt.Sprintf("'%s'", t)
}

func (p *Parser) addError(d *diagnostics.DiagnosticError) {
	if n := len(p.ctx.Errors); n > 0 {
		last := p.ctx.Errors[n-1]
		if last.Span == d.Span && last.Code == d.Code {
			return
		}
	}
	d.File = p.ctx.FilePath
	p.ctx.Errors = append(p.ctx.Errors, d)
}

func (p *Parser) peekError(expected ...token.TokenType) {
	if p.peekTokenIs(token.ILLEGAL) {
		return // already reported by the lexer
	}
	names := make([]string, len(expected))
	for i, t := range expected {
		names[i] = tokenName(t)
	}
	d := diagnostics.NewError(diagnostics.ErrP002, p.peekToken,
		fmt.Sprintf("expected %s, got %s", strings.Join(names, " or "), describe(p.peekToken)))
	d.Expected = names
	d.Found = describe(p.peekToken)
	p.addError(d)
}

func (p *Parser) errorAt(code diagnostics.ErrorCode, tok token.Token, format string, args ...interface{}) {
	p.addError(diagnostics.NewError(code, tok, fmt.Sprintf(format, args...)))
}

func (p *Parser) noPrefixParseFnError(t token.Token) {
	if t.Type == token.ILLEGAL {
		return
	}
	d := diagnostics.NewError(diagnostics.ErrP006, t, fmt.Sprintf("unexpected %s", describe(t)))
	d.Expected = []string{"expression"}
	d.Found = describe(t)
	p.addError(d)
}

// ParseProgram parses top-level forms until EOF. A form that fails is
// dropped and parsing resumes at the next statement boundary.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Token: p.curToken, File: p.ctx.FilePath}

	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		before := len(p.ctx.Errors)
		start := p.curToken
		form := p.parseExpression(LOWEST)
		if len(p.ctx.Errors) > before || form == nil {
			if form == nil && len(p.ctx.Errors) == before {
				p.noPrefixParseFnError(p.curToken)
			}
			p.skipToStatementBoundary(false)
			if p.curToken == start {
				p.nextToken()
			}
			continue
		}
		program.Forms = append(program.Forms, form)
		p.nextToken()
		if !p.atFormSeparator() {
			p.errorAt(diagnostics.ErrP001, p.curToken, "expected ';' or newline between expressions, got %s", describe(p.curToken))
			p.skipToStatementBoundary(false)
		}
	}
	program.Span = token.NewSpan(0, int(p.curToken.Span.End))
	if len(program.Forms) > 0 {
		program.Token = program.Forms[0].GetToken()
	}
	return program
}

// atFormSeparator is true when curToken may begin a new form.
func (p *Parser) atFormSeparator() bool {
	return p.curTokenIs(token.SEMICOLON) || p.curTokenIs(token.EOF) || p.curToken.NewlineBefore
}

// skipToStatementBoundary discards tokens up to the next ';' or line break
// at the current bracket depth. With inBlock it also stops before a '}'
// that closes the enclosing block.
func (p *Parser) skipToStatementBoundary(inBlock bool) {
	depth := 0
	for !p.curTokenIs(token.EOF) {
		switch p.curToken.Type {
		case token.LPAREN, token.LBRACKET, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			if depth == 0 && inBlock && p.curTokenIs(token.RBRACE) {
				return
			}
			if depth > 0 {
				depth--
			}
		case token.SEMICOLON:
			if depth == 0 {
				p.nextToken()
				return
			}
		}
		if depth == 0 && p.peekToken.NewlineBefore {
			if inBlock && p.peekTokenIs(token.RBRACE) {
				p.nextToken()
				return
			}
			p.nextToken()
			return
		}
		if depth == 0 && inBlock && p.peekTokenIs(token.RBRACE) {
			p.nextToken()
			return
		}
		p.nextToken()
	}
}
