package parser

import (
	"github.com/thiremani/cfront/ast"
	"github.com/thiremani/cfront/token"
)

// TokenSource is anything that hands out tokens one at a time.
// *lexer.Lexer and *token.Stream both satisfy it.
type TokenSource interface {
	NextToken() token.Token
}

type Parser struct {
	src    TokenSource
	errors []*token.CompileError

	curToken  token.Token
	peekToken token.Token
}

// bailout unwinds the parser after the first error has been recorded.
type bailout struct{}

func New(src TokenSource) *Parser {
	p := &Parser{
		src:    src,
		errors: []*token.CompileError{},
	}

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.src.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expect consumes the current token if it has type t and fails otherwise.
func (p *Parser) expect(t token.TokenType, construct string) token.Token {
	if !p.curTokenIs(t) {
		p.fail(p.curToken, "expected %q %s, found %s", t, construct, p.curToken)
	}
	tok := p.curToken
	p.nextToken()
	return tok
}

func (p *Parser) Errors() []*token.CompileError {
	return p.errors
}

func (p *Parser) fail(tok token.Token, format string, args ...any) {
	if tok.Type == token.ILLEGAL {
		format = "invalid token %q"
		args = []any{tok.Literal}
	}
	p.errors = append(p.errors, token.Errorf(tok, token.Syntax, format, args...))
	panic(bailout{})
}

// ParseProgram parses a whole translation unit. It returns nil after the
// first syntax error; Errors reports it.
func (p *Parser) ParseProgram() (program *ast.Program) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			program = nil
		}
	}()

	program = &ast.Program{}
	for !p.curTokenIs(token.EOF) {
		program.Decls = append(program.Decls, p.parseDeclaration())
	}

	return program
}

// ParseExpression parses a single expression that must span the whole input.
func (p *Parser) ParseExpression() (exp ast.Expression) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			exp = nil
		}
	}()

	exp = p.parseExpression(LOWEST)
	if !p.curTokenIs(token.EOF) {
		p.fail(p.curToken, "expected end of expression, found %s", p.curToken)
	}
	return exp
}

func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Token: p.expect(token.LBRACE, "to open block")}

	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.fail(p.curToken, "expected %q to close block, found %s", token.RBRACE, p.curToken)
		}
		block.Items = append(block.Items, p.parseBlockItem())
	}
	p.nextToken()

	return block
}

func (p *Parser) parseBlockItem() ast.BlockItem {
	if p.curToken.IsSpecifier() {
		return p.parseDeclaration()
	}
	return p.parseStatement()
}
