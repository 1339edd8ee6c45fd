package parser

import (
	"github.com/thiremani/cfront/ast"
	"github.com/thiremani/cfront/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.KW_RETURN:
		return p.parseReturnStatement()
	case token.KW_IF:
		return p.parseIfStatement()
	case token.LBRACE:
		return &ast.CompoundStatement{Block: p.parseBlock()}
	case token.KW_BREAK:
		stmt := &ast.BreakStatement{Token: p.curToken}
		p.nextToken()
		p.expect(token.SEMICOLON, "after break")
		return stmt
	case token.KW_CONTINUE:
		stmt := &ast.ContinueStatement{Token: p.curToken}
		p.nextToken()
		p.expect(token.SEMICOLON, "after continue")
		return stmt
	case token.KW_WHILE:
		return p.parseWhileStatement()
	case token.KW_DO:
		return p.parseDoWhileStatement()
	case token.KW_FOR:
		return p.parseForStatement()
	case token.KW_SWITCH:
		return p.parseSwitchStatement()
	case token.KW_CASE:
		return p.parseCaseStatement()
	case token.KW_DEFAULT:
		return p.parseDefaultStatement()
	case token.KW_GOTO:
		return p.parseGotoStatement()
	case token.SEMICOLON:
		stmt := &ast.NullStatement{Token: p.curToken}
		p.nextToken()
		return stmt
	case token.IDENT:
		if p.peekTokenIs(token.COLON) {
			return p.parseLabeledStatement()
		}
	}

	if p.curToken.IsSpecifier() {
		p.fail(p.curToken, "expected statement, found declaration starting with %s", p.curToken)
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	p.nextToken()
	if p.curTokenIs(token.SEMICOLON) {
		p.fail(p.curToken, "expected return value, found %s", p.curToken)
	}
	stmt.Value = p.parseExpression(LOWEST)
	p.expect(token.SEMICOLON, "after return value")
	return stmt
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	p.expect(token.SEMICOLON, "after expression")
	return stmt
}

// parseCondition parses "(" <exp> ")".
func (p *Parser) parseCondition(construct string) ast.Expression {
	p.expect(token.LPAREN, "after "+construct)
	cond := p.parseExpression(LOWEST)
	p.expect(token.RPAREN, "to close "+construct+" condition")
	return cond
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	stmt := &ast.IfStatement{Token: p.curToken}
	p.nextToken()
	stmt.Condition = p.parseCondition("if")
	stmt.Consequence = p.parseStatement()
	if p.curTokenIs(token.KW_ELSE) {
		p.nextToken()
		stmt.Alternative = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	stmt := &ast.WhileStatement{Token: p.curToken}
	p.nextToken()
	stmt.Condition = p.parseCondition("while")
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseDoWhileStatement() *ast.DoWhileStatement {
	stmt := &ast.DoWhileStatement{Token: p.curToken}
	p.nextToken()
	stmt.Body = p.parseStatement()
	p.expect(token.KW_WHILE, "after do body")
	stmt.Condition = p.parseCondition("do-while")
	p.expect(token.SEMICOLON, "after do-while")
	return stmt
}

// <for> ::= "for" "(" <for-init> [ <exp> ] ";" [ <exp> ] ")" <statement>
func (p *Parser) parseForStatement() *ast.ForStatement {
	stmt := &ast.ForStatement{Token: p.curToken}
	p.nextToken()
	p.expect(token.LPAREN, "after for")

	stmt.Init = p.parseForInit()

	if !p.curTokenIs(token.SEMICOLON) {
		stmt.Condition = p.parseExpression(LOWEST)
	}
	p.expect(token.SEMICOLON, "after for condition")

	if !p.curTokenIs(token.RPAREN) {
		stmt.Post = p.parseExpression(LOWEST)
	}
	p.expect(token.RPAREN, "to close for header")

	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseForInit() ast.ForInit {
	if p.curToken.IsSpecifier() {
		tok := p.curToken
		decl := p.parseDeclaration()
		vd, ok := decl.(*ast.VarDecl)
		if !ok {
			p.fail(tok, "expected variable declaration in for initializer, found function %q", decl.Ident())
		}
		return vd
	}

	init := &ast.InitExpression{Token: p.curToken}
	if !p.curTokenIs(token.SEMICOLON) {
		init.Expression = p.parseExpression(LOWEST)
	}
	p.expect(token.SEMICOLON, "after for initializer")
	return init
}

func (p *Parser) parseSwitchStatement() *ast.SwitchStatement {
	stmt := &ast.SwitchStatement{Token: p.curToken}
	p.nextToken()
	stmt.Condition = p.parseCondition("switch")
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseCaseStatement() *ast.CaseStatement {
	stmt := &ast.CaseStatement{Token: p.curToken}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	p.expect(token.COLON, "after case value")
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseDefaultStatement() *ast.DefaultStatement {
	stmt := &ast.DefaultStatement{Token: p.curToken}
	p.nextToken()
	p.expect(token.COLON, "after default")
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseLabeledStatement() *ast.LabeledStatement {
	stmt := &ast.LabeledStatement{Token: p.curToken, Label: p.curToken.Literal}
	p.nextToken() // label
	p.nextToken() // :
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseGotoStatement() *ast.GotoStatement {
	stmt := &ast.GotoStatement{Token: p.curToken}
	p.nextToken()
	stmt.Target = p.expect(token.IDENT, "after goto").Literal
	p.expect(token.SEMICOLON, "after goto target")
	return stmt
}
