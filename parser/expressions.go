package parser

import (
	"errors"
	"strconv"
	"strings"

	"github.com/thiremani/cfront/ast"
	"github.com/thiremani/cfront/token"
	"github.com/thiremani/cfront/types"
)

const (
	_ int = iota
	LOWEST
	ASSIGN      // = += -= ...
	TERNARY     // ?:
	LOR         // ||
	LAND        // &&
	BITOR       // |
	BITXOR      // ^
	BITAND      // &
	EQUALS      // == !=
	LESSGREATER // < > <= >=
	SHIFT       // << >>
	SUM         // + -
	PRODUCT     // * / %
)

var precedences = map[token.TokenType]int{
	token.ASSIGN:     ASSIGN,
	token.ADD_ASSIGN: ASSIGN,
	token.SUB_ASSIGN: ASSIGN,
	token.MUL_ASSIGN: ASSIGN,
	token.QUO_ASSIGN: ASSIGN,
	token.REM_ASSIGN: ASSIGN,
	token.AND_ASSIGN: ASSIGN,
	token.OR_ASSIGN:  ASSIGN,
	token.XOR_ASSIGN: ASSIGN,
	token.SHL_ASSIGN: ASSIGN,
	token.SHR_ASSIGN: ASSIGN,
	token.QUESTION:   TERNARY,
	token.LOR:        LOR,
	token.LAND:       LAND,
	token.OR:         BITOR,
	token.XOR:        BITXOR,
	token.AND:        BITAND,
	token.EQL:        EQUALS,
	token.NEQ:        EQUALS,
	token.LSS:        LESSGREATER,
	token.GTR:        LESSGREATER,
	token.LEQ:        LESSGREATER,
	token.GEQ:        LESSGREATER,
	token.SHL:        SHIFT,
	token.SHR:        SHIFT,
	token.ADD:        SUM,
	token.SUB:        SUM,
	token.MUL:        PRODUCT,
	token.QUO:        PRODUCT,
	token.REM:        PRODUCT,
}

var binaryOps = map[token.TokenType]ast.BinaryOp{
	token.ADD:  ast.Add,
	token.SUB:  ast.Subtract,
	token.MUL:  ast.Multiply,
	token.QUO:  ast.Divide,
	token.REM:  ast.Remainder,
	token.AND:  ast.BitAnd,
	token.OR:   ast.BitOr,
	token.XOR:  ast.BitXor,
	token.SHL:  ast.ShiftLeft,
	token.SHR:  ast.ShiftRight,
	token.LAND: ast.And,
	token.LOR:  ast.Or,
	token.EQL:  ast.Equal,
	token.NEQ:  ast.NotEqual,
	token.LSS:  ast.LessThan,
	token.LEQ:  ast.LessOrEqual,
	token.GTR:  ast.GreaterThan,
	token.GEQ:  ast.GreaterOrEqual,
}

var compoundOps = map[token.TokenType]ast.BinaryOp{
	token.ADD_ASSIGN: ast.Add,
	token.SUB_ASSIGN: ast.Subtract,
	token.MUL_ASSIGN: ast.Multiply,
	token.QUO_ASSIGN: ast.Divide,
	token.REM_ASSIGN: ast.Remainder,
	token.AND_ASSIGN: ast.BitAnd,
	token.OR_ASSIGN:  ast.BitOr,
	token.XOR_ASSIGN: ast.BitXor,
	token.SHL_ASSIGN: ast.ShiftLeft,
	token.SHR_ASSIGN: ast.ShiftRight,
}

var unaryOps = map[token.TokenType]ast.UnaryOp{
	token.TILDE: ast.Complement,
	token.SUB:   ast.Negate,
	token.NOT:   ast.Not,
}

// parseExpression is a precedence climber. Binary operators recurse with
// prec+1; assignment and ?: recurse with prec to associate to the right.
func (p *Parser) parseExpression(minPrec int) ast.Expression {
	left := p.parseFactor()

	for {
		prec, ok := precedences[p.curToken.Type]
		if !ok || prec < minPrec {
			return left
		}
		tok := p.curToken
		p.nextToken()

		switch {
		case tok.Type == token.ASSIGN:
			right := p.parseExpression(prec)
			left = &ast.Assignment{Token: tok, Left: left, Right: right}
		case tok.Type == token.QUESTION:
			middle := p.parseExpression(LOWEST)
			p.expect(token.COLON, "in conditional expression")
			right := p.parseExpression(prec)
			left = &ast.Conditional{Token: tok, Condition: left, Then: middle, Else: right}
		case prec == ASSIGN:
			right := p.parseExpression(prec)
			left = &ast.CompoundAssignment{Token: tok, Op: compoundOps[tok.Type], Left: left, Right: right}
		default:
			right := p.parseExpression(prec + 1)
			left = &ast.Binary{Token: tok, Op: binaryOps[tok.Type], Left: left, Right: right}
		}
	}
}

// parseFactor parses casts, prefix operators and postfix expressions.
func (p *Parser) parseFactor() ast.Expression {
	tok := p.curToken

	if tok.Type == token.LPAREN && p.peekToken.IsTypeSpecifier() {
		p.nextToken()
		target := p.parseTypeName()
		p.expect(token.RPAREN, "to close cast")
		return &ast.Cast{Token: tok, Target: target, Operand: p.parseFactor()}
	}

	if op, ok := unaryOps[tok.Type]; ok {
		p.nextToken()
		return &ast.Unary{Token: tok, Op: op, Operand: p.parseFactor()}
	}

	switch tok.Type {
	case token.ADD:
		p.nextToken()
		return p.parseFactor()
	case token.MUL:
		p.nextToken()
		return &ast.Dereference{Token: tok, Operand: p.parseFactor()}
	case token.AND:
		p.nextToken()
		return &ast.AddrOf{Token: tok, Operand: p.parseFactor()}
	case token.INC:
		p.nextToken()
		return &ast.IncDec{Token: tok, Op: ast.PreIncrement, Operand: p.parseFactor()}
	case token.DEC:
		p.nextToken()
		return &ast.IncDec{Token: tok, Op: ast.PreDecrement, Operand: p.parseFactor()}
	}

	return p.parsePostfix(p.parsePrimary())
}

func (p *Parser) parsePostfix(exp ast.Expression) ast.Expression {
	for {
		switch p.curToken.Type {
		case token.INC:
			exp = &ast.IncDec{Token: p.curToken, Op: ast.PostIncrement, Operand: exp}
		case token.DEC:
			exp = &ast.IncDec{Token: p.curToken, Op: ast.PostDecrement, Operand: exp}
		default:
			return exp
		}
		p.nextToken()
	}
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.curToken

	switch {
	case tok.IsConstant():
		p.nextToken()
		return &ast.Constant{Token: tok, Value: p.parseConstant(tok)}
	case tok.Type == token.IDENT && p.peekTokenIs(token.LPAREN):
		return p.parseCall()
	case tok.Type == token.IDENT:
		p.nextToken()
		return &ast.Var{Token: tok, Name: tok.Literal}
	case tok.Type == token.LPAREN:
		p.nextToken()
		exp := p.parseExpression(LOWEST)
		p.expect(token.RPAREN, "to close parenthesized expression")
		return exp
	}

	p.fail(tok, "expected expression, found %s", tok)
	return nil
}

func (p *Parser) parseCall() *ast.Call {
	call := &ast.Call{Token: p.curToken, Function: p.curToken.Literal}
	p.nextToken() // identifier
	p.nextToken() // (

	if p.curTokenIs(token.RPAREN) {
		p.nextToken()
		return call
	}
	for {
		call.Arguments = append(call.Arguments, p.parseExpression(LOWEST))
		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	p.expect(token.RPAREN, "to close argument list")
	return call
}

// parseConstant converts a constant token into a typed value. The lexer has
// already chosen the kind from the suffix and magnitude.
func (p *Parser) parseConstant(tok token.Token) types.Const {
	if tok.Type == token.DOUBLE {
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			p.fail(tok, "malformed floating constant %q", tok.Literal)
		}
		return types.ConstDouble(f)
	}

	digits := strings.TrimRight(tok.Literal, "uUlL")
	v, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		p.fail(tok, "malformed integer constant %q", tok.Literal)
	}

	switch tok.Type {
	case token.INT:
		if v > 1<<31-1 {
			p.fail(tok, "integer constant %q is too large for int", tok.Literal)
		}
		return types.ConstInt(int32(v))
	case token.LONG:
		if v > 1<<63-1 {
			p.fail(tok, "integer constant %q is too large for long", tok.Literal)
		}
		return types.ConstLong(int64(v))
	case token.UINT:
		if v > 1<<32-1 {
			p.fail(tok, "integer constant %q is too large for unsigned int", tok.Literal)
		}
		return types.ConstUInt(uint32(v))
	}
	return types.ConstULong(v)
}
