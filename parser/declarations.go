package parser

import (
	"github.com/thiremani/cfront/ast"
	"github.com/thiremani/cfront/token"
	"github.com/thiremani/cfront/types"
)

// specifiers is the result of reading a declaration prefix.
type specifiers struct {
	tok     token.Token // first specifier
	base    types.Type  // nil when the specifier list is exactly "void"
	storage ast.StorageClass
}

// parseSpecifiers reads type specifiers and storage classes in any order.
func (p *Parser) parseSpecifiers() specifiers {
	spec := specifiers{tok: p.curToken}
	var typeToks []token.Token
	var storageToks []token.Token

	for p.curToken.IsSpecifier() {
		if p.curToken.IsTypeSpecifier() {
			typeToks = append(typeToks, p.curToken)
		} else {
			storageToks = append(storageToks, p.curToken)
		}
		p.nextToken()
	}

	if len(storageToks) > 1 {
		p.fail(storageToks[1], "more than one storage class in declaration")
	}
	if len(storageToks) == 1 {
		if storageToks[0].Type == token.KW_STATIC {
			spec.storage = ast.Static
		} else {
			spec.storage = ast.Extern
		}
	}

	spec.base = p.resolveTypeSpecifiers(spec.tok, typeToks)
	return spec
}

// resolveTypeSpecifiers maps a specifier multiset to one of int, long,
// unsigned int, unsigned long, double or void (nil).
func (p *Parser) resolveTypeSpecifiers(at token.Token, toks []token.Token) types.Type {
	if len(toks) == 0 {
		p.fail(at, "expected type specifier, found %s", at)
	}

	seen := map[token.TokenType]bool{}
	for _, tok := range toks {
		if seen[tok.Type] {
			p.fail(tok, "duplicate type specifier %q", tok.Literal)
		}
		seen[tok.Type] = true
	}

	switch {
	case seen[token.KW_VOID]:
		if len(toks) != 1 {
			p.fail(toks[0], "void cannot be combined with other type specifiers")
		}
		return nil
	case seen[token.KW_DOUBLE]:
		if len(toks) != 1 {
			p.fail(toks[0], "double cannot be combined with other type specifiers")
		}
		return types.DoubleT
	case seen[token.KW_SIGNED] && seen[token.KW_UNSIGNED]:
		p.fail(toks[0], "both signed and unsigned in declaration specifiers")
		return nil
	case seen[token.KW_UNSIGNED] && seen[token.KW_LONG]:
		return types.ULongT
	case seen[token.KW_UNSIGNED]:
		return types.UIntT
	case seen[token.KW_LONG]:
		return types.LongT
	}
	return types.IntT
}

// declarator is the unprocessed shape of a (possibly abstract) declarator.
type declarator interface {
	declarator()
}

type identDeclarator struct {
	tok token.Token
}

type pointerDeclarator struct {
	inner declarator // nil for a bare "*" in an abstract declarator
}

type funcDeclarator struct {
	tok    token.Token // the ( token
	params []paramInfo
	inner  declarator
}

type paramInfo struct {
	spec specifiers
	decl declarator
}

func (identDeclarator) declarator()   {}
func (pointerDeclarator) declarator() {}
func (funcDeclarator) declarator()    {}

// parseDeclaration parses a file or block scope variable or function
// declaration, including a function body when present.
func (p *Parser) parseDeclaration() ast.Declaration {
	spec := p.parseSpecifiers()
	if spec.base == nil {
		p.fail(spec.tok, "void is only allowed as an empty parameter list")
	}

	decl := p.parseDeclarator()
	name, typ, params := p.processDeclarator(decl, spec.base)

	if fnType, ok := typ.(types.Func); ok {
		fd := &ast.FuncDecl{
			Token:    name,
			Name:     name.Literal,
			Params:   params,
			FuncType: fnType,
			Storage:  spec.storage,
		}
		if p.curTokenIs(token.LBRACE) {
			fd.Body = p.parseBlock()
			return fd
		}
		p.expect(token.SEMICOLON, "after function declaration")
		return fd
	}

	vd := &ast.VarDecl{
		Token:   name,
		Name:    name.Literal,
		VarType: typ,
		Storage: spec.storage,
	}
	if p.curTokenIs(token.ASSIGN) {
		p.nextToken()
		vd.Init = p.parseExpression(LOWEST)
	}
	p.expect(token.SEMICOLON, "after variable declaration")
	return vd
}

// <declarator> ::= "*" <declarator> | <direct-declarator>
func (p *Parser) parseDeclarator() declarator {
	if p.curTokenIs(token.MUL) {
		p.nextToken()
		return pointerDeclarator{inner: p.parseDeclarator()}
	}
	return p.parseDirectDeclarator()
}

// <direct-declarator> ::= <simple-declarator> [ <param-list> ]
func (p *Parser) parseDirectDeclarator() declarator {
	simple := p.parseSimpleDeclarator()
	if !p.curTokenIs(token.LPAREN) {
		return simple
	}
	tok := p.curToken
	return funcDeclarator{tok: tok, params: p.parseParamList(), inner: simple}
}

// <simple-declarator> ::= <identifier> | "(" <declarator> ")"
func (p *Parser) parseSimpleDeclarator() declarator {
	switch p.curToken.Type {
	case token.IDENT:
		tok := p.curToken
		p.nextToken()
		return identDeclarator{tok: tok}
	case token.LPAREN:
		p.nextToken()
		inner := p.parseDeclarator()
		p.expect(token.RPAREN, "to close declarator")
		return inner
	}
	p.fail(p.curToken, "expected identifier or \"(\" in declarator, found %s", p.curToken)
	return nil
}

// <param-list> ::= "(" "void" ")" | "(" ")" | "(" <param> { "," <param> } ")"
func (p *Parser) parseParamList() []paramInfo {
	p.expect(token.LPAREN, "to open parameter list")
	if p.curTokenIs(token.KW_VOID) && p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		p.nextToken()
		return nil
	}
	if p.curTokenIs(token.RPAREN) {
		p.nextToken()
		return nil
	}

	var params []paramInfo
	for {
		if !p.curToken.IsSpecifier() {
			p.fail(p.curToken, "expected parameter type, found %s", p.curToken)
		}
		spec := p.parseSpecifiers()
		if spec.storage != ast.NoStorage {
			p.fail(spec.tok, "storage class in parameter declaration")
		}
		if spec.base == nil {
			p.fail(spec.tok, "void is only allowed as an empty parameter list")
		}
		params = append(params, paramInfo{spec: spec, decl: p.parseDeclarator()})
		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	p.expect(token.RPAREN, "to close parameter list")
	return params
}

// processDeclarator folds each derivation onto base, outward from the
// identifier. It returns the identifier token, the derived type and, for
// functions, the parameter names.
func (p *Parser) processDeclarator(d declarator, base types.Type) (token.Token, types.Type, []string) {
	switch d := d.(type) {
	case identDeclarator:
		return d.tok, base, nil
	case pointerDeclarator:
		return p.processDeclarator(d.inner, types.Pointer{Referenced: base})
	case funcDeclarator:
		ident, ok := d.inner.(identDeclarator)
		if !ok {
			p.fail(d.tok, "can't apply additional type derivations to a function type")
		}
		fn := types.Func{Ret: base}
		names := make([]string, 0, len(d.params))
		for _, param := range d.params {
			tok, typ, _ := p.processDeclarator(param.decl, param.spec.base)
			if typ.Kind() == types.FuncKind {
				p.fail(tok, "function pointer parameters are not supported")
			}
			fn.Params = append(fn.Params, typ)
			names = append(names, tok.Literal)
		}
		return ident.tok, fn, names
	}
	panic("processDeclarator: unexpected declarator")
}

// parseTypeName parses the specifiers and optional abstract declarator of a cast.
func (p *Parser) parseTypeName() types.Type {
	spec := p.parseSpecifiers()
	if spec.storage != ast.NoStorage {
		p.fail(spec.tok, "storage class in type name")
	}
	if spec.base == nil {
		p.fail(spec.tok, "casts to void are not supported")
	}
	if p.curTokenIs(token.RPAREN) {
		return spec.base
	}
	return applyAbstract(p.parseAbstractDeclarator(), spec.base)
}

// <abstract-declarator> ::= "*" [ <abstract-declarator> ] | "(" <abstract-declarator> ")"
func (p *Parser) parseAbstractDeclarator() declarator {
	switch p.curToken.Type {
	case token.MUL:
		p.nextToken()
		if p.curTokenIs(token.MUL) || p.curTokenIs(token.LPAREN) {
			return pointerDeclarator{inner: p.parseAbstractDeclarator()}
		}
		return pointerDeclarator{}
	case token.LPAREN:
		p.nextToken()
		inner := p.parseAbstractDeclarator()
		p.expect(token.RPAREN, "to close abstract declarator")
		return inner
	}
	p.fail(p.curToken, "expected abstract declarator, found %s", p.curToken)
	return nil
}

func applyAbstract(d declarator, base types.Type) types.Type {
	ptr, ok := d.(pointerDeclarator)
	if !ok {
		return base
	}
	return applyAbstract(ptr.inner, types.Pointer{Referenced: base})
}
