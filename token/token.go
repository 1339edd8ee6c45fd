package token

import "strconv"

type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF

	literal_beg
	// Identifiers + literals
	IDENT        // main, x, counter
	INT          // 42
	LONG         // 42l
	UINT         // 42u
	ULONG        // 42ul
	DOUBLE       // 4.2e1
	literal_end

	keyword_beg
	KW_INT
	KW_LONG
	KW_SIGNED
	KW_UNSIGNED
	KW_DOUBLE
	KW_VOID
	KW_RETURN
	KW_IF
	KW_ELSE
	KW_GOTO
	KW_FOR
	KW_WHILE
	KW_DO
	KW_BREAK
	KW_CONTINUE
	KW_SWITCH
	KW_CASE
	KW_DEFAULT
	KW_STATIC
	KW_EXTERN
	keyword_end

	operator_beg
	// Operators and delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACK    // [
	RBRACK    // ]
	SEMICOLON // ;
	COMMA     // ,
	COLON     // :
	QUESTION  // ?
	TILDE     // ~
	NOT       // !
	INC       // ++
	DEC       // --

	ADD // +
	SUB // -
	MUL // *
	QUO // /
	REM // %
	AND // &
	OR  // |
	XOR // ^
	SHL // <<
	SHR // >>

	LAND // &&
	LOR  // ||

	ASSIGN     // =
	ADD_ASSIGN // +=
	SUB_ASSIGN // -=
	MUL_ASSIGN // *=
	QUO_ASSIGN // /=
	REM_ASSIGN // %=
	AND_ASSIGN // &=
	OR_ASSIGN  // |=
	XOR_ASSIGN // ^=
	SHL_ASSIGN // <<=
	SHR_ASSIGN // >>=
	operator_end

	comparison_beg
	EQL // ==
	NEQ // !=
	LSS // <
	GTR // >
	LEQ // <=
	GEQ // >=
	comparison_end
)

var tokens = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT:  "IDENT",
	INT:    "INT",
	LONG:   "LONG",
	UINT:   "UINT",
	ULONG:  "ULONG",
	DOUBLE: "DOUBLE",

	KW_INT:      "int",
	KW_LONG:     "long",
	KW_SIGNED:   "signed",
	KW_UNSIGNED: "unsigned",
	KW_DOUBLE:   "double",
	KW_VOID:     "void",
	KW_RETURN:   "return",
	KW_IF:       "if",
	KW_ELSE:     "else",
	KW_GOTO:     "goto",
	KW_FOR:      "for",
	KW_WHILE:    "while",
	KW_DO:       "do",
	KW_BREAK:    "break",
	KW_CONTINUE: "continue",
	KW_SWITCH:   "switch",
	KW_CASE:     "case",
	KW_DEFAULT:  "default",
	KW_STATIC:   "static",
	KW_EXTERN:   "extern",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACK:    "[",
	RBRACK:    "]",
	SEMICOLON: ";",
	COMMA:     ",",
	COLON:     ":",
	QUESTION:  "?",
	TILDE:     "~",
	NOT:       "!",
	INC:       "++",
	DEC:       "--",

	ADD: "+",
	SUB: "-",
	MUL: "*",
	QUO: "/",
	REM: "%",
	AND: "&",
	OR:  "|",
	XOR: "^",
	SHL: "<<",
	SHR: ">>",

	LAND: "&&",
	LOR:  "||",

	ASSIGN:     "=",
	ADD_ASSIGN: "+=",
	SUB_ASSIGN: "-=",
	MUL_ASSIGN: "*=",
	QUO_ASSIGN: "/=",
	REM_ASSIGN: "%=",
	AND_ASSIGN: "&=",
	OR_ASSIGN:  "|=",
	XOR_ASSIGN: "^=",
	SHL_ASSIGN: "<<=",
	SHR_ASSIGN: ">>=",

	EQL: "==",
	NEQ: "!=",
	LSS: "<",
	GTR: ">",
	LEQ: "<=",
	GEQ: ">=",
}

var keywords map[string]TokenType

func init() {
	keywords = make(map[string]TokenType, keyword_end-keyword_beg)
	for t := keyword_beg + 1; t < keyword_end; t++ {
		keywords[tokens[t]] = t
	}
}

// LookupIdent returns the keyword type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Token is a single lexeme plus the position it started at.
type Token struct {
	Type     TokenType
	Literal  string
	FileName string
	Line     int
	Column   int
}

func (t Token) IsComparison() bool {
	return comparison_beg < t.Type && comparison_end > t.Type
}

func (t Token) IsKeyword() bool {
	return keyword_beg < t.Type && keyword_end > t.Type
}

// IsConstant reports whether the token is an integer or floating constant.
func (t Token) IsConstant() bool {
	return INT <= t.Type && t.Type <= DOUBLE
}

// IsTypeSpecifier reports whether the token can start a type specifier list.
func (t Token) IsTypeSpecifier() bool {
	switch t.Type {
	case KW_INT, KW_LONG, KW_SIGNED, KW_UNSIGNED, KW_DOUBLE, KW_VOID:
		return true
	}
	return false
}

// IsSpecifier reports whether the token is a type specifier or storage class.
func (t Token) IsSpecifier() bool {
	return t.IsTypeSpecifier() || t.Type == KW_STATIC || t.Type == KW_EXTERN
}

func (t Token) String() string {
	switch {
	case t.Type == EOF:
		return "EOF"
	case literal_beg < t.Type && t.Type < literal_end, t.Type == ILLEGAL:
		return t.Type.String() + "(" + t.Literal + ")"
	}
	return strconv.Quote(t.Type.String())
}

func (tokenType TokenType) String() string {
	s := ""
	if 0 <= tokenType && tokenType < TokenType(len(tokens)) {
		s = tokens[tokenType]
	}

	if s == "" {
		s = "token(" + strconv.Itoa(int(tokenType)) + ")"
	}

	return s
}
