package lexer

import (
	"strconv"
	"strings"

	"github.com/thiremani/cfront/token"
	"modernc.org/mathutil"
)

type Lexer struct {
	FileName     string
	input        []rune
	position     int  // current position in input (points to current rune)
	readPosition int  // current reading position in input (after current rune)
	curr         rune // current rune under examination
	line         int
	column       int
}

func New(fileName, input string) *Lexer {
	l := &Lexer{FileName: fileName, input: []rune(input), line: 1}
	l.readRune()
	return l
}

// Tokenize lexes the whole input. The returned slice ends with EOF, or with
// the first ILLEGAL token.
func Tokenize(fileName, input string) []token.Token {
	l := New(fileName, input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF || tok.Type == token.ILLEGAL {
			return toks
		}
	}
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	tok := token.Token{FileName: l.FileName, Line: l.line, Column: l.column}

	switch {
	case l.curr == 0:
		tok.Type = token.EOF
		return tok
	case isLetter(l.curr):
		tok.Literal = l.readIdentifier()
		tok.Type = token.LookupIdent(tok.Literal)
		return tok
	case isDigit(l.curr) || (l.curr == '.' && isDigit(l.peekRune())):
		tok.Type, tok.Literal = l.readNumber()
		return tok
	}

	tok.Type, tok.Literal = l.readOperator()
	return tok
}

// operators lists every punctuator, longest first within a shared prefix.
var operators = []struct {
	lit string
	typ token.TokenType
}{
	{"<<=", token.SHL_ASSIGN},
	{">>=", token.SHR_ASSIGN},
	{"++", token.INC},
	{"--", token.DEC},
	{"&&", token.LAND},
	{"||", token.LOR},
	{"==", token.EQL},
	{"!=", token.NEQ},
	{"<=", token.LEQ},
	{">=", token.GEQ},
	{"<<", token.SHL},
	{">>", token.SHR},
	{"+=", token.ADD_ASSIGN},
	{"-=", token.SUB_ASSIGN},
	{"*=", token.MUL_ASSIGN},
	{"/=", token.QUO_ASSIGN},
	{"%=", token.REM_ASSIGN},
	{"&=", token.AND_ASSIGN},
	{"|=", token.OR_ASSIGN},
	{"^=", token.XOR_ASSIGN},
	{"(", token.LPAREN},
	{")", token.RPAREN},
	{"{", token.LBRACE},
	{"}", token.RBRACE},
	{"[", token.LBRACK},
	{"]", token.RBRACK},
	{";", token.SEMICOLON},
	{",", token.COMMA},
	{":", token.COLON},
	{"?", token.QUESTION},
	{"~", token.TILDE},
	{"!", token.NOT},
	{"+", token.ADD},
	{"-", token.SUB},
	{"*", token.MUL},
	{"/", token.QUO},
	{"%", token.REM},
	{"&", token.AND},
	{"|", token.OR},
	{"^", token.XOR},
	{"<", token.LSS},
	{">", token.GTR},
	{"=", token.ASSIGN},
}

func (l *Lexer) readOperator() (token.TokenType, string) {
	for _, op := range operators {
		if l.hasPrefix(op.lit) {
			for range op.lit {
				l.readRune()
			}
			return op.typ, op.lit
		}
	}
	illegal := string(l.curr)
	l.readRune()
	return token.ILLEGAL, illegal
}

func (l *Lexer) hasPrefix(s string) bool {
	i := l.position
	for _, r := range s {
		if i >= len(l.input) || l.input[i] != r {
			return false
		}
		i++
	}
	return true
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.curr == ' ' || l.curr == '\t' || l.curr == '\n' || l.curr == '\r' || l.curr == '\f' || l.curr == '\v':
			l.readRune()
		case l.curr == '/' && l.peekRune() == '/':
			for l.curr != '\n' && l.curr != 0 {
				l.readRune()
			}
		case l.curr == '/' && l.peekRune() == '*':
			l.readRune()
			l.readRune()
			for l.curr != 0 && !(l.curr == '*' && l.peekRune() == '/') {
				l.readRune()
			}
			if l.curr != 0 {
				l.readRune()
				l.readRune()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readRune() {
	if l.curr == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.curr = 0
	} else {
		l.curr = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekRune() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.curr) || isDigit(l.curr) {
		l.readRune()
	}
	return string(l.input[position:l.position])
}

// readNumber scans a decimal integer or floating constant and classifies it.
func (l *Lexer) readNumber() (token.TokenType, string) {
	position := l.position
	isFloat := false

	for isDigit(l.curr) {
		l.readRune()
	}
	if l.curr == '.' {
		isFloat = true
		l.readRune()
		for isDigit(l.curr) {
			l.readRune()
		}
	}
	if l.curr == 'e' || l.curr == 'E' {
		next := l.peekRune()
		if isDigit(next) || ((next == '+' || next == '-') && l.readPosition+1 < len(l.input) && isDigit(l.input[l.readPosition+1])) {
			isFloat = true
			l.readRune()
			if l.curr == '+' || l.curr == '-' {
				l.readRune()
			}
			for isDigit(l.curr) {
				l.readRune()
			}
		}
	}

	if isFloat {
		lit := string(l.input[position:l.position])
		if isLetter(l.curr) || l.curr == '.' {
			return token.ILLEGAL, l.consumeJunk(position)
		}
		return token.DOUBLE, lit
	}

	digitsEnd := l.position
	for l.curr == 'u' || l.curr == 'U' || l.curr == 'l' || l.curr == 'L' {
		l.readRune()
	}
	lit := string(l.input[position:l.position])
	if isLetter(l.curr) || isDigit(l.curr) || l.curr == '.' {
		return token.ILLEGAL, l.consumeJunk(position)
	}

	suffix := strings.ToLower(string(l.input[digitsEnd:l.position]))
	value, err := strconv.ParseUint(string(l.input[position:digitsEnd]), 10, 64)
	if err != nil {
		return token.ILLEGAL, lit
	}
	typ, ok := classifyInt(value, suffix)
	if !ok {
		return token.ILLEGAL, lit
	}
	return typ, lit
}

// classifyInt picks the constant's type from its suffix and the first type
// in the suffix's list that can represent the value.
func classifyInt(value uint64, suffix string) (token.TokenType, bool) {
	bits := mathutil.BitLenUint64(value)
	switch suffix {
	case "":
		if bits <= 31 {
			return token.INT, true
		}
		if bits <= 63 {
			return token.LONG, true
		}
	case "l":
		if bits <= 63 {
			return token.LONG, true
		}
	case "u":
		if bits <= 32 {
			return token.UINT, true
		}
		return token.ULONG, true
	case "ul", "lu":
		return token.ULONG, true
	}
	return token.ILLEGAL, false
}

func (l *Lexer) consumeJunk(position int) string {
	for isLetter(l.curr) || isDigit(l.curr) || l.curr == '.' {
		l.readRune()
	}
	return string(l.input[position:l.position])
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
