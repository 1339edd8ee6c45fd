package ast

import (
	"bytes"
	"strings"

	"github.com/thiremani/cfront/token"
	"github.com/thiremani/cfront/types"
)

// typed carries the resolved type of an expression.
type typed struct {
	ty types.Type
}

func (t *typed) Type() types.Type      { return t.ty }
func (t *typed) SetType(ty types.Type) { t.ty = ty }

type UnaryOp int

const (
	Complement UnaryOp = iota
	Negate
	Not
)

var unaryOps = [...]string{Complement: "~", Negate: "-", Not: "!"}

func (op UnaryOp) String() string { return unaryOps[op] }

type BinaryOp int

const (
	Add BinaryOp = iota
	Subtract
	Multiply
	Divide
	Remainder
	BitAnd
	BitOr
	BitXor
	ShiftLeft
	ShiftRight
	And
	Or
	Equal
	NotEqual
	LessThan
	LessOrEqual
	GreaterThan
	GreaterOrEqual
)

var binaryOps = [...]string{
	Add:            "+",
	Subtract:       "-",
	Multiply:       "*",
	Divide:         "/",
	Remainder:      "%",
	BitAnd:         "&",
	BitOr:          "|",
	BitXor:         "^",
	ShiftLeft:      "<<",
	ShiftRight:     ">>",
	And:            "&&",
	Or:             "||",
	Equal:          "==",
	NotEqual:       "!=",
	LessThan:       "<",
	LessOrEqual:    "<=",
	GreaterThan:    ">",
	GreaterOrEqual: ">=",
}

func (op BinaryOp) String() string { return binaryOps[op] }

func (op BinaryOp) IsComparison() bool {
	return op >= Equal
}

func (op BinaryOp) IsShift() bool {
	return op == ShiftLeft || op == ShiftRight
}

func (op BinaryOp) IsBitwise() bool {
	return op == BitAnd || op == BitOr || op == BitXor
}

func (op BinaryOp) IsLogical() bool {
	return op == And || op == Or
}

type IncDecOp int

const (
	PreIncrement IncDecOp = iota
	PreDecrement
	PostIncrement
	PostDecrement
)

func (op IncDecOp) IsPostfix() bool {
	return op == PostIncrement || op == PostDecrement
}

func (op IncDecOp) IsIncrement() bool {
	return op == PreIncrement || op == PostIncrement
}

func (op IncDecOp) String() string {
	if op.IsIncrement() {
		return "++"
	}
	return "--"
}

// Expressions
type Constant struct {
	typed
	Token token.Token
	Value types.Const
}

func (c *Constant) expressionNode()  {}
func (c *Constant) Tok() token.Token { return c.Token }
func (c *Constant) String() string   { return c.Value.String() }

type Var struct {
	typed
	Token token.Token // the token.IDENT token
	Name  string
}

func (v *Var) expressionNode()  {}
func (v *Var) Tok() token.Token { return v.Token }
func (v *Var) String() string   { return v.Name }

type Unary struct {
	typed
	Token   token.Token // the operator token
	Op      UnaryOp
	Operand Expression
}

func (u *Unary) expressionNode()  {}
func (u *Unary) Tok() token.Token { return u.Token }
func (u *Unary) String() string {
	return "(" + u.Op.String() + u.Operand.String() + ")"
}

type Binary struct {
	typed
	Token token.Token // the operator token
	Op    BinaryOp
	Left  Expression
	Right Expression
}

func (b *Binary) expressionNode()  {}
func (b *Binary) Tok() token.Token { return b.Token }
func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}

type Assignment struct {
	typed
	Token token.Token // the = token
	Left  Expression
	Right Expression
}

func (a *Assignment) expressionNode()  {}
func (a *Assignment) Tok() token.Token { return a.Token }
func (a *Assignment) String() string {
	return "(" + a.Left.String() + " = " + a.Right.String() + ")"
}

// CompoundAssignment evaluates Left once: Left = (type of Left)((CommonType)Left Op Right).
// Its own type is the type of Left.
type CompoundAssignment struct {
	typed
	Token      token.Token // the op= token
	Op         BinaryOp
	Left       Expression
	Right      Expression
	CommonType types.Type
}

func (ca *CompoundAssignment) expressionNode()  {}
func (ca *CompoundAssignment) Tok() token.Token { return ca.Token }
func (ca *CompoundAssignment) String() string {
	return "(" + ca.Left.String() + " " + ca.Op.String() + "= " + ca.Right.String() + ")"
}

type Conditional struct {
	typed
	Token     token.Token // the ? token
	Condition Expression
	Then      Expression
	Else      Expression
}

func (c *Conditional) expressionNode()  {}
func (c *Conditional) Tok() token.Token { return c.Token }
func (c *Conditional) String() string {
	return "(" + c.Condition.String() + " ? " + c.Then.String() + " : " + c.Else.String() + ")"
}

type Call struct {
	typed
	Token     token.Token // the function identifier
	Function  string
	Arguments []Expression
}

func (c *Call) expressionNode()  {}
func (c *Call) Tok() token.Token { return c.Token }
func (c *Call) String() string {
	var out bytes.Buffer

	args := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		args[i] = a.String()
	}

	out.WriteString(c.Function)
	out.WriteString("(")
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")

	return out.String()
}

type Cast struct {
	typed
	Token   token.Token // the ( token, or the converted expression's token for implicit casts
	Target  types.Type
	Operand Expression
}

func (c *Cast) expressionNode()  {}
func (c *Cast) Tok() token.Token { return c.Token }
func (c *Cast) String() string {
	return "((" + c.Target.String() + ")" + c.Operand.String() + ")"
}

type Dereference struct {
	typed
	Token   token.Token // the * token
	Operand Expression
}

func (d *Dereference) expressionNode()  {}
func (d *Dereference) Tok() token.Token { return d.Token }
func (d *Dereference) String() string   { return "(*" + d.Operand.String() + ")" }

type AddrOf struct {
	typed
	Token   token.Token // the & token
	Operand Expression
}

func (a *AddrOf) expressionNode()  {}
func (a *AddrOf) Tok() token.Token { return a.Token }
func (a *AddrOf) String() string   { return "(&" + a.Operand.String() + ")" }

type IncDec struct {
	typed
	Token   token.Token // the ++ or -- token
	Op      IncDecOp
	Operand Expression
}

func (id *IncDec) expressionNode()  {}
func (id *IncDec) Tok() token.Token { return id.Token }
func (id *IncDec) String() string {
	if id.Op.IsPostfix() {
		return "(" + id.Operand.String() + id.Op.String() + ")"
	}
	return "(" + id.Op.String() + id.Operand.String() + ")"
}
