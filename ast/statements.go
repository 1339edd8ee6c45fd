package ast

import (
	"bytes"

	"github.com/thiremani/cfront/token"
	"github.com/thiremani/cfront/types"
)

type ReturnStatement struct {
	Token token.Token // the return token
	Value Expression
}

func (rs *ReturnStatement) blockItemNode()   {}
func (rs *ReturnStatement) statementNode()   {}
func (rs *ReturnStatement) Tok() token.Token { return rs.Token }
func (rs *ReturnStatement) String() string   { return "return " + rs.Value.String() + ";" }

type ExpressionStatement struct {
	Token      token.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) blockItemNode()   {}
func (es *ExpressionStatement) statementNode()   {}
func (es *ExpressionStatement) Tok() token.Token { return es.Token }
func (es *ExpressionStatement) String() string   { return es.Expression.String() + ";" }

type IfStatement struct {
	Token       token.Token // the if token
	Condition   Expression
	Consequence Statement
	Alternative Statement // nil without else
}

func (is *IfStatement) blockItemNode()   {}
func (is *IfStatement) statementNode()   {}
func (is *IfStatement) Tok() token.Token { return is.Token }
func (is *IfStatement) String() string {
	var out bytes.Buffer

	out.WriteString("if (")
	out.WriteString(is.Condition.String())
	out.WriteString(") ")
	out.WriteString(is.Consequence.String())
	if is.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(is.Alternative.String())
	}

	return out.String()
}

type CompoundStatement struct {
	Block *Block
}

func (cs *CompoundStatement) blockItemNode()   {}
func (cs *CompoundStatement) statementNode()   {}
func (cs *CompoundStatement) Tok() token.Token { return cs.Block.Token }
func (cs *CompoundStatement) String() string   { return cs.Block.String() }

// Break, Continue, loops and switches carry the Label of their enclosing
// construct once the loop labeler has run.
type BreakStatement struct {
	Token token.Token
	Label string
}

func (bs *BreakStatement) blockItemNode()   {}
func (bs *BreakStatement) statementNode()   {}
func (bs *BreakStatement) Tok() token.Token { return bs.Token }
func (bs *BreakStatement) String() string   { return "break;" }

type ContinueStatement struct {
	Token token.Token
	Label string
}

func (cs *ContinueStatement) blockItemNode()   {}
func (cs *ContinueStatement) statementNode()   {}
func (cs *ContinueStatement) Tok() token.Token { return cs.Token }
func (cs *ContinueStatement) String() string   { return "continue;" }

type WhileStatement struct {
	Token     token.Token
	Condition Expression
	Body      Statement
	Label     string
}

func (ws *WhileStatement) blockItemNode()   {}
func (ws *WhileStatement) statementNode()   {}
func (ws *WhileStatement) Tok() token.Token { return ws.Token }
func (ws *WhileStatement) String() string {
	return "while (" + ws.Condition.String() + ") " + ws.Body.String()
}

type DoWhileStatement struct {
	Token     token.Token
	Body      Statement
	Condition Expression
	Label     string
}

func (dw *DoWhileStatement) blockItemNode()   {}
func (dw *DoWhileStatement) statementNode()   {}
func (dw *DoWhileStatement) Tok() token.Token { return dw.Token }
func (dw *DoWhileStatement) String() string {
	return "do " + dw.Body.String() + " while (" + dw.Condition.String() + ");"
}

// ForInit is either a *VarDecl or an *InitExpression.
type ForInit interface {
	Node
	forInitNode()
}

type InitExpression struct {
	Token      token.Token
	Expression Expression // nil for an empty initializer
}

func (ie *InitExpression) forInitNode()     {}
func (ie *InitExpression) Tok() token.Token { return ie.Token }
func (ie *InitExpression) String() string {
	if ie.Expression == nil {
		return ";"
	}
	return ie.Expression.String() + ";"
}

type ForStatement struct {
	Token     token.Token
	Init      ForInit
	Condition Expression // nil means always true
	Post      Expression // may be nil
	Body      Statement
	Label     string
}

func (fs *ForStatement) blockItemNode()   {}
func (fs *ForStatement) statementNode()   {}
func (fs *ForStatement) Tok() token.Token { return fs.Token }
func (fs *ForStatement) String() string {
	var out bytes.Buffer

	out.WriteString("for (")
	out.WriteString(fs.Init.String())
	if fs.Condition != nil {
		out.WriteString(" ")
		out.WriteString(fs.Condition.String())
	}
	out.WriteString(";")
	if fs.Post != nil {
		out.WriteString(" ")
		out.WriteString(fs.Post.String())
	}
	out.WriteString(") ")
	out.WriteString(fs.Body.String())

	return out.String()
}

// CaseEntry is one row of a switch's jump table.
type CaseEntry struct {
	Value types.Const
	Label string
}

type SwitchStatement struct {
	Token      token.Token
	Condition  Expression
	Body       Statement
	Label      string
	Cases      []CaseEntry // in order of appearance
	HasDefault bool
}

func (ss *SwitchStatement) blockItemNode()   {}
func (ss *SwitchStatement) statementNode()   {}
func (ss *SwitchStatement) Tok() token.Token { return ss.Token }
func (ss *SwitchStatement) String() string {
	return "switch (" + ss.Condition.String() + ") " + ss.Body.String()
}

type CaseStatement struct {
	Token token.Token
	Value Expression
	Body  Statement
	Label string
}

func (cs *CaseStatement) blockItemNode()   {}
func (cs *CaseStatement) statementNode()   {}
func (cs *CaseStatement) Tok() token.Token { return cs.Token }
func (cs *CaseStatement) String() string {
	return "case " + cs.Value.String() + ": " + cs.Body.String()
}

type DefaultStatement struct {
	Token token.Token
	Body  Statement
	Label string
}

func (ds *DefaultStatement) blockItemNode()   {}
func (ds *DefaultStatement) statementNode()   {}
func (ds *DefaultStatement) Tok() token.Token { return ds.Token }
func (ds *DefaultStatement) String() string   { return "default: " + ds.Body.String() }

type LabeledStatement struct {
	Token token.Token // the label identifier
	Label string
	Body  Statement
}

func (ls *LabeledStatement) blockItemNode()   {}
func (ls *LabeledStatement) statementNode()   {}
func (ls *LabeledStatement) Tok() token.Token { return ls.Token }
func (ls *LabeledStatement) String() string   { return ls.Label + ": " + ls.Body.String() }

type GotoStatement struct {
	Token  token.Token
	Target string
}

func (gs *GotoStatement) blockItemNode()   {}
func (gs *GotoStatement) statementNode()   {}
func (gs *GotoStatement) Tok() token.Token { return gs.Token }
func (gs *GotoStatement) String() string   { return "goto " + gs.Target + ";" }

type NullStatement struct {
	Token token.Token // the ; token
}

func (ns *NullStatement) blockItemNode()   {}
func (ns *NullStatement) statementNode()   {}
func (ns *NullStatement) Tok() token.Token { return ns.Token }
func (ns *NullStatement) String() string   { return ";" }
