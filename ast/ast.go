package ast

import (
	"bytes"
	"strings"

	"github.com/thiremani/cfront/token"
	"github.com/thiremani/cfront/types"
)

// The base Node interface
type Node interface {
	Tok() token.Token
	String() string
}

// BlockItem is anything that may appear inside a compound statement.
type BlockItem interface {
	Node
	blockItemNode()
}

// All statement nodes implement this
type Statement interface {
	BlockItem
	statementNode()
}

// All declaration nodes implement this
type Declaration interface {
	BlockItem
	declarationNode()
	Ident() string
}

// All expression nodes implement this. The type is nil until the type
// checker has visited the node.
type Expression interface {
	Node
	expressionNode()
	Type() types.Type
	SetType(types.Type)
}

type StorageClass int

const (
	NoStorage StorageClass = iota
	Static
	Extern
)

func (sc StorageClass) String() string {
	switch sc {
	case Static:
		return "static"
	case Extern:
		return "extern"
	}
	return ""
}

// Program is a translation unit.
type Program struct {
	Decls []Declaration
}

func (p *Program) Tok() token.Token {
	if len(p.Decls) > 0 {
		return p.Decls[0].Tok()
	}
	return token.Token{Type: token.EOF}
}

func (p *Program) String() string {
	var out bytes.Buffer

	for _, d := range p.Decls {
		out.WriteString(d.String())
		out.WriteString("\n")
	}

	return out.String()
}

// Block is the body of a compound statement or function.
type Block struct {
	Token token.Token // the { token
	Items []BlockItem
}

func (b *Block) Tok() token.Token { return b.Token }
func (b *Block) String() string {
	var out bytes.Buffer

	out.WriteString("{ ")
	for _, item := range b.Items {
		out.WriteString(item.String())
		out.WriteString(" ")
	}
	out.WriteString("}")

	return out.String()
}

// Declarations
type VarDecl struct {
	Token   token.Token // the identifier token
	Name    string
	Init    Expression // nil when absent
	VarType types.Type
	Storage StorageClass
}

func (vd *VarDecl) blockItemNode()   {}
func (vd *VarDecl) declarationNode() {}
func (vd *VarDecl) forInitNode()     {}
func (vd *VarDecl) Ident() string    { return vd.Name }
func (vd *VarDecl) Tok() token.Token { return vd.Token }
func (vd *VarDecl) String() string {
	var out bytes.Buffer

	out.WriteString(storagePrefix(vd.Storage))
	out.WriteString(vd.VarType.String())
	out.WriteString(" ")
	out.WriteString(vd.Name)
	if vd.Init != nil {
		out.WriteString(" = ")
		out.WriteString(vd.Init.String())
	}
	out.WriteString(";")

	return out.String()
}

type FuncDecl struct {
	Token    token.Token // the identifier token
	Name     string
	Params   []string
	FuncType types.Func
	Body     *Block // nil for a declaration without definition
	Storage  StorageClass
}

func (fd *FuncDecl) blockItemNode()   {}
func (fd *FuncDecl) declarationNode() {}
func (fd *FuncDecl) Ident() string    { return fd.Name }
func (fd *FuncDecl) Tok() token.Token { return fd.Token }
func (fd *FuncDecl) String() string {
	var out bytes.Buffer

	params := make([]string, len(fd.Params))
	for i, name := range fd.Params {
		params[i] = fd.FuncType.Params[i].String() + " " + name
	}
	if len(params) == 0 {
		params = []string{"void"}
	}

	out.WriteString(storagePrefix(fd.Storage))
	out.WriteString(fd.FuncType.Ret.String())
	out.WriteString(" ")
	out.WriteString(fd.Name)
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(")")
	if fd.Body == nil {
		out.WriteString(";")
	} else {
		out.WriteString(" ")
		out.WriteString(fd.Body.String())
	}

	return out.String()
}

func storagePrefix(sc StorageClass) string {
	if sc == NoStorage {
		return ""
	}
	return sc.String() + " "
}
