// Package symbols holds the per-translation-unit symbol table shared by the
// semantic passes, IR lowering and the back ends.
package symbols

import (
	"fmt"

	"github.com/thiremani/cfront/types"
)

type InitKind int

const (
	Tentative InitKind = iota
	Initial
	NoInitializer
)

func (k InitKind) String() string {
	switch k {
	case Tentative:
		return "tentative"
	case Initial:
		return "initial"
	}
	return "no initializer"
}

// InitialValue is the initializer state of a static-duration variable.
// Value is meaningful only for Initial.
type InitialValue struct {
	Kind  InitKind
	Value types.Const
}

func (iv InitialValue) String() string {
	if iv.Kind == Initial {
		return iv.Value.String()
	}
	return iv.Kind.String()
}

// Attrs is one of FunAttr, StaticAttr or LocalAttr.
type Attrs interface {
	attrs()
}

type FunAttr struct {
	Defined bool
	Global  bool
}

type StaticAttr struct {
	Init   InitialValue
	Global bool
}

type LocalAttr struct{}

func (FunAttr) attrs()    {}
func (StaticAttr) attrs() {}
func (LocalAttr) attrs()  {}

type Symbol struct {
	Name  string
	Type  types.Type
	Attrs Attrs
}

// IsStatic reports whether the symbol has static storage duration.
func (s *Symbol) IsStatic() bool {
	_, ok := s.Attrs.(StaticAttr)
	return ok
}

// IsGlobal reports whether the symbol has external linkage.
func (s *Symbol) IsGlobal() bool {
	switch a := s.Attrs.(type) {
	case FunAttr:
		return a.Global
	case StaticAttr:
		return a.Global
	}
	return false
}

// Table maps unique identifiers to symbols and remembers insertion order,
// so walking it is deterministic. It also owns the counter every pass uses
// to mint names, so resolved variables, temporaries and labels never clash.
type Table struct {
	syms    map[string]*Symbol
	order   []string
	counter int
}

func NewTable() *Table {
	return &Table{syms: make(map[string]*Symbol)}
}

// Add inserts or replaces name. A replaced symbol keeps its original position.
func (t *Table) Add(name string, typ types.Type, attrs Attrs) *Symbol {
	sym, ok := t.syms[name]
	if !ok {
		sym = &Symbol{Name: name}
		t.syms[name] = sym
		t.order = append(t.order, name)
	}
	sym.Type = typ
	sym.Attrs = attrs
	return sym
}

func (t *Table) Get(name string) (*Symbol, bool) {
	sym, ok := t.syms[name]
	return sym, ok
}

// Symbols returns every symbol in insertion order.
func (t *Table) Symbols() []*Symbol {
	out := make([]*Symbol, len(t.order))
	for i, name := range t.order {
		out[i] = t.syms[name]
	}
	return out
}

// NextID returns the next value of the translation unit counter.
func (t *Table) NextID() int {
	id := t.counter
	t.counter++
	return id
}

// Unique returns base suffixed with a fresh id, e.g. "x.3".
func (t *Table) Unique(base string) string {
	return fmt.Sprintf("%s.%d", base, t.NextID())
}
