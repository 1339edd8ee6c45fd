// Package interp executes lowered IR directly. It is the reference the
// rest of the pipeline is tested against: every variable lives in a memory
// cell, and a pointer is the address of a cell, with 0 reserved for null.
package interp

import (
	"github.com/pkg/errors"
	"github.com/thiremani/cfront/ir"
	"github.com/thiremani/cfront/symbols"
	"github.com/thiremani/cfront/types"
)

const (
	DefaultMaxSteps = 1 << 24
	DefaultMaxDepth = 10000
)

var (
	ErrStepLimit      = errors.New("step limit exceeded")
	ErrDepthLimit     = errors.New("call depth limit exceeded")
	ErrDivisionByZero = errors.New("integer division by zero")
	ErrNullPointer    = errors.New("null pointer dereference")
)

// Options bounds a run. Zero values select the defaults.
type Options struct {
	MaxSteps int
	MaxDepth int
}

type function struct {
	*ir.Function
	labels map[string]int
}

type frame struct {
	fn   *function
	vars map[string]uint64
}

// Interpreter holds the memory of one program run. Statics keep their
// values across calls made on the same Interpreter.
type Interpreter struct {
	table   *symbols.Table
	opts    Options
	funcs   map[string]*function
	statics map[string]uint64
	memory  []types.Const
	steps   int
	depth   int
}

func New(prog *ir.Program, table *symbols.Table, opts Options) *Interpreter {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	in := &Interpreter{
		table:   table,
		opts:    opts,
		funcs:   map[string]*function{},
		statics: map[string]uint64{},
	}
	for _, item := range prog.Items {
		switch it := item.(type) {
		case *ir.Function:
			fn := &function{Function: it, labels: map[string]int{}}
			for idx, instr := range it.Body {
				if l, ok := instr.(*ir.Label); ok {
					fn.labels[l.Name] = idx
				}
			}
			in.funcs[it.Name] = fn
		case *ir.StaticVariable:
			in.statics[it.Name] = in.alloc(it.Init)
		}
	}
	return in
}

// Run calls main with no arguments.
func Run(prog *ir.Program, table *symbols.Table) (types.Const, error) {
	return New(prog, table, Options{}).Call("main")
}

// Steps reports how many instructions have executed so far.
func (in *Interpreter) Steps() int {
	return in.steps
}

// Call runs the named function. Arguments must already have the parameter
// types.
func (in *Interpreter) Call(name string, args ...types.Const) (types.Const, error) {
	fn, ok := in.funcs[name]
	if !ok {
		return types.Const{}, errors.Errorf("undefined function %s", name)
	}
	if len(args) != len(fn.Params) {
		return types.Const{}, errors.Errorf("%s takes %d arguments, got %d", name, len(fn.Params), len(args))
	}
	if in.depth >= in.opts.MaxDepth {
		return types.Const{}, ErrDepthLimit
	}
	in.depth++
	defer func() { in.depth-- }()

	// locals are released on return, like a stack
	base := len(in.memory)
	defer func() { in.memory = in.memory[:base] }()

	fr := &frame{fn: fn, vars: map[string]uint64{}}
	for i, param := range fn.Params {
		fr.vars[param] = in.alloc(retype(args[i], in.typeOf(param)))
	}

	ret, err := in.execute(fr)
	return ret, errors.Wrapf(err, "in %s", name)
}

func (in *Interpreter) execute(fr *frame) (types.Const, error) {
	body := fr.fn.Body
	for pc := 0; pc < len(body); pc++ {
		in.steps++
		if in.steps > in.opts.MaxSteps {
			return types.Const{}, ErrStepLimit
		}

		switch i := body[pc].(type) {
		case *ir.Return:
			return in.value(fr, i.Val)
		case *ir.Label:
		case *ir.Jump:
			pc = fr.fn.labels[i.Target]
		case *ir.JumpIfZero:
			cond, err := in.value(fr, i.Cond)
			if err != nil {
				return types.Const{}, err
			}
			if cond.IsZero() {
				pc = fr.fn.labels[i.Target]
			}
		case *ir.JumpIfNotZero:
			cond, err := in.value(fr, i.Cond)
			if err != nil {
				return types.Const{}, err
			}
			if !cond.IsZero() {
				pc = fr.fn.labels[i.Target]
			}
		default:
			if err := in.step(fr, i); err != nil {
				return types.Const{}, errors.Wrapf(err, "%s", i)
			}
		}
	}
	return types.Const{}, errors.New("fell off the end of the function")
}

// step executes one straight-line instruction.
func (in *Interpreter) step(fr *frame, instr ir.Instruction) error {
	switch i := instr.(type) {
	case *ir.Copy:
		src, err := in.value(fr, i.Src)
		if err != nil {
			return err
		}
		return in.set(fr, i.Dst, retype(src, in.typeOf(i.Dst.Name)))
	case *ir.Unary:
		src, err := in.value(fr, i.Src)
		if err != nil {
			return err
		}
		return in.set(fr, i.Dst, unary(i.Op, src))
	case *ir.Binary:
		left, err := in.value(fr, i.Left)
		if err != nil {
			return err
		}
		right, err := in.value(fr, i.Right)
		if err != nil {
			return err
		}
		res, err := binary(i.Op, left, right)
		if err != nil {
			return err
		}
		return in.set(fr, i.Dst, res)
	case *ir.Convert:
		src, err := in.value(fr, i.Src)
		if err != nil {
			return err
		}
		return in.set(fr, i.Dst, convert(i.Kind, src, in.typeOf(i.Dst.Name)))
	case *ir.FunCall:
		args := make([]types.Const, len(i.Args))
		for j, a := range i.Args {
			v, err := in.value(fr, a)
			if err != nil {
				return err
			}
			args[j] = v
		}
		res, err := in.Call(i.Name, args...)
		if err != nil {
			return err
		}
		return in.set(fr, i.Dst, res)
	case *ir.GetAddress:
		addr, err := in.address(fr, i.Src.Name)
		if err != nil {
			return err
		}
		return in.set(fr, i.Dst, types.FromBits(in.typeOf(i.Dst.Name), addr))
	case *ir.Load:
		ptr, err := in.value(fr, i.Ptr)
		if err != nil {
			return err
		}
		v, err := in.read(ptr.Bits)
		if err != nil {
			return err
		}
		return in.set(fr, i.Dst, v)
	case *ir.Store:
		src, err := in.value(fr, i.Src)
		if err != nil {
			return err
		}
		ptr, err := in.value(fr, i.Ptr)
		if err != nil {
			return err
		}
		return in.write(ptr.Bits, src)
	}
	return errors.Errorf("unexpected instruction %T", instr)
}

func (in *Interpreter) alloc(init types.Const) uint64 {
	in.memory = append(in.memory, init)
	return uint64(len(in.memory))
}

func (in *Interpreter) read(addr uint64) (types.Const, error) {
	if addr == 0 {
		return types.Const{}, ErrNullPointer
	}
	if addr > uint64(len(in.memory)) {
		return types.Const{}, errors.Errorf("invalid address %d", addr)
	}
	return in.memory[addr-1], nil
}

func (in *Interpreter) write(addr uint64, v types.Const) error {
	if addr == 0 {
		return ErrNullPointer
	}
	if addr > uint64(len(in.memory)) {
		return errors.Errorf("invalid address %d", addr)
	}
	in.memory[addr-1] = v
	return nil
}

// address finds the cell of a variable. Locals get a zeroed cell on first
// use.
func (in *Interpreter) address(fr *frame, name string) (uint64, error) {
	if addr, ok := fr.vars[name]; ok {
		return addr, nil
	}
	sym, ok := in.table.Get(name)
	if !ok {
		return 0, errors.Errorf("unknown variable %s", name)
	}
	if _, isStatic := sym.Attrs.(symbols.StaticAttr); isStatic {
		addr, ok := in.statics[name]
		if !ok {
			return 0, errors.Errorf("undefined reference to %s", name)
		}
		return addr, nil
	}
	addr := in.alloc(types.Zero(sym.Type))
	fr.vars[name] = addr
	return addr, nil
}

func (in *Interpreter) value(fr *frame, v ir.Val) (types.Const, error) {
	switch v := v.(type) {
	case ir.Constant:
		return v.Value, nil
	case ir.Var:
		addr, err := in.address(fr, v.Name)
		if err != nil {
			return types.Const{}, err
		}
		return in.read(addr)
	}
	return types.Const{}, errors.Errorf("unexpected operand %T", v)
}

func (in *Interpreter) set(fr *frame, dst ir.Var, v types.Const) error {
	addr, err := in.address(fr, dst.Name)
	if err != nil {
		return err
	}
	return in.write(addr, v)
}

func (in *Interpreter) typeOf(name string) types.Type {
	sym, ok := in.table.Get(name)
	if !ok {
		panic("interp: no type for " + name)
	}
	return sym.Type
}
