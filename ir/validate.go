package ir

import (
	"github.com/pkg/errors"
)

// Validate checks the structural guarantees lowering makes to back ends:
// top-level names are unique, every function ends in a return, labels are
// unique and every jump target exists, and each temporary is written by
// exactly one instruction that precedes all of its uses.
func Validate(prog *Program) error {
	seen := map[string]bool{}
	for _, item := range prog.Items {
		var name string
		switch it := item.(type) {
		case *Function:
			name = it.Name
			if err := validateFunction(it); err != nil {
				return errors.Wrapf(err, "function %s", it.Name)
			}
		case *StaticVariable:
			name = it.Name
		}
		if seen[name] {
			return errors.Errorf("duplicate top-level item %s", name)
		}
		seen[name] = true
	}
	return nil
}

func validateFunction(fn *Function) error {
	if len(fn.Body) == 0 {
		return errors.New("empty body")
	}
	if _, ok := fn.Body[len(fn.Body)-1].(*Return); !ok {
		return errors.Errorf("body ends with %q instead of a return", fn.Body[len(fn.Body)-1])
	}

	labels := map[string]bool{}
	for _, instr := range fn.Body {
		if l, ok := instr.(*Label); ok {
			if labels[l.Name] {
				return errors.Errorf("duplicate label %s", l.Name)
			}
			labels[l.Name] = true
		}
	}

	temps := map[string]bool{}
	for _, t := range fn.Temps {
		temps[t] = true
	}
	defined := map[string]bool{}
	for idx, instr := range fn.Body {
		var target string
		switch i := instr.(type) {
		case *Jump:
			target = i.Target
		case *JumpIfZero:
			target = i.Target
		case *JumpIfNotZero:
			target = i.Target
		}
		if target != "" && !labels[target] {
			return errors.Errorf("instruction %d (%s) jumps to missing label %s", idx, instr, target)
		}

		for _, src := range Sources(instr) {
			if v, ok := src.(Var); ok && temps[v.Name] && !defined[v.Name] {
				return errors.Errorf("instruction %d (%s) reads %s before it is written", idx, instr, v.Name)
			}
		}
		if dst, ok := Dest(instr); ok && temps[dst.Name] {
			if defined[dst.Name] {
				return errors.Errorf("instruction %d (%s) redefines %s", idx, instr, dst.Name)
			}
			defined[dst.Name] = true
		}
	}
	return nil
}
