package token

import "fmt"

// ErrorKind classifies a diagnostic by the rule it violates.
type ErrorKind int

const (
	Syntax ErrorKind = iota
	UndeclaredVariable
	DuplicateVariable
	InvalidDeclaration
	UndefinedLabel
	DuplicateLabel
	TypeMismatch
	IncompatibleRedeclaration
	ConflictingInitializer
	InvalidLvalue
	InvalidCast
	BreakOutsideLoop
	ContinueOutsideLoop
	CaseOutsideSwitch
	DefaultOutsideSwitch
	DuplicateCase
	DuplicateDefault
	NonConstantCase
)

var errorKinds = [...]string{
	Syntax:                    "Syntax",
	UndeclaredVariable:        "UndeclaredVariable",
	DuplicateVariable:         "DuplicateVariable",
	InvalidDeclaration:        "InvalidDeclaration",
	UndefinedLabel:            "UndefinedLabel",
	DuplicateLabel:            "DuplicateLabel",
	TypeMismatch:              "TypeMismatch",
	IncompatibleRedeclaration: "IncompatibleRedeclaration",
	ConflictingInitializer:    "ConflictingInitializer",
	InvalidLvalue:             "InvalidLvalue",
	InvalidCast:               "InvalidCast",
	BreakOutsideLoop:          "BreakOutsideLoop",
	ContinueOutsideLoop:       "ContinueOutsideLoop",
	CaseOutsideSwitch:         "CaseOutsideSwitch",
	DefaultOutsideSwitch:      "DefaultOutsideSwitch",
	DuplicateCase:             "DuplicateCase",
	DuplicateDefault:          "DuplicateDefault",
	NonConstantCase:           "NonConstantCase",
}

func (k ErrorKind) String() string {
	if 0 <= k && int(k) < len(errorKinds) {
		return errorKinds[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// CompileError points a diagnostic at the token where it was detected.
type CompileError struct {
	Token Token
	Kind  ErrorKind
	Msg   string
}

func (ce *CompileError) Error() string {
	pos := fmt.Sprintf("%d:%d", ce.Token.Line, ce.Token.Column)
	if ce.Token.FileName != "" {
		pos = ce.Token.FileName + ":" + pos
	}
	return fmt.Sprintf("%s: %s: %s", ce.Kind, pos, ce.Msg)
}

// Errorf builds a CompileError at tok.
func Errorf(tok Token, kind ErrorKind, format string, args ...any) *CompileError {
	return &CompileError{
		Token: tok,
		Kind:  kind,
		Msg:   fmt.Sprintf(format, args...),
	}
}
