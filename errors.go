package xmldoc

import (
	"errors"
	"fmt"
)

// Sentinel errors one per ErrorKind, so callers can test a Diagnostic's
// class with errors.Is(err, xmldoc.ErrSyntax) instead of switching on
// ErrorKind directly (§7 propagation: "a small typed-error hierarchy ...
// plus Is/As support via wrapped sentinel errors").
var (
	ErrLexical   = errors.New("xmldoc: lexical error")
	ErrSyntax    = errors.New("xmldoc: syntax error")
	ErrNamespace = errors.New("xmldoc: namespace error")
	ErrIO        = errors.New("xmldoc: io error")
)

// ErrorKind classifies a recorded parse/query diagnostic.
type ErrorKind uint

const (
	LexicalError ErrorKind = iota
	SyntacticError
	NamespaceError
	IOError
)

func (k ErrorKind) String() string {
	switch k {
	case LexicalError:
		return "lexical"
	case SyntacticError:
		return "syntactic"
	case NamespaceError:
		return "namespace"
	case IOError:
		return "io"
	default:
		return "unknown"
	}
}

// Diagnostic is a recoverable error or warning recorded while parsing. A
// document's Diagnostics slice accumulates these; its WellFormed flag
// reports whether any of them are fatal (non-warning).
type Diagnostic struct {
	Kind    ErrorKind
	Line    int
	Column  int
	Message string
	Warning bool
}

func (d *Diagnostic) Error() string {
	sev := "error"
	if d.Warning {
		sev = "warning"
	}
	return fmt.Sprintf("xmldoc: %s: %s (line %d, col %d): %s", sev, d.Kind, d.Line, d.Column, d.Message)
}

// Unwrap exposes the Diagnostic's class as one of the package's sentinel
// errors, so errors.Is(d, ErrNamespace) works without a type switch.
func (d *Diagnostic) Unwrap() error {
	switch d.Kind {
	case LexicalError:
		return ErrLexical
	case SyntacticError:
		return ErrSyntax
	case NamespaceError:
		return ErrNamespace
	case IOError:
		return ErrIO
	}
	return nil
}

func newDiagnostic(kind ErrorKind, line, col int, warning bool, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Kind:    kind,
		Line:    line,
		Column:  col,
		Message: fmt.Sprintf(format, args...),
		Warning: warning,
	}
}
