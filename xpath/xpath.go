package xpath

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrParse and ErrEval classify a returned error as a grammar failure
// (unexpected token, unknown function, wrong arity — all fatal to the
// query before evaluation starts) versus a failure discovered while
// walking the tree (e.g. an unresolved namespace prefix in a name test),
// per §7's "XPath parse" / "XPath evaluate" error kinds.
var (
	ErrParse = errors.New("xpath: parse error")
	ErrEval  = errors.New("xpath: evaluation error")
)

// Error wraps a parse or evaluation failure so callers can classify it with
// errors.Is(err, xpath.ErrParse) / errors.Is(err, xpath.ErrEval) without
// string-matching the message.
type Error struct {
	class error
	msg   string
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Unwrap() error { return e.class }

func parseError(err error) error {
	if err == nil {
		return nil
	}
	return &Error{class: ErrParse, msg: err.Error()}
}

func evalError(err error) error {
	if err == nil {
		return nil
	}
	return &Error{class: ErrEval, msg: err.Error()}
}

// Session binds a document's root navigator to a stable identity used as
// the cache key for absolute-path sub-expressions, so two independently
// parsed documents never collide in the shared result cache even if they
// happen to produce an identical root Identity() (e.g. two trees loaded
// from the same in-memory pool).
type Session struct {
	id   uuid.UUID
	root NodeNavigator
}

// NewSession starts an evaluation session against root. Callers that
// evaluate many expressions against one parsed document should reuse a
// single Session so absolute-path caching applies across calls.
func NewSession(root NodeNavigator) *Session {
	return &Session{id: uuid.New(), root: root}
}

// Select compiles and evaluates expr as a location path, returning its
// node-set. Absolute expressions are served from the session's cache when
// available.
func (s *Session) Select(expr string) (*NodeSet, error) {
	e, err := Compile(expr)
	if err != nil {
		return nil, err
	}
	if isAbsolutePath(e) {
		if ns, ok := sharedResultCache.get(s.id, expr); ok {
			return ns, nil
		}
	}
	v, err := Eval(e, s.root)
	if err != nil {
		return nil, err
	}
	if v.Kind != NodeSetValue {
		return nil, fmt.Errorf("xpath: expression %q does not select a node-set", expr)
	}
	if isAbsolutePath(e) {
		sharedResultCache.put(s.id, expr, v.Nodes)
	}
	return v.Nodes, nil
}

// Evaluate compiles and evaluates expr against context, returning
// whatever XPath 1.0 data type the expression produces (string, number,
// boolean, or node-set) — the general entry point for boolean/value
// expressions as well as plain node selection.
func Evaluate(expr string, context NodeNavigator) (Value, error) {
	e, err := Compile(expr)
	if err != nil {
		return Value{}, err
	}
	return Eval(e, context)
}

func isAbsolutePath(e *Expr) bool {
	return e.Kind == KindPath && e.Absolute && e.Filter == nil
}

// QuoteLiteral renders s as an XPath string literal, choosing whichever
// quote character s does not itself contain (falling back to concat()
// when s contains both, per the usual XPath 1.0 workaround since the
// language has no string-escape syntax).
func QuoteLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	var b strings.Builder
	b.WriteString("concat(")
	parts := strings.Split(s, "'")
	for i, p := range parts {
		if i > 0 {
			b.WriteString(`, "'", `)
		}
		b.WriteString("'")
		b.WriteString(p)
		b.WriteString("'")
	}
	b.WriteString(")")
	return b.String()
}
