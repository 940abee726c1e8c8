package xmldoc

import (
	"fmt"
	"strings"

	"github.com/doctree-go/xmldoc/xpath"
)

// Find evaluates the compact query language of §4.6 against root,
// returning every descendant element matching query. The grammar is a
// thin reduction over the XPath evaluator: each compact predicate
// compiles to the equivalent XPath step/predicate and is evaluated
// through the xpath subpackage exactly as spec.md requires.
//
// Grammar: '<' name '>' ('/' sub)* '/', sub one of:
//
//	attr='v'            attribute equality
//	attr|='v'           attribute substring match
//	@attr               attribute existence
//	$text, $text='v', $text|='v'       text-child match
//	#comment, #comment='v', #comment|='v'   comment-child match
//	[ sub ('/' sub)* ]  a parenthesized group of the above, ANDed in
func Find(root *Node, query string) ([]*Node, error) {
	cq, err := getCompiledQuery(query, func() (compiledQuery, error) {
		return compiledQuery{xpathExpr: query}, nil
	})
	if err != nil {
		return nil, err
	}
	step, err := compileCompactQuery(cq.xpathExpr)
	if err != nil {
		return nil, err
	}
	expr := &xpath.Expr{Kind: xpath.KindPath, Steps: []xpath.Step{step}}
	nav := NewNavigator(root)
	v, err := xpath.Eval(expr, nav)
	if err != nil {
		return nil, err
	}
	if v.Kind != xpath.NodeSetValue {
		return nil, nil
	}
	out := make([]*Node, 0, v.Nodes.Len())
	for _, n := range v.Nodes.Nodes {
		out = append(out, n.Identity().(*Node))
	}
	return out, nil
}

// FindOne returns the first match of Find, or nil.
func FindOne(root *Node, query string) (*Node, error) {
	all, err := Find(root, query)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

// FindGrouped runs Find and partitions the resulting node-set by each
// match's parent element, using the same GroupTable the XPath predicate
// evaluator's design is modeled on. Useful when a compact query matches
// elements scattered across several parents and the caller wants to
// process them one parent's worth at a time.
func FindGrouped(root *Node, query string) (*GroupTable, error) {
	matches, err := Find(root, query)
	if err != nil {
		return nil, err
	}
	gt := NewGroupTable()
	for _, m := range matches {
		gt.Put(m.Parent, m)
	}
	return gt, nil
}

type compactParser struct {
	src string
	pos int
}

func compileCompactQuery(q string) (xpath.Step, error) {
	p := &compactParser{src: strings.TrimSpace(q)}
	if p.pos >= len(p.src) || p.src[p.pos] != '<' {
		return xpath.Step{}, fmt.Errorf("xmldoc: compact query must start with '<name>': %q", q)
	}
	p.pos++
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != '>' {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return xpath.Step{}, fmt.Errorf("xmldoc: unterminated '<name>' in compact query: %q", q)
	}
	name := p.src[start:p.pos]
	p.pos++ // '>'

	var preds []*xpath.Expr
	for p.pos < len(p.src) {
		if p.src[p.pos] != '/' {
			return xpath.Step{}, fmt.Errorf("xmldoc: expected '/' in compact query at %d: %q", p.pos, q)
		}
		p.pos++
		if p.pos >= len(p.src) {
			break // trailing '/'
		}
		if p.src[p.pos] == '/' {
			continue
		}
		pred, err := p.parseSub()
		if err != nil {
			return xpath.Step{}, err
		}
		preds = append(preds, pred)
	}
	return xpath.Step{Axis: xpath.AxisDescendant, Test: xpath.NodeTest{Kind: xpath.TestName, Local: name}, Predicates: preds}, nil
}

func (p *compactParser) parseSub() (*xpath.Expr, error) {
	switch {
	case p.src[p.pos] == '[':
		return p.parseGroup()
	case p.src[p.pos] == '@':
		p.pos++
		name := p.readToken()
		return attrPathExpr(name), nil
	case p.src[p.pos] == '$':
		p.pos++
		kw := p.readKeyword()
		if kw != "text" {
			return nil, fmt.Errorf("xmldoc: unknown compact query token $%s", kw)
		}
		return p.parseValueMatch(xpath.Step{Axis: xpath.AxisChild, Test: xpath.NodeTest{Kind: xpath.TestText}})
	case p.src[p.pos] == '#':
		p.pos++
		kw := p.readKeyword()
		if kw != "comment" {
			return nil, fmt.Errorf("xmldoc: unknown compact query token #%s", kw)
		}
		return p.parseValueMatch(xpath.Step{Axis: xpath.AxisChild, Test: xpath.NodeTest{Kind: xpath.TestComment}})
	default:
		name := p.readToken()
		if name == "" {
			return nil, fmt.Errorf("xmldoc: malformed compact query sub-expression at %d", p.pos)
		}
		return p.parseValueMatch(xpath.Step{Axis: xpath.AxisAttribute, Test: xpath.NodeTest{Kind: xpath.TestName, Local: name}})
	}
}

func (p *compactParser) parseGroup() (*xpath.Expr, error) {
	p.pos++ // '['
	var preds []*xpath.Expr
	for {
		pred, err := p.parseSub()
		if err != nil {
			return nil, err
		}
		preds = append(preds, pred)
		if p.pos < len(p.src) && p.src[p.pos] == '/' {
			p.pos++
			continue
		}
		break
	}
	if p.pos >= len(p.src) || p.src[p.pos] != ']' {
		return nil, fmt.Errorf("xmldoc: unterminated '[' group in compact query")
	}
	p.pos++
	return andAll(preds), nil
}

// parseValueMatch consumes an optional "='v'" or "|='v'" suffix on the
// node test built from base, producing an equality or substring predicate;
// with no suffix it is a bare existence test.
func (p *compactParser) parseValueMatch(base xpath.Step) (*xpath.Expr, error) {
	pathExpr := &xpath.Expr{Kind: xpath.KindPath, Steps: []xpath.Step{base}}
	if p.pos >= len(p.src) || (p.src[p.pos] != '=' && p.src[p.pos] != '|') {
		return pathExpr, nil
	}
	substring := false
	if p.src[p.pos] == '|' {
		substring = true
		p.pos++
	}
	if p.pos >= len(p.src) || p.src[p.pos] != '=' {
		return nil, fmt.Errorf("xmldoc: expected '=' in compact query at %d", p.pos)
	}
	p.pos++
	lit, err := p.readQuoted()
	if err != nil {
		return nil, err
	}
	strFn := &xpath.Expr{Kind: xpath.KindFunctionCall, FuncName: "string", Args: []*xpath.Expr{pathExpr}}
	if substring {
		return &xpath.Expr{Kind: xpath.KindFunctionCall, FuncName: "contains", Args: []*xpath.Expr{strFn, {Kind: xpath.KindString, Str: lit}}}, nil
	}
	return &xpath.Expr{Kind: xpath.KindBinaryOp, Op: "=", Left: strFn, Right: &xpath.Expr{Kind: xpath.KindString, Str: lit}}, nil
}

func attrPathExpr(name string) *xpath.Expr {
	return &xpath.Expr{Kind: xpath.KindPath, Steps: []xpath.Step{{Axis: xpath.AxisAttribute, Test: xpath.NodeTest{Kind: xpath.TestName, Local: name}}}}
}

func (p *compactParser) readToken() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '/' || c == '=' || c == '|' || c == ']' || c == '[' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *compactParser) readKeyword() string {
	start := p.pos
	for p.pos < len(p.src) && isNameContinuation(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func isNameContinuation(b byte) bool {
	return b == '_' || b == '-' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func (p *compactParser) readQuoted() (string, error) {
	if p.pos >= len(p.src) || (p.src[p.pos] != '\'' && p.src[p.pos] != '"') {
		return "", fmt.Errorf("xmldoc: expected quoted literal in compact query at %d", p.pos)
	}
	quote := p.src[p.pos]
	p.pos++
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != quote {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return "", fmt.Errorf("xmldoc: unterminated string literal in compact query")
	}
	lit := p.src[start:p.pos]
	p.pos++
	return lit, nil
}

func andAll(preds []*xpath.Expr) *xpath.Expr {
	if len(preds) == 0 {
		return &xpath.Expr{Kind: xpath.KindFunctionCall, FuncName: "true"}
	}
	out := preds[0]
	for _, p := range preds[1:] {
		out = &xpath.Expr{Kind: xpath.KindBinaryOp, Op: "and", Left: out, Right: p}
	}
	return out
}
