package xpath

import (
	"fmt"
	"math"
	"strings"
)

// callFunction dispatches the XPath 1.0 core function library (§4.4).
// Argument counts and types follow the spec's coercion rules; functions
// that take an optional node-set argument default to the context node.
func callFunction(e *Expr, ctx *evalContext) (Value, error) {
	switch e.FuncName {
	case "last":
		if err := arity(e, 0); err != nil {
			return Value{}, err
		}
		return NumberOf(float64(ctx.size)), nil
	case "position":
		if err := arity(e, 0); err != nil {
			return Value{}, err
		}
		return NumberOf(float64(ctx.position)), nil
	case "count":
		if err := arity(e, 1); err != nil {
			return Value{}, err
		}
		v, err := eval(e.Args[0], ctx)
		if err != nil {
			return Value{}, err
		}
		if v.Kind != NodeSetValue {
			return Value{}, fmt.Errorf("xpath: count() requires a node-set")
		}
		return NumberOf(float64(v.Nodes.Len())), nil
	case "id":
		return evalID(e, ctx)
	case "local-name":
		n, ok, err := optionalContextNode(e, ctx)
		if err != nil {
			return Value{}, err
		}
		if !ok {
			return StringOf(""), nil
		}
		return StringOf(n.LocalName()), nil
	case "namespace-uri":
		n, ok, err := optionalContextNode(e, ctx)
		if err != nil {
			return Value{}, err
		}
		if !ok {
			return StringOf(""), nil
		}
		return StringOf(n.NamespaceURI()), nil
	case "name":
		n, ok, err := optionalContextNode(e, ctx)
		if err != nil {
			return Value{}, err
		}
		if !ok {
			return StringOf(""), nil
		}
		if n.Prefix() == "" {
			return StringOf(n.LocalName()), nil
		}
		return StringOf(n.Prefix() + ":" + n.LocalName()), nil
	case "string":
		if len(e.Args) == 0 {
			return StringOf(stringValueOf(ctx.node)), nil
		}
		if err := arity(e, 1); err != nil {
			return Value{}, err
		}
		v, err := eval(e.Args[0], ctx)
		if err != nil {
			return Value{}, err
		}
		return StringOf(v.ToString()), nil
	case "concat":
		if len(e.Args) < 2 {
			return Value{}, fmt.Errorf("xpath: concat() requires at least 2 arguments")
		}
		var sb strings.Builder
		for _, a := range e.Args {
			v, err := eval(a, ctx)
			if err != nil {
				return Value{}, err
			}
			sb.WriteString(v.ToString())
		}
		return StringOf(sb.String()), nil
	case "starts-with":
		a, b, err := twoStrings(e, ctx)
		if err != nil {
			return Value{}, err
		}
		return BooleanOf(strings.HasPrefix(a, b)), nil
	case "contains":
		a, b, err := twoStrings(e, ctx)
		if err != nil {
			return Value{}, err
		}
		return BooleanOf(strings.Contains(a, b)), nil
	case "substring-before":
		a, b, err := twoStrings(e, ctx)
		if err != nil {
			return Value{}, err
		}
		i := strings.Index(a, b)
		if i < 0 {
			return StringOf(""), nil
		}
		return StringOf(a[:i]), nil
	case "substring-after":
		a, b, err := twoStrings(e, ctx)
		if err != nil {
			return Value{}, err
		}
		i := strings.Index(a, b)
		if i < 0 {
			return StringOf(""), nil
		}
		return StringOf(a[i+len(b):]), nil
	case "substring":
		return evalSubstring(e, ctx)
	case "string-length":
		var s string
		if len(e.Args) == 0 {
			s = stringValueOf(ctx.node)
		} else {
			if err := arity(e, 1); err != nil {
				return Value{}, err
			}
			v, err := eval(e.Args[0], ctx)
			if err != nil {
				return Value{}, err
			}
			s = v.ToString()
		}
		return NumberOf(float64(len([]rune(s)))), nil
	case "normalize-space":
		var s string
		if len(e.Args) == 0 {
			s = stringValueOf(ctx.node)
		} else {
			if err := arity(e, 1); err != nil {
				return Value{}, err
			}
			v, err := eval(e.Args[0], ctx)
			if err != nil {
				return Value{}, err
			}
			s = v.ToString()
		}
		return StringOf(strings.Join(strings.Fields(s), " ")), nil
	case "translate":
		return evalTranslate(e, ctx)
	case "boolean":
		if err := arity(e, 1); err != nil {
			return Value{}, err
		}
		v, err := eval(e.Args[0], ctx)
		if err != nil {
			return Value{}, err
		}
		return BooleanOf(v.ToBoolean()), nil
	case "not":
		if err := arity(e, 1); err != nil {
			return Value{}, err
		}
		v, err := eval(e.Args[0], ctx)
		if err != nil {
			return Value{}, err
		}
		return BooleanOf(!v.ToBoolean()), nil
	case "true":
		if err := arity(e, 0); err != nil {
			return Value{}, err
		}
		return BooleanOf(true), nil
	case "false":
		if err := arity(e, 0); err != nil {
			return Value{}, err
		}
		return BooleanOf(false), nil
	case "lang":
		if err := arity(e, 1); err != nil {
			return Value{}, err
		}
		v, err := eval(e.Args[0], ctx)
		if err != nil {
			return Value{}, err
		}
		want := strings.ToLower(v.ToString())
		for _, n := range ancestors(ctx.node, true) {
			for _, a := range attributes(n) {
				if got := strings.ToLower(a.Value()); a.Prefix() == "xml" && a.LocalName() == "lang" {
					return BooleanOf(got == want || strings.HasPrefix(got, want+"-")), nil
				}
			}
		}
		return BooleanOf(false), nil
	case "number":
		if len(e.Args) == 0 {
			return NumberOf(stringToNumber(stringValueOf(ctx.node))), nil
		}
		if err := arity(e, 1); err != nil {
			return Value{}, err
		}
		v, err := eval(e.Args[0], ctx)
		if err != nil {
			return Value{}, err
		}
		return NumberOf(v.ToNumber()), nil
	case "sum":
		if err := arity(e, 1); err != nil {
			return Value{}, err
		}
		v, err := eval(e.Args[0], ctx)
		if err != nil {
			return Value{}, err
		}
		if v.Kind != NodeSetValue {
			return Value{}, fmt.Errorf("xpath: sum() requires a node-set")
		}
		var total float64
		for _, n := range v.Nodes.Nodes {
			total += stringToNumber(stringValueOf(n))
		}
		return NumberOf(total), nil
	case "floor":
		v, err := oneNumber(e, ctx)
		if err != nil {
			return Value{}, err
		}
		return NumberOf(math.Floor(v)), nil
	case "ceiling":
		v, err := oneNumber(e, ctx)
		if err != nil {
			return Value{}, err
		}
		return NumberOf(math.Ceil(v)), nil
	case "round":
		v, err := oneNumber(e, ctx)
		if err != nil {
			return Value{}, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NumberOf(v), nil
		}
		return NumberOf(math.Floor(v + 0.5)), nil
	}
	return Value{}, fmt.Errorf("xpath: unknown function %s()", e.FuncName)
}

func arity(e *Expr, n int) error {
	if len(e.Args) != n {
		return fmt.Errorf("xpath: %s() expects %d argument(s), got %d", e.FuncName, n, len(e.Args))
	}
	return nil
}

func oneNumber(e *Expr, ctx *evalContext) (float64, error) {
	if err := arity(e, 1); err != nil {
		return 0, err
	}
	v, err := eval(e.Args[0], ctx)
	if err != nil {
		return 0, err
	}
	return v.ToNumber(), nil
}

func twoStrings(e *Expr, ctx *evalContext) (string, string, error) {
	if err := arity(e, 2); err != nil {
		return "", "", err
	}
	a, err := eval(e.Args[0], ctx)
	if err != nil {
		return "", "", err
	}
	b, err := eval(e.Args[1], ctx)
	if err != nil {
		return "", "", err
	}
	return a.ToString(), b.ToString(), nil
}

func optionalContextNode(e *Expr, ctx *evalContext) (NodeNavigator, bool, error) {
	if len(e.Args) == 0 {
		return ctx.node, true, nil
	}
	if err := arity(e, 1); err != nil {
		return nil, false, err
	}
	v, err := eval(e.Args[0], ctx)
	if err != nil {
		return nil, false, err
	}
	if v.Kind != NodeSetValue || v.Nodes.Len() == 0 {
		return nil, false, nil
	}
	first := v.Nodes.Nodes[0]
	for _, n := range v.Nodes.Nodes[1:] {
		if n.DocumentOrder() < first.DocumentOrder() {
			first = n
		}
	}
	return first, true, nil
}

func evalID(e *Expr, ctx *evalContext) (Value, error) {
	if err := arity(e, 1); err != nil {
		return Value{}, err
	}
	v, err := eval(e.Args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	var tokens []string
	if v.Kind == NodeSetValue {
		for _, n := range v.Nodes.Nodes {
			tokens = append(tokens, strings.Fields(stringValueOf(n))...)
		}
	} else {
		tokens = strings.Fields(v.ToString())
	}
	root := ctx.node.Copy()
	root.MoveToRoot()
	all := documentNodes(root)
	out := &NodeSet{}
	for _, want := range tokens {
		for _, n := range all {
			if n.NodeKind() != ElementNode {
				continue
			}
			c := n.Copy()
			if c.MoveToFirstAttribute() {
				for {
					if strings.EqualFold(c.LocalName(), "id") && c.Value() == want {
						out.Add(n)
						break
					}
					if !c.MoveToNextAttribute() {
						break
					}
				}
			}
		}
	}
	out.Sort()
	return NodeSetOf(out), nil
}

func evalSubstring(e *Expr, ctx *evalContext) (Value, error) {
	if len(e.Args) != 2 && len(e.Args) != 3 {
		return Value{}, fmt.Errorf("xpath: substring() expects 2 or 3 arguments")
	}
	sv, err := eval(e.Args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	s := []rune(sv.ToString())
	startV, err := eval(e.Args[1], ctx)
	if err != nil {
		return Value{}, err
	}
	start := startV.ToNumber()
	length := math.Inf(1)
	if len(e.Args) == 3 {
		lenV, err := eval(e.Args[2], ctx)
		if err != nil {
			return Value{}, err
		}
		length = lenV.ToNumber()
	}
	// XPath 1.0 substring() uses 1-based, rounded, NaN-safe bounds.
	first := math.Round(start)
	last := first + math.Round(length)
	if math.IsNaN(first) || math.IsNaN(last) {
		return StringOf(""), nil
	}
	lo := int(math.Max(first, 1))
	hi := int(math.Min(last, float64(len(s)+1)))
	if hi <= lo || lo > len(s) {
		return StringOf(""), nil
	}
	return StringOf(string(s[lo-1 : hi-1])), nil
}

func evalTranslate(e *Expr, ctx *evalContext) (Value, error) {
	if err := arity(e, 3); err != nil {
		return Value{}, err
	}
	sv, err := eval(e.Args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	fromV, err := eval(e.Args[1], ctx)
	if err != nil {
		return Value{}, err
	}
	toV, err := eval(e.Args[2], ctx)
	if err != nil {
		return Value{}, err
	}
	from := []rune(fromV.ToString())
	to := []rune(toV.ToString())
	var out []rune
	for _, r := range sv.ToString() {
		idx := -1
		for i, f := range from {
			if f == r {
				idx = i
				break
			}
		}
		if idx < 0 {
			out = append(out, r)
			continue
		}
		if idx < len(to) {
			out = append(out, to[idx])
		}
	}
	return StringOf(string(out)), nil
}
