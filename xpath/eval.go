package xpath

import (
	"fmt"
	"math"
)

// evalContext carries the ambient state threaded through expression
// evaluation: the current context node together with its proximity
// position and size (§4.4's "context stack of (context_node, position,
// size)"), plus any bound variables.
type evalContext struct {
	node      NodeNavigator
	position  int
	size      int
	variables map[string]Value
	root      NodeNavigator
}

// Eval evaluates expr against context, starting at proximity position 1
// of size 1 with no bound variables.
func Eval(expr *Expr, context NodeNavigator) (Value, error) {
	root := context.Copy()
	root.MoveToRoot()
	ctx := &evalContext{node: context, position: 1, size: 1, root: root}
	v, err := eval(expr, ctx)
	if err != nil {
		return Value{}, evalError(err)
	}
	return v, nil
}

func eval(e *Expr, ctx *evalContext) (Value, error) {
	switch e.Kind {
	case KindNumber:
		return NumberOf(e.Num), nil
	case KindString:
		return StringOf(e.Str), nil
	case KindVariableRef:
		if ctx.variables != nil {
			if v, ok := ctx.variables[e.VarName]; ok {
				return v, nil
			}
		}
		return Value{}, fmt.Errorf("xpath: undefined variable $%s", e.VarName)
	case KindUnaryOp:
		v, err := eval(e.Operand, ctx)
		if err != nil {
			return Value{}, err
		}
		return NumberOf(-v.ToNumber()), nil
	case KindBinaryOp:
		return evalBinaryOp(e, ctx)
	case KindUnion:
		l, err := evalNodeSetOperand(e.Left, ctx)
		if err != nil {
			return Value{}, err
		}
		r, err := evalNodeSetOperand(e.Right, ctx)
		if err != nil {
			return Value{}, err
		}
		return NodeSetOf(Union(l, r)), nil
	case KindFunctionCall:
		return callFunction(e, ctx)
	case KindFilter:
		return evalFilter(e, ctx)
	case KindPath:
		return evalPathExpr(e, ctx)
	}
	return Value{}, fmt.Errorf("xpath: unhandled expression kind %d", e.Kind)
}

func evalNodeSetOperand(e *Expr, ctx *evalContext) (*NodeSet, error) {
	v, err := eval(e, ctx)
	if err != nil {
		return nil, err
	}
	if v.Kind != NodeSetValue {
		return nil, fmt.Errorf("xpath: operand of '|' is not a node-set")
	}
	return v.Nodes, nil
}

func evalBinaryOp(e *Expr, ctx *evalContext) (Value, error) {
	switch e.Op {
	case "and":
		l, err := eval(e.Left, ctx)
		if err != nil {
			return Value{}, err
		}
		if !l.ToBoolean() {
			return BooleanOf(false), nil
		}
		r, err := eval(e.Right, ctx)
		if err != nil {
			return Value{}, err
		}
		return BooleanOf(r.ToBoolean()), nil
	case "or":
		l, err := eval(e.Left, ctx)
		if err != nil {
			return Value{}, err
		}
		if l.ToBoolean() {
			return BooleanOf(true), nil
		}
		r, err := eval(e.Right, ctx)
		if err != nil {
			return Value{}, err
		}
		return BooleanOf(r.ToBoolean()), nil
	}
	l, err := eval(e.Left, ctx)
	if err != nil {
		return Value{}, err
	}
	r, err := eval(e.Right, ctx)
	if err != nil {
		return Value{}, err
	}
	switch e.Op {
	case "=", "!=", "<", "<=", ">", ">=":
		return BooleanOf(compareValues(l, r, e.Op)), nil
	case "+":
		return NumberOf(l.ToNumber() + r.ToNumber()), nil
	case "-":
		return NumberOf(l.ToNumber() - r.ToNumber()), nil
	case "*":
		return NumberOf(l.ToNumber() * r.ToNumber()), nil
	case "div":
		return NumberOf(l.ToNumber() / r.ToNumber()), nil
	case "mod":
		return NumberOf(math.Mod(l.ToNumber(), r.ToNumber())), nil
	}
	return Value{}, fmt.Errorf("xpath: unknown operator %q", e.Op)
}

// compareValues implements the XPath 1.0 equality/relational coercion
// rules: node-set-vs-boolean compares the node-set's boolean value,
// node-set-vs-anything-else compares by testing whether any member's
// string/number-value satisfies the relation, otherwise both sides
// coerce to a common type (boolean > number > string precedence).
func compareValues(l, r Value, op string) bool {
	if l.Kind == NodeSetValue && r.Kind == NodeSetValue {
		for _, a := range l.Nodes.Nodes {
			for _, b := range r.Nodes.Nodes {
				if compareScalar(StringOf(stringValueOf(a)), StringOf(stringValueOf(b)), op) {
					return true
				}
			}
		}
		return false
	}
	if l.Kind == NodeSetValue {
		return compareNodeSetScalar(l.Nodes, r, op)
	}
	if r.Kind == NodeSetValue {
		return compareNodeSetScalar(r.Nodes, l, flipOp(op))
	}
	if l.Kind == BooleanValue || r.Kind == BooleanValue {
		return compareScalar(BooleanOf(l.ToBoolean()), BooleanOf(r.ToBoolean()), op)
	}
	if l.Kind == NumberValue || r.Kind == NumberValue {
		return compareScalar(NumberOf(l.ToNumber()), NumberOf(r.ToNumber()), op)
	}
	return compareScalar(StringOf(l.ToString()), StringOf(r.ToString()), op)
}

func compareNodeSetScalar(ns *NodeSet, other Value, op string) bool {
	if other.Kind == BooleanValue {
		return compareScalar(BooleanOf(ns.Len() > 0), other, op)
	}
	for _, n := range ns.Nodes {
		var v Value
		switch other.Kind {
		case NumberValue:
			v = NumberOf(stringToNumber(stringValueOf(n)))
		default:
			v = StringOf(stringValueOf(n))
		}
		if compareScalar(v, other, op) {
			return true
		}
	}
	return false
}

func flipOp(op string) string {
	switch op {
	case "<":
		return ">"
	case "<=":
		return ">="
	case ">":
		return "<"
	case ">=":
		return "<="
	}
	return op
}

func compareScalar(l, r Value, op string) bool {
	switch op {
	case "=":
		if l.Kind == BooleanValue || r.Kind == BooleanValue {
			return l.ToBoolean() == r.ToBoolean()
		}
		if l.Kind == NumberValue || r.Kind == NumberValue {
			return l.ToNumber() == r.ToNumber()
		}
		return l.ToString() == r.ToString()
	case "!=":
		return !compareScalar(l, r, "=")
	case "<":
		return l.ToNumber() < r.ToNumber()
	case "<=":
		return l.ToNumber() <= r.ToNumber()
	case ">":
		return l.ToNumber() > r.ToNumber()
	case ">=":
		return l.ToNumber() >= r.ToNumber()
	}
	return false
}

func evalFilter(e *Expr, ctx *evalContext) (Value, error) {
	v, err := eval(e.Filter, ctx)
	if err != nil {
		return Value{}, err
	}
	if v.Kind != NodeSetValue {
		if len(e.Predicates) == 0 {
			return v, nil
		}
		return Value{}, fmt.Errorf("xpath: predicate applied to non-node-set")
	}
	nodes := v.Nodes.Nodes
	for _, pred := range e.Predicates {
		nodes = applyPredicate(pred, nodes, ctx)
	}
	out := &NodeSet{}
	for _, n := range nodes {
		out.Add(n)
	}
	return NodeSetOf(out), nil
}

func evalPathExpr(e *Expr, ctx *evalContext) (Value, error) {
	var current []NodeNavigator
	if e.Filter != nil {
		fv, err := eval(e.Filter, ctx)
		if err != nil {
			return Value{}, err
		}
		if fv.Kind != NodeSetValue {
			return Value{}, fmt.Errorf("xpath: path expression base is not a node-set")
		}
		current = append(current, fv.Nodes.Nodes...)
	} else if e.Absolute {
		current = []NodeNavigator{ctx.root.Copy()}
	} else {
		current = []NodeNavigator{ctx.node.Copy()}
	}
	for _, step := range e.Steps {
		next, err := evalStep(step, current, ctx)
		if err != nil {
			return Value{}, err
		}
		current = next
	}
	out := &NodeSet{}
	for _, n := range current {
		out.Add(n)
	}
	out.Sort()
	return NodeSetOf(out), nil
}

// evalStep expands a single axis step for every node in input, grouping
// predicate position/size per originating context node — the partitioning
// role the teacher's C ancestor hands to a pointer-keyed multimap.
//
// A step reached by the abbreviated '//' separator first expands its input
// over descendant-or-self::node(), per the standard desugaring of "//NodeTest"
// to "/descendant-or-self::node()/NodeTest" — the step's own axis (usually
// child) then runs from every node in that expanded set.
func evalStep(step Step, input []NodeNavigator, ctx *evalContext) ([]NodeNavigator, error) {
	if step.PathSpec == PathSlashSlash {
		var expanded []NodeNavigator
		for _, n := range input {
			expanded = append(expanded, descendants(n, true)...)
		}
		input = expanded
	}
	var result []NodeNavigator
	for _, ctxNode := range input {
		candidates := axisNodes(step.Axis, ctxNode)
		var filtered []NodeNavigator
		for _, cand := range candidates {
			if nodeTestMatches(step.Test, cand, step.Axis) {
				filtered = append(filtered, cand)
			}
		}
		for _, pred := range step.Predicates {
			filtered = applyPredicateWithContext(pred, filtered, ctx)
		}
		result = append(result, filtered...)
	}
	return result, nil
}

func applyPredicate(pred *Expr, nodes []NodeNavigator, ctx *evalContext) []NodeNavigator {
	return applyPredicateWithContext(pred, nodes, ctx)
}

// ovisit classifies a predicate as statically always-true, always-false,
// or context-dependent, without evaluating it against any node — the
// optimiser pass of §4.4. Only the handful of forms whose truth value
// cannot vary with context/position are recognised; anything else falls
// through to per-node evaluation.
type ovisitResult uint8

const (
	ovisitUnknown ovisitResult = iota
	ovisitAlwaysTrue
	ovisitAlwaysFalse
)

func ovisit(e *Expr) ovisitResult {
	switch e.Kind {
	case KindFunctionCall:
		switch e.FuncName {
		case "true":
			if len(e.Args) == 0 {
				return ovisitAlwaysTrue
			}
		case "false":
			if len(e.Args) == 0 {
				return ovisitAlwaysFalse
			}
		}
	case KindNumber:
		// A bare numeric predicate selects the node at that position
		// (NodeTest[N] sugar for position()=N). A non-positive-integer
		// literal can never match any position in any partition.
		if e.Num <= 0 || e.Num != math.Trunc(e.Num) {
			return ovisitAlwaysFalse
		}
	case KindString:
		if e.Str != "" {
			return ovisitAlwaysTrue
		}
		return ovisitAlwaysFalse
	}
	return ovisitUnknown
}

func applyPredicateWithContext(pred *Expr, nodes []NodeNavigator, outer *evalContext) []NodeNavigator {
	switch ovisit(pred) {
	case ovisitAlwaysTrue:
		return nodes
	case ovisitAlwaysFalse:
		return nil
	}
	size := len(nodes)
	var out []NodeNavigator
	for i, n := range nodes {
		inner := &evalContext{node: n, position: i + 1, size: size, variables: outer.variables, root: outer.root}
		v, err := eval(pred, inner)
		if err != nil {
			continue
		}
		if v.Kind == NumberValue {
			if int(v.Num) == i+1 && float64(int(v.Num)) == v.Num {
				out = append(out, n)
			}
			continue
		}
		if v.ToBoolean() {
			out = append(out, n)
		}
	}
	return out
}

func nodeTestMatches(t NodeTest, n NodeNavigator, axis Axis) bool {
	switch t.Kind {
	case TestNode:
		return true
	case TestText:
		return n.NodeKind() == TextNode
	case TestComment:
		return n.NodeKind() == CommentNode
	case TestPI:
		if n.NodeKind() != ProcessingInstructionNode {
			return false
		}
		return t.PILit == "" || t.PILit == n.LocalName()
	case TestName:
		wantKind := ElementNode
		if axis == AxisAttribute {
			wantKind = AttributeNode
		} else if axis == AxisNamespace {
			wantKind = NamespaceNode
		}
		if n.NodeKind() != wantKind {
			return false
		}
		if t.Local == "*" {
			return t.Prefix == "" || t.Prefix == n.Prefix()
		}
		if t.Prefix != "" && t.Prefix != "*" && t.Prefix != n.Prefix() {
			return false
		}
		return t.Local == n.LocalName()
	}
	return false
}

func axisNodes(axis Axis, n NodeNavigator) []NodeNavigator {
	switch axis {
	case AxisSelf:
		return []NodeNavigator{n.Copy()}
	case AxisChild:
		return children(n)
	case AxisAttribute:
		return attributes(n)
	case AxisNamespace:
		return namespaces(n)
	case AxisParent:
		p := n.Copy()
		if p.MoveToParent() {
			return []NodeNavigator{p}
		}
		return nil
	case AxisDescendant:
		return descendants(n, false)
	case AxisDescendantOrSelf:
		return descendants(n, true)
	case AxisAncestor:
		return ancestors(n, false)
	case AxisAncestorOrSelf:
		return ancestors(n, true)
	case AxisFollowingSibling:
		return followingSiblings(n)
	case AxisPrecedingSibling:
		return precedingSiblings(n)
	case AxisFollowing:
		return following(n)
	case AxisPreceding:
		return preceding(n)
	}
	return nil
}

func children(n NodeNavigator) []NodeNavigator {
	var out []NodeNavigator
	c := n.Copy()
	if !c.MoveToFirstChild() {
		return nil
	}
	for {
		out = append(out, c.Copy())
		if !c.MoveToNextSibling() {
			break
		}
	}
	return out
}

func attributes(n NodeNavigator) []NodeNavigator {
	var out []NodeNavigator
	c := n.Copy()
	if !c.MoveToFirstAttribute() {
		return nil
	}
	for {
		out = append(out, c.Copy())
		if !c.MoveToNextAttribute() {
			break
		}
	}
	return out
}

func namespaces(n NodeNavigator) []NodeNavigator {
	var out []NodeNavigator
	c := n.Copy()
	if !c.MoveToFirstNamespace() {
		return nil
	}
	for {
		out = append(out, c.Copy())
		if !c.MoveToNextNamespace() {
			break
		}
	}
	return out
}

func descendants(n NodeNavigator, includeSelf bool) []NodeNavigator {
	var out []NodeNavigator
	if includeSelf {
		out = append(out, n.Copy())
	}
	var walk func(NodeNavigator)
	walk = func(cur NodeNavigator) {
		c := cur.Copy()
		if !c.MoveToFirstChild() {
			return
		}
		for {
			out = append(out, c.Copy())
			walk(c)
			if !c.MoveToNextSibling() {
				return
			}
		}
	}
	walk(n)
	return out
}

func ancestors(n NodeNavigator, includeSelf bool) []NodeNavigator {
	var out []NodeNavigator
	if includeSelf {
		out = append(out, n.Copy())
	}
	c := n.Copy()
	for c.MoveToParent() {
		out = append(out, c.Copy())
	}
	return out
}

func followingSiblings(n NodeNavigator) []NodeNavigator {
	var out []NodeNavigator
	c := n.Copy()
	for c.MoveToNextSibling() {
		out = append(out, c.Copy())
	}
	return out
}

func precedingSiblings(n NodeNavigator) []NodeNavigator {
	var out []NodeNavigator
	c := n.Copy()
	for c.MoveToPrevSibling() {
		out = append(out, c.Copy())
	}
	return out
}

// documentNodes walks the whole tree from the root in document order.
// following/preceding are rare enough axes that a full-tree walk per
// invocation is an acceptable cost for a correctness-first evaluator.
func documentNodes(root NodeNavigator) []NodeNavigator {
	var out []NodeNavigator
	var walk func(NodeNavigator)
	walk = func(cur NodeNavigator) {
		out = append(out, cur.Copy())
		c := cur.Copy()
		if !c.MoveToFirstChild() {
			return
		}
		for {
			walk(c)
			if !c.MoveToNextSibling() {
				return
			}
		}
	}
	walk(root)
	return out
}

func isAncestorOrSelf(maybeAncestor, n NodeNavigator) bool {
	c := n.Copy()
	for {
		if c.Identity() == maybeAncestor.Identity() {
			return true
		}
		if !c.MoveToParent() {
			return false
		}
	}
}

func following(n NodeNavigator) []NodeNavigator {
	root := n.Copy()
	root.MoveToRoot()
	all := documentNodes(root)
	var out []NodeNavigator
	afterSelf := false
	for _, cand := range all {
		if !afterSelf {
			if cand.Identity() == n.Identity() {
				afterSelf = true
			}
			continue
		}
		if isAncestorOrSelf(n, cand) {
			continue
		}
		out = append(out, cand)
	}
	return out
}

func preceding(n NodeNavigator) []NodeNavigator {
	root := n.Copy()
	root.MoveToRoot()
	all := documentNodes(root)
	var out []NodeNavigator
	for _, cand := range all {
		if cand.Identity() == n.Identity() {
			break
		}
		if isAncestorOrSelf(cand, n) {
			continue
		}
		out = append(out, cand)
	}
	// reverse to nearest-first proximity order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
