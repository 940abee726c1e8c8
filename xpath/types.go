package xpath

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ValueKind tags the XPath 1.0 data types: node-set, number, string, and
// boolean (§4.4).
type ValueKind uint8

const (
	NodeSetValue ValueKind = iota
	NumberValue
	StringValue
	BooleanValue
)

// NodeSet is a deduplicated, document-order-sorted collection of
// navigators — the "accumulating node-set" of §4.4.
type NodeSet struct {
	Nodes []NodeNavigator
}

func (ns *NodeSet) Len() int { return len(ns.Nodes) }

func (ns *NodeSet) Add(n NodeNavigator) {
	for _, existing := range ns.Nodes {
		if existing.Identity() == n.Identity() {
			return
		}
	}
	ns.Nodes = append(ns.Nodes, n)
}

// Sort orders the set by document position (§4.4 "after each step, results
// deduplicate ... sort by document position" for union; used generally for
// deterministic output).
func (ns *NodeSet) Sort() {
	sort.SliceStable(ns.Nodes, func(i, j int) bool {
		return ns.Nodes[i].DocumentOrder() < ns.Nodes[j].DocumentOrder()
	})
}

// Union merges two node-sets, deduplicating by identity and sorting by
// document position — the semantics of the '|' operator.
func Union(a, b *NodeSet) *NodeSet {
	out := &NodeSet{}
	for _, n := range a.Nodes {
		out.Add(n)
	}
	for _, n := range b.Nodes {
		out.Add(n)
	}
	out.Sort()
	return out
}

// Value is a tagged XPath 1.0 runtime value.
type Value struct {
	Kind    ValueKind
	Num     float64
	Str     string
	Bool    bool
	Nodes   *NodeSet
}

func NumberOf(f float64) Value  { return Value{Kind: NumberValue, Num: f} }
func StringOf(s string) Value   { return Value{Kind: StringValue, Str: s} }
func BooleanOf(b bool) Value    { return Value{Kind: BooleanValue, Bool: b} }
func NodeSetOf(ns *NodeSet) Value {
	if ns == nil {
		ns = &NodeSet{}
	}
	return Value{Kind: NodeSetValue, Nodes: ns}
}

// ToBoolean applies XPath 1.0 boolean() coercion.
func (v Value) ToBoolean() bool {
	switch v.Kind {
	case BooleanValue:
		return v.Bool
	case NumberValue:
		return v.Num != 0 && !math.IsNaN(v.Num)
	case StringValue:
		return len(v.Str) > 0
	case NodeSetValue:
		return v.Nodes != nil && v.Nodes.Len() > 0
	}
	return false
}

// ToNumber applies XPath 1.0 number() coercion.
func (v Value) ToNumber() float64 {
	switch v.Kind {
	case NumberValue:
		return v.Num
	case BooleanValue:
		if v.Bool {
			return 1
		}
		return 0
	case StringValue:
		return stringToNumber(v.Str)
	case NodeSetValue:
		return stringToNumber(v.ToString())
	}
	return math.NaN()
}

func stringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// ToString applies XPath 1.0 string() coercion.
func (v Value) ToString() string {
	switch v.Kind {
	case StringValue:
		return v.Str
	case BooleanValue:
		if v.Bool {
			return "true"
		}
		return "false"
	case NumberValue:
		return formatNumber(v.Num)
	case NodeSetValue:
		if v.Nodes == nil || v.Nodes.Len() == 0 {
			return ""
		}
		first := v.Nodes.Nodes[0]
		for _, n := range v.Nodes.Nodes[1:] {
			if n.DocumentOrder() < first.DocumentOrder() {
				first = n
			}
		}
		return stringValueOf(first)
	}
	return ""
}

// stringValueOf computes a node's XPath string-value: its own Value() for
// most kinds, or the concatenation of descendant text for element/root.
func stringValueOf(n NodeNavigator) string {
	switch n.NodeKind() {
	case ElementNode, RootNode:
		return concatenateDescendantText(n)
	default:
		return n.Value()
	}
}

func concatenateDescendantText(n NodeNavigator) string {
	var buf strings.Builder
	var walk func(NodeNavigator)
	walk = func(cur NodeNavigator) {
		c := cur.Copy()
		if !c.MoveToFirstChild() {
			return
		}
		for {
			switch c.NodeKind() {
			case TextNode:
				buf.WriteString(c.Value())
			case ElementNode:
				walk(c)
			}
			if !c.MoveToNextSibling() {
				return
			}
		}
	}
	walk(n)
	return buf.String()
}

func formatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (v Value) String() string {
	return fmt.Sprintf("%v", v.ToString())
}
