package xmldoc

import "fmt"

// NodeType discriminates the nine node variants of §3's data model.
type NodeType uint8

const (
	DocumentNode NodeType = iota
	ElementNode
	AttributeNode
	TextNode
	CommentNode
	ProcessingInstructionNode
	NamespaceNode
	DTDNode
	XMLDeclarationNode
)

func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "Document"
	case ElementNode:
		return "Element"
	case AttributeNode:
		return "Attribute"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	case ProcessingInstructionNode:
		return "ProcessingInstruction"
	case NamespaceNode:
		return "Namespace"
	case DTDNode:
		return "DTD"
	case XMLDeclarationNode:
		return "XMLDeclaration"
	default:
		return "Unknown"
	}
}

// xmlNamespaceURI is the canonical URI the reserved "xml" prefix must bind
// to (invariant 7).
const xmlNamespaceURI = "http://www.w3.org/XML/1998/namespace"

// Node is the single tagged-union representation of every variant in the
// data model: a shared header (Type, tree links, document Position) plus
// per-variant payload fields guarded by Type. This mirrors the teacher's
// own single-struct-plus-NodeType design (node.go), generalized from its
// seven kinds to the nine named in §3.
type Node struct {
	// Tree links, valid for Document/Element/Text/Comment/ProcessingInstruction/DTD/XMLDeclaration.
	// Attribute and Namespace nodes are not part of this chain; they are
	// owned by their element's attribute table / namespace list instead.
	Parent, FirstChild, LastChild, PrevSibling, NextSibling *Node

	Type NodeType

	// Document order position, assigned monotonically at parse time
	// (invariant 6). Stable until structural mutation.
	Position int

	// --- Document ---
	Name        string // default "XMLDocument"
	RootElement *Node
	WellFormed  bool
	IsSVG       bool
	Diagnostics []*Diagnostic

	// --- Element / Attribute shared qualified name ---
	QName

	// --- Element ---
	attrs      *OrderedMap
	namespaces []*Node // owned namespace declarations, in declaration order
	boundNS    *Node   // weak: resolved namespace for this element's prefix

	// --- Attribute ---
	Value        string
	numeric      *NumericValue
	attrNS       *Node // weak: resolved namespace for this attribute's prefix
	ownerElement *Node // weak

	// --- Text ---
	IsCDATA   bool
	HasEntity bool

	// --- Comment / ProcessingInstruction ---
	Target string // PI target

	// --- Namespace ---
	URI       string // reused by Namespace for the bound URI
	IsDefault bool
	IsGlobal  bool

	// --- DTD ---
	Raw string
}

// ---- flags (derived, invariant 3) ----

func (n *Node) HasChild() bool {
	return n.FirstChild != nil
}

func (n *Node) HasText() bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == TextNode {
			return true
		}
	}
	return false
}

func (n *Node) HasComment() bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == CommentNode {
			return true
		}
	}
	return false
}

func (n *Node) HasAttribute() bool {
	return n.attrs != nil && n.attrs.Len() > 0
}

func (n *Node) IsSelfEnclosing() bool {
	return n.Type == ElementNode && n.FirstChild == nil
}

func (n *Node) IsNamespaced() bool {
	return n.Prefix != "" || n.boundNS != nil
}

func (n *Node) HasParent() bool {
	return n.Parent != nil
}

// BoundNamespace returns the namespace node this element/attribute's
// prefix resolves to, or nil if unresolved/unprefixed.
func (n *Node) BoundNamespace() *Node {
	switch n.Type {
	case ElementNode:
		return n.boundNS
	case AttributeNode:
		return n.attrNS
	default:
		return nil
	}
}

// OwnerElement returns the weak parent-element back-reference for an
// attribute or namespace node.
func (n *Node) OwnerElement() *Node {
	switch n.Type {
	case AttributeNode:
		return n.ownerElement
	case NamespaceNode:
		return n.Parent
	default:
		return nil
	}
}

// Numeric returns the node's lazily-derived NumericValue, valid for
// Attribute and Text nodes.
func (n *Node) Numeric() NumericValue {
	if n.numeric == nil {
		v := deriveNumeric(n.Value)
		n.numeric = &v
	}
	return *n.numeric
}

// Namespaces returns the namespace declarations owned directly by this
// element (not inherited from ancestors).
func (n *Node) Namespaces() []*Node { return n.namespaces }

// Attr returns the attribute keyed by qualified name qname, or nil.
func (n *Node) Attr(qname string) *Node {
	if n.attrs == nil {
		return nil
	}
	if a, ok := n.attrs.Get(qname); ok {
		return a.asNode
	}
	return nil
}

// Attributes returns the element's attributes ordered by Position.
func (n *Node) Attributes() []*Node {
	if n.attrs == nil {
		return nil
	}
	out := make([]*Node, 0, n.attrs.Len())
	for _, a := range n.attrs.Values() {
		out = append(out, a.asNode)
	}
	return out
}

// Attribute is the wrapper stored in an element's attribute OrderedMap; it
// keeps a back-pointer to the synthesized Attribute Node so both map-style
// (Attr/Attributes) and tree-style (Node.Type == AttributeNode) access work
// against the same underlying value.
type Attribute struct {
	asNode *Node
}

// InnerText concatenates the text/CDATA content under n, depth-first,
// skipping comments and markup — matching the teacher's InnerText.
func (n *Node) InnerText() string {
	var buf []byte
	var walk func(*Node)
	walk = func(n *Node) {
		switch n.Type {
		case TextNode:
			buf = append(buf, n.Value...)
		case CommentNode:
		default:
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
	}
	walk(n)
	return string(buf)
}

// SelectElement returns the first direct child element named name.
func (n *Node) SelectElement(name string) *Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == ElementNode && (c.Local == name || c.Combined == name) {
			return c
		}
	}
	return nil
}

// SelectAttr returns the string value of the attribute qname, or "".
func (n *Node) SelectAttr(qname string) string {
	if a := n.Attr(qname); a != nil {
		return a.Value
	}
	return ""
}

func (n *Node) String() string {
	return fmt.Sprintf("%s(%s)", n.Type, n.Combined)
}

// ---- lifecycle (§3 Lifecycle, §5 Ownership rules, property 4) ----

func addChild(parent, n *Node) {
	n.Parent = parent
	if parent.FirstChild == nil {
		parent.FirstChild = n
	} else {
		parent.LastChild.NextSibling = n
		n.PrevSibling = parent.LastChild
	}
	parent.LastChild = n
	if n.Type == ElementNode && parent.Type == DocumentNode {
		parent.RootElement = n
	}
}

func insertBefore(ref, n *Node) {
	n.Parent = ref.Parent
	n.NextSibling = ref
	n.PrevSibling = ref.PrevSibling
	if ref.PrevSibling != nil {
		ref.PrevSibling.NextSibling = n
	} else if ref.Parent != nil {
		ref.Parent.FirstChild = n
	}
	ref.PrevSibling = n
}

// Drop detaches n from its parent's child list (or attribute/namespace
// table) without freeing it. The caller takes ownership of the resulting
// standalone subtree. No-op for a node that is already detached.
func Drop(n *Node) {
	switch n.Type {
	case AttributeNode:
		if owner := n.ownerElement; owner != nil && owner.attrs != nil {
			owner.attrs.Delete(n.Combined)
		}
		n.ownerElement = nil
		return
	case NamespaceNode:
		if owner := n.Parent; owner != nil {
			for i, ns := range owner.namespaces {
				if ns == n {
					owner.namespaces = append(owner.namespaces[:i], owner.namespaces[i+1:]...)
					break
				}
			}
		}
		n.Parent = nil
		return
	}
	if n.Parent == nil {
		return
	}
	if n.Parent.FirstChild == n {
		n.Parent.FirstChild = n.NextSibling
	}
	if n.Parent.LastChild == n {
		n.Parent.LastChild = n.PrevSibling
	}
	if n.PrevSibling != nil {
		n.PrevSibling.NextSibling = n.NextSibling
	}
	if n.NextSibling != nil {
		n.NextSibling.PrevSibling = n.PrevSibling
	}
	if n.Parent.RootElement == n {
		n.Parent.RootElement = nil
	}
	n.Parent = nil
	n.PrevSibling = nil
	n.NextSibling = nil
}

// Delete detaches n and discards it (and, transitively, anything it owns).
// Go's GC reclaims the memory; Delete exists to make the "detach-then-free"
// lifecycle from §3 explicit and to match the teacher's drop/delete pair.
func Delete(n *Node) {
	Drop(n)
}

func newElement(qname QName) *Node {
	return &Node{Type: ElementNode, QName: qname}
}

func newAttribute(qname QName, value string) *Node {
	return &Node{Type: AttributeNode, QName: qname, Value: value}
}

// setAttribute inserts attr into element's attribute table at the next
// position, returning an error if the key already exists (invariant 4,
// duplicate-attribute detection per §4.2).
func setAttribute(element, attr *Node, position int) error {
	if element.attrs == nil {
		element.attrs = newOrderedMap()
	}
	attr.ownerElement = element
	attr.Position = position
	if _, existed := element.attrs.Set(attr.Combined, &Attribute{asNode: attr}); existed {
		return fmt.Errorf("xmldoc: duplicate attribute %q on <%s>", attr.Combined, element.Combined)
	}
	return nil
}

func addNamespace(element, ns *Node) {
	ns.Parent = element
	element.namespaces = append(element.namespaces, ns)
}
