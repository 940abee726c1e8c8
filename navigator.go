package xmldoc

import "github.com/doctree-go/xmldoc/xpath"

// nodeNavigator is this package's NodeNavigator implementation — the
// direct analogue of how the teacher plugs xmlquery.Node into
// github.com/antchfx/xpath, except here the xpath engine lives in the
// sibling xmldoc/xpath subpackage instead of an external module.
type nodeNavigator struct {
	cur *Node

	attrs   []*Node
	attrIdx int
	nss     []*Node
	nsIdx   int
}

// NewNavigator returns an xpath.NodeNavigator positioned at n, suitable
// for passing to xpath.Eval or xpath.NewSession.
func NewNavigator(n *Node) xpath.NodeNavigator {
	return &nodeNavigator{cur: n}
}

func isExposedKind(t NodeType) bool {
	return t != DTDNode && t != XMLDeclarationNode
}

func (nv *nodeNavigator) NodeKind() xpath.NodeKind {
	switch nv.cur.Type {
	case DocumentNode:
		return xpath.RootNode
	case ElementNode:
		return xpath.ElementNode
	case AttributeNode:
		return xpath.AttributeNode
	case TextNode:
		return xpath.TextNode
	case CommentNode:
		return xpath.CommentNode
	case ProcessingInstructionNode:
		return xpath.ProcessingInstructionNode
	case NamespaceNode:
		return xpath.NamespaceNode
	default:
		return xpath.RootNode
	}
}

func (nv *nodeNavigator) LocalName() string {
	switch nv.cur.Type {
	case ProcessingInstructionNode:
		return nv.cur.Target
	case ElementNode, AttributeNode, NamespaceNode:
		return nv.cur.Local
	default:
		return ""
	}
}

func (nv *nodeNavigator) Prefix() string {
	switch nv.cur.Type {
	case ElementNode, AttributeNode:
		return nv.cur.Prefix
	default:
		return ""
	}
}

func (nv *nodeNavigator) NamespaceURI() string {
	if ns := nv.cur.BoundNamespace(); ns != nil {
		return ns.URI
	}
	return ""
}

func (nv *nodeNavigator) Value() string {
	switch nv.cur.Type {
	case TextNode, AttributeNode, CommentNode, ProcessingInstructionNode:
		return nv.cur.Value
	case NamespaceNode:
		return nv.cur.URI
	default:
		return nv.cur.InnerText()
	}
}

func (nv *nodeNavigator) Identity() interface{} { return nv.cur }

func (nv *nodeNavigator) DocumentOrder() int { return nv.cur.Position }

func (nv *nodeNavigator) Copy() xpath.NodeNavigator {
	cp := *nv
	return &cp
}

func (nv *nodeNavigator) MoveToRoot() {
	n := nv.cur
	for n.Parent != nil {
		n = n.Parent
	}
	nv.reset(n)
}

func (nv *nodeNavigator) reset(n *Node) {
	nv.cur = n
	nv.attrs = nil
	nv.attrIdx = 0
	nv.nss = nil
	nv.nsIdx = 0
}

func (nv *nodeNavigator) MoveToParent() bool {
	switch nv.cur.Type {
	case AttributeNode:
		p := nv.cur.OwnerElement()
		if p == nil {
			return false
		}
		nv.reset(p)
		return true
	default:
		if nv.cur.Parent == nil {
			return false
		}
		nv.reset(nv.cur.Parent)
		return true
	}
}

func (nv *nodeNavigator) MoveToFirstChild() bool {
	c := nv.cur.FirstChild
	for c != nil && !isExposedKind(c.Type) {
		c = c.NextSibling
	}
	if c == nil {
		return false
	}
	nv.reset(c)
	return true
}

func (nv *nodeNavigator) MoveToNextSibling() bool {
	if nv.cur.Type == AttributeNode || nv.cur.Type == NamespaceNode {
		return false
	}
	c := nv.cur.NextSibling
	for c != nil && !isExposedKind(c.Type) {
		c = c.NextSibling
	}
	if c == nil {
		return false
	}
	nv.reset(c)
	return true
}

func (nv *nodeNavigator) MoveToPrevSibling() bool {
	if nv.cur.Type == AttributeNode || nv.cur.Type == NamespaceNode {
		return false
	}
	c := nv.cur.PrevSibling
	for c != nil && !isExposedKind(c.Type) {
		c = c.PrevSibling
	}
	if c == nil {
		return false
	}
	nv.reset(c)
	return true
}

func (nv *nodeNavigator) MoveToFirstAttribute() bool {
	if nv.cur.Type != ElementNode {
		return false
	}
	attrs := nv.cur.Attributes()
	if len(attrs) == 0 {
		return false
	}
	nv.attrs = attrs
	nv.attrIdx = 0
	nv.nss = nil
	nv.cur = attrs[0]
	return true
}

func (nv *nodeNavigator) MoveToNextAttribute() bool {
	if nv.attrs == nil || nv.attrIdx+1 >= len(nv.attrs) {
		return false
	}
	nv.attrIdx++
	nv.cur = nv.attrs[nv.attrIdx]
	return true
}

func (nv *nodeNavigator) MoveToFirstNamespace() bool {
	elem := nv.cur
	if elem.Type != ElementNode {
		return false
	}
	var all []*Node
	for e := elem; e != nil; e = e.Parent {
		if e.Type != ElementNode {
			continue
		}
		all = append(all, e.Namespaces()...)
	}
	if len(all) == 0 {
		return false
	}
	nv.nss = all
	nv.nsIdx = 0
	nv.attrs = nil
	nv.cur = all[0]
	return true
}

func (nv *nodeNavigator) MoveToNextNamespace() bool {
	if nv.nss == nil || nv.nsIdx+1 >= len(nv.nss) {
		return false
	}
	nv.nsIdx++
	nv.cur = nv.nss[nv.nsIdx]
	return true
}
