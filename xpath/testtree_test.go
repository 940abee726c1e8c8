package xpath

// A minimal in-memory tree + NodeNavigator implementation used only by
// this package's own tests, so the XPath engine can be exercised without
// depending on the sibling xmldoc package (which itself depends on this
// one for navigator wiring).

type fakeNode struct {
	kind     NodeKind
	local    string
	prefix   string
	ns       string
	value    string
	piTarget string

	parent     *fakeNode
	children   []*fakeNode
	attrs      []*fakeNode
	namespaces []*fakeNode

	order int
}

func newFakeDoc() *fakeNode {
	return &fakeNode{kind: RootNode}
}

func (n *fakeNode) addChild(c *fakeNode) *fakeNode {
	c.parent = n
	n.children = append(n.children, c)
	return c
}

func (n *fakeNode) addAttr(local, value string) *fakeNode {
	a := &fakeNode{kind: AttributeNode, local: local, value: value, parent: n}
	n.attrs = append(n.attrs, a)
	return a
}

func (n *fakeNode) addAttrNS(prefix, local, value string) *fakeNode {
	a := &fakeNode{kind: AttributeNode, prefix: prefix, local: local, value: value, parent: n}
	n.attrs = append(n.attrs, a)
	return a
}

func (n *fakeNode) addNamespace(prefix, uri string) *fakeNode {
	ns := &fakeNode{kind: NamespaceNode, local: prefix, value: uri, parent: n}
	n.namespaces = append(n.namespaces, ns)
	return ns
}

// assignOrder numbers every node in the tree in document order — must be
// called once after the whole fixture is built.
func assignOrder(root *fakeNode) {
	counter := 0
	var walk func(*fakeNode)
	walk = func(n *fakeNode) {
		counter++
		n.order = counter
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(root)
}

type fakeNav struct {
	n       *fakeNode
	attrIdx int
	nsIdx   int
	inAttr  bool
	inNS    bool
	nsAll   []*fakeNode
}

func navOf(n *fakeNode) NodeNavigator { return &fakeNav{n: n} }

func (v *fakeNav) NodeKind() NodeKind { return v.n.kind }

func (v *fakeNav) LocalName() string {
	if v.n.kind == ProcessingInstructionNode {
		return v.n.piTarget
	}
	return v.n.local
}

func (v *fakeNav) Prefix() string { return v.n.prefix }

func (v *fakeNav) NamespaceURI() string { return v.n.ns }

func (v *fakeNav) Value() string { return v.n.value }

func (v *fakeNav) Identity() interface{} { return v.n }

func (v *fakeNav) DocumentOrder() int { return v.n.order }

func (v *fakeNav) Copy() NodeNavigator {
	cp := *v
	return &cp
}

func (v *fakeNav) MoveToRoot() {
	n := v.n
	for n.parent != nil {
		n = n.parent
	}
	v.reset(n)
}

func (v *fakeNav) reset(n *fakeNode) {
	v.n = n
	v.attrIdx = 0
	v.nsIdx = 0
	v.inAttr = false
	v.inNS = false
	v.nsAll = nil
}

func (v *fakeNav) MoveToParent() bool {
	if v.n.parent == nil {
		return false
	}
	v.reset(v.n.parent)
	return true
}

func (v *fakeNav) MoveToFirstChild() bool {
	if len(v.n.children) == 0 {
		return false
	}
	v.reset(v.n.children[0])
	return true
}

func (v *fakeNav) indexInParent() int {
	if v.n.parent == nil {
		return -1
	}
	for i, c := range v.n.parent.children {
		if c == v.n {
			return i
		}
	}
	return -1
}

func (v *fakeNav) MoveToNextSibling() bool {
	if v.inAttr || v.inNS {
		return false
	}
	i := v.indexInParent()
	if i < 0 || i+1 >= len(v.n.parent.children) {
		return false
	}
	v.reset(v.n.parent.children[i+1])
	return true
}

func (v *fakeNav) MoveToPrevSibling() bool {
	if v.inAttr || v.inNS {
		return false
	}
	i := v.indexInParent()
	if i <= 0 {
		return false
	}
	v.reset(v.n.parent.children[i-1])
	return true
}

func (v *fakeNav) MoveToFirstAttribute() bool {
	if v.n.kind != ElementNode || len(v.n.attrs) == 0 {
		return false
	}
	v.n = v.n.attrs[0]
	v.attrIdx = 0
	v.inAttr = true
	return true
}

func (v *fakeNav) MoveToNextAttribute() bool {
	if !v.inAttr {
		return false
	}
	parent := v.n.parent
	if v.attrIdx+1 >= len(parent.attrs) {
		return false
	}
	v.attrIdx++
	v.n = parent.attrs[v.attrIdx]
	return true
}

func (v *fakeNav) MoveToFirstNamespace() bool {
	if v.n.kind != ElementNode {
		return false
	}
	var all []*fakeNode
	for e := v.n; e != nil; e = e.parent {
		all = append(all, e.namespaces...)
	}
	if len(all) == 0 {
		return false
	}
	elem := v.n
	v.nsAll = all
	v.nsIdx = 0
	v.n = all[0]
	v.inNS = true
	v.n.parent = elem // ensure OwnerElement-style back-nav stays sane in tests
	return true
}

func (v *fakeNav) MoveToNextNamespace() bool {
	if !v.inNS || v.nsIdx+1 >= len(v.nsAll) {
		return false
	}
	v.nsIdx++
	v.n = v.nsAll[v.nsIdx]
	return true
}
