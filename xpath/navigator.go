// Package xpath implements the XPath 1.0 query sublanguage of §4.4: a
// lexer/parser producing a typed AST, a step-evaluation machine over an
// accumulating node-set, the standard function library, and an LRU cache
// for absolute-path sub-expressions.
//
// The engine is decoupled from the host tree representation through the
// NodeNavigator interface below — the same shape the teacher uses to let
// github.com/antchfx/xpath walk an xmlquery.Node without either package
// importing the other.
package xpath

// NodeKind mirrors the subset of node variants XPath's data model cares
// about: element, attribute, text, comment, processing-instruction,
// namespace, and a root pseudo-node. DTD and XML-declaration nodes are
// "prolog types" and are never exposed through a NodeNavigator (scenario c).
type NodeKind uint8

const (
	RootNode NodeKind = iota
	ElementNode
	AttributeNode
	TextNode
	CommentNode
	ProcessingInstructionNode
	NamespaceNode
)

// NodeNavigator is the contract a host tree implements so this package can
// evaluate XPath expressions over it without depending on the host's
// concrete node type. An implementation must support being copied by value
// (Copy) and moved independently of other copies, since the evaluator
// keeps many live navigators during predicate/axis evaluation.
type NodeNavigator interface {
	// NodeKind reports the current node's XPath node-type.
	NodeKind() NodeKind
	// LocalName, Prefix, NamespaceURI, and Value report the current node's
	// identity and string value.
	LocalName() string
	Prefix() string
	NamespaceURI() string
	Value() string
	// Identity returns a stable, comparable key for the current node,
	// used for node-set deduplication and node comparisons in axis walks.
	Identity() interface{}
	// DocumentOrder returns the current node's position in the document,
	// used to sort result node-sets.
	DocumentOrder() int

	// Copy returns an independent navigator positioned at the same node.
	Copy() NodeNavigator

	// MoveToRoot repositions the navigator at the document root.
	MoveToRoot()
	// MoveToParent moves to the current node's parent, reporting success.
	MoveToParent() bool
	// MoveToFirstChild / MoveToNextSibling / MoveToPrevSibling move along
	// the child and sibling axes.
	MoveToFirstChild() bool
	MoveToNextSibling() bool
	MoveToPrevSibling() bool

	// MoveToFirstAttribute / MoveToNextAttribute move along the attribute
	// axis of an element node.
	MoveToFirstAttribute() bool
	MoveToNextAttribute() bool

	// MoveToFirstNamespace / MoveToNextNamespace move along the namespace
	// axis of an element node (in-scope namespaces, innermost first).
	MoveToFirstNamespace() bool
	MoveToNextNamespace() bool
}
