package xmldoc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
)

// Serialize walks n emitting well-formed XML per §4.5, honoring cfg's
// indent width, document-wrapper, transposition, and fancy-print options.
func Serialize(n *Node, cfg Config) string {
	var buf bytes.Buffer
	s := serializer{cfg: cfg}
	s.write(&buf, n, 0)
	out := buf.String()
	if cfg.PrintFancy {
		return fmt.Sprintf("[%s]='%s'", n.Type, out)
	}
	return out
}

type serializer struct {
	cfg Config
}

// indentEnabled reports whether this serialization may inject cosmetic
// "\n"+indent runs between siblings. Indentation is only safe to inject
// when the caller isn't also asking to preserve whitespace verbatim —
// otherwise the injected runs would themselves become real, retained text
// nodes on reparse, breaking round-trip for the default configuration.
func (s serializer) indentEnabled() bool {
	return s.cfg.IndentSpaceSize > 0 && !s.cfg.PreserveSpace
}

func (s serializer) indentPrefix(level int) string {
	if !s.indentEnabled() || level == 0 {
		return ""
	}
	return strings.Repeat(" ", s.cfg.clampIndent()*level)
}

func (s serializer) write(buf *bytes.Buffer, n *Node, level int) {
	switch n.Type {
	case DocumentNode:
		s.writeDocument(buf, n, level)
		return
	case TextNode:
		if n.IsCDATA {
			s.writeCDATA(buf, n)
			return
		}
		s.writeText(buf, n.Value)
		return
	case CommentNode:
		buf.WriteString("<!--")
		buf.WriteString(n.Value)
		buf.WriteString("-->")
		return
	case ProcessingInstructionNode:
		buf.WriteString("<?")
		buf.WriteString(n.Target)
		if n.Value != "" {
			buf.WriteByte(' ')
			buf.WriteString(n.Value)
		}
		buf.WriteString("?>")
		return
	case DTDNode:
		buf.WriteString("<!DOCTYPE ")
		buf.WriteString(n.Raw)
		buf.WriteByte('>')
		return
	case XMLDeclarationNode:
		buf.WriteString("<?xml")
		for _, a := range n.Attributes() {
			buf.WriteByte(' ')
			buf.WriteString(a.Local)
			buf.WriteString(`="`)
			s.writeAttrValue(buf, a.Value)
			buf.WriteByte('"')
		}
		buf.WriteString("?>")
		return
	case ElementNode:
		s.writeElement(buf, n, level)
		return
	case AttributeNode:
		buf.WriteString(qualifiedTagName(n))
		buf.WriteString(`="`)
		s.writeAttrValue(buf, n.Value)
		buf.WriteByte('"')
		return
	case NamespaceNode:
		if n.IsDefault {
			buf.WriteString("xmlns")
		} else {
			buf.WriteString("xmlns:" + n.Local)
		}
		buf.WriteString(`="`)
		s.writeAttrValue(buf, n.URI)
		buf.WriteByte('"')
		return
	}
}

func (s serializer) writeDocument(buf *bytes.Buffer, n *Node, level int) {
	if s.cfg.ShowDocAsTopLevel {
		name := n.Name
		if name == "" {
			name = "XMLDocument"
		}
		buf.WriteString("<" + name + ">")
		s.writeChildren(buf, n, level+1)
		if s.indentEnabled() && n.FirstChild != nil {
			buf.WriteString("\n")
			buf.WriteString(s.indentPrefix(level))
		}
		buf.WriteString("</" + name + ">")
		return
	}
	s.writeChildren(buf, n, level)
}

func (s serializer) writeChildren(buf *bytes.Buffer, n *Node, level int) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if s.indentEnabled() && level > 0 && needsOwnLine(c) {
			buf.WriteString("\n")
			buf.WriteString(s.indentPrefix(level))
		}
		s.write(buf, c, level)
	}
}

func needsOwnLine(n *Node) bool {
	switch n.Type {
	case TextNode:
		return false
	default:
		return true
	}
}

func (s serializer) writeElement(buf *bytes.Buffer, n *Node, level int) {
	buf.WriteString("<")
	buf.WriteString(qualifiedTagName(n))
	s.writeAttrsAndNamespaces(buf, n)
	if n.FirstChild == nil {
		buf.WriteString("/>")
		return
	}
	buf.WriteString(">")
	s.writeChildren(buf, n, level+1)
	if s.indentEnabled() && hasNonTextLastChild(n) {
		buf.WriteString("\n")
		buf.WriteString(s.indentPrefix(level))
	}
	buf.WriteString("</")
	buf.WriteString(qualifiedTagName(n))
	buf.WriteString(">")
}

func hasNonTextLastChild(n *Node) bool {
	return n.LastChild != nil && n.LastChild.Type != TextNode
}

func qualifiedTagName(n *Node) string {
	if n.Prefix == "" {
		return n.Local
	}
	return n.Prefix + ":" + n.Local
}

// orderedAttr is a uniform view over the attribute/namespace position
// ordering: §4.5 sorts both kinds together by their recorded position.
type orderedAttr struct {
	node *Node
}

func (s serializer) writeAttrsAndNamespaces(buf *bytes.Buffer, n *Node) {
	var all []orderedAttr
	for _, a := range n.Attributes() {
		all = append(all, orderedAttr{a})
	}
	for _, ns := range n.Namespaces() {
		if ns.IsGlobal {
			continue
		}
		all = append(all, orderedAttr{ns})
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].node.Position < all[j].node.Position
	})
	for _, oa := range all {
		node := oa.node
		switch node.Type {
		case AttributeNode:
			buf.WriteByte(' ')
			buf.WriteString(qualifiedTagName(node))
			buf.WriteString(`="`)
			s.writeAttrValue(buf, node.Value)
			buf.WriteByte('"')
		case NamespaceNode:
			buf.WriteByte(' ')
			if node.IsDefault {
				buf.WriteString("xmlns")
			} else {
				buf.WriteString("xmlns:" + node.Local)
			}
			buf.WriteString(`="`)
			s.writeAttrValue(buf, node.URI)
			buf.WriteByte('"')
		}
	}
}

func (s serializer) writeText(buf *bytes.Buffer, text string) {
	if !s.cfg.TransposeText {
		buf.WriteString(text)
		return
	}
	if s.cfg.StrictTranspose {
		xml.EscapeText(buf, []byte(text))
		return
	}
	escapeMinimal(buf, text)
}

func (s serializer) writeAttrValue(buf *bytes.Buffer, text string) {
	if s.cfg.StrictTranspose {
		xml.EscapeText(buf, []byte(text))
		return
	}
	escapeMinimal(buf, text)
}

// writeCDATA emits a CDATA section, splitting it ("]]]]><![CDATA[>...")
// only where the raw content would otherwise prematurely terminate the
// section — forward transposition, never full entity escaping.
func (s serializer) writeCDATA(buf *bytes.Buffer, n *Node) {
	buf.WriteString("<![CDATA[")
	buf.WriteString(strings.ReplaceAll(n.Value, "]]>", "]]]]><![CDATA[>"))
	buf.WriteString("]]>")
}

func escapeMinimal(buf *bytes.Buffer, s string) {
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
}
