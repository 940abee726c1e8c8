package xmldoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringsReader(s string) *strings.Reader { return strings.NewReader(s) }

func TestParseBasicTree(t *testing.T) {
	doc, err := Parse(stringsReader(`<root a="1"><child>text</child></root>`))
	require.NoError(t, err)
	require.True(t, doc.WellFormed)
	require.NotNil(t, doc.RootElement)

	root := doc.RootElement
	assert.Equal(t, "root", root.Local)
	assert.Equal(t, "1", root.SelectAttr("a"))

	child := root.SelectElement("child")
	require.NotNil(t, child)
	assert.Equal(t, "text", child.InnerText())
}

func TestAttributePositionOrdering(t *testing.T) {
	doc, err := Parse(stringsReader(`<r><x a="1" b="2"/></r>`))
	require.NoError(t, err)
	x := doc.RootElement.SelectElement("x")
	require.NotNil(t, x)
	attrs := x.Attributes()
	require.Len(t, attrs, 2)
	assert.Equal(t, "a", attrs[0].Local)
	assert.Equal(t, "b", attrs[1].Local)
}

func TestDuplicateAttributeIsWellFormedFalse(t *testing.T) {
	doc, err := Parse(stringsReader(`<r><x a="1" a="2"/></r>`))
	require.NoError(t, err)
	assert.False(t, doc.WellFormed)
	require.Len(t, doc.Diagnostics, 1)
	assert.Equal(t, SyntacticError, doc.Diagnostics[0].Kind)
}

func TestDropDetachesAttribute(t *testing.T) {
	doc, err := Parse(stringsReader(`<r a="1"/>`))
	require.NoError(t, err)
	attr := doc.RootElement.Attr("a")
	require.NotNil(t, attr)
	Drop(attr)
	assert.Nil(t, doc.RootElement.Attr("a"))
}

func TestSelfClosingTagEmitsBalancedEvents(t *testing.T) {
	er := NewEventReader(stringsReader(`<r><b/></r>`), DefaultConfig(), true)
	var kinds []EventKind
	for {
		ev, err := er.NextEvent()
		kinds = append(kinds, ev.Kind)
		if err != nil {
			break
		}
	}
	// Expect: BeginDocument, BeginElement(r), BeginElement(b), EndElement(b), EndElement(r), EndDocument
	assert.Equal(t, EventBeginDocument, kinds[0])
	assert.Contains(t, kinds, EventEndElement)
}

func TestMultipleRootsIsError(t *testing.T) {
	doc, err := Parse(stringsReader(`<a/><b/>`))
	require.NoError(t, err)
	assert.False(t, doc.WellFormed)
}

func TestNamespaceResolution(t *testing.T) {
	doc, err := Parse(stringsReader(`<r xmlns:ns="urn:example"><ns:child/></r>`))
	require.NoError(t, err)
	child := doc.RootElement.FirstChild
	require.NotNil(t, child)
	ns := child.BoundNamespace()
	require.NotNil(t, ns)
	assert.Equal(t, "urn:example", ns.URI)
}

func TestUnresolvedPrefixIsNamespaceError(t *testing.T) {
	doc, err := Parse(stringsReader(`<r><ns:child/></r>`))
	require.NoError(t, err)
	var sawNS bool
	for _, d := range doc.Diagnostics {
		if d.Kind == NamespaceError {
			sawNS = true
		}
	}
	assert.True(t, sawNS)
}

func TestNamespaceResolvesAgainstElementsOwnDeclaration(t *testing.T) {
	doc, err := Parse(stringsReader(`<a:e xmlns:a="urn:example" a:id="1"/>`))
	require.NoError(t, err)
	assert.True(t, doc.WellFormed)

	root := doc.RootElement
	ns := root.BoundNamespace()
	require.NotNil(t, ns)
	assert.Equal(t, "urn:example", ns.URI)

	attr := root.Attributes()[0]
	assert.Equal(t, "urn:example", attr.attrNS.URI)
}

func TestXMLDeclarationAfterContentIsSyntaxError(t *testing.T) {
	doc, err := Parse(stringsReader(`<!--c--><?xml version="1.0"?><r/>`))
	require.NoError(t, err)
	assert.False(t, doc.WellFormed)
	var saw bool
	for _, d := range doc.Diagnostics {
		if d.Kind == SyntacticError {
			saw = true
		}
	}
	assert.True(t, saw)
}

func TestDoctypeAfterRootIsSyntaxError(t *testing.T) {
	doc, err := Parse(stringsReader(`<r/><!DOCTYPE r>`))
	require.NoError(t, err)
	assert.False(t, doc.WellFormed)
	var saw bool
	for _, d := range doc.Diagnostics {
		if d.Kind == SyntacticError {
			saw = true
		}
	}
	assert.True(t, saw)
}
