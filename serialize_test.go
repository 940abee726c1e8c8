package xmldoc

import (
	"strings"
	"testing"

	"github.com/bradleyjkemp/cupaloy"
	"github.com/stretchr/testify/require"
)

var snapshotter = cupaloy.New(cupaloy.SnapshotSubdirectory("testdata/snapshots"))

func TestSerializeRoundTrip(t *testing.T) {
	const src = `<root a="1" b="2"><child>hello &amp; goodbye</child><!--note--></root>`
	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	out := Serialize(doc, DefaultConfig())
	reparsed, err := Parse(strings.NewReader(out))
	require.NoError(t, err)

	require.Equal(t, doc.RootElement.Local, reparsed.RootElement.Local)
	require.Equal(t, doc.RootElement.SelectAttr("a"), reparsed.RootElement.SelectAttr("a"))
	require.Equal(t, doc.RootElement.InnerText(), reparsed.RootElement.InnerText())
}

func TestSerializeAttributeOrderByPosition(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<r><x a="1" b="2"/></r>`))
	require.NoError(t, err)
	x := doc.RootElement.SelectElement("x")
	out := Serialize(x, DefaultConfig())
	require.Equal(t, `<x a="1" b="2"/>`, out)
}

func TestSerializeStrictTransposeEscapesEntities(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<r>&lt;b&gt;</r>`))
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.StrictTranspose = true
	cfg.IndentSpaceSize = 0
	out := Serialize(doc, cfg)
	require.Equal(t, `<r>&lt;b&gt;</r>`, out)
}

func TestSerializeStandaloneAttributeNode(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<r x="1"/>`))
	require.NoError(t, err)
	attr := doc.RootElement.Attributes()[0]
	out := Serialize(attr, DefaultConfig())
	require.Equal(t, `x="1"`, out)
}

func TestSerializeStandaloneNamespaceNode(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<r xmlns:a="urn:example"/>`))
	require.NoError(t, err)
	ns := doc.RootElement.Namespaces()[0]
	out := Serialize(ns, DefaultConfig())
	require.Equal(t, `xmlns:a="urn:example"`, out)
}

func TestSerializeIndentsOnlyWhenNotPreservingSpace(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<root><child>hi</child><!--note--></root>`))
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.PreserveSpace = false
	out := Serialize(doc, cfg)
	require.Contains(t, out, "\n  <child>")

	reparsed, err := Parse(strings.NewReader(out))
	require.NoError(t, err)
	require.NotEqual(t, doc.RootElement.InnerText(), reparsed.RootElement.InnerText())
}

func TestSerializeCDATAEscapesTerminator(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<r><![CDATA[a]]></r>`))
	require.NoError(t, err)
	cdata := doc.RootElement.FirstChild
	require.True(t, cdata.IsCDATA)
	require.Equal(t, "a", cdata.Value)

	// Each parsed CDATA section ends at its first "]]>", so the terminator
	// is put into the node's value directly to exercise the split.
	cdata.Value = "a]]>b"
	cfg := DefaultConfig()
	cfg.IndentSpaceSize = 0
	out := Serialize(doc, cfg)
	require.Equal(t, `<r><![CDATA[a]]]]><![CDATA[>b]]></r>`, out)
}
