package xmldoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wrapAttr(value string) *Attribute {
	return &Attribute{asNode: &Node{Type: AttributeNode, Value: value}}
}

func TestOrderedMapPreservesInsertionOrder(t *testing.T) {
	m := newOrderedMap()
	m.Set("b", wrapAttr("2"))
	m.Set("a", wrapAttr("1"))
	m.Set("c", wrapAttr("3"))

	assert.Equal(t, []string{"b", "a", "c"}, m.Keys())
	assert.Equal(t, 3, m.Len())

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", v.asNode.Value)
}

func TestOrderedMapSetReplacesAndReportsPrevious(t *testing.T) {
	m := newOrderedMap()
	m.Set("a", wrapAttr("1"))
	prev, existed := m.Set("a", wrapAttr("2"))
	require.True(t, existed)
	assert.Equal(t, "1", prev.asNode.Value)

	v, _ := m.Get("a")
	assert.Equal(t, "2", v.asNode.Value)
	assert.Equal(t, 1, m.Len())
}

func TestOrderedMapDelete(t *testing.T) {
	m := newOrderedMap()
	m.Set("a", wrapAttr("1"))
	m.Set("b", wrapAttr("2"))
	m.Set("c", wrapAttr("3"))

	require.True(t, m.Delete("b"))
	assert.Equal(t, []string{"a", "c"}, m.Keys())
	_, ok := m.Get("b")
	assert.False(t, ok)

	assert.False(t, m.Delete("missing"))
}

func TestGroupTablePartitionsByKey(t *testing.T) {
	parentA := &Node{Local: "a"}
	parentB := &Node{Local: "b"}
	childA1 := &Node{Local: "a1"}
	childA2 := &Node{Local: "a2"}
	childB1 := &Node{Local: "b1"}

	gt := NewGroupTable()
	gt.Put(parentA, childA1)
	gt.Put(parentB, childB1)
	gt.Put(parentA, childA2)

	assert.Equal(t, []*Node{childA1, childA2}, gt.Get(parentA))
	assert.Equal(t, []*Node{childB1}, gt.Get(parentB))
	assert.Equal(t, 2, gt.Len())
	assert.Equal(t, []*Node{parentA, parentB}, gt.Keys())
}

func TestGroupTableNilKeyIsValidGroup(t *testing.T) {
	gt := NewGroupTable()
	orphan := &Node{Local: "root"}
	gt.Put(nil, orphan)
	assert.Equal(t, []*Node{orphan}, gt.Get(nil))
}
