package xmldoc

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventReaderPullSequence(t *testing.T) {
	er := NewEventReader(strings.NewReader(`<root><a>1</a><b/></root>`), DefaultConfig(), true)

	first, err := er.NextEvent()
	require.NoError(t, err)
	assert.Equal(t, EventBeginDocument, first.Kind)

	var sawElements []string
	for {
		ev, err := er.NextEvent()
		if ev.Kind == EventBeginElement {
			sawElements = append(sawElements, ev.Node.Local)
		}
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"root", "a", "b"}, sawElements)
}

func TestEventReaderAsNodeTransfersOwnership(t *testing.T) {
	er := NewEventReader(strings.NewReader(`<root><a>x</a></root>`), DefaultConfig(), true)
	_, _ = er.NextEvent() // BeginDocument
	_, _ = er.NextEvent() // BeginElement root

	ev, err := er.NextEvent() // BeginElement a
	require.NoError(t, err)
	require.Equal(t, "a", ev.Node.Local)

	node := er.AsNode()
	require.NotNil(t, node)
	assert.True(t, er.cur.Consumed)
	assert.Nil(t, node.Parent)
}

func TestEventReaderGetDataOnText(t *testing.T) {
	er := NewEventReader(strings.NewReader(`<root>hello</root>`), DefaultConfig(), true)
	_, _ = er.NextEvent() // BeginDocument
	_, _ = er.NextEvent() // BeginElement root
	ev, err := er.NextEvent()
	require.NoError(t, err)
	require.Equal(t, EventText, ev.Kind)
	assert.Equal(t, "hello", er.GetData())
}
