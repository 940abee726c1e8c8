package xmldoc

import "io"

// EventReader is the pull-mode cursor of §4.3: it shares the scanner and
// open-element stack with the tree parser (via engine) but surfaces one
// Event per NextEvent call instead of silently attaching everything to a
// whole-document tree.
type EventReader struct {
	e         *engine
	cur       Event
	done      bool
	autoClose bool
	closed    bool
}

// NewEventReader creates a pull-mode reader over r. When autoClose is
// true, the reader finalizes itself (releasing the document sentinel)
// once EventEndDocument is reached; otherwise the caller must call Close.
func NewEventReader(r io.Reader, cfg Config, autoClose bool) *EventReader {
	return &EventReader{e: newEngine(r, cfg), autoClose: autoClose}
}

// HasEvent reports whether a further call to NextEvent can produce
// anything other than io.EOF. It does not advance the reader.
func (er *EventReader) HasEvent() bool {
	return !er.done
}

// NextEvent advances the engine to the next event. An event the caller
// never consumed (via AsNode/GetData) before this call is silently
// consumed: its payload stays attached to its parser-constructed parent
// and is released with the document.
func (er *EventReader) NextEvent() (Event, error) {
	if er.done {
		return Event{}, io.EOF
	}
	ev, err := er.e.Step()
	if err != nil {
		er.done = true
		if er.autoClose {
			er.Close()
		}
		if err == errEOF {
			return Event{Kind: EventEndDocument}, io.EOF
		}
		return Event{}, err
	}
	er.cur = ev
	return ev, nil
}

// Document returns the (possibly still-growing) document sentinel the
// reader is building against.
func (er *EventReader) Document() *Node { return er.e.doc }

// AsNode detaches the current event's payload node from its
// parser-constructed parent and hands it to the caller, who owns it from
// this point on.
func (er *EventReader) AsNode() *Node {
	if er.cur.Node == nil {
		return nil
	}
	Drop(er.cur.Node)
	er.cur.Consumed = true
	return er.cur.Node
}

// GetData copies the current event's string payload out, then detaches
// (and discards) the underlying node.
func (er *EventReader) GetData() string {
	n := er.cur.Node
	if n == nil {
		return ""
	}
	var s string
	switch n.Type {
	case TextNode, CommentNode, ProcessingInstructionNode, AttributeNode:
		s = n.Value
	case DTDNode:
		s = n.Raw
	case NamespaceNode:
		s = n.URI
	}
	Drop(n)
	er.cur.Consumed = true
	return s
}

// Close releases the document sentinel. Safe to call multiple times.
func (er *EventReader) Close() {
	if er.closed {
		return
	}
	er.closed = true
	er.e.doc = nil
}
