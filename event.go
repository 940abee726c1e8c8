package xmldoc

import "io"

// EventKind enumerates the pull-reader event vocabulary of §4.3. Nil and
// RecoverableError are internal transients: the engine loops past them
// without surfacing them to EventReader callers, recording the latter as a
// Diagnostic instead.
type EventKind uint8

const (
	EventNil EventKind = iota
	EventBeginDocument
	EventBeginElement
	EventAttribute
	EventNamespace
	EventNamespaceAttribute
	EventText
	EventCDATA
	EventComment
	EventProcessingInstruction
	EventDTD
	EventXMLDeclaration
	EventEndElement
	EventEndDocument
	EventRecoverableError
)

// Event is one step of the pull-reader state machine (§4.3). Node is the
// payload node, already attached to its parser-constructed parent; it is
// only detached when the caller explicitly consumes it via one of the
// As*/Data accessors on EventReader.
type Event struct {
	Kind    EventKind
	Node    *Node
	Consumed bool
}

// engine is the shared scanner-driven state machine that both Parse and
// EventReader drive. Divergence between "tree parser" and "pull reader" is
// purely a matter of whether the caller looks at the attached tree or at
// the Event stream — the construction logic (namespace resolution,
// attribute positioning, error recording) is identical, per §4.2/§4.3.
type engine struct {
	scanner *Scanner
	cfg     Config
	doc     *Node
	stack   []*Node // open-element stack; stack[0] is always the document sentinel
	sawXMLDecl    bool
	rootSeen      bool
	rootClosed    bool
	posCounter    int
	globalNSDone  bool
	started       bool
	pending       []Event
	err           error
}

func newEngine(r io.Reader, cfg Config) *engine {
	sc := NewScanner(r, cfg.Strict)
	doc := &Node{Type: DocumentNode, Name: cfg.docName(), WellFormed: true}
	e := &engine{scanner: sc, cfg: cfg, doc: doc, stack: []*Node{doc}}
	return e
}

func (c Config) docName() string {
	if c.DocName != "" {
		return c.DocName
	}
	return "XMLDocument"
}

func (e *engine) top() *Node { return e.stack[len(e.stack)-1] }

func (e *engine) nextPosition() int {
	e.posCounter++
	return e.posCounter
}

func (e *engine) recordError(kind ErrorKind, line, col int, warning bool, format string, args ...interface{}) *Diagnostic {
	d := newDiagnostic(kind, line, col, warning, format, args...)
	e.doc.Diagnostics = append(e.doc.Diagnostics, d)
	if !warning {
		e.doc.WellFormed = false
	}
	e.cfg.debugf("[%s] %s", kind, d.Message)
	return d
}

func (e *engine) injectGlobalNamespaces() {
	if e.globalNSDone {
		return
	}
	e.globalNSDone = true
	ns := &Node{Type: NamespaceNode, IsGlobal: true}
	ns.Local = "xml"
	ns.URI = xmlNamespaceURI
	addNamespace(e.doc, ns)
}

// Step advances the engine by zero-or-more tokens and returns exactly one
// externally-visible event, or errEOF once the document is exhausted.
func (e *engine) Step() (Event, error) {
	if !e.started {
		e.started = true
		e.injectGlobalNamespaces()
		return Event{Kind: EventBeginDocument, Node: e.doc}, nil
	}
	if len(e.pending) > 0 {
		ev := e.pending[0]
		e.pending = e.pending[1:]
		return ev, nil
	}
	for {
		ev, err := e.step1()
		if err != nil {
			return Event{}, err
		}
		if ev.Kind == EventNil {
			continue
		}
		return ev, nil
	}
}

func (e *engine) step1() (Event, error) {
	e.scanner.SetMode(ModeContent)
	tok := e.scanner.Next()
	switch tok.Kind {
	case TokEOF:
		if len(e.stack) != 1 {
			e.recordError(SyntacticError, tok.Line, tok.Column, false, "unclosed element <%s> at end of document", e.top().Combined)
		}
		if !e.rootSeen {
			e.recordError(SyntacticError, tok.Line, tok.Column, false, "document contains no root element")
		}
		return Event{Kind: EventEndDocument}, errEOF
	case TokError:
		e.recordError(LexicalError, tok.Line, tok.Column, false, "%v", tok.Err)
		return Event{Kind: EventNil}, nil
	case TokLT:
		return e.parseStartTag(tok)
	case TokLTSlash:
		return e.parseEndTag(tok)
	case TokComment:
		return e.emitComment(tok), nil
	case TokCDATA:
		return e.emitCDATA(tok), nil
	case TokText:
		return e.emitText(tok), nil
	case TokDoctype:
		return e.emitDTD(tok), nil
	case TokXMLDeclOpen:
		return e.parseXMLDecl(tok)
	case TokPIOpen:
		return e.parsePI(tok)
	default:
		e.recordError(SyntacticError, tok.Line, tok.Column, false, "unexpected token")
		return Event{Kind: EventNil}, nil
	}
}

var errEOF = endOfDocument{}

type endOfDocument struct{}

func (endOfDocument) Error() string { return "EOF" }

func isWhitespaceOnly(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

func (e *engine) contentPositionOK(tok Token, text string) bool {
	if e.rootSeen && !e.rootClosed {
		return true
	}
	if isWhitespaceOnly(text) {
		return true
	}
	where := "before"
	if e.rootClosed {
		where = "after"
	}
	e.recordError(SyntacticError, tok.Line, tok.Column, false, "non-whitespace content %s root element", where)
	return false
}

func (e *engine) emitText(tok Token) Event {
	if !e.contentPositionOK(tok, tok.Text) {
		return Event{Kind: EventNil}
	}
	if !e.cfg.PreserveSpace && isWhitespaceOnly(tok.Text) {
		return Event{Kind: EventNil}
	}
	n := &Node{Type: TextNode, Value: tok.Text, HasEntity: tok.HasEntity, Position: e.nextPosition()}
	addChild(e.top(), n)
	return Event{Kind: EventText, Node: n}
}

func (e *engine) emitCDATA(tok Token) Event {
	if !e.contentPositionOK(tok, tok.Text) {
		return Event{Kind: EventNil}
	}
	if !e.cfg.PreserveCDATA {
		return Event{Kind: EventNil}
	}
	n := &Node{Type: TextNode, IsCDATA: true, Value: tok.Text, Position: e.nextPosition()}
	addChild(e.top(), n)
	return Event{Kind: EventCDATA, Node: n}
}

func (e *engine) emitComment(tok Token) Event {
	if !e.cfg.PreserveComment {
		return Event{Kind: EventNil}
	}
	n := &Node{Type: CommentNode, Value: tok.Text, Position: e.nextPosition()}
	addChild(e.top(), n)
	return Event{Kind: EventComment, Node: n}
}

func (e *engine) emitDTD(tok Token) Event {
	if e.rootSeen {
		e.recordError(SyntacticError, tok.Line, tok.Column, false, "DOCTYPE declaration must precede the root element")
	}
	raw := tok.Text
	if e.cfg.TrimDTD {
		raw = collapseWhitespace(raw)
	}
	n := &Node{Type: DTDNode, Raw: raw, Position: e.nextPosition()}
	addChild(e.doc, n)
	return Event{Kind: EventDTD, Node: n}
}

func collapseWhitespace(s string) string {
	var out []byte
	prevSpace := false
	for i := 0; i < len(s); i++ {
		if isSpace(s[i]) {
			if !prevSpace {
				out = append(out, ' ')
			}
			prevSpace = true
		} else {
			out = append(out, s[i])
			prevSpace = false
		}
	}
	return string(out)
}
