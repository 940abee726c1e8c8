package xmldoc

import "strings"

// parseStartTag is entered right after the scanner has produced TokLT. It
// reads the element name and attribute list, performs namespace
// resolution, attaches the node to the current open parent, and pushes it
// onto the open-element stack unless the tag self-closes.
func (e *engine) parseStartTag(ltTok Token) (Event, error) {
	e.scanner.SetMode(ModeTag)
	nameTok := e.scanner.Next()
	if nameTok.Kind != TokIdent {
		e.recordError(SyntacticError, nameTok.Line, nameTok.Column, false, "expected element name after '<'")
		return Event{Kind: EventNil}, nil
	}
	if !isValidQName(nameTok.Text) {
		e.recordError(LexicalError, nameTok.Line, nameTok.Column, true, "element name %q is not a well-formed Name", nameTok.Text)
	}
	qn := splitQName(nameTok.Text)
	elem := newElement(qn)
	elem.Position = e.nextPosition()

	type rawAttr struct {
		name  string
		value string
		had   bool
		tok   Token
	}
	var rawAttrs []rawAttr
	selfClosing := false
loop:
	for {
		t := e.scanner.Next()
		switch t.Kind {
		case TokIdent:
			attrName := t.Text
			eq := e.scanner.Next()
			if eq.Kind != TokEq {
				e.recordError(SyntacticError, eq.Line, eq.Column, false, "expected '=' after attribute name %q", attrName)
				break loop
			}
			val := e.scanner.Next()
			if val.Kind != TokString {
				e.recordError(SyntacticError, val.Line, val.Column, false, "expected quoted attribute value for %q", attrName)
				break loop
			}
			rawAttrs = append(rawAttrs, rawAttr{name: attrName, value: val.Text, had: val.HasEntity, tok: t})
		case TokGT:
			break loop
		case TokSlashGT:
			selfClosing = true
			break loop
		case TokEOF:
			e.recordError(SyntacticError, t.Line, t.Column, false, "unexpected EOF in start tag <%s>", qn.Combined)
			break loop
		default:
			e.recordError(SyntacticError, t.Line, t.Column, false, "unexpected token in start tag <%s>", qn.Combined)
			break loop
		}
	}
	e.scanner.SetMode(ModeContent)

	// (i) extract xmlns / xmlns:prefix declarations
	var nsEvents []*Node
	var attrEvents []*Node
	for _, a := range rawAttrs {
		switch {
		case a.name == "xmlns":
			ns := &Node{Type: NamespaceNode, IsDefault: true, URI: a.value, Position: e.nextPosition()}
			e.addElementNamespace(elem, ns, a.tok)
			nsEvents = append(nsEvents, ns)
		case strings.HasPrefix(a.name, "xmlns:"):
			prefix := a.name[len("xmlns:"):]
			if prefix == "xmlns" {
				e.recordError(NamespaceError, a.tok.Line, a.tok.Column, false, "the prefix 'xmlns' may not be declared")
				continue
			}
			if prefix == "xml" && a.value != xmlNamespaceURI {
				e.recordError(NamespaceError, a.tok.Line, a.tok.Column, false, "prefix 'xml' must bind to %s", xmlNamespaceURI)
				continue
			}
			ns := &Node{Type: NamespaceNode, URI: a.value, Position: e.nextPosition()}
			ns.Local = prefix
			e.addElementNamespace(elem, ns, a.tok)
			nsEvents = append(nsEvents, ns)
		default:
			if !isValidQName(a.name) {
				e.recordError(LexicalError, a.tok.Line, a.tok.Column, true, "attribute name %q is not a well-formed Name", a.name)
			}
			qa := splitQName(a.name)
			attr := newAttribute(qa, a.value)
			attr.HasEntity = a.had
			if err := setAttribute(elem, attr, e.nextPosition()); err != nil {
				e.recordError(SyntacticError, a.tok.Line, a.tok.Column, false, "%v", err)
			}
			attrEvents = append(attrEvents, attr)
		}
	}

	// (ii) resolve element + attribute prefixes, starting the walk at elem
	// itself (so e.g. <a:e xmlns:a="u"/> resolves against its own just-parsed
	// declaration) before falling back to the open-element stack. elem.Parent
	// is wired up here, ahead of the addChild call below, purely so
	// resolveNamespacePrefix's ancestor walk can reach the stack; addChild
	// sets the identical value right after.
	elem.Parent = e.top()
	if elem.Prefix != "" {
		if ns := resolveNamespacePrefix(elem, elem); ns != nil {
			elem.boundNS = ns
		} else {
			e.recordError(NamespaceError, nameTok.Line, nameTok.Column, false, "unresolved namespace prefix %q", elem.Prefix)
		}
	}
	for _, attr := range attrEvents {
		if attr.Prefix != "" {
			// an attribute never picks up the default (unprefixed) namespace
			if ns := resolveNamespacePrefix(elem, attr); ns != nil && ns.Local != "" {
				attr.attrNS = ns
			} else {
				e.recordError(NamespaceError, nameTok.Line, nameTok.Column, false, "unresolved namespace prefix %q on attribute %q", attr.Prefix, attr.Combined)
			}
		}
	}

	addChild(e.top(), elem)
	if !e.rootSeen {
		e.rootSeen = true
	} else if len(e.stack) == 1 {
		e.recordError(SyntacticError, nameTok.Line, nameTok.Column, false, "multiple root elements")
	}

	if selfClosing {
		// A self-closing tag never opens a content region: it attaches
		// directly under the current parent and never hits the stack. The
		// matching end-element is queued so callers still see a balanced
		// begin/end pair, same as encoding/xml does for "<b/>".
		if len(e.stack) == 1 {
			e.rootClosed = true
		}
		e.pending = append(e.pending, Event{Kind: EventEndElement, Node: elem})
		return Event{Kind: EventBeginElement, Node: elem}, nil
	}

	e.stack = append(e.stack, elem)
	return Event{Kind: EventBeginElement, Node: elem}, nil
}

func (e *engine) addElementNamespace(elem, ns *Node, tok Token) {
	if !e.cfg.AllowDuplicateNamespaces {
		for _, existing := range elem.namespaces {
			if existing.Local == ns.Local {
				e.recordError(NamespaceError, tok.Line, tok.Column, true, "duplicate namespace declaration for prefix %q", ns.Local)
				break
			}
		}
	}
	addNamespace(elem, ns)
}

// resolveNamespacePrefix searches the open-element stack top-down (from
// elem's own declarations upward through its ancestors) for a namespace
// whose declared prefix matches node's prefix.
func resolveNamespacePrefix(elem *Node, node *Node) *Node {
	prefix := node.Prefix
	for e := elem; e != nil; e = e.Parent {
		for _, ns := range e.namespaces {
			if ns.Local == prefix {
				return ns
			}
		}
		if e.Type != ElementNode {
			break
		}
	}
	return nil
}

func (e *engine) parseEndTag(ltslashTok Token) (Event, error) {
	e.scanner.SetMode(ModeTag)
	nameTok := e.scanner.Next()
	gtTok := e.scanner.Next()
	e.scanner.SetMode(ModeContent)
	if nameTok.Kind != TokIdent {
		e.recordError(SyntacticError, nameTok.Line, nameTok.Column, false, "expected element name after '</'")
		return Event{Kind: EventNil}, nil
	}
	if gtTok.Kind != TokGT {
		e.recordError(SyntacticError, gtTok.Line, gtTok.Column, false, "expected '>' to close end tag")
	}
	if len(e.stack) == 1 {
		e.recordError(SyntacticError, ltslashTok.Line, ltslashTok.Column, false, "unmatched end tag </%s>", nameTok.Text)
		return Event{Kind: EventNil}, nil
	}
	top := e.top()
	if top.Combined != nameTok.Text {
		e.recordError(SyntacticError, nameTok.Line, nameTok.Column, false, "mismatched end tag: expected </%s>, got </%s>", top.Combined, nameTok.Text)
	}
	e.stack = e.stack[:len(e.stack)-1]
	if len(e.stack) == 1 {
		e.rootClosed = true
	}
	return Event{Kind: EventEndElement, Node: top}, nil
}

func (e *engine) parseXMLDecl(tok Token) (Event, error) {
	if e.sawXMLDecl {
		e.recordError(SyntacticError, tok.Line, tok.Column, false, "XML declaration must be the first token in the document")
	}
	if e.posCounter > 0 {
		e.recordError(SyntacticError, tok.Line, tok.Column, false, "XML declaration must precede any other content")
	}
	e.sawXMLDecl = true
	n := &Node{Type: XMLDeclarationNode, Position: e.nextPosition()}
	e.scanner.SetMode(ModeTag)
loop:
	for {
		t := e.scanner.Next()
		switch t.Kind {
		case TokIdent:
			name := t.Text
			eq := e.scanner.Next()
			if eq.Kind != TokEq {
				break loop
			}
			val := e.scanner.Next()
			if val.Kind != TokString {
				break loop
			}
			attr := newAttribute(QName{Combined: name, Local: name}, val.Text)
			_ = setAttribute(n, attr, e.nextPosition())
		case TokQuestionGT, TokEOF:
			break loop
		default:
			break loop
		}
	}
	e.scanner.SetMode(ModeContent)
	addChild(e.doc, n)
	return Event{Kind: EventXMLDeclaration, Node: n}, nil
}

func (e *engine) parsePI(tok Token) (Event, error) {
	val, err := e.scanner.ScanPIValue()
	if err != nil {
		e.recordError(LexicalError, tok.Line, tok.Column, false, "%v", err)
		return Event{Kind: EventNil}, nil
	}
	n := &Node{Type: ProcessingInstructionNode, Target: tok.Text, Value: val, Position: e.nextPosition()}
	addChild(e.top(), n)
	return Event{Kind: EventProcessingInstruction, Node: n}, nil
}
