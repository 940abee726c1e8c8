package xpath

import (
	"fmt"
	"strings"
)

type tokKind uint8

const (
	tEOF tokKind = iota
	tSlash
	tSlashSlash
	tDot
	tDotDot
	tAt
	tColonColon
	tLBracket
	tRBracket
	tLParen
	tRParen
	tPipe
	tPlus
	tMinus
	tStar
	tEq
	tNe
	tLt
	tLe
	tGt
	tGe
	tComma
	tDollar
	tNumber
	tString
	tName // NCName or NCName:NCName or NCName:* or *:NCName or *
	tOperatorName // and, or, div, mod
)

type xtoken struct {
	kind tokKind
	text string
	num  float64
}

type lexer struct {
	src  string
	pos  int
	prev tokKind
	toks []xtoken
}

func newLexer(expr string) *lexer {
	return &lexer{src: expr}
}

func (l *lexer) tokenize() ([]xtoken, error) {
	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}
		l.toks = append(l.toks, t)
		if t.kind == tEOF {
			return l.toks, nil
		}
	}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t' || l.src[l.pos] == '\n' || l.src[l.pos] == '\r') {
		l.pos++
	}
}

// precededByOperand reports whether '*' or '/' etc. should be read as an
// operator (multiply) vs. a node-test, per the XPath 1.0 disambiguation
// rule based on the previous token.
func (l *lexer) precededByOperand() bool {
	switch l.prev {
	case tEOF, tSlash, tSlashSlash, tLBracket, tLParen, tAt, tColonColon, tComma, tPlus, tMinus, tStar, tEq, tNe, tLt, tLe, tGt, tGe, tPipe, tOperatorName:
		return false
	default:
		return true
	}
}

func (l *lexer) next() (xtoken, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		l.prev = tEOF
		return xtoken{kind: tEOF}, nil
	}
	c := l.src[l.pos]
	mk := func(k tokKind, n int) xtoken {
		t := xtoken{kind: k, text: l.src[l.pos : l.pos+n]}
		l.pos += n
		l.prev = k
		return t
	}
	switch {
	case c == '/':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '/' {
			return mk(tSlashSlash, 2), nil
		}
		return mk(tSlash, 1), nil
	case c == '.':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '.' {
			return mk(tDotDot, 2), nil
		}
		if l.pos+1 < len(l.src) && l.src[l.pos+1] >= '0' && l.src[l.pos+1] <= '9' {
			return l.scanNumber()
		}
		return mk(tDot, 1), nil
	case c == '@':
		return mk(tAt, 1), nil
	case c == ':':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == ':' {
			return mk(tColonColon, 2), nil
		}
		return xtoken{}, fmt.Errorf("xpath: unexpected ':' at %d", l.pos)
	case c == '[':
		return mk(tLBracket, 1), nil
	case c == ']':
		return mk(tRBracket, 1), nil
	case c == '(':
		return mk(tLParen, 1), nil
	case c == ')':
		return mk(tRParen, 1), nil
	case c == '|':
		return mk(tPipe, 1), nil
	case c == '+':
		return mk(tPlus, 1), nil
	case c == '-':
		return mk(tMinus, 1), nil
	case c == '*':
		// "*:NCName" is a single name test; a lone '*' is tStar either way
		// and the parser decides between wildcard and multiply by position.
		if !l.precededByOperand() && l.pos+2 < len(l.src) && l.src[l.pos+1] == ':' && isNameStartByte(l.src[l.pos+2]) {
			start := l.pos
			l.pos += 2
			for l.pos < len(l.src) && isNameByte(l.src[l.pos]) {
				l.pos++
			}
			l.prev = tName
			return xtoken{kind: tName, text: l.src[start:l.pos]}, nil
		}
		return mk(tStar, 1), nil
	case c == '=':
		return mk(tEq, 1), nil
	case c == '!':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '=' {
			return mk(tNe, 2), nil
		}
		return xtoken{}, fmt.Errorf("xpath: unexpected '!' at %d", l.pos)
	case c == '<':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '=' {
			return mk(tLe, 2), nil
		}
		return mk(tLt, 1), nil
	case c == '>':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '=' {
			return mk(tGe, 2), nil
		}
		return mk(tGt, 1), nil
	case c == ',':
		return mk(tComma, 1), nil
	case c == '$':
		return mk(tDollar, 1), nil
	case c == '\'' || c == '"':
		return l.scanString(c)
	case c >= '0' && c <= '9':
		return l.scanNumber()
	case isNameStartByte(c):
		return l.scanName()
	}
	return xtoken{}, fmt.Errorf("xpath: unexpected character %q at %d", c, l.pos)
}

func isNameStartByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}

func isNameByte(b byte) bool {
	return isNameStartByte(b) || b == '-' || b == '.' || (b >= '0' && b <= '9')
}

func (l *lexer) scanString(quote byte) (xtoken, error) {
	start := l.pos + 1
	end := strings.IndexByte(l.src[start:], quote)
	if end < 0 {
		return xtoken{}, fmt.Errorf("xpath: unterminated string literal")
	}
	text := l.src[start : start+end]
	l.pos = start + end + 1
	l.prev = tString
	return xtoken{kind: tString, text: text}, nil
}

func (l *lexer) scanNumber() (xtoken, error) {
	start := l.pos
	for l.pos < len(l.src) && (l.src[l.pos] >= '0' && l.src[l.pos] <= '9') {
		l.pos++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.src) && (l.src[l.pos] >= '0' && l.src[l.pos] <= '9') {
			l.pos++
		}
	}
	text := l.src[start:l.pos]
	l.prev = tNumber
	var f float64
	fmt.Sscanf(text, "%g", &f)
	return xtoken{kind: tNumber, text: text, num: f}, nil
}

var xpathOperatorWords = map[string]bool{
	"and": true, "or": true, "div": true, "mod": true,
}

func (l *lexer) scanName() (xtoken, error) {
	start := l.pos
	for l.pos < len(l.src) && isNameByte(l.src[l.pos]) {
		l.pos++
	}
	// qualified name: NCName ':' (NCName | '*')
	if l.pos < len(l.src) && l.src[l.pos] == ':' && l.pos+1 < len(l.src) {
		nb := l.src[l.pos+1]
		if nb == '*' {
			l.pos += 2
		} else if isNameStartByte(nb) {
			l.pos++
			for l.pos < len(l.src) && isNameByte(l.src[l.pos]) {
				l.pos++
			}
		}
	}
	text := l.src[start:l.pos]
	if xpathOperatorWords[text] && l.precededByOperand() {
		l.prev = tOperatorName
		return xtoken{kind: tOperatorName, text: text}, nil
	}
	l.prev = tName
	return xtoken{kind: tName, text: text}, nil
}
