package xpath

import "testing"

func TestLexerTokenizesPathAndPredicate(t *testing.T) {
	toks, err := newLexer(`//book[1]/title[@lang='en']`).tokenize()
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	want := []tokKind{
		tSlashSlash, tName, tLBracket, tNumber, tRBracket,
		tSlash, tName, tLBracket, tAt, tName, tEq, tString, tRBracket, tEOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].kind != k {
			t.Errorf("token %d: got kind %d, want %d (%+v)", i, toks[i].kind, k, toks[i])
		}
	}
}

func TestLexerDisambiguatesStarAsWildcardVsMultiply(t *testing.T) {
	toks, err := newLexer(`*`).tokenize()
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if toks[0].kind != tStar {
		t.Fatalf("expected '*' to tokenize as tStar")
	}

	toks, err = newLexer(`2 * 3`).tokenize()
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if toks[0].kind != tNumber || toks[1].kind != tStar || toks[2].kind != tNumber {
		t.Fatalf("unexpected token sequence: %+v", toks)
	}
}

func TestLexerOperatorWordsOnlyMatchAsOperatorsInOperandPosition(t *testing.T) {
	toks, err := newLexer(`div/and`).tokenize()
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	// At the start of an expression, "div" cannot be a binary operator, so
	// it lexes as a plain name (element test); likewise "and" right after
	// a '/' is a step name, not the boolean operator.
	if toks[0].kind != tName || toks[0].text != "div" {
		t.Fatalf("expected leading 'div' as tName, got %+v", toks[0])
	}
	if toks[2].kind != tName || toks[2].text != "and" {
		t.Fatalf("expected 'and' after '/' as tName, got %+v", toks[2])
	}
}

func TestLexerQualifiedNameAndWildcardForms(t *testing.T) {
	for _, expr := range []string{"a:b", "a:*", "*:b", "*"} {
		toks, err := newLexer(expr).tokenize()
		if err != nil {
			t.Fatalf("tokenize(%q): %v", expr, err)
		}
		if toks[0].text != expr {
			t.Errorf("tokenize(%q): got text %q", expr, toks[0].text)
		}
	}
}

func TestLexerUnterminatedStringIsError(t *testing.T) {
	_, err := newLexer(`"unterminated`).tokenize()
	if err == nil {
		t.Fatalf("expected error for unterminated string literal")
	}
}
