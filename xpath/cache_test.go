package xpath

import "testing"

func TestCompileCachesParsedExpression(t *testing.T) {
	e1, err := Compile("//book[@lang='fr']")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	e2, err := Compile("//book[@lang='fr']")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if e1 != e2 {
		t.Fatalf("expected the second Compile of an identical expression to return the cached *Expr pointer")
	}
}

func TestCompileSurfacesParseErrorAsXPathError(t *testing.T) {
	_, err := Compile("//book[")
	if err == nil {
		t.Fatalf("expected an error")
	}
	xe, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if xe.Unwrap() != ErrParse {
		t.Errorf("expected ErrParse classification, got %v", xe.Unwrap())
	}
}

func TestResultCacheRoundTrip(t *testing.T) {
	rc := newResultCache()
	doc := "doc-identity-key"
	if _, ok := rc.get(doc, "//book"); ok {
		t.Fatalf("expected a miss on an empty cache")
	}
	ns := &NodeSet{}
	rc.put(doc, "//book", ns)
	got, ok := rc.get(doc, "//book")
	if !ok || got != ns {
		t.Fatalf("expected to retrieve the exact node-set stored for (doc, expr)")
	}
	// A different document identity must not see the first document's
	// cached entry even for the identical expression text.
	if _, ok := rc.get("other-doc", "//book"); ok {
		t.Fatalf("expected cache keys to be scoped per document identity")
	}
}

func TestSessionCachesAbsolutePathSelections(t *testing.T) {
	doc := buildLibraryFixture()
	s := NewSession(navOf(doc))

	first, err := s.Select("//book")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	second, err := s.Select("//book")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if first != second {
		t.Fatalf("expected the second absolute-path Select to be served from the session cache")
	}
}

func TestSessionDoesNotCacheRelativeSelections(t *testing.T) {
	doc := buildLibraryFixture()
	book := doc.children[0].children[1] // first <book>
	s := NewSession(navOf(book))

	ns, err := s.Select("title")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if ns.Len() != 1 {
		t.Fatalf("got %d nodes, want 1", ns.Len())
	}
	if _, ok := sharedResultCache.get(s.id, "title"); ok {
		t.Fatalf("expected a relative Select to leave no entry in the result cache")
	}
}
