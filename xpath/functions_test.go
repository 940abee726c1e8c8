package xpath

import (
	"math"
	"testing"
)

func evalString(t *testing.T, expr string, nav NodeNavigator) string {
	t.Helper()
	e, err := parseExpr(expr)
	if err != nil {
		t.Fatalf("parseExpr(%q): %v", expr, err)
	}
	v, err := Eval(e, nav)
	if err != nil {
		t.Fatalf("Eval(%q): %v", expr, err)
	}
	return v.ToString()
}

func evalNumber(t *testing.T, expr string, nav NodeNavigator) float64 {
	t.Helper()
	e, err := parseExpr(expr)
	if err != nil {
		t.Fatalf("parseExpr(%q): %v", expr, err)
	}
	v, err := Eval(e, nav)
	if err != nil {
		t.Fatalf("Eval(%q): %v", expr, err)
	}
	return v.ToNumber()
}

func evalBool(t *testing.T, expr string, nav NodeNavigator) bool {
	t.Helper()
	e, err := parseExpr(expr)
	if err != nil {
		t.Fatalf("parseExpr(%q): %v", expr, err)
	}
	v, err := Eval(e, nav)
	if err != nil {
		t.Fatalf("Eval(%q): %v", expr, err)
	}
	return v.ToBoolean()
}

func TestFunctionsStringLibrary(t *testing.T) {
	nav := navOf(newFakeDoc())
	cases := map[string]string{
		`concat('a', 'b', 'c')`:              "abc",
		`substring('motor car', 1, 5)`:       "motor",
		`substring('metadata', 4)`:           "adata",
		`substring('12345', 1.5, 2.6)`:       "234",
		`substring('12345', 0, 3)`:           "12",
		`substring-before('2024-01-02', '-')`: "2024",
		`substring-after('2024-01-02', '-')`: "01-02",
		`normalize-space('  a   b  c ')`:     "a b c",
		`translate('bar','abc','ABC')`:       "BAr",
		`translate('--aaa--','abc-','ABC')`:  "AAA",
	}
	for expr, want := range cases {
		if got := evalString(t, expr, nav); got != want {
			t.Errorf("%s = %q, want %q", expr, got, want)
		}
	}
}

func TestFunctionsStringLengthUsesRuneCount(t *testing.T) {
	nav := navOf(newFakeDoc())
	if got := evalNumber(t, `string-length('héllo')`, nav); got != 5 {
		t.Errorf("string-length('héllo') = %v, want 5", got)
	}
}

func TestFunctionsNumericLibrary(t *testing.T) {
	nav := navOf(newFakeDoc())
	cases := map[string]float64{
		`floor(3.7)`:   3,
		`ceiling(3.2)`: 4,
		`round(3.5)`:   4,
		`round(-3.5)`:  -3,
		`2 + 3 * 4`:    14,
		`(2 + 3) * 4`:  20,
		`10 mod 3`:     1,
		`10 div 4`:     2.5,
	}
	for expr, want := range cases {
		if got := evalNumber(t, expr, nav); got != want {
			t.Errorf("%s = %v, want %v", expr, got, want)
		}
	}
}

func TestFunctionsRoundOfNaNAndInfinityPassThrough(t *testing.T) {
	nav := navOf(newFakeDoc())
	if got := evalNumber(t, `round(0 div 0)`, nav); !math.IsNaN(got) {
		t.Errorf("round(NaN) = %v, want NaN", got)
	}
}

func TestFunctionsBooleanLibrary(t *testing.T) {
	nav := navOf(newFakeDoc())
	cases := map[string]bool{
		`true()`:                          true,
		`false()`:                         false,
		`not(false())`:                    true,
		`boolean('')`:                     false,
		`boolean('x')`:                    true,
		`starts-with('motor car', 'motor')`: true,
		`contains('motor car', 'car')`:      true,
		`1 = 1`:                           true,
		`1 != 2`:                          true,
		`'10' = 10`:                       true,
	}
	for expr, want := range cases {
		if got := evalBool(t, expr, nav); got != want {
			t.Errorf("%s = %v, want %v", expr, got, want)
		}
	}
}

func TestFunctionsCountAndSumOverNodeSet(t *testing.T) {
	doc := buildLibraryFixture()
	nav := navOf(doc)
	if got := evalNumber(t, `count(//book)`, nav); got != 2 {
		t.Errorf("count(//book) = %v, want 2", got)
	}
	// sum() coerces each node's string-value via number(); book ids aren't
	// numeric, so this exercises the NaN-propagation path of XPath 1.0 sum().
	if got := evalNumber(t, `sum(//book/@id)`, nav); !math.IsNaN(got) {
		t.Errorf("sum(//book/@id) = %v, want NaN (ids aren't numeric)", got)
	}
}

func TestFunctionsWrongArityIsError(t *testing.T) {
	nav := navOf(newFakeDoc())
	e, err := parseExpr(`not()`)
	if err != nil {
		t.Fatalf("parseExpr: %v", err)
	}
	if _, err := Eval(e, nav); err == nil {
		t.Fatalf("expected arity error for not()")
	}
}
