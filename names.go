package xmldoc

import "github.com/dlclark/regexp2"

// The XML 1.0 Name/NCName productions are Unicode-category driven
// (NameStartChar includes whole ranges of letters and ideographs). The
// standard library's regexp (RE2) has no Unicode-property escapes, so
// name validation uses regexp2, which supports \p{L} the way .NET/PCRE
// do, the same motivation the rest of the pack reaches for it for.
var (
	ncNamePattern = regexp2.MustCompile(`^[\p{L}_][\p{L}\p{N}_.\-]*$`, regexp2.None)
	qNamePattern  = regexp2.MustCompile(`^[\p{L}_][\p{L}\p{N}_.\-]*(:[\p{L}_][\p{L}\p{N}_.\-]*)?$`, regexp2.None)
)

// isValidNCName reports whether s is a well-formed non-colonized name
// (an element/attribute local part, or a namespace prefix).
func isValidNCName(s string) bool {
	if s == "" {
		return false
	}
	ok, err := ncNamePattern.MatchString(s)
	return err == nil && ok
}

// isValidQName reports whether s is a well-formed (possibly prefixed)
// qualified name as read off the wire, before it is split into prefix/local.
func isValidQName(s string) bool {
	if s == "" {
		return false
	}
	ok, err := qNamePattern.MatchString(s)
	return err == nil && ok
}
