package xmldoc

import (
	"fmt"
	"io"
	"net/http"
	"regexp"

	"golang.org/x/net/html/charset"
)

var xmlMIMERegex = regexp.MustCompile(`(?i)((application|image|message|model)/((\w|\.|-)+\+?)?|text/)(wb)?xml`)

// Parse returns the parse tree for the XML read from r, under the default
// configuration.
func Parse(r io.Reader) (*Node, error) {
	return ParseWithConfig(r, DefaultConfig())
}

// ParseWithConfig is like Parse but with an explicit, caller-supplied
// Config (§9 "Global configuration": threaded per call rather than a
// package-wide mutable global).
func ParseWithConfig(r io.Reader, cfg Config) (*Node, error) {
	e := newEngine(r, cfg)
	for {
		_, err := e.Step()
		if err != nil {
			if err == errEOF {
				return e.doc, nil
			}
			return nil, err
		}
	}
}

// LoadURL fetches and parses the XML document at url.
func LoadURL(url string) (*Node, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if !xmlMIMERegex.MatchString(resp.Header.Get("Content-Type")) {
		return nil, fmt.Errorf("xmldoc: invalid XML document (%s)", resp.Header.Get("Content-Type"))
	}
	// Transcode to UTF-8 per the declared (or sniffed) charset before the
	// byte-level scanner ever sees the stream; the scanner itself has no
	// concept of encodings beyond raw bytes.
	utf8Body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("xmldoc: %w", err)
	}
	return Parse(utf8Body)
}
