package xmldoc

import (
	"os"
)

// LoadFile parses the XML document stored at path under the default
// configuration.
func LoadFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// LoadFileWithConfig is like LoadFile but with an explicit Config.
func LoadFileWithConfig(path string, cfg Config) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseWithConfig(f, cfg)
}

// WriteFile serializes n to path using cfg's formatting options.
func WriteFile(path string, n *Node, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(Serialize(n, cfg))
	return err
}
