package xmldoc

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the option bag passed explicitly through parse/serialize calls (§6, §9 "Global configuration"
// design note: the teacher's own ParserOptions/DecoderOptions are a plain
// struct applied per call, and we keep that shape rather than a package
// global).
type Config struct {
	PreserveSpace            bool   `yaml:"preserve_space"`
	PreserveComment          bool   `yaml:"preserve_comment"`
	PreserveCDATA            bool   `yaml:"preserve_cdata"`
	TrimDTD                  bool   `yaml:"trim_dtd"`
	AllowDuplicateNamespaces bool   `yaml:"allow_duplicate_namespaces"`
	ShowWarnings             bool   `yaml:"show_warnings"`
	EnableDebugging          bool   `yaml:"enable_debugging"`
	IndentSpaceSize          int    `yaml:"indent_space_size"`
	TransposeText            bool   `yaml:"transpose_text"`
	StrictTranspose           bool   `yaml:"strict_transpose"`
	ShowDocAsTopLevel        bool   `yaml:"show_doc_as_top_level"`
	PrintFancy               bool   `yaml:"print_fancy"`
	DocName                  string `yaml:"doc_name"`

	// Strict controls the scanner's entity-reference policy: true aborts
	// on malformed/unresolvable references, false passes them through.
	Strict bool `yaml:"strict"`

	// Debug, when non-nil and EnableDebugging is true, receives verbose
	// parser trace lines. No logging framework is used, matching the
	// teacher's dependency-free approach to this concern.
	Debug io.Writer `yaml:"-"`
}

// DefaultConfig mirrors the defaults enumerated in §6.
func DefaultConfig() Config {
	return Config{
		PreserveSpace:   true,
		PreserveComment: true,
		PreserveCDATA:   true,
		IndentSpaceSize: 2,
		TransposeText:   true,
		DocName:         "XMLDocument",
	}
}

func (c *Config) debugf(format string, args ...interface{}) {
	if c.EnableDebugging && c.Debug != nil {
		fmt.Fprintf(c.Debug, format+"\n", args...)
	}
}

func (c Config) clampIndent() int {
	if c.IndentSpaceSize < 1 {
		return 1
	}
	if c.IndentSpaceSize > 30 {
		return 30
	}
	return c.IndentSpaceSize
}

// LoadConfigFile reads a YAML-encoded Config from path, starting from
// DefaultConfig so an unspecified field keeps its default rather than
// zero-valuing booleans that default to true.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("xmldoc: invalid config file %s: %w", path, err)
	}
	return cfg, nil
}
