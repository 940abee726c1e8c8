package xmldoc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.PreserveSpace)
	assert.True(t, cfg.PreserveComment)
	assert.True(t, cfg.PreserveCDATA)
	assert.Equal(t, 2, cfg.IndentSpaceSize)
	assert.Equal(t, "XMLDocument", cfg.DocName)
}

func TestClampIndent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IndentSpaceSize = 0
	assert.Equal(t, 1, cfg.clampIndent())
	cfg.IndentSpaceSize = 1000
	assert.Equal(t, 30, cfg.clampIndent())
	cfg.IndentSpaceSize = 4
	assert.Equal(t, 4, cfg.clampIndent())
}

func TestLoadConfigFileOverridesOnlyGivenFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("indent_space_size: 4\nstrict: true\n"), 0o644))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.IndentSpaceSize)
	assert.True(t, cfg.Strict)
	// Fields absent from the file keep DefaultConfig's values.
	assert.True(t, cfg.PreserveComment)
	assert.Equal(t, "XMLDocument", cfg.DocName)
}

func TestLoadConfigFileMissingPath(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
