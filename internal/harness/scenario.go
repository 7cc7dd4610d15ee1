package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteCompstate materialises files (paths relative to the compstate
// root, contents as raw YAML text) into a fresh temporary directory and
// returns its path. This is the fixture-construction half of the
// teacher's scenario.go, retargeted from a CUE spec-file list to a
// compstate directory's files.
func WriteCompstate(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}
