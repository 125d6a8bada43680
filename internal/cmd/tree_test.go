package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestTreeCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "b"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "a.rs"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "b", "c.rs"), nil, 0644))
	chdir(t, dir)

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"tree", "src"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "a.rs")
	assert.Contains(t, out.String(), "b")
	assert.Contains(t, out.String(), "c.rs")
}

func TestTreeCommandOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "a.rs"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "b.txt"), nil, 0644))
	chdir(t, dir)

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"tree", "src", "--files", "*.rs"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "a.rs")
	assert.NotContains(t, out.String(), "b.txt")
}

func TestTreeCommandNoMatches(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0755))
	chdir(t, dir)

	cmd := NewRootCommand()
	cmd.SetOut(bytes.NewBuffer(nil))
	cmd.SetErr(bytes.NewBuffer(nil))
	cmd.SetArgs([]string{"tree", "src"})
	require.Error(t, cmd.Execute())
}
