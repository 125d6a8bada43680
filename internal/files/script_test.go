package files

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderScriptDefaultsToFirst(t *testing.T) {
	fileMap := newFileMap("b.rs", "a.rs")

	script, err := RenderScript(fileMap, "")
	require.NoError(t, err)

	// Canonical order puts a.rs first.
	aID, _ := fileMap.ID("a.rs")
	assert.Contains(t, script, fmt.Sprintf("set_visible(%q)", aID.String()))
}

func TestRenderScriptExplicitDefault(t *testing.T) {
	fileMap := newFileMap("a.rs", "b/c.rs")

	script, err := RenderScript(fileMap, "b/c.rs")
	require.NoError(t, err)

	cID, _ := fileMap.ID("b/c.rs")
	assert.Contains(t, script, fmt.Sprintf("set_visible(%q)", cID.String()))
}

func TestRenderScriptUnknownDefault(t *testing.T) {
	fileMap := newFileMap("a.rs")

	_, err := RenderScript(fileMap, "missing.rs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.rs")
}

func TestRenderScriptListsAllIdentifiers(t *testing.T) {
	fileMap := newFileMap("a.rs", "b.rs", "c.rs")

	script, err := RenderScript(fileMap, "")
	require.NoError(t, err)

	for _, p := range fileMap.Paths() {
		id, _ := fileMap.ID(p)
		assert.Contains(t, script, id.String())
	}
	assert.Contains(t, script, "<script>")
	assert.Contains(t, script, "</script>")
	assert.Contains(t, script, "addEventListener")
}

func TestRenderScriptEmptySet(t *testing.T) {
	_, err := RenderScript(&FileMap{ids: nil}, "")
	require.Error(t, err)
}
