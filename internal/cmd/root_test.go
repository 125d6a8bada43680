package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessRoundTrip(t *testing.T) {
	book := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(book, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(book, "src", "main.rs"), []byte("fn main() {}\n"), 0644))

	chapter := map[string]any{
		"name":         "Intro",
		"content":      "```files\npath = \".\"\n```\n",
		"number":       []int{1},
		"sub_items":    []any{},
		"path":         "intro.md",
		"source_path":  "intro.md",
		"parent_names": []string{},
	}
	input := map[string]any{
		"root": book,
		"config": map[string]any{
			"book":         map[string]any{},
			"preprocessor": map[string]any{"files": map[string]any{"prefix": "src"}},
		},
		"renderer":       "html",
		"mdbook_version": "0.4.40",
	}
	payload, err := json.Marshal([]any{input, map[string]any{
		"sections":         []any{map[string]any{"Chapter": chapter}},
		"__non_exhaustive": nil,
	}})
	require.NoError(t, err)

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetIn(bytes.NewReader(payload))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	var result map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	sections := result["sections"].([]any)
	content := sections[0].(map[string]any)["Chapter"].(map[string]any)["content"].(string)

	assert.NotContains(t, content, "```files")
	assert.Contains(t, content, "class=\"mdbook-files\"")
	assert.Contains(t, content, "fn main() {}")
}

func TestProcessBadInput(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetIn(strings.NewReader("not json"))
	cmd.SetOut(bytes.NewBuffer(nil))
	cmd.SetErr(bytes.NewBuffer(nil))
	cmd.SetArgs([]string{})
	require.Error(t, cmd.Execute())
}

func TestProcessMissingConfig(t *testing.T) {
	payload := fmt.Sprintf(`[
	  {"root": %q, "config": {"book": {}, "preprocessor": {}},
	   "renderer": "html", "mdbook_version": "0.4.40"},
	  {"sections": [], "__non_exhaustive": null}
	]`, t.TempDir())

	cmd := NewRootCommand()
	cmd.SetIn(strings.NewReader(payload))
	cmd.SetOut(bytes.NewBuffer(nil))
	cmd.SetErr(bytes.NewBuffer(nil))
	cmd.SetArgs([]string{})
	require.Error(t, cmd.Execute())
}
