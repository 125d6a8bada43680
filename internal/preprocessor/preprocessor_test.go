package preprocessor

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xfbs/mdbook-files/internal/logger"
)

// newTestPreprocessor builds a book fixture on disk and a preprocessor
// configured with its root as prefix.
func newTestPreprocessor(t *testing.T, entries map[string]string) *Preprocessor {
	t.Helper()
	prefix := t.TempDir()
	for rel, content := range entries {
		full := filepath.Join(prefix, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}

	input := fmt.Sprintf(`[
	  {"root": %q, "config": {"book": {}, "preprocessor": {"files": {"prefix": "."}}},
	   "renderer": "html", "mdbook_version": "0.4.40"},
	  {"sections": [], "__non_exhaustive": null}
	]`, prefix)
	ctx, _, err := ParseInput(strings.NewReader(input))
	require.NoError(t, err)

	pre, err := New(ctx, logger.New(io.Discard, ""))
	require.NoError(t, err)
	return pre
}

func TestNewRequiresPrefix(t *testing.T) {
	input := `[
	  {"root": "/book", "config": {"book": {}, "preprocessor": {"files": {}}},
	   "renderer": "html", "mdbook_version": "0.4.40"},
	  {"sections": [], "__non_exhaustive": null}
	]`
	ctx, _, err := ParseInput(strings.NewReader(input))
	require.NoError(t, err)

	_, err = New(ctx, logger.New(io.Discard, ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prefix")
}

func TestMapMarkdownPassthrough(t *testing.T) {
	pre := newTestPreprocessor(t, nil)

	source := "# Chapter\n\nno blocks here\n\n```rust\nfn main() {}\n```\n"
	out, err := pre.MapMarkdown(source)
	require.NoError(t, err)
	assert.Equal(t, source, out)
}

func TestMapMarkdownRewritesBlock(t *testing.T) {
	pre := newTestPreprocessor(t, map[string]string{
		"src/a.rs":   "fn main() {}\n",
		"src/b/c.rs": "mod c;\n",
	})

	source := "intro\n\n```files\npath = \"src\"\n```\n\noutro\n"
	out, err := pre.MapMarkdown(source)
	require.NoError(t, err)

	assert.NotContains(t, out, "```files")
	assert.Contains(t, out, "class=\"mdbook-files\"")
	assert.Contains(t, out, "fn main() {}")
	assert.Contains(t, out, "mod c;")
	assert.True(t, strings.HasPrefix(out, "intro\n"))
	assert.True(t, strings.HasSuffix(out, "outro\n"))
}

func TestMapMarkdownBlockError(t *testing.T) {
	pre := newTestPreprocessor(t, map[string]string{"src/a.rs": ""})

	_, err := pre.MapMarkdown("```files\npath = \"does-not-exist\"\n```\n")
	require.Error(t, err)
}

func TestMapMarkdownMissingDefaultFile(t *testing.T) {
	pre := newTestPreprocessor(t, map[string]string{"src/a.rs": ""})

	source := "```files\npath = \"src\"\ndefault_file = \"missing.rs\"\n```\n"
	_, err := pre.MapMarkdown(source)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.rs")
}

func TestRunTransformsNestedChapters(t *testing.T) {
	pre := newTestPreprocessor(t, map[string]string{"src/a.rs": "fn main() {}\n"})

	block := "```files\npath = \"src\"\n```\n"
	path := "ch.md"
	book := &Book{
		Sections: []BookItem{
			{Chapter: &Chapter{
				Name:    "Outer",
				Content: block,
				SubItems: []BookItem{
					{Chapter: &Chapter{Name: "Inner", Content: block, Path: &path}},
					{Separator: true},
				},
			}},
		},
		NonExhaustive: json.RawMessage("null"),
	}

	out, err := pre.Run(book)
	require.NoError(t, err)

	outer := out.Sections[0].Chapter
	assert.Contains(t, outer.Content, "class=\"mdbook-files\"")
	inner := outer.SubItems[0].Chapter
	assert.Contains(t, inner.Content, "class=\"mdbook-files\"")
	assert.True(t, outer.SubItems[1].Separator)
}

func TestRunAbortsOnFirstFailure(t *testing.T) {
	pre := newTestPreprocessor(t, map[string]string{"src/a.rs": ""})

	book := &Book{Sections: []BookItem{
		{Chapter: &Chapter{Name: "Bad", Content: "```files\npath = \"nope\"\n```\n"}},
	}}

	_, err := pre.Run(book)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bad")
}

func TestRunUsesDefaultsFile(t *testing.T) {
	pre := newTestPreprocessor(t, map[string]string{
		"src/a.rs":           "",
		"src/skip.txt":       "",
		".mdbook-files.yaml": "files:\n  - \"!*.txt\"\n",
	})

	out, err := pre.MapMarkdown("```files\npath = \"src\"\n```\n")
	require.NoError(t, err)
	assert.NotContains(t, out, "skip.txt")
	assert.Contains(t, out, "a.rs")
}
