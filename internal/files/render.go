package files

import (
	"errors"
	"fmt"
	"html"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// RenderTree serializes the hierarchy into the nested list markup of the
// left pane. Each directory becomes a collapsible item suffixed with a
// separator, each file a clickable item addressed by its identifier.
func RenderTree(t *Tree) (string, error) {
	if !t.IsDir() {
		return "", errors.New("internal error: tree root is a file, not a directory")
	}
	var b strings.Builder
	renderDir(&b, t)
	return b.String(), nil
}

func renderDir(b *strings.Builder, t *Tree) {
	b.WriteString("<ul>\n")
	for _, name := range t.names() {
		child := t.children[name]
		if child.IsDir() {
			fmt.Fprintf(b, "<li class=\"mdbook-files-dir\">%s/\n", html.EscapeString(name))
			renderDir(b, child)
			b.WriteString("</li>\n")
		} else {
			fmt.Fprintf(b, "<li id=\"button-%s\">%s</li>\n", child.id, html.EscapeString(name))
		}
	}
	b.WriteString("</ul>\n")
}

// Renderer produces the embeddable widget fragment for one files block. It
// holds the resolved root and the identifier allocator and is read-only for
// the duration of a render.
type Renderer struct {
	Root  string
	alloc Allocator
}

// NewRenderer returns a renderer reading file contents below root. The
// allocator mints the container identifier, so all identifiers in one block
// come from the same source.
func NewRenderer(root string, alloc Allocator) *Renderer {
	return &Renderer{Root: root, alloc: alloc}
}

// RenderContent reads every discovered file and emits the right-pane blocks.
// Each file's content is wrapped in a fenced code block tagged with the file
// extension so the downstream renderer highlights it.
func (r *Renderer) RenderContent(files *FileMap) (string, error) {
	var b strings.Builder
	for _, rel := range files.Paths() {
		data, err := os.ReadFile(filepath.Join(r.Root, filepath.FromSlash(rel)))
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", rel, err)
		}
		if !utf8.Valid(data) {
			return "", fmt.Errorf("file %s is not valid UTF-8 text", rel)
		}
		id, _ := files.ID(rel)
		ext := strings.TrimPrefix(path.Ext(rel), ".")
		content := strings.TrimSuffix(string(data), "\n")
		fence := fenceFor(content)
		fmt.Fprintf(&b, "<div id=\"file-%s\" class=\"mdbook-file visible\">\n\n", id)
		fmt.Fprintf(&b, "%s%s\n%s\n%s\n\n", fence, ext, content, fence)
		b.WriteString("</div>\n")
	}
	return b.String(), nil
}

// fenceFor picks a backtick fence that cannot be terminated by the content
// itself: one longer than the longest backtick run inside, with the usual
// minimum of three.
func fenceFor(content string) string {
	longest, run := 0, 0
	for _, r := range content {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	n := longest + 1
	if n < 3 {
		n = 3
	}
	return strings.Repeat("`", n)
}

// Render composes the full replacement fragment: optional title heading, the
// container with the tree pane and the content panes, and the activation
// script, all bound together by the container identifier.
func (r *Renderer) Render(opts *Options, files *FileMap) (string, error) {
	tree, err := BuildTree(files)
	if err != nil {
		return "", err
	}
	left, err := RenderTree(tree)
	if err != nil {
		return "", err
	}
	right, err := r.RenderContent(files)
	if err != nil {
		return "", err
	}
	script, err := RenderScript(files, opts.DefaultFile)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if opts.Title != "" {
		fmt.Fprintf(&b, "##### %s\n\n", opts.Title)
	}
	fmt.Fprintf(&b, "<div id=\"files-%s\" class=\"mdbook-files\" style=\"height: %s;\">\n", r.alloc(), opts.Height)
	b.WriteString("<div class=\"mdbook-files-left\">\n")
	b.WriteString(left)
	b.WriteString("</div>\n")
	b.WriteString("<div class=\"mdbook-files-right\">\n")
	b.WriteString(right)
	b.WriteString("</div>\n")
	b.WriteString("</div>\n")
	b.WriteString(script)
	b.WriteString("\n")
	return b.String(), nil
}
