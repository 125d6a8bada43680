package files

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Tree is one node of the file hierarchy: either a directory owning a
// name-keyed set of children, or a file leaf owning its identifier. Only
// leaves carry identifiers.
type Tree struct {
	children map[string]*Tree
	id       uuid.UUID
}

// NewTree returns an empty directory node.
func NewTree() *Tree {
	return &Tree{children: make(map[string]*Tree)}
}

// IsDir reports whether the node is a directory.
func (t *Tree) IsDir() bool {
	return t.children != nil
}

// BuildTree folds the flat path mapping into a nested hierarchy, creating
// intermediate directories on demand.
func BuildTree(files *FileMap) (*Tree, error) {
	root := NewTree()
	for _, p := range files.Paths() {
		id, _ := files.ID(p)
		if err := root.insert(p, strings.Split(p, "/"), id); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// insert places one file at the given path segments. A segment claimed by
// both a file and a directory signals broken tree construction, not bad
// input, so it fails instead of overwriting.
func (t *Tree) insert(full string, segments []string, id uuid.UUID) error {
	head := segments[0]
	if len(segments) == 1 {
		if _, ok := t.children[head]; ok {
			return fmt.Errorf("internal error: path %q inserted twice", full)
		}
		t.children[head] = &Tree{id: id}
		return nil
	}
	child, ok := t.children[head]
	if !ok {
		child = NewTree()
		t.children[head] = child
	}
	if !child.IsDir() {
		return fmt.Errorf("internal error: directory %q of %q collides with a file", head, full)
	}
	return child.insert(full, segments[1:], id)
}

// names returns the child names in lexicographic order, directories and
// files interleaved.
func (t *Tree) names() []string {
	names := make([]string, 0, len(t.children))
	for name := range t.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Leaves returns every (full path, identifier) pair in the tree.
func (t *Tree) Leaves() map[string]uuid.UUID {
	leaves := make(map[string]uuid.UUID)
	t.collectLeaves("", leaves)
	return leaves
}

func (t *Tree) collectLeaves(prefix string, leaves map[string]uuid.UUID) {
	for name, child := range t.children {
		full := name
		if prefix != "" {
			full = prefix + "/" + name
		}
		if child.IsDir() {
			child.collectLeaves(full, leaves)
		} else {
			leaves[full] = child.id
		}
	}
}
