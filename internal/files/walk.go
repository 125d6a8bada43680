package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// FileMap is the result of one enumeration: every discovered file keyed by
// its root-relative slash-separated path, bound to a fresh identifier.
type FileMap struct {
	ids map[string]uuid.UUID
}

// Len returns the number of discovered files.
func (m *FileMap) Len() int {
	return len(m.ids)
}

// Paths returns the discovered paths in canonical (lexicographic) order.
func (m *FileMap) Paths() []string {
	paths := make([]string, 0, len(m.ids))
	for p := range m.ids {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// ID returns the identifier bound to a root-relative path.
func (m *FileMap) ID(rel string) (uuid.UUID, bool) {
	id, ok := m.ids[rel]
	return id, ok
}

// walker carries the state of one traversal.
type walker struct {
	policy  *Policy
	alloc   Allocator
	files   map[string]uuid.UUID
	rootDev uint64
	hasDev  bool
}

// Walk executes the compiled policy and collects every matching file. It
// fails when the traversal hits a filesystem error and when no file matches
// at all, since an empty widget is never rendered.
func Walk(p *Policy, alloc Allocator) (*FileMap, error) {
	w := &walker{policy: p, alloc: alloc, files: make(map[string]uuid.UUID)}

	if p.opts.SameFileSystem {
		info, err := os.Stat(p.Root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat root %s: %w", p.Root, err)
		}
		w.rootDev, w.hasDev = deviceID(info)
	}

	if err := w.walkDir(p.Root, "", 0, p.base); err != nil {
		return nil, err
	}
	if len(w.files) == 0 {
		return nil, fmt.Errorf("no files matched in %s", p.Root)
	}
	return &FileMap{ids: w.files}, nil
}

// walkDir visits one directory. depth is the directory's distance from the
// root, so its entries sit at depth+1. The ignore chain grows as ignore
// files are found on the way down.
func (w *walker) walkDir(dir, rel string, depth int, chain ignoreChain) error {
	p := w.policy

	for _, name := range p.ignoreFileNames() {
		rules, err := compileRules(filepath.Join(dir, name), rel, "")
		if err != nil {
			return err
		}
		if rules != nil {
			chain = append(chain, *rules)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !p.opts.Hidden && strings.HasPrefix(name, ".") {
			continue
		}
		childRel := name
		if rel != "" {
			childRel = rel + "/" + name
		}
		if p.opts.MaxDepth != nil && depth+1 > *p.opts.MaxDepth {
			continue
		}

		full := filepath.Join(dir, name)
		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", full, err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			if !p.opts.FollowLinks {
				continue
			}
			info, err = os.Stat(full)
			if err != nil {
				return fmt.Errorf("failed to follow symlink %s: %w", full, err)
			}
		}

		if info.IsDir() {
			if p.opts.SameFileSystem && w.hasDev {
				if dev, ok := deviceID(info); ok && dev != w.rootDev {
					continue
				}
			}
			if p.pruneDir(childRel) || chain.matches(childRel, true) {
				continue
			}
			if err := w.walkDir(full, childRel, depth+1, chain); err != nil {
				return err
			}
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}

		if chain.matches(childRel, false) {
			continue
		}
		if !p.selectFile(childRel) {
			continue
		}
		if p.opts.MaxFilesize != nil && info.Size() > *p.opts.MaxFilesize {
			continue
		}
		w.files[childRel] = w.alloc()
	}
	return nil
}
