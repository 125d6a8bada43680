package files

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// Policy is the fully resolved traversal plan for one files block. It is
// built once by CompilePolicy and never mutated during enumeration.
type Policy struct {
	// Root is the absolute directory the enumeration starts from.
	Root string

	opts      Options
	overrides []override
	positive  bool
	gitRoot   string
	inGit     bool
	base      ignoreChain
}

// override is a single compiled glob with its polarity.
type override struct {
	pattern string
	negate  bool
}

// matches reports whether the glob selects the given root-relative path.
// Globs without a path separator match against the base name, like gitignore
// patterns do.
func (o override) matches(rel string, caseInsensitive bool) bool {
	target := rel
	if !strings.Contains(o.pattern, "/") {
		target = path.Base(rel)
	}
	pattern := o.pattern
	if caseInsensitive {
		pattern = strings.ToLower(pattern)
		target = strings.ToLower(target)
	}
	ok, err := doublestar.Match(pattern, target)
	return err == nil && ok
}

// CompilePolicy resolves the options of one block against the configured
// prefix directory. The block's path is joined onto the prefix and must name
// an existing directory.
func CompilePolicy(prefix string, opts *Options) (*Policy, error) {
	root := filepath.Join(prefix, filepath.FromSlash(opts.Path))
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %q: %w", opts.Path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path %q is not a directory", opts.Path)
	}

	p := &Policy{Root: root, opts: *opts}

	for _, raw := range opts.Files {
		pattern, negate := strings.CutPrefix(raw, "!")
		if pattern == "" || !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob %q in files block", raw)
		}
		p.overrides = append(p.overrides, override{pattern: pattern, negate: negate})
		if !negate {
			p.positive = true
		}
	}

	p.gitRoot, p.inGit = findGitRoot(root)
	if err := p.compileBase(); err != nil {
		return nil, err
	}
	return p, nil
}

// gitClassActive reports whether a git-sourced ignore class applies, taking
// the require_git gate into account.
func (p *Policy) gitClassActive(enabled bool) bool {
	if !enabled {
		return false
	}
	if p.opts.RequireGit && !p.inGit {
		return false
	}
	return true
}

// compileBase builds the ignore rules that apply to the whole traversal:
// the global ignore file, the repository exclude file, and ignore files
// found in ancestors of the root when parents is enabled.
func (p *Policy) compileBase() error {
	if p.gitClassActive(p.opts.GitGlobal) {
		if err := p.appendRules(globalIgnorePath(), "", ""); err != nil {
			return err
		}
	}
	if p.gitClassActive(p.opts.GitExclude) && p.inGit {
		exclude := filepath.Join(p.gitRoot, ".git", "info", "exclude")
		if err := p.appendRules(exclude, "", p.rootPrefixUnder(p.gitRoot)); err != nil {
			return err
		}
	}
	if p.opts.Parents {
		// Outermost ancestors first, so rules closer to the root are
		// consulted later.
		var dirs []string
		dir := filepath.Dir(p.Root)
		for {
			dirs = append([]string{dir}, dirs...)
			if p.inGit && dir == p.gitRoot {
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
		for _, dir := range dirs {
			prefix := p.rootPrefixUnder(dir)
			for _, name := range p.ignoreFileNames() {
				if err := p.appendRules(filepath.Join(dir, name), "", prefix); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ignoreFileNames returns the per-directory ignore file names enabled by the
// policy, in the order they are consulted.
func (p *Policy) ignoreFileNames() []string {
	var names []string
	if p.opts.Ignore {
		names = append(names, ".ignore")
	}
	if p.gitClassActive(p.opts.GitIgnore) {
		names = append(names, ".gitignore")
	}
	return names
}

func (p *Policy) appendRules(file, base, prefix string) error {
	rules, err := compileRules(file, base, prefix)
	if err != nil {
		return err
	}
	if rules != nil {
		p.base = append(p.base, *rules)
	}
	return nil
}

// rootPrefixUnder returns the root's slash-separated path relative to one of
// its ancestor directories, empty when dir is the root itself.
func (p *Policy) rootPrefixUnder(dir string) string {
	rel, err := filepath.Rel(dir, p.Root)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

// selectFile applies the override globs to a root-relative file path. With
// no positive globs every file is selected unless a negated glob matches;
// with positive globs present the file must match at least one.
func (p *Policy) selectFile(rel string) bool {
	matched := !p.positive
	for _, o := range p.overrides {
		if o.matches(rel, p.opts.CaseInsensitive) {
			if o.negate {
				return false
			}
			matched = true
		}
	}
	return matched
}

// pruneDir reports whether a negated override glob excludes the directory,
// so the traversal can skip descending into it.
func (p *Policy) pruneDir(rel string) bool {
	for _, o := range p.overrides {
		if o.negate && o.matches(rel, p.opts.CaseInsensitive) {
			return true
		}
	}
	return false
}

// findGitRoot walks upward from dir looking for a .git entry.
func findGitRoot(dir string) (string, bool) {
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// globalIgnorePath returns the location of the user's global git ignore
// file, honoring XDG_CONFIG_HOME.
func globalIgnorePath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "git", "ignore")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "git", "ignore")
}

// ignoreRules is one compiled ignore file together with the directory its
// patterns are anchored to. base positions rules living below the root,
// prefix positions rules living in an ancestor of the root.
type ignoreRules struct {
	matcher *ignore.GitIgnore
	base    string
	prefix  string
}

// ignoreChain is an ordered list of compiled ignore files, outermost first.
// A path is excluded as soon as any file in the chain matches it.
type ignoreChain []ignoreRules

// compileRules compiles one ignore file if it exists. base is the
// root-relative directory containing the file and prefix is the root's
// position relative to the file's directory; at most one of the two is
// non-empty.
func compileRules(file, base, prefix string) (*ignoreRules, error) {
	if _, err := os.Stat(file); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	matcher, err := ignore.CompileIgnoreFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to compile ignore file %s: %w", file, err)
	}
	return &ignoreRules{matcher: matcher, base: base, prefix: prefix}, nil
}

// matches tests a root-relative path against the chain. Every path is first
// translated into the coordinates of the ignore file it is tested against,
// so anchored patterns keep their meaning. Directories are tested with a
// trailing slash so directory-only patterns apply.
func (c ignoreChain) matches(rel string, isDir bool) bool {
	for _, rules := range c {
		target := rel
		if rules.base != "" {
			if !strings.HasPrefix(rel, rules.base+"/") {
				continue
			}
			target = rel[len(rules.base)+1:]
		}
		if rules.prefix != "" {
			target = rules.prefix + "/" + target
		}
		if isDir {
			target += "/"
		}
		if rules.matcher.MatchesPath(target) {
			return true
		}
	}
	return false
}
