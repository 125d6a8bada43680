// Package files implements the file discovery and widget rendering engine:
// it resolves a directory of source files against a declarative traversal
// policy, builds a nested file tree, and renders the tree, the per-file
// content panes and the activation script into one embeddable fragment.
package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultHeight is the pane height used when a block does not set one.
const DefaultHeight = "300px"

// DefaultsFileName is the optional per-book defaults file, looked up in the
// configured prefix directory and merged under every block's options.
const DefaultsFileName = ".mdbook-files.yaml"

// Options is the descriptor parsed from the body of a files block. Every
// traversal switch defaults to off; only Path is required.
type Options struct {
	// Path of the directory to list, relative to the configured prefix.
	Path string `toml:"path" yaml:"path"`
	// Files holds override globs. A glob prefixed with "!" excludes
	// matches; any other glob selects matches. Without globs every file
	// not otherwise ignored is selected.
	Files []string `toml:"files" yaml:"files"`
	// Title is rendered as a heading above the widget when set.
	Title string `toml:"title" yaml:"title"`
	// DefaultFile is the relative path of the file shown on load. When
	// empty the lexicographically first file is shown.
	DefaultFile string `toml:"default_file" yaml:"default_file"`
	// Height is the CSS height of the widget container.
	Height string `toml:"height" yaml:"height"`

	// Hidden includes dot-prefixed files and directories.
	Hidden bool `toml:"hidden" yaml:"hidden"`
	// Ignore enables .ignore files found during traversal.
	Ignore bool `toml:"ignore" yaml:"ignore"`
	// GitIgnore enables .gitignore files found during traversal.
	GitIgnore bool `toml:"git_ignore" yaml:"git_ignore"`
	// GitGlobal enables the user's global git ignore file.
	GitGlobal bool `toml:"git_global" yaml:"git_global"`
	// GitExclude enables the repository's .git/info/exclude file.
	GitExclude bool `toml:"git_exclude" yaml:"git_exclude"`
	// RequireGit restricts the git ignore classes to paths inside a git
	// repository.
	RequireGit bool `toml:"require_git" yaml:"require_git"`
	// Parents also reads ignore files from ancestors of the root.
	Parents bool `toml:"parents" yaml:"parents"`
	// CaseInsensitive makes override globs match without regard to case.
	CaseInsensitive bool `toml:"ignore_case_insensitive" yaml:"ignore_case_insensitive"`
	// SameFileSystem keeps the traversal on the root's filesystem.
	SameFileSystem bool `toml:"same_file_system" yaml:"same_file_system"`
	// FollowLinks resolves symlinks instead of skipping them.
	FollowLinks bool `toml:"follow_links" yaml:"follow_links"`

	// MaxDepth limits how many directory levels below the root are
	// visited. Zero visits only the root itself.
	MaxDepth *int `toml:"max_depth" yaml:"max_depth"`
	// MaxFilesize skips files larger than this many bytes.
	MaxFilesize *int64 `toml:"max_filesize" yaml:"max_filesize"`
}

// ParseOptions decodes the TOML body of a files block.
func ParseOptions(body string) (*Options, error) {
	var opts Options
	if err := toml.Unmarshal([]byte(body), &opts); err != nil {
		return nil, fmt.Errorf("failed to parse files block: %w", err)
	}
	if opts.Path == "" {
		return nil, errors.New("files block is missing required field \"path\"")
	}
	if opts.Height == "" {
		opts.Height = DefaultHeight
	}
	return &opts, nil
}

// LoadDefaults reads the defaults file from dir. A missing file yields nil
// defaults and no error.
func LoadDefaults(dir string) (*Options, error) {
	data, err := os.ReadFile(filepath.Join(dir, DefaultsFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var defaults Options
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", DefaultsFileName, err)
	}
	return &defaults, nil
}

// ApplyDefaults merges defaults under the options of one block. Default
// globs are prepended so block globs take effect after them, boolean
// switches can only be enabled by defaults, and scalar fields keep the
// block's value when set.
func (o *Options) ApplyDefaults(defaults *Options) {
	if defaults == nil {
		return
	}
	if len(defaults.Files) > 0 {
		o.Files = append(append([]string{}, defaults.Files...), o.Files...)
	}
	if o.Height == "" || o.Height == DefaultHeight {
		if defaults.Height != "" {
			o.Height = defaults.Height
		}
	}
	o.Hidden = o.Hidden || defaults.Hidden
	o.Ignore = o.Ignore || defaults.Ignore
	o.GitIgnore = o.GitIgnore || defaults.GitIgnore
	o.GitGlobal = o.GitGlobal || defaults.GitGlobal
	o.GitExclude = o.GitExclude || defaults.GitExclude
	o.RequireGit = o.RequireGit || defaults.RequireGit
	o.Parents = o.Parents || defaults.Parents
	o.CaseInsensitive = o.CaseInsensitive || defaults.CaseInsensitive
	o.SameFileSystem = o.SameFileSystem || defaults.SameFileSystem
	o.FollowLinks = o.FollowLinks || defaults.FollowLinks
	if o.MaxDepth == nil {
		o.MaxDepth = defaults.MaxDepth
	}
	if o.MaxFilesize == nil {
		o.MaxFilesize = defaults.MaxFilesize
	}
}
