package cmd

import (
	"fmt"
	"path"

	"github.com/disiqueira/gotree/v3"
	"github.com/spf13/cobra"

	"github.com/xfbs/mdbook-files/internal/files"
)

// NewTreeCommand creates a debug subcommand that resolves a block
// configuration against the current directory and prints the matching files
// as a tree, without producing any markup.
func NewTreeCommand() *cobra.Command {
	opts := &files.Options{}
	var maxDepth int
	var maxFilesize int64

	cmd := &cobra.Command{
		Use:   "tree <path>",
		Short: "Print the files a block configuration would select",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			if cmd.Flags().Changed("max-depth") {
				opts.MaxDepth = &maxDepth
			}
			if cmd.Flags().Changed("max-filesize") {
				opts.MaxFilesize = &maxFilesize
			}

			policy, err := files.CompilePolicy(".", opts)
			if err != nil {
				return err
			}
			fileMap, err := files.Walk(policy, files.NewAllocator())
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), renderTextTree(args[0], fileMap))
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringArrayVar(&opts.Files, "files", nil, "Override glob, may be repeated; prefix with ! to exclude")
	cmd.Flags().BoolVar(&opts.Hidden, "hidden", false, "Include hidden files and directories")
	cmd.Flags().BoolVar(&opts.Ignore, "ignore", false, "Respect .ignore files")
	cmd.Flags().BoolVar(&opts.GitIgnore, "git-ignore", false, "Respect .gitignore files")
	cmd.Flags().BoolVar(&opts.GitGlobal, "git-global", false, "Respect the global git ignore file")
	cmd.Flags().BoolVar(&opts.GitExclude, "git-exclude", false, "Respect .git/info/exclude")
	cmd.Flags().BoolVar(&opts.RequireGit, "require-git", false, "Apply git ignore files only inside a git repository")
	cmd.Flags().BoolVar(&opts.Parents, "parents", false, "Read ignore files from parent directories")
	cmd.Flags().BoolVar(&opts.CaseInsensitive, "ignore-case-insensitive", false, "Match globs case-insensitively")
	cmd.Flags().BoolVar(&opts.SameFileSystem, "same-file-system", false, "Do not cross filesystem boundaries")
	cmd.Flags().BoolVar(&opts.FollowLinks, "follow-links", false, "Follow symbolic links")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Maximum directory depth below the root")
	cmd.Flags().Int64Var(&maxFilesize, "max-filesize", 0, "Skip files larger than this many bytes")

	return cmd
}

// renderTextTree lays the discovered paths out as an ASCII tree, creating
// directory nodes on demand.
func renderTextTree(root string, fileMap *files.FileMap) string {
	tree := gotree.New(root)
	dirs := map[string]gotree.Tree{".": tree}

	var dirFor func(dir string) gotree.Tree
	dirFor = func(dir string) gotree.Tree {
		if node, ok := dirs[dir]; ok {
			return node
		}
		node := dirFor(path.Dir(dir)).Add(path.Base(dir))
		dirs[dir] = node
		return node
	}

	for _, p := range fileMap.Paths() {
		dirFor(path.Dir(p)).Add(path.Base(p))
	}
	return tree.Print()
}
