// Package cmd builds the command line interface of the preprocessor.
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xfbs/mdbook-files/internal/logger"
	"github.com/xfbs/mdbook-files/internal/preprocessor"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates the root command. Invoked without a subcommand it
// runs the preprocessor protocol: read [context, book] from stdin, write the
// transformed book to stdout.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mdbook-files",
		Short: "An mdbook preprocessor rendering directories as interactive file widgets",
		Long: `mdbook-files rewrites fenced code blocks labelled "files" into an
interactive widget: a file tree on the left and syntax-highlighted file
contents on the right, toggled by clicking tree entries.

Which files appear is controlled per block by gitignore-style globs,
ignore files, depth and size limits, and related traversal switches.`,
		Version:      Version,
		SilenceUsage: true,
		RunE:         runProcess,
	}

	cmd.AddCommand(NewSupportsCommand())
	cmd.AddCommand(NewInstallCommand())
	cmd.AddCommand(NewTreeCommand())

	return cmd
}

func runProcess(cmd *cobra.Command, args []string) error {
	log := logger.FromEnv()

	ctx, book, err := preprocessor.ParseInput(cmd.InOrStdin())
	if err != nil {
		return err
	}
	pre, err := preprocessor.New(ctx, log)
	if err != nil {
		return err
	}
	out, err := pre.Run(book)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(cmd.OutOrStdout()).Encode(out); err != nil {
		return fmt.Errorf("failed to write transformed book: %w", err)
	}
	return nil
}
