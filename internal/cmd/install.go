package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/xfbs/mdbook-files/internal/assets"
	"github.com/xfbs/mdbook-files/internal/logger"
	"github.com/xfbs/mdbook-files/internal/preprocessor"
)

// NewInstallCommand creates the subcommand that provisions the static assets
// into a book project: it writes the stylesheet next to book.toml and
// registers both the preprocessor and the stylesheet in book.toml.
func NewInstallCommand() *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "install [dir]",
		Short: "Install assets and configuration into a book project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return install(dir, prefix, logger.FromEnv())
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&prefix, "prefix", "src", "Directory block paths are resolved against, relative to the book root")

	return cmd
}

func install(dir, prefix string, log *logger.Logger) error {
	bookToml := filepath.Join(dir, "book.toml")
	data, err := os.ReadFile(bookToml)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", bookToml, err)
	}

	var config map[string]any
	if err := toml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse %s: %w", bookToml, err)
	}

	changed := ensurePreprocessor(config, prefix)
	if ensureStylesheet(config) {
		changed = true
	}

	if changed {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(config); err != nil {
			return fmt.Errorf("failed to encode %s: %w", bookToml, err)
		}
		if err := os.WriteFile(bookToml, buf.Bytes(), 0644); err != nil {
			return err
		}
		log.Infof("updated %s", bookToml)
	}

	cssPath := filepath.Join(dir, assets.StylesheetName)
	if err := os.WriteFile(cssPath, assets.Stylesheet, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cssPath, err)
	}
	log.Infof("installed %s", cssPath)
	return nil
}

// ensurePreprocessor adds the [preprocessor.files] table when missing and
// reports whether the configuration changed.
func ensurePreprocessor(config map[string]any, prefix string) bool {
	preprocessors, ok := config["preprocessor"].(map[string]any)
	if !ok {
		preprocessors = make(map[string]any)
		config["preprocessor"] = preprocessors
	}
	if _, ok := preprocessors[preprocessor.Name]; ok {
		return false
	}
	preprocessors[preprocessor.Name] = map[string]any{
		"command": "mdbook-files",
		"prefix":  prefix,
	}
	return true
}

// ensureStylesheet registers the stylesheet under output.html.additional-css
// and reports whether the configuration changed.
func ensureStylesheet(config map[string]any) bool {
	output, ok := config["output"].(map[string]any)
	if !ok {
		output = make(map[string]any)
		config["output"] = output
	}
	html, ok := output["html"].(map[string]any)
	if !ok {
		html = make(map[string]any)
		output["html"] = html
	}

	var css []any
	if existing, ok := html["additional-css"].([]any); ok {
		css = existing
	}
	for _, entry := range css {
		if entry == assets.StylesheetName {
			return false
		}
	}
	html["additional-css"] = append(css, assets.StylesheetName)
	return true
}
