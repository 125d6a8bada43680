package files

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"text/template"
)

//go:embed script.js.tmpl
var scriptSource string

// scriptTmpl is the fixed client-side behavior skeleton. Only the identifier
// list and the default-visible identifier are stamped in.
var scriptTmpl = template.Must(template.New("script").Parse(scriptSource))

type scriptParams struct {
	IDs     string
	Default string
}

// RenderScript emits the script element wiring click-to-reveal behavior for
// every identifier and showing exactly one pane on load: the one bound to
// defaultFile if set, otherwise the first in canonical order. A defaultFile
// that matched no discovered path is a configuration error.
func RenderScript(files *FileMap, defaultFile string) (string, error) {
	paths := files.Paths()
	if len(paths) == 0 {
		return "", errors.New("internal error: script requested for empty file set")
	}

	ids := make([]string, len(paths))
	for i, p := range paths {
		id, _ := files.ID(p)
		ids[i] = id.String()
	}

	defaultID := ids[0]
	if defaultFile != "" {
		id, ok := files.ID(path.Clean(defaultFile))
		if !ok {
			return "", fmt.Errorf("default file %q does not match any discovered file", defaultFile)
		}
		defaultID = id.String()
	}

	list, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	def, err := json.Marshal(defaultID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := scriptTmpl.Execute(&b, scriptParams{IDs: string(list), Default: string(def)}); err != nil {
		return "", fmt.Errorf("failed to render activation script: %w", err)
	}
	return b.String(), nil
}
