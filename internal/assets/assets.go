// Package assets holds the static files provisioned into a book project by
// the install command.
package assets

import _ "embed"

// StylesheetName is the file name the stylesheet is installed under, and the
// name referenced from the additional-css entry in book.toml.
const StylesheetName = "mdbook-files.css"

//go:embed mdbook-files.css
var Stylesheet []byte
