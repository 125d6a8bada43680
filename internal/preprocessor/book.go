// Package preprocessor implements the mdbook preprocessor side of the tool:
// it decodes the serialized book from the host, rewrites files blocks in
// every chapter, and encodes the transformed book back.
package preprocessor

import (
	"encoding/json"
	"fmt"
	"io"
)

// Book mirrors mdbook's serialized book representation.
type Book struct {
	Sections      []BookItem      `json:"sections"`
	NonExhaustive json.RawMessage `json:"__non_exhaustive"`
}

// Chapter is one chapter of the book, with raw markdown content and
// recursively nested sub-items.
type Chapter struct {
	Name        string     `json:"name"`
	Content     string     `json:"content"`
	Number      []uint32   `json:"number"`
	SubItems    []BookItem `json:"sub_items"`
	Path        *string    `json:"path"`
	SourcePath  *string    `json:"source_path"`
	ParentNames []string   `json:"parent_names"`
}

// BookItem is one entry of the book: a chapter, a part title, or a
// separator. mdbook serializes the variant as either the string "Separator"
// or a single-key object, so the type round-trips through custom JSON
// methods.
type BookItem struct {
	Chapter   *Chapter
	PartTitle string
	Separator bool
}

func (b *BookItem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "Separator" {
			return fmt.Errorf("unknown book item %q", s)
		}
		b.Separator = true
		return nil
	}

	var variant struct {
		Chapter   *Chapter `json:"Chapter"`
		PartTitle *string  `json:"PartTitle"`
	}
	if err := json.Unmarshal(data, &variant); err != nil {
		return fmt.Errorf("failed to decode book item: %w", err)
	}
	switch {
	case variant.Chapter != nil:
		b.Chapter = variant.Chapter
	case variant.PartTitle != nil:
		b.PartTitle = *variant.PartTitle
	default:
		return fmt.Errorf("unknown book item variant: %s", data)
	}
	return nil
}

func (b BookItem) MarshalJSON() ([]byte, error) {
	switch {
	case b.Chapter != nil:
		return json.Marshal(map[string]*Chapter{"Chapter": b.Chapter})
	case b.Separator:
		return json.Marshal("Separator")
	default:
		return json.Marshal(map[string]string{"PartTitle": b.PartTitle})
	}
}

// Context is the preprocessor context mdbook sends alongside the book.
type Context struct {
	Root          string `json:"root"`
	Config        Config `json:"config"`
	Renderer      string `json:"renderer"`
	MdbookVersion string `json:"mdbook_version"`
}

// Config is the book configuration table. Only the preprocessor tables are
// interpreted; everything else is carried opaquely.
type Config struct {
	Book         json.RawMessage            `json:"book"`
	Preprocessor map[string]json.RawMessage `json:"preprocessor"`
}

// PreprocessorConfig decodes the configuration table of the named
// preprocessor into v.
func (c *Context) PreprocessorConfig(name string, v any) error {
	raw, ok := c.Config.Preprocessor[name]
	if !ok {
		return fmt.Errorf("no configuration found for preprocessor %q", name)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid configuration for preprocessor %q: %w", name, err)
	}
	return nil
}

// ParseInput decodes the two-part [context, book] payload mdbook writes to
// the preprocessor's standard input.
func ParseInput(r io.Reader) (*Context, *Book, error) {
	var parts []json.RawMessage
	if err := json.NewDecoder(r).Decode(&parts); err != nil {
		return nil, nil, fmt.Errorf("failed to decode preprocessor input: %w", err)
	}
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("expected [context, book] input, got %d elements", len(parts))
	}
	var ctx Context
	if err := json.Unmarshal(parts[0], &ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to decode preprocessor context: %w", err)
	}
	var book Book
	if err := json.Unmarshal(parts[1], &book); err != nil {
		return nil, nil, fmt.Errorf("failed to decode book: %w", err)
	}
	return &ctx, &book, nil
}
