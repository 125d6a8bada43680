package preprocessor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xfbs/mdbook-files/internal/files"
	"github.com/xfbs/mdbook-files/internal/logger"
)

// Name is the preprocessor name and the fence label triggering a rewrite.
const Name = "files"

// SupportsRenderer reports whether the produced markup works with the given
// mdbook renderer.
func SupportsRenderer(renderer string) bool {
	return renderer == "html"
}

// config is the [preprocessor.files] table from book.toml, delivered as JSON
// through the protocol.
type config struct {
	Prefix string `json:"prefix"`
}

// Preprocessor rewrites files blocks in every chapter of a book. It carries
// only read-only state: the resolved asset root and the book-wide defaults.
type Preprocessor struct {
	prefix   string
	defaults *files.Options
	log      *logger.Logger
}

// New resolves the preprocessor configuration from the context. The prefix
// names the directory block paths are resolved against; a relative prefix is
// anchored at the book root.
func New(ctx *Context, log *logger.Logger) (*Preprocessor, error) {
	var cfg config
	if err := ctx.PreprocessorConfig(Name, &cfg); err != nil {
		return nil, err
	}
	if cfg.Prefix == "" {
		return nil, fmt.Errorf("preprocessor %q requires the prefix option", Name)
	}
	prefix := cfg.Prefix
	if !filepath.IsAbs(prefix) {
		prefix = filepath.Join(ctx.Root, prefix)
	}

	defaults, err := files.LoadDefaults(prefix)
	if err != nil {
		return nil, err
	}
	if defaults != nil {
		log.Debugf("loaded defaults from %s", filepath.Join(prefix, files.DefaultsFileName))
	}

	return &Preprocessor{prefix: prefix, defaults: defaults, log: log}, nil
}

// Run transforms the whole book in place, chapter by chapter in document
// order, and returns it. The first failing block aborts the run.
func (p *Preprocessor) Run(book *Book) (*Book, error) {
	for i := range book.Sections {
		if err := p.mapItem(&book.Sections[i]); err != nil {
			return nil, err
		}
	}
	return book, nil
}

func (p *Preprocessor) mapItem(item *BookItem) error {
	if item.Chapter == nil {
		return nil
	}
	return p.mapChapter(item.Chapter)
}

func (p *Preprocessor) mapChapter(ch *Chapter) error {
	content, err := p.MapMarkdown(ch.Content)
	if err != nil {
		return fmt.Errorf("chapter %q: %w", ch.Name, err)
	}
	ch.Content = content
	for i := range ch.SubItems {
		if err := p.mapItem(&ch.SubItems[i]); err != nil {
			return err
		}
	}
	return nil
}

// MapMarkdown replaces every files block in the markdown source with its
// rendered widget fragment. Sources without a files block pass through
// unchanged.
func (p *Preprocessor) MapMarkdown(source string) (string, error) {
	blocks := findBlocks([]byte(source), Name)
	if len(blocks) == 0 {
		return source, nil
	}

	// Splice back to front so earlier block offsets stay valid.
	out := source
	for i := len(blocks) - 1; i >= 0; i-- {
		block := blocks[i]
		replacement, err := p.expandBlock(block.body)
		if err != nil {
			return "", err
		}
		out = out[:block.start] + replacement + out[block.stop:]
	}
	return out, nil
}

// expandBlock runs the whole pipeline for one block: parse the descriptor,
// compile the policy, enumerate files, render the widget.
func (p *Preprocessor) expandBlock(body string) (string, error) {
	opts, err := files.ParseOptions(body)
	if err != nil {
		return "", err
	}
	opts.ApplyDefaults(p.defaults)

	policy, err := files.CompilePolicy(p.prefix, opts)
	if err != nil {
		return "", err
	}
	alloc := files.NewAllocator()
	fileMap, err := files.Walk(policy, alloc)
	if err != nil {
		return "", err
	}
	p.log.Debugf("files block for %s matched %d files", opts.Path, fileMap.Len())

	fragment, err := files.NewRenderer(policy.Root, alloc).Render(opts, fileMap)
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(fragment, "\n") {
		fragment += "\n"
	}
	return fragment, nil
}
