package preprocessor

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// fencedBlock is one fenced code block located in a chapter, with the byte
// extent of the whole fence (opening line through closing line) so it can be
// spliced out of the raw source.
type fencedBlock struct {
	start int
	stop  int
	body  string
}

// findBlocks parses the markdown source and returns every fenced code block
// whose language label matches, in document order.
func findBlocks(source []byte, label string) []fencedBlock {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var blocks []fencedBlock
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		if string(fcb.Language(source)) != label {
			return ast.WalkContinue, nil
		}
		blocks = append(blocks, blockExtent(source, fcb))
		return ast.WalkContinue, nil
	})
	return blocks
}

// blockExtent computes the byte range covering the whole fence. goldmark
// only records the content lines and the info string, so the fence lines are
// recovered by scanning to the enclosing line boundaries.
func blockExtent(source []byte, fcb *ast.FencedCodeBlock) fencedBlock {
	start := fcb.Info.Segment.Start
	for start > 0 && source[start-1] != '\n' {
		start--
	}

	var body strings.Builder
	lines := fcb.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		body.Write(seg.Value(source))
	}

	// The closing fence line begins right after the last content line, or
	// right after the info line when the block is empty.
	var closing int
	if lines.Len() > 0 {
		closing = lines.At(lines.Len() - 1).Stop
	} else {
		closing = lineEnd(source, fcb.Info.Segment.Stop)
	}
	stop := lineEnd(source, closing)

	return fencedBlock{start: start, stop: stop, body: body.String()}
}

// lineEnd returns the index just past the newline terminating the line that
// starts at or contains pos.
func lineEnd(source []byte, pos int) int {
	idx := bytes.IndexByte(source[pos:], '\n')
	if idx < 0 {
		return len(source)
	}
	return pos + idx + 1
}
