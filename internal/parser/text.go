package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/refdex/refdex/internal/doctree"
)

// TextParser handles plain text files. Paragraphs become body nodes;
// plain text carries no entity markup, so these documents index nothing
// and only feed pages that other formats anchor.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Node, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	b := newOutlineBuilder(filename)
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			b.Paragraph(current.String())
			current.Reset()
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b.Root(), nil
}
