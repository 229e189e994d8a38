package parser

import (
	"strings"
	"testing"

	"github.com/refdex/refdex/internal/doctree"
)

func parseText(t *testing.T, input, filename string) *doctree.Node {
	t.Helper()
	p := &TextParser{}
	root, err := p.Parse(strings.NewReader(input), filename)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return root
}

func paragraphTexts(root *doctree.Node) []string {
	var out []string
	for _, c := range root.Children {
		if c.Kind == doctree.KindParagraph {
			out = append(out, c.Text)
		}
	}
	return out
}

func TestTextParser_BasicParagraphSplitting(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	root := parseText(t, input, "notes.txt")

	if root.Attr("source") != "notes.txt" {
		t.Errorf("source = %q", root.Attr("source"))
	}
	want := []string{
		"First paragraph line one.\nFirst paragraph line two.",
		"Second paragraph.",
		"Third paragraph.",
	}
	got := paragraphTexts(root)
	if len(got) != len(want) {
		t.Fatalf("expected %d paragraphs, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("paragraph[%d]: expected %q, got %q", i, w, got[i])
		}
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	root := parseText(t, "", "empty.txt")
	if len(root.Children) != 0 {
		t.Errorf("expected 0 children for empty input, got %d", len(root.Children))
	}
}

func TestTextParser_MultipleBlankLines(t *testing.T) {
	// Multiple consecutive blank lines should not produce empty paragraphs.
	root := parseText(t, "Para one.\n\n\n\nPara two.", "gaps.txt")
	if got := paragraphTexts(root); len(got) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(got))
	}
}

func TestTextParser_WhitespaceOnlyLines(t *testing.T) {
	// Lines with only whitespace should be treated as blank.
	root := parseText(t, "Para one.\n   \nPara two.", "ws.txt")
	if got := paragraphTexts(root); len(got) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(got))
	}
}

func TestTextParser_IndexesNothing(t *testing.T) {
	root := parseText(t, "pygame.cursors.compile()\n\nJust prose, no headings.", "plain.txt")
	if findFirst(root, doctree.KindDesc) != nil || findFirst(root, doctree.KindSection) != nil {
		t.Error("plain text produced indexable nodes")
	}
}
