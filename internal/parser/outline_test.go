package parser

import "testing"

func TestInferDesctype(t *testing.T) {
	cases := []struct {
		title      string
		parentType string
		want       string
	}{
		{"pygame.cursors.compile()", "module", "function"},
		{"pygame.cursors.Cursor.copy()", "class", "method"},
		{"pygame.cursors.Cursor", "module", "class"},
		{"pygame.error", "module", "data"},
		{"pygame.BufferError", "module", "exception"},
		{"pygame.cursors.Cursor.data", "class", "attribute"},
		{"pygame.mixer.music.get_busy()", "module", "function"},
		{"pygame.sprite.Sprite.update()", "type", "method"},
		{"pygame.sprite.Group.add()", "exception", "method"},
	}
	for _, c := range cases {
		if got := inferDesctype(c.title, c.parentType); got != c.want {
			t.Errorf("inferDesctype(%q, %q) = %q, want %q", c.title, c.parentType, got, c.want)
		}
	}
}

func TestExplicitDesctype(t *testing.T) {
	if got := explicitDesctype([]string{"tooltip", "property"}); got != "property" {
		t.Errorf("got %q, want property", got)
	}
	if got := explicitDesctype([]string{"tooltip", "wide"}); got != "" {
		t.Errorf("got %q, want empty", got)
	}
	if got := explicitDesctype(nil); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Getting Started", "getting-started"},
		{"  Mixed   CASE 123  ", "mixed-case-123"},
		{"What's New?", "what-s-new"},
		{"---", ""},
	}
	for _, c := range cases {
		if got := slugify(c.in); got != c.want {
			t.Errorf("slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestOutline_HeadingLevelsPopSiblings(t *testing.T) {
	b := newOutlineBuilder("test.md")
	b.Heading(1, "pygame.mixer", nil)
	b.Heading(2, "pygame.mixer.Sound", nil)
	b.Heading(3, "pygame.mixer.Sound.play()", nil)
	b.Heading(2, "pygame.mixer.Channel", nil)
	root := b.Root()

	snd := findDesc(root, "pygame.mixer.Sound")
	if snd == nil {
		t.Fatal("no Sound desc")
	}
	if findDesc(snd, "pygame.mixer.Sound.play") == nil {
		t.Error("play not nested under Sound")
	}
	if findDesc(snd, "pygame.mixer.Channel") != nil {
		t.Error("Channel nested under Sound, want sibling")
	}
	if findDesc(root, "pygame.mixer.Channel") == nil {
		t.Error("Channel missing")
	}
}

func TestOutline_SkippedLevelStillNests(t *testing.T) {
	b := newOutlineBuilder("test.md")
	b.Heading(1, "pygame.font", nil)
	b.Heading(4, "pygame.font.Font", nil)
	root := b.Root()

	sec := findFirst(root, "section")
	if sec == nil {
		t.Fatal("no module section")
	}
	if findDesc(sec, "pygame.font.Font") == nil {
		t.Error("entity not nested under module despite level gap")
	}
}

func TestOutline_EmptyBodyEventsIgnored(t *testing.T) {
	b := newOutlineBuilder("test.md")
	b.Heading(1, "pygame.time", nil)
	b.Paragraph("   ")
	b.Summary("")
	b.Literal("")
	root := b.Root()

	sec := findFirst(root, "section")
	if sec == nil {
		t.Fatal("no section")
	}
	// Only the title child survives.
	if len(sec.Children) != 1 || sec.Children[0].Kind != "title" {
		t.Errorf("section children = %d", len(sec.Children))
	}
}
