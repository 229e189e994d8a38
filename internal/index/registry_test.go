package index

import (
	"errors"
	"testing"
)

func TestRegistry_GetNotFound(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get error = %v, want ErrNotFound", err)
	}
}

func TestRegistry_PutOverwrites(t *testing.T) {
	r := NewRegistry()
	r.Put("pygame.draw", Entry{RefID: "pygame.draw", Doc: "draw", Summary: "old"})
	r.Put("pygame.draw", Entry{RefID: "pygame.draw", Doc: "draw", Summary: "new"})

	e, err := r.Get("pygame.draw")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e.Summary != "new" {
		t.Errorf("Summary = %q, want overwrite to win", e.Summary)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestRegistry_PurgeRemovesOnlyOwnedState(t *testing.T) {
	r := NewRegistry()
	r.Put("a.one", Entry{RefID: "a.one", Doc: "a"})
	r.Put("b.one", Entry{RefID: "b.one", Doc: "b"})
	r.AddSection(Section{Doc: "a", FullName: "a.one", RefID: "a.one"})
	r.AddSection(Section{Doc: "b", FullName: "b.one", RefID: "b.one"})

	r.Purge("a")

	if _, err := r.Get("a.one"); !errors.Is(err, ErrNotFound) {
		t.Error("purged entry still present")
	}
	if _, err := r.Get("b.one"); err != nil {
		t.Errorf("entry of another document was purged: %v", err)
	}
	tl := r.TopLevel()
	if len(tl) != 1 || tl[0].Doc != "b" {
		t.Errorf("TopLevel after purge = %v, want only document b", tl)
	}
}

func TestRegistry_PagesAndSectionsForPreserveOrder(t *testing.T) {
	r := NewRegistry()
	r.AddSection(Section{Doc: "draw", FullName: "pygame.draw", RefID: "pygame.draw"})
	r.AddSection(Section{Doc: "cursors", FullName: "pygame.cursors", RefID: "pygame.cursors"})
	r.AddSection(Section{Doc: "draw", FullName: "pygame.draw.extra", RefID: "draw-extra"})

	pages := r.Pages()
	if len(pages) != 2 || pages[0] != "draw" || pages[1] != "cursors" {
		t.Errorf("Pages = %v, want [draw cursors]", pages)
	}

	secs := r.SectionsFor("draw")
	if len(secs) != 2 || secs[0].RefID != "pygame.draw" || secs[1].RefID != "draw-extra" {
		t.Errorf("SectionsFor(draw) = %v, want both records in order", secs)
	}
}
