package index

import (
	"errors"
	"reflect"
	"testing"
)

// seedRegistry builds:
//
//	pygame.draw
//	├── pygame.draw.line
//	└── pygame.draw.Shape
//	    ├── pygame.draw.Shape.move
//	    └── pygame.draw.Shape.area
func seedRegistry() *Registry {
	r := NewRegistry()
	r.Put("pygame.draw", Entry{
		RefID: "pygame.draw", Doc: "draw", Kind: "module",
		Children: []string{"pygame.draw.line", "pygame.draw.Shape"},
	})
	r.Put("pygame.draw.line", Entry{RefID: "pygame.draw.line", Doc: "draw", Kind: "function"})
	r.Put("pygame.draw.Shape", Entry{
		RefID: "pygame.draw.Shape", Doc: "draw", Kind: "class",
		Children: []string{"pygame.draw.Shape.move", "pygame.draw.Shape.area"},
	})
	r.Put("pygame.draw.Shape.move", Entry{RefID: "pygame.draw.Shape.move", Doc: "draw", Kind: "method"})
	r.Put("pygame.draw.Shape.area", Entry{RefID: "pygame.draw.Shape.area", Doc: "draw", Kind: "method"})
	return r
}

func TestTour_PreOrderVisitsEachReachableOnce(t *testing.T) {
	r := seedRegistry()

	var got []string
	if err := r.Tour("pygame.draw", func(e Entry) { got = append(got, e.RefID) }); err != nil {
		t.Fatalf("Tour: %v", err)
	}

	want := []string{
		"pygame.draw",
		"pygame.draw.line",
		"pygame.draw.Shape",
		"pygame.draw.Shape.move",
		"pygame.draw.Shape.area",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tour order = %v, want %v", got, want)
	}
}

func TestTour_Restartable(t *testing.T) {
	r := seedRegistry()
	run := func() []string {
		var ids []string
		if err := r.Tour("pygame.draw", func(e Entry) { ids = append(ids, e.RefID) }); err != nil {
			t.Fatalf("Tour: %v", err)
		}
		return ids
	}
	if !reflect.DeepEqual(run(), run()) {
		t.Error("two tours of the same registry state diverged")
	}
}

func TestTour_MissingStartIsNotFound(t *testing.T) {
	r := seedRegistry()
	err := r.Tour("pygame.nonsense", func(Entry) {})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestTour_DanglingChildReferenceIsFatal(t *testing.T) {
	r := seedRegistry()
	r.Put("broken", Entry{RefID: "broken", Doc: "x", Children: []string{"gone"}})

	var visited int
	err := r.Tour("broken", func(Entry) { visited++ })
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if visited != 1 {
		t.Errorf("visited %d entries before the fault, want 1", visited)
	}
}
