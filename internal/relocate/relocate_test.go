package relocate

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("/* header */\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mkdirs(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if err := os.MkdirAll(p, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", p, err)
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestMove_DefaultModuleDirectory(t *testing.T) {
	headerDir := t.TempDir()
	srcRoot := t.TempDir()
	mkdirs(t, filepath.Join(srcRoot, "src", "cursors"))
	touch(t, filepath.Join(headerDir, "cursors_doc.h"))

	cfg := Config{HeaderDir: headerDir, SourceDir: srcRoot, FilenameSuffix: "_doc"}
	moved, err := Move(cfg, discardLogger())
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if moved != 1 {
		t.Errorf("moved = %d, want 1", moved)
	}
	if !exists(filepath.Join(srcRoot, "src", "cursors", "cursors_doc.h")) {
		t.Error("header not in module directory")
	}
	if exists(filepath.Join(headerDir, "cursors_doc.h")) {
		t.Error("header left behind after move")
	}
}

func TestMove_SpecialPathWins(t *testing.T) {
	headerDir := t.TempDir()
	srcRoot := t.TempDir()
	mkdirs(t,
		filepath.Join(srcRoot, "docs", "c_api"),
		filepath.Join(srcRoot, "src", "surface"),
	)
	touch(t, filepath.Join(headerDir, "surface_doc.h"))

	cfg := Config{
		HeaderDir:      headerDir,
		SourceDir:      srcRoot,
		FilenameSuffix: "_doc",
		SpecialPaths:   map[string]string{"surface": "docs/c_api"},
	}
	moved, err := Move(cfg, discardLogger())
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if moved != 1 {
		t.Errorf("moved = %d, want 1", moved)
	}
	if !exists(filepath.Join(srcRoot, "docs", "c_api", "surface_doc.h")) {
		t.Error("header not at its special path")
	}
	if exists(filepath.Join(srcRoot, "src", "surface", "surface_doc.h")) {
		t.Error("special path ignored in favor of module directory")
	}
}

func TestMove_PrefixRouting(t *testing.T) {
	headerDir := t.TempDir()
	srcRoot := t.TempDir()
	mkdirs(t, filepath.Join(srcRoot, "src", "_sdl2", "controller"))
	touch(t, filepath.Join(headerDir, "sdl2_controller_doc.h"))

	cfg := Config{
		HeaderDir:      headerDir,
		SourceDir:      srcRoot,
		FilenameSuffix: "_doc",
		PrefixDirs:     map[string]string{"sdl2_": "_sdl2"},
	}
	moved, err := Move(cfg, discardLogger())
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if moved != 1 {
		t.Errorf("moved = %d, want 1", moved)
	}
	if !exists(filepath.Join(srcRoot, "src", "_sdl2", "controller", "controller_doc.h")) {
		t.Error("prefixed header not routed into its subdirectory")
	}
}

func TestMove_OverlappingPrefixesPickLongest(t *testing.T) {
	headerDir := t.TempDir()
	srcRoot := t.TempDir()
	// Both rules match sdl2_video_doc.h; the longer prefix must win,
	// and deterministically so across runs.
	mkdirs(t,
		filepath.Join(srcRoot, "src", "_sdl2video", "x"),
		filepath.Join(srcRoot, "src", "_sdl2", "video"),
	)

	cfg := Config{
		HeaderDir:      headerDir,
		SourceDir:      srcRoot,
		FilenameSuffix: "_doc",
		PrefixDirs: map[string]string{
			"sdl2_":       "_sdl2",
			"sdl2_video_": "_sdl2video",
		},
	}
	for i := 0; i < 5; i++ {
		touch(t, filepath.Join(headerDir, "sdl2_video_x_doc.h"))
		moved, err := Move(cfg, discardLogger())
		if err != nil {
			t.Fatalf("Move: %v", err)
		}
		if moved != 1 {
			t.Fatalf("moved = %d, want 1", moved)
		}
		dest := filepath.Join(srcRoot, "src", "_sdl2video", "x", "x_doc.h")
		if !exists(dest) {
			t.Fatal("longest prefix rule not applied")
		}
		os.Remove(dest)
	}
}

func TestMove_MissingTargetLeftInPlace(t *testing.T) {
	headerDir := t.TempDir()
	srcRoot := t.TempDir()
	touch(t, filepath.Join(headerDir, "orphan_doc.h"))

	cfg := Config{HeaderDir: headerDir, SourceDir: srcRoot, FilenameSuffix: "_doc"}
	moved, err := Move(cfg, discardLogger())
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if moved != 0 {
		t.Errorf("moved = %d, want 0", moved)
	}
	if !exists(filepath.Join(headerDir, "orphan_doc.h")) {
		t.Error("header without a target directory was moved or lost")
	}
}

func TestMove_IgnoresNonMatchingFiles(t *testing.T) {
	headerDir := t.TempDir()
	srcRoot := t.TempDir()
	mkdirs(t, filepath.Join(srcRoot, "src", "readme"))
	touch(t, filepath.Join(headerDir, "readme.h"))

	cfg := Config{HeaderDir: headerDir, SourceDir: srcRoot, FilenameSuffix: "_doc"}
	moved, err := Move(cfg, discardLogger())
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if moved != 0 {
		t.Errorf("moved = %d, want 0", moved)
	}
	if !exists(filepath.Join(headerDir, "readme.h")) {
		t.Error("non-matching file disturbed")
	}
}
