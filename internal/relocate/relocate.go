// Package relocate routes generated doc headers into a native source
// tree by naming convention: a header named <module><suffix>.h moves to
// src/<module>/ unless a special path or prefix rule says otherwise.
package relocate

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Config describes the routing rules.
type Config struct {
	HeaderDir      string            `yaml:"header_dir"`      // where the emitter wrote headers
	SourceDir      string            `yaml:"source_dir"`      // root of the native source tree
	FilenameSuffix string            `yaml:"filename_suffix"` // suffix the emitter appended, e.g. "_doc"
	SpecialPaths   map[string]string `yaml:"special_paths"`   // module -> path relative to SourceDir
	PrefixDirs     map[string]string `yaml:"prefix_dirs"`     // filename prefix -> subdirectory, e.g. "sdl2_" -> "_sdl2"
}

// Move relocates every matching header under HeaderDir into the source
// tree and returns how many files moved. Headers whose target directory
// does not exist are left in place; that is expected for pages with no
// native counterpart.
func Move(cfg Config, log *slog.Logger) (int, error) {
	pattern := filepath.Join(cfg.HeaderDir, "*"+cfg.FilenameSuffix+".h")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return 0, fmt.Errorf("glob headers: %w", err)
	}

	// Longest prefix first, so overlapping rules resolve the same way
	// every build.
	prefixes := make([]string, 0, len(cfg.PrefixDirs))
	for prefix := range cfg.PrefixDirs {
		prefixes = append(prefixes, prefix)
	}
	sort.Slice(prefixes, func(i, j int) bool {
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) > len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})

	moved := 0
	for _, file := range files {
		name := filepath.Base(file)
		module := strings.TrimSuffix(name, cfg.FilenameSuffix+".h")

		subdir := ""
		for _, prefix := range prefixes {
			if strings.HasPrefix(module, prefix) {
				module = strings.TrimPrefix(module, prefix)
				subdir = cfg.PrefixDirs[prefix]
				break
			}
		}

		var target string
		if special, ok := cfg.SpecialPaths[module]; ok {
			target = filepath.Join(cfg.SourceDir, special)
		} else if subdir != "" {
			target = filepath.Join(cfg.SourceDir, "src", subdir, module)
		} else {
			target = filepath.Join(cfg.SourceDir, "src", module)
		}

		if info, err := os.Stat(target); err != nil || !info.IsDir() {
			log.Debug("no target for header, leaving in place", "header", name, "target", target)
			continue
		}

		dest := filepath.Join(target, module+cfg.FilenameSuffix+".h")
		if err := os.Rename(file, dest); err != nil {
			return moved, fmt.Errorf("move %s: %w", name, err)
		}
		log.Info("relocated header", "header", name, "dest", dest)
		moved++
	}
	return moved, nil
}
