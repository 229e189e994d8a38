package pipeline

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/refdex/refdex/internal/cache"
	"github.com/refdex/refdex/internal/config"
	"github.com/refdex/refdex/internal/doctree"
	"github.com/refdex/refdex/internal/headers"
	"github.com/refdex/refdex/internal/index"
	"github.com/refdex/refdex/internal/parser"
	"github.com/refdex/refdex/internal/relocate"
)

// Driver runs the full pipeline: discover reference documents, parse
// them with a bounded worker pool, index them one at a time into the
// registry, then emit one header per non-empty page. It owns the
// registry for the lifetime of a build; nothing else mutates it.
type Driver struct {
	cfg   config.Config
	reg   *index.Registry
	cache *cache.Store // nil when caching is disabled
	log   *slog.Logger
}

// New returns a driver bound to reg. store may be nil.
func New(cfg config.Config, reg *index.Registry, store *cache.Store, log *slog.Logger) *Driver {
	return &Driver{cfg: cfg, reg: reg, cache: store, log: log}
}

// Registry exposes the driver's registry for read-only consumers such as
// the inspection server.
func (d *Driver) Registry() *index.Registry {
	return d.reg
}

// Stats summarizes one build.
type Stats struct {
	Documents    int           `json:"documents"`
	CacheHits    int           `json:"cache_hits"`
	Entries      int           `json:"entries"`
	PagesWritten int           `json:"pages_written"`
	HeadersMoved int           `json:"headers_moved"`
	Duration     time.Duration `json:"duration"`
}

// parseResult is the outcome of reading and parsing one source file.
// When cached is non-nil the fingerprint matched and root stays nil.
type parseResult struct {
	path   string
	doc    string
	fp     string
	root   *doctree.Node
	cached *cache.Document
	err    error
}

// Build processes every supported document under the source directory
// and writes headers. Parsing runs concurrently; indexing is strictly
// sequential in sorted file order, so registry order is stable across
// runs of the same document set.
func (d *Driver) Build(ctx context.Context) (Stats, error) {
	start := time.Now()
	var stats Stats

	files, err := d.discover()
	if err != nil {
		return stats, err
	}

	results := make([]parseResult, len(files))
	sem := make(chan struct{}, d.cfg.ParseWorkers)
	done := make(chan int, len(files))
	for i, path := range files {
		sem <- struct{}{}
		go func(i int, path string) {
			defer func() { <-sem }()
			results[i] = d.parseFile(path)
			done <- i
		}(i, path)
	}
	for range files {
		<-done
	}

	for _, res := range results {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if res.err != nil {
			return stats, fmt.Errorf("%s: %w", res.path, res.err)
		}
		if err := d.indexResult(res); err != nil {
			return stats, fmt.Errorf("index %s: %w", res.doc, err)
		}
		stats.Documents++
		if res.cached != nil {
			stats.CacheHits++
		}
	}
	stats.Entries = d.reg.Len()

	written, err := d.emit()
	if err != nil {
		return stats, err
	}
	stats.PagesWritten = written

	if d.cfg.RelocateHeaders {
		moved, err := relocate.Move(d.cfg.Relocate, d.log)
		if err != nil {
			return stats, err
		}
		stats.HeadersMoved = moved
	}

	stats.Duration = time.Since(start)
	d.log.Info("build complete",
		"documents", stats.Documents,
		"cache_hits", stats.CacheHits,
		"entries", stats.Entries,
		"pages", stats.PagesWritten,
		"duration_ms", stats.Duration.Milliseconds(),
	)
	return stats, nil
}

// ReindexFile reprocesses a single changed document and rewrites its
// page. Purge-then-collect makes this idempotent: unchanged content
// yields entries identical to a fresh build.
func (d *Driver) ReindexFile(path string) error {
	res := d.parseFile(path)
	if res.err != nil {
		return fmt.Errorf("%s: %w", res.path, res.err)
	}
	log := d.log.With("doc", res.doc, "path", path)
	if err := d.indexResult(res); err != nil {
		return fmt.Errorf("index %s: %w", res.doc, err)
	}
	emitter, err := headers.NewEmitter(d.headerConfig(), d.reg, d.log)
	if err != nil {
		return err
	}
	wrote, err := emitter.WritePage(res.doc)
	if err != nil {
		return err
	}
	log.Info("reindexed document", "cached", res.cached != nil, "page_written", wrote)
	return nil
}

// RemoveDoc purges a deleted document from the registry and the cache.
func (d *Driver) RemoveDoc(path string) error {
	doc := parser.DocName(path)
	d.reg.Purge(doc)
	d.log.Info("purged removed document", "doc", doc)
	if d.cache != nil {
		return d.cache.Delete(doc)
	}
	return nil
}

// parseFile reads one source file, fingerprints it and, unless the
// cache already has this exact content, parses it into a document tree.
func (d *Driver) parseFile(path string) parseResult {
	res := parseResult{path: path, doc: parser.DocName(path)}

	data, err := os.ReadFile(path)
	if err != nil {
		res.err = err
		return res
	}
	res.fp = fingerprint(data)

	if d.cache != nil {
		cached, err := d.cache.Load(res.doc)
		if err != nil {
			d.log.Warn("cache read failed, reparsing", "doc", res.doc, "error", err)
		} else if cached != nil && cached.Fingerprint == res.fp {
			res.cached = cached
			return res
		}
	}

	p, err := parser.ForFile(path)
	if err != nil {
		res.err = err
		return res
	}
	if pp, ok := p.(*parser.PDFParser); ok {
		pp.FallbackPdftotext = d.cfg.PDFFallbackPdftotext
	}
	res.root, res.err = p.Parse(bytes.NewReader(data), filepath.Base(path))
	return res
}

// indexResult purges the document and repopulates it, either from the
// cache or by collecting the freshly parsed tree.
func (d *Driver) indexResult(res parseResult) error {
	d.reg.Purge(res.doc)

	if res.cached != nil {
		for _, e := range res.cached.Entries {
			d.reg.Put(e.RefID, e)
		}
		for _, s := range res.cached.Sections {
			d.reg.AddSection(s)
		}
		d.log.Debug("loaded document from cache", "doc", res.doc)
		return nil
	}

	if err := index.Collect(d.reg, res.doc, res.root); err != nil {
		return err
	}

	if d.cache != nil {
		saved := &cache.Document{
			Fingerprint: res.fp,
			Entries:     d.reg.EntriesFor(res.doc),
			Sections:    d.reg.SectionsFor(res.doc),
		}
		if err := d.cache.Save(res.doc, saved); err != nil {
			d.log.Warn("cache write failed", "doc", res.doc, "error", err)
		}
	}
	return nil
}

// emit writes one header per non-empty page, in registry page order.
func (d *Driver) emit() (int, error) {
	emitter, err := headers.NewEmitter(d.headerConfig(), d.reg, d.log)
	if err != nil {
		return 0, err
	}
	written := 0
	for _, page := range d.reg.Pages() {
		wrote, err := emitter.WritePage(page)
		if err != nil {
			return written, err
		}
		if wrote {
			written++
		}
	}
	return written, nil
}

func (d *Driver) headerConfig() headers.Config {
	return headers.Config{
		Dest:           d.cfg.Dest,
		MakeDirs:       d.cfg.MakeDirs,
		FilenameSuffix: d.cfg.FilenameSuffix,
		TemplatePath:   d.cfg.Template,
		MacroPrefix:    d.cfg.MacroPrefix,
	}
}

// discover lists supported files under the source directory in sorted
// order. Sorted order is what makes top-level registry order stable
// build over build.
func (d *Driver) discover() ([]string, error) {
	var files []string
	err := filepath.WalkDir(d.cfg.SourceDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if parser.IsSupportedExtension(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", d.cfg.SourceDir, err)
	}
	sort.Strings(files)
	return files, nil
}

func fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
