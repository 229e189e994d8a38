package headers

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/refdex/refdex/internal/index"
)

// Config controls where and how header files are written.
type Config struct {
	Dest           string // destination directory for generated headers
	MakeDirs       bool   // create the destination tree when missing
	FilenameSuffix string // inserted before the ".h" extension
	TemplatePath   string // custom template file; empty selects the builtin
	MacroPrefix    string // prefix for generated macro names
}

// DefaultMacroPrefix is used when Config.MacroPrefix is empty.
const DefaultMacroPrefix = "DOC_"

// defaultTemplate renders one #define per tour item, the shape compiled
// extensions include for runtime docstring lookup.
const defaultTemplate = `/* Auto generated file: with refdex. Do not edit. */
{{range .Items}}#define {{.Macro}} "{{.Docs}}"
{{end}}`

// Item is one emission unit: an entry copy plus the computed fields the
// template needs. Docs and Summary are already escaped for embedding in
// a quoted literal.
type Item struct {
	Macro    string
	FullName string
	Kind     string
	Summary  string
	Docs     string
}

// pageContext is the data handed to the template for one page.
type pageContext struct {
	Page  string
	Items []Item
}

// Emitter writes one header file per non-empty output page.
type Emitter struct {
	cfg  Config
	reg  *index.Registry
	tmpl *template.Template
	log  *slog.Logger
}

// NewEmitter parses the configured template and returns an emitter bound
// to reg.
func NewEmitter(cfg Config, reg *index.Registry, log *slog.Logger) (*Emitter, error) {
	if cfg.MacroPrefix == "" {
		cfg.MacroPrefix = DefaultMacroPrefix
	}
	var tmpl *template.Template
	var err error
	if cfg.TemplatePath != "" {
		tmpl, err = template.ParseFiles(cfg.TemplatePath)
		if err != nil {
			return nil, fmt.Errorf("parse header template: %w", err)
		}
	} else {
		tmpl = template.Must(template.New("header").Parse(defaultTemplate))
	}
	return &Emitter{cfg: cfg, reg: reg, tmpl: tmpl, log: log}, nil
}

// WritePage tours every top-level entity owned by page and writes the
// rendered header to Dest. It reports whether a file was written: pages
// with no indexed entities produce nothing. The file is rendered fully
// in memory before the single write; a write failure propagates with no
// partial-file cleanup.
func (e *Emitter) WritePage(page string) (bool, error) {
	var items []Item
	for _, sec := range e.reg.SectionsFor(page) {
		err := e.reg.Tour(sec.RefID, func(en index.Entry) {
			items = append(items, newItem(en, e.cfg.MacroPrefix))
		})
		if err != nil {
			return false, fmt.Errorf("tour %s: %w", sec.RefID, err)
		}
	}
	if len(items) == 0 {
		return false, nil
	}

	if e.cfg.MakeDirs {
		if err := os.MkdirAll(e.cfg.Dest, 0o755); err != nil {
			return false, fmt.Errorf("create header dir: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, pageContext{Page: page, Items: items}); err != nil {
		return false, fmt.Errorf("render header for %s: %w", page, err)
	}

	name := page + e.cfg.FilenameSuffix + ".h"
	path := filepath.Join(e.cfg.Dest, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	e.log.Info("wrote header", "page", page, "path", path, "items", len(items))
	return true, nil
}

func newItem(e index.Entry, macroPrefix string) Item {
	return Item{
		Macro:    MacroName(e.FullName, macroPrefix),
		FullName: e.FullName,
		Kind:     e.Kind,
		Summary:  Escape(e.Summary),
		Docs:     Escape(e.FullDocs),
	}
}

// Escape prepares text for embedding in a double-quoted literal.
// Backslashes are doubled first so the escapes introduced for quotes
// and newlines are not themselves re-escaped.
func Escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

// MacroName derives the #define name from a qualified dotted name. The
// leading namespace segment is dropped when one is present, remaining
// segments are upper-cased and joined with underscores, and characters
// that cannot appear in a C identifier are removed.
func MacroName(fullName, prefix string) string {
	segs := strings.Split(fullName, ".")
	if len(segs) > 1 {
		segs = segs[1:]
	}
	for i, seg := range segs {
		var b strings.Builder
		for _, r := range seg {
			if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' {
				b.WriteRune(r)
			}
		}
		segs[i] = strings.ToUpper(b.String())
	}
	return prefix + strings.Join(segs, "_")
}
