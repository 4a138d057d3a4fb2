package legalmd

import (
	"log/slog"
	"regexp"
)

// Config configures one pipeline invocation. It is immutable once
// defaults() has run; every stage receives it by value or via a pointer it
// must not mutate.
type Config struct {
	// InputRoot is the directory walked by the Document Enumerator.
	InputRoot string
	// OutputRoot is the directory under which per-document output
	// directories are written.
	OutputRoot string

	// WithOCR is "on", "off", or "auto".
	WithOCR string
	// OCRLang is the primary OCR language tag, e.g. "ind".
	OCRLang string
	// OCRDPI is the rasterization DPI used before OCR.
	OCRDPI int
	// LawMode is reserved for future dispatch; only "auto" is implemented.
	LawMode string
	// KeepLines is a whitelist of regexes exempted from repeated-line
	// suppression.
	KeepLines []*regexp.Regexp
	// DumpSteps, when true, writes intermediate step artifacts
	// (step1_extract.txt, step2_merge.txt, suppressor_preview.txt,
	// step3_md.txt) under the document's artifacts/ directory. Has no
	// effect unless Artifacts is also true, since that directory is
	// removed whenever Artifacts is false.
	DumpSteps bool
	// Artifacts, when true, retains OCR-rendered page images.
	Artifacts bool
	// PerDocDir, when true (default), nests outputs under
	// <output_root>/<doc_id>/. When false, outputs land directly in
	// OutputRoot.
	PerDocDir bool
	// Strict causes the driver to exit non-zero if any document violates
	// a KPI.
	Strict bool
	// Workers bounds document-level parallelism. 1 means fully sequential.
	Workers int
	// CISampleSuspects caps OCR work per document to the first N suspect
	// pages by index; 0 means unlimited. Sourced from CI_SAMPLE_SUSPECTS.
	CISampleSuspects int
	// Serve selects an optional surface instead of a batch run: "off"
	// (default), "mcp" (a tool that converts one PDF on request), or
	// "http" (a read-only view over the run ledger).
	Serve string
	// ServeAddr is the listen address when Serve == "http".
	ServeAddr string

	// Logger for structured diagnostics. Never nil after defaults().
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.WithOCR == "" {
		c.WithOCR = "auto"
	}
	if c.OCRLang == "" {
		c.OCRLang = "ind"
	}
	if c.OCRDPI < 72 {
		c.OCRDPI = 300
	}
	if c.LawMode == "" {
		c.LawMode = "auto"
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Serve == "" {
		c.Serve = "off"
	}
	if c.ServeAddr == "" {
		c.ServeAddr = ":8085"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// NewConfig applies defaults to cfg and returns it.
func NewConfig(cfg Config) Config {
	cfg.defaults()
	return cfg
}

// CompileKeepLines compiles a whitelist of regex patterns. It never
// returns an error: an ill-formed pattern is skipped and the well-formed
// ones are kept, so an empty list, or one in which every pattern is
// ill-formed, yields an empty whitelist. A caller-supplied bad regex
// degrades the whitelist instead of aborting the run.
func CompileKeepLines(patterns []string) []*regexp.Regexp {
	var out []*regexp.Regexp
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		out = append(out, re)
	}
	return out
}
