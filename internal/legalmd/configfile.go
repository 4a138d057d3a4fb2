package legalmd

import (
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the subset of Config loadable from a YAML file, adapted
// from domwatch/internal/config.LoadFile. Flags passed on the command line
// take precedence over anything set here (see ApplyFileConfig for the
// boolean fields); FileConfig only seeds defaults that a deployment wants
// to keep out of its shell scripts.
type FileConfig struct {
	WithOCR          string   `yaml:"with_ocr"`
	OCRLang          string   `yaml:"ocr_lang"`
	OCRDPI           int      `yaml:"ocr_dpi"`
	LawMode          string   `yaml:"law_mode"`
	KeepLines        []string `yaml:"keep_lines"`
	DumpSteps        bool     `yaml:"dump_steps"`
	Artifacts        bool     `yaml:"artifacts"`
	PerDocDir        *bool    `yaml:"per_doc_dir"`
	Strict           bool     `yaml:"strict"`
	Workers          int      `yaml:"workers"`
	Serve            string   `yaml:"serve"`
	ServeAddr        string   `yaml:"serve_addr"`
}

// LoadFileConfig reads a YAML configuration file at path.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

// ApplyFileConfig merges fc into cfg wherever cfg still holds its zero
// value, so command-line flags win over the file. The boolean fields
// DumpSteps, Artifacts and Strict are merged by OR: a true in the file
// turns them on even when the flag was passed as off. perDocDirSet
// must be true when --per-doc-dir was passed explicitly on the command
// line: PerDocDir's on-by-default semantics make its Go zero value
// (false) indistinguishable from an explicit --per-doc-dir=off, so the
// caller tracks "was it passed at all" separately and tells us here.
func ApplyFileConfig(cfg Config, fc *FileConfig, perDocDirSet bool) Config {
	if fc == nil {
		return cfg
	}
	if cfg.WithOCR == "" {
		cfg.WithOCR = fc.WithOCR
	}
	if cfg.OCRLang == "" {
		cfg.OCRLang = fc.OCRLang
	}
	if cfg.OCRDPI == 0 {
		cfg.OCRDPI = fc.OCRDPI
	}
	if cfg.LawMode == "" {
		cfg.LawMode = fc.LawMode
	}
	if len(cfg.KeepLines) == 0 && len(fc.KeepLines) > 0 {
		cfg.KeepLines = CompileKeepLines(fc.KeepLines)
	}
	if !cfg.DumpSteps {
		cfg.DumpSteps = fc.DumpSteps
	}
	if !cfg.Artifacts {
		cfg.Artifacts = fc.Artifacts
	}
	if fc.PerDocDir != nil && !perDocDirSet {
		cfg.PerDocDir = *fc.PerDocDir
	}
	if !cfg.Strict {
		cfg.Strict = fc.Strict
	}
	if cfg.Workers == 0 {
		cfg.Workers = fc.Workers
	}
	if cfg.Serve == "" {
		cfg.Serve = fc.Serve
	}
	if cfg.ServeAddr == "" {
		cfg.ServeAddr = fc.ServeAddr
	}
	return cfg
}
