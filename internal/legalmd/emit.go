package legalmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// stepArtifactPattern matches stale step-artifact files left directly under
// a document directory by a prior --dump-steps run.
var stepArtifactPattern = regexp.MustCompile(`^step\d+_.*\.txt$`)

// DocDir returns the per-document output directory for docID under root.
func DocDir(outputRoot, docID string) string {
	return filepath.Join(outputRoot, docID)
}

// CleanStaleArtifacts removes leftover *.tmp files, step*_*.txt files, and
// empty artifacts/ directories from a prior run of this document, so the
// Emitter's post-conditions hold before it writes anything new.
func CleanStaleArtifacts(docDir string) error {
	entries, err := os.ReadDir(docDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, e := range entries {
		name := e.Name()
		switch {
		case filepath.Ext(name) == ".tmp":
			_ = os.Remove(filepath.Join(docDir, name))
		case !e.IsDir() && stepArtifactPattern.MatchString(name):
			_ = os.Remove(filepath.Join(docDir, name))
		case e.IsDir() && name == "artifacts":
			empty, _ := dirIsEmpty(filepath.Join(docDir, name))
			if empty {
				_ = os.Remove(filepath.Join(docDir, name))
			}
		}
	}
	return nil
}

// PruneStaleOCRArtifacts removes any artifacts/ocr page images left by a
// prior run of this document. It must run before the current run writes
// its own OCR artifacts, not after, or it would delete what it just wrote;
// callers invoke it once at the start of a document's pipeline pass.
func PruneStaleOCRArtifacts(docDir string) error {
	err := os.RemoveAll(filepath.Join(docDir, "artifacts", "ocr"))
	if err != nil {
		return err
	}
	return nil
}

func dirIsEmpty(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

// EmitDocument writes the Markdown and metadata files for one document
// atomically (temp file in the same directory, then rename) and, when
// artifacts is false, removes any artifacts/ subtree left by a prior run.
func EmitDocument(docDir, docID, markdown string, meta Meta, artifacts bool) error {
	if err := os.MkdirAll(docDir, 0o755); err != nil {
		return &EmitError{DocID: docID, Err: fmt.Errorf("mkdir: %w", err)}
	}
	if err := CleanStaleArtifacts(docDir); err != nil {
		return &EmitError{DocID: docID, Err: fmt.Errorf("clean stale artifacts: %w", err)}
	}
	if !artifacts {
		_ = os.RemoveAll(filepath.Join(docDir, "artifacts"))
	}

	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return &EmitError{DocID: docID, Err: fmt.Errorf("marshal meta: %w", err)}
	}

	mdPath := filepath.Join(docDir, docID+".md")
	metaPath := filepath.Join(docDir, docID+".meta.json")

	if err := atomicWrite(mdPath, []byte(markdown)); err != nil {
		return &EmitError{DocID: docID, Err: err}
	}
	if err := atomicWrite(metaPath, metaJSON); err != nil {
		return &EmitError{DocID: docID, Err: err}
	}
	return nil
}

// atomicWrite writes data to a PID-suffixed temp file in the destination's
// directory, then renames it into place.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp := fmt.Sprintf("%s.%d.tmp", path, os.Getpid())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename into %s: %w", dir, err)
	}
	return nil
}

// WriteStepArtifact persists one step's intermediate text output under
// docDir/artifacts when dump-steps+artifacts are both enabled.
func WriteStepArtifact(docDir, name, content string) error {
	artifactsDir := filepath.Join(docDir, "artifacts")
	if err := os.MkdirAll(artifactsDir, 0o755); err != nil {
		return err
	}
	return atomicWrite(filepath.Join(artifactsDir, name), []byte(content))
}
