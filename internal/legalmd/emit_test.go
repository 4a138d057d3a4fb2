package legalmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmitDocument_WritesMarkdownAndMeta(t *testing.T) {
	dir := t.TempDir()
	docDir := filepath.Join(dir, "uu-1")
	meta := Meta{DocID: "uu-1", PageCount: 1}
	if err := EmitDocument(docDir, "uu-1", "# Halo", meta, false); err != nil {
		t.Fatal(err)
	}
	md, err := os.ReadFile(filepath.Join(docDir, "uu-1.md"))
	if err != nil || string(md) != "# Halo" {
		t.Errorf("markdown = %q, err = %v", md, err)
	}
	if _, err := os.Stat(filepath.Join(docDir, "uu-1.meta.json")); err != nil {
		t.Errorf("meta.json missing: %v", err)
	}
}

func TestEmitDocument_NoTmpFilesSurvive(t *testing.T) {
	// WHAT: post-condition from spec.md §4.10 - no *.tmp under the output tree.
	dir := t.TempDir()
	docDir := filepath.Join(dir, "uu-1")
	if err := EmitDocument(docDir, "uu-1", "content", Meta{DocID: "uu-1"}, false); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(docDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("leftover tmp file: %s", e.Name())
		}
	}
}

func TestEmitDocument_ArtifactsOffRemovesPriorSubtree(t *testing.T) {
	// WHAT: --artifacts=off removes any prior artifacts/ subtree.
	dir := t.TempDir()
	docDir := filepath.Join(dir, "uu-1")
	artifactsDir := filepath.Join(docDir, "artifacts")
	if err := os.MkdirAll(artifactsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(artifactsDir, "step1_extract.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := EmitDocument(docDir, "uu-1", "content", Meta{DocID: "uu-1"}, false); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(artifactsDir); !os.IsNotExist(err) {
		t.Errorf("artifacts/ subtree should have been removed, stat err = %v", err)
	}
}

func TestCleanStaleArtifacts_RemovesStepFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "step1_extract.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CleanStaleArtifacts(dir); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "step1_extract.txt")); !os.IsNotExist(err) {
		t.Errorf("stale step file should have been removed")
	}
}

func TestCleanStaleArtifacts_MissingDirIsNotAnError(t *testing.T) {
	if err := CleanStaleArtifacts(filepath.Join(t.TempDir(), "does-not-exist")); err != nil {
		t.Errorf("expected no error for missing dir, got %v", err)
	}
}

func TestPruneStaleOCRArtifacts_RemovesPriorPageImages(t *testing.T) {
	dir := t.TempDir()
	ocrDir := filepath.Join(dir, "artifacts", "ocr")
	if err := os.MkdirAll(ocrDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(ocrDir, "page-3.png"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := PruneStaleOCRArtifacts(dir); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(ocrDir); !os.IsNotExist(err) {
		t.Errorf("artifacts/ocr should have been removed, stat err = %v", err)
	}
}

func TestPruneStaleOCRArtifacts_MissingDirIsNotAnError(t *testing.T) {
	if err := PruneStaleOCRArtifacts(filepath.Join(t.TempDir(), "does-not-exist")); err != nil {
		t.Errorf("expected no error for missing dir, got %v", err)
	}
}
