package legalmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnumeratePDFs_LexicographicOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.pdf", "c.pdf"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := EnumeratePDFs(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.pdf", "b.pdf", "c.pdf"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i, w := range want {
		if filepath.Base(got[i]) != w {
			t.Errorf("index %d = %s, want %s", i, filepath.Base(got[i]), w)
		}
	}
}

func TestDocIDFor_ReplacesSeparators(t *testing.T) {
	root := "/data/input"
	got, err := DocIDFor(root, "/data/input/2024/uu-nomor-6.pdf")
	if err != nil {
		t.Fatal(err)
	}
	want := "2024__uu-nomor-6"
	if got != want {
		t.Errorf("doc_id = %s, want %s", got, want)
	}
}

func TestDocIDFor_TrimsPDFSuffixCaseInsensitively(t *testing.T) {
	root := "/data/input"
	got, err := DocIDFor(root, "/data/input/UU.PDF")
	if err != nil {
		t.Fatal(err)
	}
	if got != "UU" {
		t.Errorf("doc_id = %s, want UU", got)
	}
}
