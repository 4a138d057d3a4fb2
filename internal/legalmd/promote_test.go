package legalmd

import (
	"strings"
	"testing"
)

func TestPromoteHeadings_BABAndPasalCounts(t *testing.T) {
	// WHAT: acceptance scenario 1 - a single chapter with three articles.
	text := "BAB I\nKETENTUAN UMUM\nPasal 1\nIsi.\nPasal 2\nIsi.\nPasal 3\nIsi."
	md, found := PromoteHeadings(text)
	if found.BAB != 1 || found.Pasal != 3 {
		t.Errorf("found = %+v, want bab=1 pasal=3", found)
	}
	if !strings.Contains(md, "## BAB I — KETENTUAN UMUM") {
		t.Errorf("markdown = %q, want BAB heading with title", md)
	}
	if !strings.Contains(md, "## Pasal 1") {
		t.Errorf("markdown = %q, want Pasal 1 heading", md)
	}
}

func TestPromoteHeadings_MenimbangMengingat(t *testing.T) {
	md, found := PromoteHeadings("Menimbang:\na. bahwa...\nMengingat:\n1. Pasal 5...")
	if !found.Menimbang || !found.Mengingat {
		t.Errorf("found = %+v, want both true", found)
	}
	if !strings.Contains(md, "## Menimbang") || !strings.Contains(md, "## Mengingat") {
		t.Errorf("markdown = %q, want both headings", md)
	}
}

func TestPromoteHeadings_ExplanationSubsectionsInOrder(t *testing.T) {
	// WHAT: acceptance scenario 5 - PENJELASAN followed by roman subsections.
	text := "PENJELASAN\nI. UMUM\nTeks umum.\nII. PASAL DEMI PASAL\nTeks pasal."
	md, found := PromoteHeadings(text)
	if !found.Penjelasan {
		t.Errorf("found.Penjelasan = false, want true")
	}
	iIdx := strings.Index(md, "### I. UMUM")
	iiIdx := strings.Index(md, "### II. PASAL DEMI PASAL")
	if iIdx < 0 || iiIdx < 0 || iIdx > iiIdx {
		t.Errorf("markdown = %q, want ### I. before ### II. in order", md)
	}
}

func TestPromoteHeadings_RomanSubsectionOnlyInsideExplanation(t *testing.T) {
	// WHAT: a roman-numeral-looking line outside PENJELASAN state is left
	// alone (it is not a heading landmark by itself).
	md, _ := PromoteHeadings("IV. Bukan bagian penjelasan.")
	if strings.Contains(md, "###") {
		t.Errorf("markdown = %q, should not promote roman line outside PENJELASAN", md)
	}
}

func TestPromoteHeadings_BABTitleSkipsBlankLine(t *testing.T) {
	// WHAT: spec.md §4.8 - a blank line between a BAB landmark and its
	// ALL-CAPS title must not suppress the title join.
	md, found := PromoteHeadings("BAB I\n\nKETENTUAN UMUM\nPasal 1\nIsi.")
	if found.BAB != 1 {
		t.Errorf("found.BAB = %d, want 1", found.BAB)
	}
	if !strings.Contains(md, "## BAB I — KETENTUAN UMUM") {
		t.Errorf("markdown = %q, want BAB heading with title across the blank line", md)
	}
}

func TestPromoteHeadings_PasalLineCountsOnlyAsPasal(t *testing.T) {
	// WHAT: a Pasal line is promoted as an article heading and is not also
	// counted as a chapter.
	md, found := PromoteHeadings("Pasal 9")
	if found.Pasal != 1 || found.BAB != 0 {
		t.Errorf("found = %+v, want pasal=1 bab=0", found)
	}
	if !strings.Contains(md, "## Pasal 9") {
		t.Errorf("markdown = %q", md)
	}
}
