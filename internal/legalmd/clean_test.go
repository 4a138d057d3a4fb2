package legalmd

import (
	"strings"
	"testing"
)

func TestCleanPages_HyphenationRepaired(t *testing.T) {
	// WHAT: A hyphenated word split across a line break is rejoined.
	// WHY: acceptance scenario 4 - "pemerin-\ntah" must become "pemerintah".
	out, stats := CleanPages([]string{"pemerin-\ntah rakyat"})
	if !strings.Contains(out, "pemerintah") {
		t.Errorf("markdown = %q, want it to contain %q", out, "pemerintah")
	}
	if stats.HyphensFixed < 1 {
		t.Errorf("hyphens_fixed = %d, want >= 1", stats.HyphensFixed)
	}
}

func TestCleanPages_SoftWrapJoinsMidSentence(t *testing.T) {
	// WHAT: A line not ending in sentence punctuation is joined to a
	// lowercase-starting continuation.
	out, _ := CleanPages([]string{"Setiap orang berhak\natas pekerjaan yang layak."})
	if !strings.Contains(out, "berhak atas pekerjaan") {
		t.Errorf("markdown = %q, want soft-wrap join", out)
	}
}

func TestCleanPages_SoftWrapDoesNotAbsorbLandmark(t *testing.T) {
	// WHAT: A landmark line must never be absorbed into the previous line
	// even if the previous line does not end in sentence punctuation.
	out, _ := CleanPages([]string{"Lihat ketentuan berikut\nPasal 5"})
	if !strings.Contains(out, "\nPasal 5") && !strings.HasPrefix(out, "Pasal 5") {
		t.Errorf("markdown = %q, want Pasal 5 kept on its own line", out)
	}
}

func TestCleanPages_StripsNearbyPageNumbers(t *testing.T) {
	// WHAT: A line that is only digits within +/-5 of the page index is
	// removed.
	out, _ := CleanPages([]string{"Isi halaman satu.\n3"})
	if strings.Contains(out, "\n3\n") || strings.HasSuffix(out, "\n3") {
		t.Errorf("markdown = %q, page-number line should have been stripped", out)
	}
}

func TestCleanPages_CollapsesLongBlankRuns(t *testing.T) {
	// WHAT: Four or more consecutive newlines (three-plus blank lines)
	// collapse to exactly two blank lines.
	out, _ := CleanPages([]string{"Satu.\n\n\n\n\nDua."})
	if strings.Contains(out, "\n\n\n\n") {
		t.Errorf("markdown = %q, blank run not collapsed", out)
	}
}

func TestRepairHyphenation_DoesNotJoinBeforeUppercase(t *testing.T) {
	// WHAT: A trailing hyphen before a line starting uppercase is left
	// alone (likely a real word-final hyphen, not a soft break).
	out, fixed := repairHyphenation("Sub-\nBagian ini penting.")
	if fixed != 0 {
		t.Errorf("hyphens fixed = %d, want 0", fixed)
	}
	if !strings.Contains(out, "Sub-") {
		t.Errorf("output = %q, hyphen should be preserved", out)
	}
}
