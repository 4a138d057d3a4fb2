package legalmd

import "testing"

func TestDetectSuspects_EmptyPageIsSuspect(t *testing.T) {
	// WHAT: A page with no text at all is suspect.
	// WHY: Empty extraction is the clearest sign of a scanned page.
	got := DetectSuspects([]string{"", "Pasal 1\nKetentuan umum berlaku."})
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("suspects = %v, want [1]", got)
	}
}

func TestDetectSuspects_SparseAlphaIsSuspect(t *testing.T) {
	// WHAT: Mostly-digits/punctuation pages fall below the alpha ratio floor.
	// WHY: Layout-only extraction of a scanned table looks like this.
	got := DetectSuspects([]string{"12 3. 45 -- 6 7 8"})
	if len(got) != 1 {
		t.Errorf("suspects = %v, want [1]", got)
	}
}

func TestDetectSuspects_NormalTextNotSuspect(t *testing.T) {
	// WHAT: A page with ordinary prose is never flagged.
	got := DetectSuspects([]string{"BAB I\nKetentuan Umum\nPasal 1\nDalam Undang-Undang ini yang dimaksud dengan istilah tertentu adalah sebagai berikut."})
	if len(got) != 0 {
		t.Errorf("suspects = %v, want none", got)
	}
}

func TestDetectSuspects_OrderIsAscending(t *testing.T) {
	// WHAT: Multiple suspects are returned in ascending page order.
	got := DetectSuspects([]string{"", "text enough to pass the threshold here for sure yes indeed friend", ""})
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("suspects = %v, want [1 3]", got)
	}
}
