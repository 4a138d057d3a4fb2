package legalmd

import "testing"

func TestComputeMetrics_FullCoverageWhenNoSuspects(t *testing.T) {
	// WHAT: acceptance scenario 1 - no suspect pages means full coverage.
	m := ComputeMetrics([]string{"a", "b"}, "## BAB I\na\nb", nil, nil, 2)
	if m.CoveragePages != 1.0 {
		t.Errorf("coverage_pages = %f, want 1.0", m.CoveragePages)
	}
}

func TestComputeMetrics_CoverageOneWhenSuspectsFullyOCRd(t *testing.T) {
	// WHAT: every suspect page also appears in ocr_run_pages implies full
	// coverage, per the invariant in spec.md.
	m := ComputeMetrics([]string{"", "b"}, "b", []int{1}, []int{1}, 2)
	if m.CoveragePages != 1.0 {
		t.Errorf("coverage_pages = %f, want 1.0", m.CoveragePages)
	}
}

func TestComputeMetrics_PartialCoverageWhenSuspectNotOCRd(t *testing.T) {
	m := ComputeMetrics([]string{"", "b"}, "b", []int{1}, nil, 2)
	if m.CoveragePages != 0.5 {
		t.Errorf("coverage_pages = %f, want 0.5", m.CoveragePages)
	}
}

func TestComputeMetrics_CharacterCoverageClamped(t *testing.T) {
	m := ComputeMetrics([]string{"abc"}, "abc def", nil, nil, 1)
	if m.CharacterCoverage > 1.0 {
		t.Errorf("character_coverage = %f, want <= 1.0", m.CharacterCoverage)
	}
}

func TestP95LatencyMS_NearestRank(t *testing.T) {
	got := P95LatencyMS([]int64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100})
	if got != 100 {
		t.Errorf("p95 = %d, want 100 (nearest-rank over 10 samples)", got)
	}
}

func TestP95LatencyMS_Empty(t *testing.T) {
	if got := P95LatencyMS(nil); got != 0 {
		t.Errorf("p95 of empty = %d, want 0", got)
	}
}

func TestMetaFingerprint_StableAcrossTimestamps(t *testing.T) {
	// WHAT: two metadata objects differing only in timestamps produce the
	// same fingerprint.
	// WHY: idempotency invariant from spec.md's testable properties.
	base := Meta{DocID: "doc1", PageCount: 3, Found: FoundCounts{BAB: 1, Pasal: 2}}
	a := base
	a.Timestamps = Timestamps{StartedMS: 100, FinishedMS: 200}
	b := base
	b.Timestamps = Timestamps{StartedMS: 999999, FinishedMS: 1000005}

	fa, err := MetaFingerprint(a)
	if err != nil {
		t.Fatalf("fingerprint a: %v", err)
	}
	fb, err := MetaFingerprint(b)
	if err != nil {
		t.Fatalf("fingerprint b: %v", err)
	}
	if fa != fb {
		t.Errorf("fingerprints differ across timestamp-only change: %s vs %s", fa, fb)
	}
}

func TestMetaFingerprint_StableAcrossOCRTiming(t *testing.T) {
	// WHAT: two metadata objects differing only in per-page OCR wall-clock
	// timing produce the same fingerprint, since that timing is never
	// reproducible run to run.
	base := Meta{DocID: "doc1", PageCount: 3, Found: FoundCounts{BAB: 1, Pasal: 2}}
	a := base
	a.TimingMSPerPage = []int64{120, 340}
	a.P95LatencyMSPerPage = 340
	b := base
	b.TimingMSPerPage = []int64{95, 610}
	b.P95LatencyMSPerPage = 610

	fa, err := MetaFingerprint(a)
	if err != nil {
		t.Fatalf("fingerprint a: %v", err)
	}
	fb, err := MetaFingerprint(b)
	if err != nil {
		t.Fatalf("fingerprint b: %v", err)
	}
	if fa != fb {
		t.Errorf("fingerprints differ across OCR-timing-only change: %s vs %s", fa, fb)
	}
}

func TestMetaFingerprint_ChangesWithContent(t *testing.T) {
	a := Meta{DocID: "doc1", PageCount: 3}
	b := Meta{DocID: "doc1", PageCount: 4}
	fa, _ := MetaFingerprint(a)
	fb, _ := MetaFingerprint(b)
	if fa == fb {
		t.Errorf("fingerprints match despite differing page_count")
	}
}
