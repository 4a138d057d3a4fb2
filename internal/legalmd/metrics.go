package legalmd

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// noisePatterns are the built-in noise patterns (bare digits, "halaman N",
// "page N of M") that leak_rate counts post hoc in the final Markdown. The
// Repeated-Line Suppressor does not use them; it works from cross-page
// repetition alone.
var noisePatterns = []*regexp.Regexp{
	reAllDigits,
	regexp.MustCompile(`(?i)^\s*halaman\s+\d+`),
	regexp.MustCompile(`(?i)^\s*page\s+\d+\s+of\s+\d+`),
}

func isNoiseLine(line string) bool {
	for _, re := range noisePatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// isHeadingLine reports whether line is a Markdown heading emitted by the
// Heading Promoter, exempt from the split_violations check.
func isHeadingLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

// countNonWhitespace counts non-whitespace runes across all pages.
func countNonWhitespace(text string) int {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// ComputeMetrics fills in Metrics for one document. rawPages is the
// concatenation of pages immediately after extraction (before suppression
// or cleanup); finalMarkdown is the fully promoted Markdown;
// suspectPages/ocrRunPages are 1-based page indices (every other page
// counts as non-suspect);
// pageCount is the document's total page count.
func ComputeMetrics(rawPages []string, finalMarkdown string, suspectPages, ocrRunPages []int, pageCount int) Metrics {
	var m Metrics

	rawJoined := strings.Join(rawPages, "\n")
	rawChars := countNonWhitespace(rawJoined)
	finalChars := countNonWhitespace(finalMarkdown)
	if rawChars > 0 {
		m.CharacterCoverage = float64(finalChars) / float64(rawChars)
	}
	if m.CharacterCoverage > 1.0 {
		m.CharacterCoverage = 1.0
	}
	if m.CharacterCoverage < 0 {
		m.CharacterCoverage = 0
	}

	lines := strings.Split(finalMarkdown, "\n")
	noiseCount := 0
	for _, line := range lines {
		if isNoiseLine(line) {
			noiseCount++
		}
	}
	if len(lines) > 0 {
		m.LeakRate = float64(noiseCount) / float64(len(lines))
	}

	violations := 0
	prevEndsSentence := true
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if isHeadingLine(line) {
			prevEndsSentence = true
			continue
		}
		r, ok := firstRune(trimmed)
		startsMidSentence := ok && (unicode.IsLower(r) || strings.ContainsRune(")]}", r))
		if startsMidSentence && !prevEndsSentence {
			violations++
		}
		prevEndsSentence = endsSentence(line)
	}
	m.SplitViolations = violations

	if pageCount > 0 {
		suspectSet := make(map[int]bool, len(suspectPages))
		for _, p := range suspectPages {
			suspectSet[p] = true
		}
		ocrSet := make(map[int]bool, len(ocrRunPages))
		for _, p := range ocrRunPages {
			ocrSet[p] = true
		}
		covered := 0
		for p := 1; p <= pageCount; p++ {
			if !suspectSet[p] || ocrSet[p] {
				covered++
			}
		}
		m.CoveragePages = float64(covered) / float64(pageCount)
	}

	return m
}

// P95LatencyMS computes the 95th percentile (nearest-rank) over
// per-page timings. It sorts a copy of the values, so the order of the
// input slice does not affect the result.
func P95LatencyMS(timings []int64) int64 {
	if len(timings) == 0 {
		return 0
	}
	sorted := append([]int64(nil), timings...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	rank := int(0.95*float64(len(sorted)) + 0.9999999)
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}

// MetaFingerprint computes the SHA-256 of the canonical JSON serialization
// of meta with the volatile fields timestamps, timing_ms_per_page,
// p95_latency_ms_per_page, metrics.duration_ms, and stats.runtime_ms
// removed and keys sorted lexicographically. meta.MetaFingerprint itself
// is not part of the input (it does not exist yet). Per-page OCR timing
// is wall-clock and never reproducible run to run, so it is excluded the
// same way timestamps are.
func MetaFingerprint(meta Meta) (string, error) {
	meta.MetaFingerprint = ""
	raw, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}
	var generic map[string]interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", err
	}
	delete(generic, "timestamps")
	delete(generic, "meta_fingerprint")
	delete(generic, "timing_ms_per_page")
	delete(generic, "p95_latency_ms_per_page")
	if metrics, ok := generic["metrics"].(map[string]interface{}); ok {
		delete(metrics, "duration_ms")
	}
	if stats, ok := generic["stats"].(map[string]interface{}); ok {
		delete(stats, "runtime_ms")
	}
	canon, err := canonicalJSON(generic)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}

// canonicalJSON serializes v with map keys sorted lexicographically at
// every level, matching Go's default encoding/json behavior for map[string]
// but applied recursively for nested maps and slices of maps.
func canonicalJSON(v interface{}) ([]byte, error) {
	switch val := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			b.Write(kb)
			b.WriteByte(':')
			vb, err := canonicalJSON(val[k])
			if err != nil {
				return nil, err
			}
			b.Write(vb)
		}
		b.WriteByte('}')
		return []byte(b.String()), nil
	case []interface{}:
		var b strings.Builder
		b.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				b.WriteByte(',')
			}
			ib, err := canonicalJSON(item)
			if err != nil {
				return nil, err
			}
			b.Write(ib)
		}
		b.WriteByte(']')
		return []byte(b.String()), nil
	default:
		return json.Marshal(val)
	}
}
