package legalmd

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// CleanPages runs the Law-Aware Cleaner over pages (already suppressed of
// repeated noise) in the fixed order spec.md §4.7 mandates: hyphenation
// repair, soft-wrap join, page-number stripping, whitespace normalization.
// Pages are processed independently, then concatenated with a single
// newline. The first element of pages is page 1 (pages are 1-based
// throughout the pipeline).
func CleanPages(pages []string) (string, CleanupStats) {
	var stats CleanupStats
	cleaned := make([]string, len(pages))
	for i, text := range pages {
		pageIndex := i + 1
		text, hyphens := repairHyphenation(text)
		stats.HyphensFixed += hyphens
		text = joinSoftWraps(text)
		text = stripPageNumbers(text, pageIndex)
		cleaned[i] = text
	}
	joined := strings.Join(cleaned, "\n")
	joined = normalizeWhitespace(joined)
	return joined, stats
}

// repairHyphenation splices a trailing-hyphen line into the following
// non-empty line when that line begins with a lowercase letter, removing
// the hyphen and the intervening newline.
func repairHyphenation(text string) (string, int) {
	lines := strings.Split(text, "\n")
	var out []string
	fixed := 0
	i := 0
	for i < len(lines) {
		line := lines[i]
		if strings.HasSuffix(line, "-") {
			j := i + 1
			for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
				j++
			}
			if j < len(lines) {
				nextTrim := strings.TrimLeft(lines[j], " \t")
				if r, ok := firstRune(nextTrim); ok && unicode.IsLower(r) {
					out = append(out, strings.TrimSuffix(line, "-")+nextTrim)
					fixed++
					i = j + 1
					continue
				}
			}
		}
		out = append(out, line)
		i++
	}
	return strings.Join(out, "\n"), fixed
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}

// joinSoftWraps joins a line to the next when the line does not end in a
// sentence-closing character and the next line begins with a lowercase
// letter, unless the next line is a legal landmark or a list marker.
func joinSoftWraps(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	i := 0
	for i < len(lines) {
		line := lines[i]
		for i+1 < len(lines) {
			next := lines[i+1]
			trimmedNext := strings.TrimSpace(next)
			if trimmedNext == "" {
				break
			}
			if isLandmarkLine(next) || isListMarkerLine(next) {
				break
			}
			r, ok := firstRune(strings.TrimLeft(next, " \t"))
			if !ok || !(unicode.IsLower(r)) {
				break
			}
			if endsSentence(line) {
				break
			}
			line = strings.TrimRight(line, " \t") + " " + strings.TrimLeft(next, " \t")
			i++
		}
		out = append(out, line)
		i++
	}
	return strings.Join(out, "\n")
}

var sentenceEnders = ".:;?!)"

func endsSentence(line string) bool {
	trimmed := strings.TrimRight(line, " \t")
	if trimmed == "" {
		return true
	}
	last := trimmed[len(trimmed)-1]
	return strings.IndexByte(sentenceEnders, last) >= 0
}

// stripPageNumbers removes lines consisting entirely of digits whose
// numeric value is within +/-5 of pageIndex.
func stripPageNumbers(text string, pageIndex int) string {
	lines := strings.Split(text, "\n")
	var out []string
	for _, line := range lines {
		if reAllDigits.MatchString(line) {
			n, err := strconv.Atoi(strings.TrimSpace(line))
			if err == nil && abs(n-pageIndex) <= 5 {
				continue
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

var runWS = regexp.MustCompile(`[ \t]+`)
var manyBlankLines = regexp.MustCompile(`\n{4,}`)

// normalizeWhitespace collapses runs of spaces/tabs to a single space
// within a line and collapses three-or-more consecutive blank lines
// (four-or-more consecutive newlines) down to exactly two blank lines.
func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = runWS.ReplaceAllString(line, " ")
	}
	text = strings.Join(lines, "\n")
	return manyBlankLines.ReplaceAllString(text, "\n\n\n")
}
