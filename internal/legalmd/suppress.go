package legalmd

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// noiseMaxLen is the spec-mandated upper bound on a noise line's length.
const noiseMaxLen = 120

// SuppressRepeatedLines removes lines that recur across a large fraction
// of pages (header/footer/page-number noise) from the given pages,
// honoring a caller-supplied whitelist. It never removes a line whose
// normalized form appears on only one or two distinct pages. The third
// return value lists the distinct normalized lines classified as noise,
// sorted for a deterministic artifact dump.
func SuppressRepeatedLines(pages []string, pageCount int, whitelist []*regexp.Regexp) ([]string, CleanupStats, []string) {
	threshold := repeatThreshold(pageCount)

	pagesLines := make([][]string, len(pages))
	distinctPages := make(map[string]map[int]bool)
	for pi, text := range pages {
		lines := strings.Split(text, "\n")
		pagesLines[pi] = lines
		seenOnThisPage := make(map[string]bool)
		for _, raw := range lines {
			norm := normalizeLine(raw)
			if norm == "" || seenOnThisPage[norm] {
				continue
			}
			seenOnThisPage[norm] = true
			if distinctPages[norm] == nil {
				distinctPages[norm] = make(map[int]bool)
			}
			distinctPages[norm][pi] = true
		}
	}

	noise := make(map[string]bool)
	for norm, pset := range distinctPages {
		if len(pset) >= threshold && len(norm) < noiseMaxLen && !whitelisted(norm, whitelist) {
			noise[norm] = true
		}
	}

	var stats CleanupStats
	out := make([]string, len(pages))
	for pi, lines := range pagesLines {
		nonEmptyIdx := nonEmptyIndices(lines)
		firstTwo, lastTwo := boundarySets(nonEmptyIdx)

		var kept []string
		for li, raw := range lines {
			norm := normalizeLine(raw)
			if norm != "" && noise[norm] {
				if firstTwo[li] {
					stats.RemovedHeader++
				} else if lastTwo[li] {
					stats.RemovedFooter++
				}
				continue
			}
			kept = append(kept, raw)
		}
		out[pi] = strings.Join(kept, "\n")
	}

	candidates := make([]string, 0, len(noise))
	for norm := range noise {
		candidates = append(candidates, norm)
	}
	sort.Strings(candidates)

	return out, stats, candidates
}

// repeatThreshold is max(3, ceil(0.5 * page_count)).
func repeatThreshold(pageCount int) int {
	t := int(math.Ceil(0.5 * float64(pageCount)))
	if t < 3 {
		t = 3
	}
	return t
}

var collapseWS = regexp.MustCompile(`\s+`)

// normalizeLine trims and collapses internal whitespace for cross-page
// comparison. Returns "" for blank lines, which are never candidates.
func normalizeLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	return collapseWS.ReplaceAllString(trimmed, " ")
}

func whitelisted(norm string, whitelist []*regexp.Regexp) bool {
	for _, re := range whitelist {
		if re.MatchString(norm) {
			return true
		}
	}
	return false
}

func nonEmptyIndices(lines []string) []int {
	var idx []int
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			idx = append(idx, i)
		}
	}
	return idx
}

// boundarySets returns the line indices among the first two and last two
// non-empty lines of a page. On short pages where a line is among both, it
// goes to the boundary it is nearer to (the first set on a tie), so each
// line is in at most one set.
func boundarySets(nonEmptyIdx []int) (map[int]bool, map[int]bool) {
	first := make(map[int]bool)
	last := make(map[int]bool)
	for i, li := range nonEmptyIdx {
		fromEnd := len(nonEmptyIdx) - 1 - i
		if i < 2 && i <= fromEnd {
			first[li] = true
		} else if fromEnd < 2 {
			last[li] = true
		}
	}
	return first, last
}
