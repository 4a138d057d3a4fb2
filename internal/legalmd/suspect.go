package legalmd

import (
	"strings"
	"unicode"
)

// suspectMinAlpha and suspectMinAlphaRatio are the spec-mandated defaults:
// a page is suspect when it has fewer than 40 non-whitespace alphabetic
// characters AND its alphabetic-to-total-character ratio is below 0.2, or
// when its extracted text is empty.
const (
	suspectMinAlpha      = 40
	suspectMinAlphaRatio = 0.2
)

// DetectSuspects returns the 1-based page indices classified as suspect,
// in ascending order.
func DetectSuspects(pages []string) []int {
	out := []int{}
	for i, text := range pages {
		if isSuspectPage(text) {
			out = append(out, i+1)
		}
	}
	return out
}

func isSuspectPage(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return true
	}

	var alpha, total int
	for _, r := range trimmed {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			alpha++
		}
	}
	if total == 0 {
		return true
	}
	ratio := float64(alpha) / float64(total)
	return alpha < suspectMinAlpha && ratio < suspectMinAlphaRatio
}
