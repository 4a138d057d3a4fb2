package legalmd

import "regexp"

// Landmark patterns shared by the Law-Aware Cleaner (to avoid joining a
// landmark into the previous line) and the Heading Promoter (to recognize
// and rewrite it). Anchored at line start; case-sensitive except where
// noted, matching spec.md §4.8.
var (
	reBABLine       = regexp.MustCompile(`^\s*BAB\s+([IVXLCDM]+)\b(.*)$`)
	rePasalLine     = regexp.MustCompile(`^\s*Pasal\s+(\d{1,3}[A-Za-z]?)\s*$`)
	reMenimbang     = regexp.MustCompile(`^\s*Menimbang\s*:?\s*$`)
	reMengingat     = regexp.MustCompile(`^\s*Mengingat\s*:?\s*$`)
	rePenjelasan    = regexp.MustCompile(`^\s*PENJELASAN\s*$`)
	reRomanSub      = regexp.MustCompile(`^\s*([IVXLCDM]+)\.\s*(.*)$`)
	reAnyLandmark   = regexp.MustCompile(`^\s*(BAB\s+[IVXLCDM]|Pasal\s+\d|Menimbang\s*:?\s*$|Mengingat\s*:?\s*$|PENJELASAN\s*$)`)
	reListMarker    = regexp.MustCompile(`^\s*(\(\d+\)|\d+\.|[a-z]\.)\s`)
	reAllDigits     = regexp.MustCompile(`^\s*\d+\s*$`)
)

// isLandmarkLine reports whether line starts a legal landmark that the
// cleaner's soft-wrap join must never absorb into the preceding line.
func isLandmarkLine(line string) bool {
	return reAnyLandmark.MatchString(line)
}

// isListMarkerLine reports whether line begins a list item, another
// case the soft-wrap join must not absorb.
func isListMarkerLine(line string) bool {
	return reListMarker.MatchString(line)
}
