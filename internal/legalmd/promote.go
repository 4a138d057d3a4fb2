package legalmd

import "strings"

// headingState is the explicit state the promoter tracks, per the Design
// Notes in spec.md §9 ("avoid hidden flags").
type headingState int

const (
	stateNormal headingState = iota
	stateExplanation
)

// PromoteHeadings rewrites recognized legal landmarks into canonical
// Markdown headings and tallies FoundCounts, per spec.md §4.8.
func PromoteHeadings(text string) (string, FoundCounts) {
	lines := strings.Split(text, "\n")
	var out []string
	var found FoundCounts
	state := stateNormal

	i := 0
	for i < len(lines) {
		line := lines[i]

		// Pasal is checked before BAB. Both patterns are anchored at line
		// start, so no line matches both; a line such as "BAB I Pasal 9"
		// is promoted as a BAB heading with "Pasal 9" as its title.
		if m := rePasalLine.FindStringSubmatch(line); m != nil {
			found.Pasal++
			out = append(out, "## Pasal "+m[1])
			i++
			continue
		}
		if m := reBABLine.FindStringSubmatch(line); m != nil {
			found.BAB++
			state = stateNormal
			heading := "## BAB " + m[1]
			title, consumed := babTitle(lines, i, m[2])
			if title != "" {
				heading += " — " + title
			}
			out = append(out, heading)
			i += 1 + consumed
			continue
		}
		if reMenimbang.MatchString(line) {
			found.Menimbang = true
			out = append(out, "## Menimbang")
			i++
			continue
		}
		if reMengingat.MatchString(line) {
			found.Mengingat = true
			out = append(out, "## Mengingat")
			i++
			continue
		}
		if rePenjelasan.MatchString(line) {
			found.Penjelasan = true
			state = stateExplanation
			out = append(out, "## PENJELASAN")
			i++
			continue
		}
		if state == stateExplanation {
			if m := reRomanSub.FindStringSubmatch(line); m != nil {
				title := strings.TrimSpace(m[2])
				heading := "### " + m[1] + "."
				if title != "" {
					heading += " " + title
				}
				out = append(out, heading)
				i++
				continue
			}
		}
		out = append(out, line)
		i++
	}
	return strings.Join(out, "\n"), found
}

// babTitle looks for an ALL-CAPS title on the next non-empty line after a
// BAB landmark, skipping any intervening blank lines, and returns it plus
// how many extra lines it consumed. If inline is already non-empty (rest
// of the BAB line itself), it is used instead and no extra line is
// consumed.
func babTitle(lines []string, idx int, inline string) (string, int) {
	inline = strings.TrimSpace(inline)
	if inline != "" {
		return inline, 0
	}
	j := idx + 1
	for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
		j++
	}
	if j >= len(lines) {
		return "", 0
	}
	next := strings.TrimSpace(lines[j])
	if !isAllCaps(next) {
		return "", 0
	}
	return next, j - idx
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}
