package assembler

import "strings"

// TokenLen returns the token-equivalent length of text: the number of
// whitespace-delimited tokens. No tokenizer dependency; the budget is
// approximate by design and consistent across assembly and retrieval.
func TokenLen(text string) int {
	return len(strings.Fields(text))
}

// trailingTokens returns the last n tokens of text, joined by single
// spaces. Used to seed overlap into the next chunk.
func trailingTokens(text string, n int) string {
	fields := strings.Fields(text)
	if len(fields) > n {
		fields = fields[len(fields)-n:]
	}
	return strings.Join(fields, " ")
}

// splitOversized splits text into pieces of at most maxLen tokens,
// preferring sentence and line boundaries. A single unit longer than
// the budget is sliced into uniform token runs.
func splitOversized(text string, maxLen int) []string {
	var (
		pieces []string
		buf    []string
		curLen int
	)

	emit := func() {
		if len(buf) == 0 {
			return
		}
		piece := strings.TrimSpace(strings.Join(buf, " "))
		if piece != "" {
			pieces = append(pieces, piece)
		}
		buf = buf[:0]
		curLen = 0
	}

	for _, unit := range splitUnits(text) {
		unitLen := TokenLen(unit)
		if unitLen == 0 {
			continue
		}

		if unitLen > maxLen {
			emit()
			fields := strings.Fields(unit)
			for start := 0; start < len(fields); start += maxLen {
				end := start + maxLen
				if end > len(fields) {
					end = len(fields)
				}
				pieces = append(pieces, strings.Join(fields[start:end], " "))
			}
			continue
		}

		if curLen+unitLen > maxLen {
			emit()
		}
		buf = append(buf, strings.TrimSpace(unit))
		curLen += unitLen
	}
	emit()

	return pieces
}

// splitUnits breaks text on sentence terminators and newlines so the
// oversize split keeps content coherent.
func splitUnits(text string) []string {
	var units []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			if u := strings.TrimSpace(current.String()); u != "" {
				units = append(units, u)
			}
			current.Reset()
		}
	}

	if u := strings.TrimSpace(current.String()); u != "" {
		units = append(units, u)
	}

	return units
}
