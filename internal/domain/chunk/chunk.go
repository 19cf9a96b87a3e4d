// Package chunk splits long free text into bounded, search-engine-safe segments.
package chunk

import "strings"

// DefaultMaxLength is the per-segment bound used for transcript fan-out.
const DefaultMaxLength = 2500

// Split walks text in windows of at most maxLength characters and cuts each window
// right after its last sentence terminator ('.', '?', '!'). A window without a
// terminator is hard-broken at maxLength. Segments are whitespace-trimmed and
// segments that trim to nothing are dropped. Lengths are counted in runes.
func Split(text string, maxLength int) []string {
	if text == "" || maxLength <= 0 {
		return nil
	}

	runes := []rune(text)
	var out []string
	emit := func(s []rune) {
		if seg := strings.TrimSpace(string(s)); seg != "" {
			out = append(out, seg)
		}
	}

	for cursor := 0; cursor < len(runes); {
		rest := runes[cursor:]
		if len(rest) <= maxLength {
			emit(rest)
			break
		}

		window := rest[:maxLength]
		cut := lastTerminator(window)
		if cut < 0 {
			emit(window)
			cursor += maxLength
			continue
		}
		emit(window[:cut+1])
		cursor += cut + 1
	}

	return out
}

func lastTerminator(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		switch window[i] {
		case '.', '?', '!':
			return i
		}
	}
	return -1
}
