package extract

import "unicode/utf8"

// truncate limits text to maxSize bytes and backs off until the result is
// valid UTF-8, so a multi-byte rune is never cut in half.
func truncate(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated
}
