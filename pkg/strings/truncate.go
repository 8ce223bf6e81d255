package strings

import (
	"strings"
)

// DefaultBodyMaxLen is the default maximum length of a response body quoted
// in a log line or an error message.
const DefaultBodyMaxLen = 512

// MinTruncateLen is the minimum maxLen value for Truncate.
// Values smaller than this would not leave room for meaningful content plus "...".
const MinTruncateLen = 4

// Truncate shortens s to at most maxLen runes and makes it single-line.
// Runs of whitespace, including newlines separating streamed JSON records,
// collapse into a single space. A truncated result ends in "...".
//
// If maxLen is less than MinTruncateLen it is clamped to MinTruncateLen.
func Truncate(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}

// TruncateBody truncates a raw response body with DefaultBodyMaxLen.
func TruncateBody(body []byte) string {
	return Truncate(string(body), DefaultBodyMaxLen)
}
