package util

import "unicode/utf8"

// MaxLogBodySize is the default number of bytes of a message kept in a log line.
const MaxLogBodySize = 4 * 1024

// truncatedSuffix marks a shortened body.
const truncatedSuffix = "...(truncated)"

// TruncateBody shortens data to at most maxSize bytes and marks the cut.
// The cut never splits a UTF-8 sequence. If maxSize <= 0, MaxLogBodySize
// is used.
func TruncateBody(data string, maxSize int) string {
	if maxSize <= 0 {
		maxSize = MaxLogBodySize
	}
	if len(data) <= maxSize {
		return data
	}
	cut := maxSize
	for cut > 0 && !utf8.RuneStart(data[cut]) {
		cut--
	}
	return data[:cut] + truncatedSuffix
}
