package graph

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

// hashCode is the 32-bit string hash used to key coalescing groups:
// h = 31*h + c over the UTF-16 code units of s, wrapping on overflow.
func hashCode(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(c)
	}
	return h
}

// groupHash joins the ids with commas and hashes the result.
func groupHash(ids []string) string {
	return strconv.Itoa(int(hashCode(strings.Join(ids, ","))))
}
