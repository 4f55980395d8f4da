package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Result holds a case-folded copy of an input together with the byte offset
// of every folded byte in the original input.
type Result struct {
	Raw        string
	Normalized string

	offsets []int
}

// Fold lower-cases input rune by rune and records where each folded byte came
// from, so a span found in Normalized can be mapped back onto Raw.
func Fold(input string) Result {
	res := Result{Raw: input}
	if input == "" {
		return res
	}

	var b strings.Builder
	b.Grow(len(input))
	offsets := make([]int, 0, len(input)+1)

	var buf [utf8.UTFMax]byte
	// An invalid byte decodes as utf8.RuneError and folds to U+FFFD, the
	// same as strings.ToLower does for terms.
	for i, r := range input {
		n := utf8.EncodeRune(buf[:], unicode.ToLower(r))
		b.Write(buf[:n])
		for j := 0; j < n; j++ {
			offsets = append(offsets, i)
		}
	}
	offsets = append(offsets, len(input))

	res.Normalized = b.String()
	res.offsets = offsets
	return res
}

// Original maps the half-open span [start,end) of Normalized back onto Raw.
func (r Result) Original(start, end int) string {
	if r.offsets == nil || start < 0 || end > len(r.Normalized) || start >= end {
		return ""
	}
	from := r.offsets[start]
	to := r.offsets[end]
	// end may land inside a multi-byte fold of the last rune
	if end < len(r.Normalized) && r.offsets[end] == r.offsets[end-1] {
		_, size := utf8.DecodeRuneInString(r.Raw[to:])
		to += size
	}
	return r.Raw[from:to]
}

// Offset returns the byte offset in Raw for position i of Normalized.
func (r Result) Offset(i int) int {
	if r.offsets == nil || i < 0 || i >= len(r.offsets) {
		return -1
	}
	return r.offsets[i]
}
