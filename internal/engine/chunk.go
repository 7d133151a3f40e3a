package engine

import (
	"iter"
	"slices"
	"strings"
	"unicode/utf8"
)

// Chunk splits text into bounded pieces, keeping word boundaries where possible.
// Lengths are counted in characters (runes), not bytes.
func Chunk(text string, maxChars int) []string {
	return slices.Collect(Chunks(text, maxChars))
}

// Chunks returns the chunk sequence lazily. Every range over the returned
// sequence starts again from the first chunk.
//
// Text that fits the bound is yielded whole and unmodified. Longer text is split
// on whitespace and words are accumulated while the running length (each word
// plus one separator) stays within maxChars. A word longer than maxChars is cut
// at the limit and its remainder starts the next chunk.
func Chunks(text string, maxChars int) iter.Seq[string] {
	if maxChars <= 0 {
		maxChars = DefaultChunkChars
	}
	return func(yield func(string) bool) {
		if utf8.RuneCountInString(text) <= maxChars {
			yield(text)
			return
		}

		var cur []string
		curLen := 0
		flush := func() bool {
			if len(cur) == 0 {
				return true
			}
			piece := strings.Join(cur, " ")
			cur = cur[:0]
			curLen = 0
			return yield(piece)
		}

		for _, word := range strings.Fields(text) {
			wordLen := utf8.RuneCountInString(word)
			if curLen+wordLen+1 <= maxChars {
				cur = append(cur, word)
				curLen += wordLen + 1
				continue
			}
			if !flush() {
				return
			}
			for wordLen > maxChars {
				head, tail := splitRunes(word, maxChars)
				if !yield(head) {
					return
				}
				word = tail
				wordLen -= maxChars
			}
			cur = append(cur, word)
			curLen = wordLen + 1
		}
		flush()
	}
}

// splitRunes cuts s after n runes.
func splitRunes(s string, n int) (string, string) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}

// PerChunkCount spreads a requested total over chunks, never going below one.
func PerChunkCount(total, chunks int) int {
	if chunks <= 0 {
		return max(1, total)
	}
	return max(1, total/chunks)
}
