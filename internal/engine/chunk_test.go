package engine

import (
	"slices"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkShortTextUnchanged(t *testing.T) {
	text := "  keep   my\tspacing \n"
	got := Chunk(text, 100)
	require.Len(t, got, 1)
	assert.Equal(t, text, got[0])
}

func TestChunkExactLimit(t *testing.T) {
	text := strings.Repeat("a", 10)
	assert.Equal(t, []string{text}, Chunk(text, 10))
}

func TestChunkSplitsOnWords(t *testing.T) {
	// Every word counts one trailing separator against the limit.
	assert.Equal(t, []string{"alpha beta", "gamma delta"}, Chunk("alpha beta gamma delta", 12))
	assert.Equal(t, []string{"alpha beta", "gamma", "delta"}, Chunk("alpha beta gamma delta", 11))
}

func TestChunkBlankOverLimit(t *testing.T) {
	assert.Empty(t, Chunk(strings.Repeat(" \n\t", 20), 5))
}

func TestChunkOversizeWord(t *testing.T) {
	got := Chunk("hi abcdefghijklmnopqrstuvwxyz end", 10)
	assert.Equal(t, []string{"hi", "abcdefghij", "klmnopqrst", "uvwxyz", "end"}, got)
}

func TestChunkCountsRunes(t *testing.T) {
	// 6 runes, 12 bytes: fits a 6-rune limit.
	text := "привет"
	assert.Equal(t, []string{text}, Chunk(text, 6))

	got := Chunk("привет мир пока", 10)
	for _, c := range got {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 10, "chunk %q", c)
	}
	assert.Equal(t, []string{"привет", "мир пока"}, got)
}

func TestChunkBoundsAndCoverage(t *testing.T) {
	words := make([]string, 0, 500)
	for i := range 500 {
		words = append(words, strings.Repeat("w", 1+i%13))
	}
	text := strings.Join(words, " ")

	for _, limit := range []int{13, 14, 40, 97} {
		chunks := Chunk(text, limit)
		for _, c := range chunks {
			assert.LessOrEqual(t, utf8.RuneCountInString(c), limit)
			assert.NotEmpty(t, strings.TrimSpace(c))
		}
		// Rejoined chunks keep every word in order.
		assert.Equal(t, words, strings.Fields(strings.Join(chunks, " ")), "limit %d", limit)
	}
}

func TestChunkDefaultLimit(t *testing.T) {
	text := strings.Repeat("word ", DefaultChunkChars/5+10)
	got := Chunk(text, 0)
	require.Len(t, got, 2)
	assert.LessOrEqual(t, utf8.RuneCountInString(got[0]), DefaultChunkChars)
}

func TestChunksRestartable(t *testing.T) {
	seq := Chunks("one two three four five six", 9)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
	assert.Greater(t, len(first), 1)
}

func TestChunksEarlyStop(t *testing.T) {
	n := 0
	for range Chunks(strings.Repeat("abc ", 100), 8) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestPerChunkCount(t *testing.T) {
	tests := []struct {
		total, chunks, want int
	}{
		{8, 1, 8},
		{8, 3, 2},
		{12, 5, 2},
		{3, 10, 1},
		{0, 2, 1},
		{5, 0, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PerChunkCount(tt.total, tt.chunks), "PerChunkCount(%d, %d)", tt.total, tt.chunks)
	}
}

func TestChunkLectureSizes(t *testing.T) {
	long := strings.Repeat("abcd ", 18000) // 90,000 chars
	assert.Len(t, Chunk(long, 30000), 3)

	short := strings.Repeat("abcd ", 100) // 500 chars
	assert.Len(t, Chunk(short, 30000), 1)
}
