// Package lzw implements the LZW code stream: a greedy longest-match encoder
// over a trie codebook and a decoder that rebuilds the same dictionary from
// the codes alone.
//
// Codes 0-255 stand for literal bytes. Every step that fails to extend the
// current match assigns the next code, starting at 256, to the match plus
// the byte that broke it. Neither side ever transmits its dictionary.
package lzw

import "github.com/discochess/lzwpack/internal/trie"

// FirstCode is the first code assigned to a learned sequence.
const FirstCode = trie.Alphabet

// Encode returns the code stream for src. An empty src yields no codes.
func Encode(src []byte) []int {
	if len(src) == 0 {
		return nil
	}

	codebook := trie.New()
	codes := make([]int, 0, len(src)/2+1)

	match, _ := codebook.Step(trie.Root, src[0])
	for _, b := range src[1:] {
		if next, ok := codebook.Step(match, b); ok {
			match = next
			continue
		}
		code, _ := codebook.Code(match)
		codes = append(codes, code)
		codebook.Extend(match, b, codebook.Len())
		match, _ = codebook.Step(trie.Root, b)
	}
	code, _ := codebook.Code(match)
	return append(codes, code)
}

// DictionarySize returns the number of codebook entries the encoder held
// after producing codes. Every emitted code except the last one added
// exactly one entry.
func DictionarySize(codes []int) int {
	if len(codes) == 0 {
		return FirstCode
	}
	return FirstCode + len(codes) - 1
}
