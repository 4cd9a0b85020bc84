package text

import (
	"strings"
	"unicode/utf8"
)

// sentenceTerminators are the runes that end a sentence, including CJK
// equivalents of the ASCII punctuation set.
var sentenceTerminators = map[rune]bool{
	'.': true, '!': true, '?': true, ';': true, ':': true,
	'。': true, '！': true, '？': true, '；': true, '：': true,
}

// Chunk splits text into an ordered list of non-empty chunks, never
// exceeding maxChars per chunk where avoidable. It prefers sentence-
// terminator boundaries, falling back to whitespace for any sentence that
// alone exceeds maxChars, and never splits inside a word. If smart is false
// or maxChars is non-positive, the trimmed input is returned as a single
// chunk. Empty input (after trimming) yields an empty list.
func Chunk(text string, maxChars int, smart bool) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	if !smart || maxChars <= 0 {
		return []string{trimmed}
	}

	sentences := splitSentences(trimmed)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, s := range sentences {
		if len(s) > maxChars {
			flush()
			chunks = append(chunks, splitOnWhitespace(s, maxChars)...)
			continue
		}

		switch {
		case current.Len() == 0:
			current.WriteString(s)
		case current.Len()+1+len(s) > maxChars:
			flush()
			current.WriteString(s)
		default:
			current.WriteByte(' ')
			current.WriteString(s)
		}
	}
	flush()

	return chunks
}

// ChunkBySentence is the pre-CJK, always-smart entry point kept for callers
// that never need to disable smart chunking.
func ChunkBySentence(text string, maxChars int) []string {
	return Chunk(text, maxChars, true)
}

// splitSentences splits text on sentence-ending punctuation (ASCII and CJK),
// keeping the terminator attached to its sentence. Empty segments are
// dropped. If no terminator occurs in text, it falls back to treating
// whitespace-separated runs of the whole text as a single "sentence" so the
// caller's whitespace-fallback splitting still applies.
func splitSentences(text string) []string {
	var sentences []string
	start := 0

	for i, r := range text {
		if !sentenceTerminators[r] {
			continue
		}

		end := i + utf8.RuneLen(r)

		s := strings.TrimSpace(text[start:end])
		if s != "" {
			sentences = append(sentences, s)
		}

		start = end
	}

	if start < len(text) {
		s := strings.TrimSpace(text[start:])
		if s != "" {
			sentences = append(sentences, s)
		}
	}

	return sentences
}

// splitOnWhitespace breaks a single over-long sentence into word-aligned
// chunks of at most maxChars, used when no terminator falls within budget
// (spec invariant (b): prefer terminators, fall back to whitespace). A
// single word longer than maxChars is kept intact, never split mid-word
// (invariant (a)).
func splitOnWhitespace(s string, maxChars int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var current strings.Builder

	for _, w := range words {
		switch {
		case current.Len() == 0:
			current.WriteString(w)
		case current.Len()+1+len(w) > maxChars:
			chunks = append(chunks, current.String())
			current.Reset()
			current.WriteString(w)
		default:
			current.WriteByte(' ')
			current.WriteString(w)
		}
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}
