package services

import (
	"strings"
	"unicode/utf8"
)

// TextChunker splits rubric documents into overlapping chunks small enough
// to embed individually.
type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText implements TextChunker. Paragraphs are packed into chunks up to
// maxChunkSize runes; each chunk starts with the tail of the previous one so
// guideline sentences spanning a boundary stay retrievable.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	paragraphs := strings.Split(text, "\n\n")

	var chunks []string
	var current strings.Builder
	currentRunes := 0

	flush := func() {
		if current.Len() == 0 {
			return
		}
		chunks = append(chunks, current.String())
		current.Reset()
		currentRunes = 0
		if overlap > 0 {
			tail := lastNRunes(chunks[len(chunks)-1], overlap)
			if tail != "" {
				current.WriteString(tail)
				current.WriteString("\n\n")
				currentRunes = utf8.RuneCountInString(tail) + 2
			}
		}
	}

	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		// Oversized paragraphs are split on sentence boundaries.
		pieces := []string{para}
		if utf8.RuneCountInString(para) > maxChunkSize {
			pieces = splitIntoSentences(para)
		}

		for _, piece := range pieces {
			pieceRunes := utf8.RuneCountInString(piece)
			if currentRunes+pieceRunes+2 > maxChunkSize {
				flush()
			}
			if current.Len() > 0 {
				current.WriteString("\n\n")
				currentRunes += 2
			}
			current.WriteString(piece)
			currentRunes += pieceRunes
		}
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

func splitIntoSentences(text string) []string {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	var result []string
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}

func lastNRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
