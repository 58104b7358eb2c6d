package retrievalsvc

import (
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	defaultChunkSize    = 800
	defaultChunkOverlap = 100
)

// Splitter cuts text into chunks of at most chunkSize runes, trying paragraph breaks first,
// then line breaks, then spaces, and finally single characters.
// Consecutive chunks share up to chunkOverlap runes.
type Splitter struct {
	rc textsplitter.RecursiveCharacter
}

func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
		if chunkOverlap == 0 {
			chunkOverlap = defaultChunkOverlap
		}
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = 0
	}
	return &Splitter{rc: textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
		textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
		textsplitter.WithLenFunc(utf8.RuneCountInString),
	)}
}

// Split returns the non-empty chunks of text, in order.
func (sp *Splitter) Split(text string) ([]string, error) {
	parts, err := sp.rc.SplitText(text)
	if err != nil {
		return nil, errors.Wrap(err, "splitting text")
	}
	chunks := parts[:0]
	for _, p := range parts {
		if p != "" {
			chunks = append(chunks, p)
		}
	}
	return chunks, nil
}
