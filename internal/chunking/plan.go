package chunking

import (
	"sentencescramble/internal/models"
	"sentencescramble/internal/tokenize"
)

// Mode says what a student reorders for one sentence
type Mode string

const (
	ModeWords  Mode = "words"
	ModeChunks Mode = "chunks"
)

// minPlanChunks is the chunk count a sentence needs before chunk mode is used
const minPlanChunks = 3

// UnitPlan is the ordered, unshuffled list of pieces for a sentence
type UnitPlan struct {
	Mode   Mode
	Pieces []string
}

// Plan decides between chunks and words for a sentence. Teacher chunks win
// when there are more than three of them; otherwise long sentences are
// auto-chunked, and everything else is played word by word.
func Plan(s models.SentenceWithOptions) UnitPlan {
	if len(s.Chunks) > minPlanChunks {
		return UnitPlan{Mode: ModeChunks, Pieces: append([]string(nil), s.Chunks...)}
	}

	tokens := tokenize.Tokenize(s.Text, s.Lock)
	if len(tokens) > Threshold {
		if chunks := Chunk(s.Text); len(chunks) > minPlanChunks {
			return UnitPlan{Mode: ModeChunks, Pieces: chunks}
		}
	}
	return UnitPlan{Mode: ModeWords, Pieces: tokens}
}

// Units numbers the plan's pieces, in order, as draggable units
func (p UnitPlan) Units() []models.Unit {
	return tokenize.Units(p.Pieces)
}
