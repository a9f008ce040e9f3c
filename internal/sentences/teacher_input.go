package sentences

import (
	"strings"

	"sentencescramble/internal/models"
)

// MinExplicitChunks is the number of slash-separated chunks a line must exceed
// before the chunks are kept.
const MinExplicitChunks = 3

// ParseTeacherInput turns the teacher's sentence box into assignment items.
// Multi-line input yields one item per non-empty line; a single paragraph is
// split into sentences. A line with more than three "/"-separated chunks keeps
// them as explicit chunks; with fewer the slashes are dropped.
func ParseTeacherInput(input string) []models.SentenceWithOptions {
	normalized := strings.TrimSpace(normalizeNewlines(input))
	if normalized == "" {
		return nil
	}

	var lines []string
	if strings.Contains(normalized, "\n") {
		lines = strings.Split(normalized, "\n")
	} else {
		lines = Split(normalized)
	}

	items := make([]models.SentenceWithOptions, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if item, ok := parseLine(line); ok {
			items = append(items, item)
		}
	}
	return items
}

func parseLine(line string) (models.SentenceWithOptions, bool) {
	if !strings.Contains(line, "/") {
		return models.SentenceWithOptions{Text: line}, true
	}

	var chunks []string
	for _, c := range strings.Split(line, "/") {
		if c = strings.TrimSpace(c); c != "" {
			chunks = append(chunks, c)
		}
	}
	if len(chunks) == 0 {
		return models.SentenceWithOptions{}, false
	}

	item := models.SentenceWithOptions{Text: strings.Join(chunks, " ")}
	if len(chunks) > MinExplicitChunks {
		item.Chunks = chunks
	}
	return item, true
}
