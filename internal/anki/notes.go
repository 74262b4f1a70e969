package anki

import (
	"context"
	"fmt"
	"strings"

	"github.com/yomu-cards/jishoanki/internal/rank"
)

// maxNoteDefinitions bounds how many definitions go on the back of a card.
const maxNoteDefinitions = 3

// Note is one new vocabulary note in AnkiConnect's addNotes shape.
type Note struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags"`
}

// BuildNote assembles a vocabulary note for w. furigana is the expression
// in Anki bracket format; when empty (scrape failed) the whole reading is
// attached to the whole expression instead.
func BuildNote(w rank.Word, furigana, deck, model string, tags []string) Note {
	front := furigana
	if front == "" {
		front = w.Expression
		if w.Reading != "" {
			front += "[" + w.Reading + "]"
		}
	}

	defs := w.Definitions
	if len(defs) > maxNoteDefinitions {
		defs = defs[:maxNoteDefinitions]
	}
	back := strings.Join(defs, "<br>")
	if w.Level > 0 {
		back += fmt.Sprintf("<br><br><i>JLPT Level: N%d</i>", w.Level)
	}

	return Note{
		DeckName:  deck,
		ModelName: model,
		Fields:    map[string]string{"Front": front, "Back": back},
		Tags:      tags,
	}
}

// AddNotes submits notes in one addNotes call. Anki reports a null ID for
// any note it rejects as a duplicate; those are counted rather than treated
// as failures so one already-known word does not sink the whole batch.
func (c *Client) AddNotes(ctx context.Context, notes []Note) (added, duplicates int, err error) {
	if len(notes) == 0 {
		return 0, 0, nil
	}

	var ids []*int64
	if err := c.invoke(ctx, "addNotes", map[string]any{"notes": notes}, &ids); err != nil {
		return 0, 0, err
	}
	for _, id := range ids {
		if id != nil {
			added++
		} else {
			duplicates++
		}
	}

	Logger.Info().Int("added", added).Int("duplicates", duplicates).Msg("submitted notes")
	return added, duplicates, nil
}
