package session

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yomu-cards/jishoanki/internal/anki"
	"github.com/yomu-cards/jishoanki/internal/config"
	"github.com/yomu-cards/jishoanki/internal/rank"
)

func TestMain(m *testing.M) {
	color.Disable()
	m.Run()
}

type stubDict struct {
	words     []rank.Word
	searchErr error
	furigana  map[string]string
}

func (d *stubDict) Search(_ context.Context, _ rune) ([]rank.Word, error) {
	return d.words, d.searchErr
}

func (d *stubDict) SearchWord(_ context.Context, word string) ([]rank.Word, error) {
	for _, w := range d.words {
		if w.Expression == word {
			return []rank.Word{w}, nil
		}
	}
	return nil, nil
}

func (d *stubDict) Furigana(_ context.Context, word string) (string, error) {
	if f, ok := d.furigana[word]; ok {
		return f, nil
	}
	return "", fmt.Errorf("no furigana for %s", word)
}

type stubCards struct {
	card        anki.Card
	cardErr     error
	reviewed    rank.ReviewedSet
	reviewedErr error
	known       []string
	due         []rune
	added       []anki.Note
	addErr      error
}

func (c *stubCards) CurrentCard(context.Context) (anki.Card, error) {
	return c.card, c.cardErr
}

func (c *stubCards) ReviewedKanji(context.Context, string) (rank.ReviewedSet, error) {
	return c.reviewed, c.reviewedErr
}

func (c *stubCards) ReviewedWords(context.Context, string) ([]string, error) {
	return c.known, nil
}

func (c *stubCards) DueKanji(context.Context, string) ([]rune, error) {
	return c.due, nil
}

func (c *stubCards) AddNotes(_ context.Context, notes []anki.Note) (int, int, error) {
	if c.addErr != nil {
		return 0, 0, c.addErr
	}
	c.added = append(c.added, notes...)
	return len(notes), 0, nil
}

func searchFixture() []rank.Word {
	return []rank.Word{
		{Expression: "学問", Reading: "がくもん", Level: 0, Definitions: []string{"scholarship"}},
		{Expression: "学校", Reading: "がっこう", Level: 5, Definitions: []string{"school"}},
		{Expression: "大学", Reading: "だいがく", Level: 5, Definitions: []string{"university"}},
	}
}

func run(t *testing.T, dict *stubDict, cards *stubCards, input string) (string, error) {
	t.Helper()
	var out strings.Builder
	s := New(config.Default(), dict, cards, strings.NewReader(input), &out)
	err := s.Run(context.Background())
	return out.String(), err
}

func TestRunReviewAndCommit(t *testing.T) {
	dict := &stubDict{
		words:    searchFixture(),
		furigana: map[string]string{"学校": "学[がっ]校[こう]"},
	}
	cards := &stubCards{
		card:     anki.Card{ID: 1, Fields: map[string]string{"Kanji": "学"}},
		reviewed: rank.NewReviewedSet('校'),
	}

	out, err := run(t, dict, cards, "n\n1\nq\ny\n")
	require.NoError(t, err)

	// 学校 is the only priority word and ranks first.
	assert.Contains(t, out, "1. 学校")
	assert.Contains(t, out, "queued 学校")

	require.Len(t, cards.added, 1)
	assert.Equal(t, "学[がっ]校[こう]", cards.added[0].Fields["Front"])
	assert.Equal(t, "VocabularyNew", cards.added[0].DeckName)
	assert.Contains(t, out, "added 1 words")
}

func TestRunQuitWithoutCommitting(t *testing.T) {
	dict := &stubDict{words: searchFixture()}
	cards := &stubCards{
		card: anki.Card{ID: 1, Fields: map[string]string{"Kanji": "学"}},
	}

	_, err := run(t, dict, cards, "n\n1\nq\nn\n")
	require.NoError(t, err)
	assert.Empty(t, cards.added)
}

func TestRunReviewedSetFailureDegrades(t *testing.T) {
	dict := &stubDict{words: searchFixture()}
	cards := &stubCards{
		card:        anki.Card{ID: 1, Fields: map[string]string{"Kanji": "学"}},
		reviewedErr: fmt.Errorf("anki timed out"),
	}

	out, err := run(t, dict, cards, "n\nq\n")
	require.NoError(t, err)

	// Ranking still happened; with no reviewed kanji every compound is
	// non-priority and level ordering wins.
	assert.Contains(t, out, "1. 学校")
	assert.NotContains(t, out, "anki timed out")
}

func TestRunSelectionOutOfRange(t *testing.T) {
	dict := &stubDict{words: searchFixture()}
	cards := &stubCards{
		card: anki.Card{ID: 1, Fields: map[string]string{"Kanji": "学"}},
	}

	out, err := run(t, dict, cards, "n\n99\nq\n")
	require.NoError(t, err)
	assert.Contains(t, out, "out of range")
	assert.Empty(t, cards.added)
}

func TestRunSelectionBeforeDisplay(t *testing.T) {
	out, err := run(t, &stubDict{}, &stubCards{}, "1 2\nq\n")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing displayed yet")
}

func TestRunDirectWordLookup(t *testing.T) {
	dict := &stubDict{
		words: []rank.Word{{
			Expression:    "火山",
			Reading:       "かざん",
			Level:         4,
			Definitions:   []string{"volcano"},
			PartsOfSpeech: []string{"Noun"},
		}},
	}
	cards := &stubCards{}

	out, err := run(t, dict, cards, "火山\ny\nq\ny\n")
	require.NoError(t, err)

	assert.Contains(t, out, "volcano")
	require.Len(t, cards.added, 1)
	// Furigana scrape fails in the stub, so the whole reading is attached.
	assert.Equal(t, "火山[かざん]", cards.added[0].Fields["Front"])
}

func TestRunCurrentCardError(t *testing.T) {
	cards := &stubCards{cardErr: fmt.Errorf("no card displayed")}

	out, err := run(t, &stubDict{}, cards, "n\nq\n")
	require.NoError(t, err)
	assert.Contains(t, out, "could not fetch the current card")
}

func TestRunEOFCommitsPending(t *testing.T) {
	dict := &stubDict{words: searchFixture()}
	cards := &stubCards{
		card: anki.Card{ID: 1, Fields: map[string]string{"Kanji": "学"}},
	}

	// Input ends right after a selection, without an explicit q.
	_, err := run(t, dict, cards, "n\n1\n")
	require.NoError(t, err)
	assert.Len(t, cards.added, 1)
}

func TestPrepare(t *testing.T) {
	dict := &stubDict{words: searchFixture()}
	cards := &stubCards{
		due:      []rune{'学', '校'},
		reviewed: rank.NewReviewedSet('校'),
	}

	var out strings.Builder
	s := New(config.Default(), dict, cards, strings.NewReader("1\n\n"), &out)
	require.NoError(t, s.Prepare(context.Background()))

	assert.Contains(t, out.String(), "[1/2]")
	assert.Contains(t, out.String(), "[2/2]")
	// One selection from the first kanji, skip on the second.
	assert.Len(t, cards.added, 1)
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		input string
		want  []int
	}{
		{"1 3 5", []int{1, 3, 5}},
		{"1, 3, 5", []int{1, 3, 5}},
		{"2", []int{2}},
		{"1 x 3", []int{1, 3}},
		{"abc", nil},
		{"", nil},
		{"  ", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseSelection(tt.input), "ParseSelection(%q)", tt.input)
	}
}
