// Package session drives the interactive review loop: fetch the current
// kanji card, show ranked words, collect selections and commit them to Anki.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yomu-cards/jishoanki/internal/anki"
	"github.com/yomu-cards/jishoanki/internal/config"
	"github.com/yomu-cards/jishoanki/internal/kanjikana"
	"github.com/yomu-cards/jishoanki/internal/rank"
	"github.com/yomu-cards/jishoanki/internal/render"
)

var Logger = zerolog.Nop()

// Dictionary is the jisho client surface the session needs.
type Dictionary interface {
	Search(ctx context.Context, kanji rune) ([]rank.Word, error)
	SearchWord(ctx context.Context, word string) ([]rank.Word, error)
	Furigana(ctx context.Context, word string) (string, error)
}

// Flashcards is the AnkiConnect client surface the session needs.
type Flashcards interface {
	CurrentCard(ctx context.Context) (anki.Card, error)
	ReviewedKanji(ctx context.Context, query string) (rank.ReviewedSet, error)
	ReviewedWords(ctx context.Context, deck string) ([]string, error)
	DueKanji(ctx context.Context, deck string) ([]rune, error)
	AddNotes(ctx context.Context, notes []anki.Note) (added, duplicates int, err error)
}

// Session holds the state of one interactive run.
type Session struct {
	cfg   config.Config
	dict  Dictionary
	cards Flashcards

	in  *bufio.Scanner
	out io.Writer

	displayed rank.RankedWords
	pending   []rank.Word
}

// New returns a Session reading commands from in and writing to out.
func New(cfg config.Config, dict Dictionary, cards Flashcards, in io.Reader, out io.Writer) *Session {
	return &Session{
		cfg:   cfg,
		dict:  dict,
		cards: cards,
		in:    bufio.NewScanner(in),
		out:   out,
	}
}

// Run executes the interactive loop until the user quits or input ends.
func (s *Session) Run(ctx context.Context) error {
	render.Welcome(s.out)

	for {
		prompt := "\nn: next card, numbers: select, c: commit, q: quit"
		if len(s.pending) > 0 {
			prompt += fmt.Sprintf(" (%d pending)", len(s.pending))
		}
		render.Info(s.out, "%s", prompt)
		fmt.Fprint(s.out, "> ")

		line, ok := s.readLine()
		if !ok {
			// stdin closed: commit what we have rather than dropping it.
			return s.commit(ctx)
		}

		switch {
		case line == "":
			continue
		case strings.EqualFold(line, "q"):
			return s.quit(ctx)
		case strings.EqualFold(line, "c"):
			if err := s.commit(ctx); err != nil {
				render.Error(s.out, "%v", err)
			}
		case strings.EqualFold(line, "n"):
			s.nextCard(ctx)
		case kanjikana.IsWord(line):
			s.lookupWord(ctx, line)
		default:
			s.selectWords(line)
		}
	}
}

func (s *Session) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// nextCard pulls the kanji under review and shows ranked words for it.
func (s *Session) nextCard(ctx context.Context) {
	card, err := s.cards.CurrentCard(ctx)
	if err != nil {
		render.Error(s.out, "could not fetch the current card: %v", err)
		return
	}
	anchor, err := card.Anchor()
	if err != nil {
		render.Error(s.out, "%v", err)
		return
	}
	s.showWordsFor(ctx, anchor)
}

// showWordsFor searches, ranks and displays words for one anchor kanji.
// A reviewed-set fetch failure degrades to an empty set: ranking must never
// be blocked by Anki hiccups, the words just all rank non-priority.
func (s *Session) showWordsFor(ctx context.Context, anchor rune) {
	render.Info(s.out, "searching jisho for words containing %s", string(anchor))

	words, err := s.dict.Search(ctx, anchor)
	if err != nil {
		render.Error(s.out, "jisho search failed: %v", err)
		return
	}
	if len(words) == 0 {
		render.Info(s.out, "no words found containing %s", string(anchor))
		s.displayed = nil
		return
	}

	if Logger.GetLevel() <= zerolog.DebugLevel {
		render.Dump(s.out, words)
	}

	reviewed, err := s.cards.ReviewedKanji(ctx, s.cfg.Anki.ReviewedQuery)
	if err != nil {
		Logger.Warn().Err(err).Msg("could not fetch reviewed kanji, ranking without them")
		reviewed = rank.ReviewedSet{}
	}

	inDeck := make(map[string]bool)
	if known, err := s.cards.ReviewedWords(ctx, s.cfg.Anki.VocabDeck); err == nil {
		for _, w := range known {
			inDeck[w] = true
		}
	} else {
		Logger.Warn().Err(err).Msg("could not fetch existing vocabulary")
	}

	s.displayed = rank.Rank(words, anchor, reviewed, s.cfg.CLI.ResultLimit)
	render.Table(s.out, s.displayed, inDeck)
}

// selectWords moves the words at the given 1-based indices to the pending list.
func (s *Session) selectWords(line string) {
	if len(s.displayed) == 0 {
		render.Error(s.out, "nothing displayed yet, press n first")
		return
	}

	indices := ParseSelection(line)
	if len(indices) == 0 {
		render.Error(s.out, "enter space-separated numbers like: 1 3 5")
		return
	}

	var picked []string
	for _, idx := range indices {
		if idx < 1 || idx > len(s.displayed) {
			render.Error(s.out, "selection %d is out of range", idx)
			continue
		}
		word := s.displayed[idx-1].Word
		s.pending = append(s.pending, word)
		picked = append(picked, word.Expression)
	}
	if len(picked) > 0 {
		render.Success(s.out, "queued %s (%d pending)", strings.Join(picked, ", "), len(s.pending))
	}
}

// lookupWord handles direct word input like 火山: show the entry and offer
// to queue it.
func (s *Session) lookupWord(ctx context.Context, word string) {
	words, err := s.dict.SearchWord(ctx, word)
	if err != nil {
		render.Error(s.out, "lookup failed: %v", err)
		return
	}
	if len(words) == 0 {
		render.Info(s.out, "no entry found for %s", word)
		return
	}

	entry := words[0]
	render.WordDetail(s.out, entry)

	render.Info(s.out, "add %s to the pending list? [y/N]", entry.Expression)
	if answer, ok := s.readLine(); ok && strings.EqualFold(answer, "y") {
		s.pending = append(s.pending, entry)
		render.Success(s.out, "queued %s (%d pending)", entry.Expression, len(s.pending))
	}
}

// quit offers to commit pending words before exiting.
func (s *Session) quit(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}
	render.Info(s.out, "%d words pending, add them to Anki before quitting? [Y/n]", len(s.pending))
	if answer, ok := s.readLine(); ok && strings.EqualFold(answer, "n") {
		return nil
	}
	return s.commit(ctx)
}

// commit builds notes for all pending words and submits them in one batch.
func (s *Session) commit(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}

	notes := make([]anki.Note, 0, len(s.pending))
	for _, word := range s.pending {
		furigana, err := s.dict.Furigana(ctx, word.Expression)
		if err != nil {
			// BuildNote falls back to a whole-word reading.
			Logger.Debug().Err(err).Str("word", word.Expression).Msg("furigana fetch failed")
			furigana = ""
		}
		notes = append(notes, anki.BuildNote(word, furigana, s.cfg.Anki.VocabDeck, s.cfg.Anki.NoteModel, s.cfg.Anki.Tags))
	}

	added, duplicates, err := s.cards.AddNotes(ctx, notes)
	if err != nil {
		return fmt.Errorf("failed to add notes: %w", err)
	}

	render.Success(s.out, "added %d words to %s (%d duplicates skipped)", added, s.cfg.Anki.VocabDeck, duplicates)
	s.pending = nil
	return nil
}

// Prepare runs the batch mode: walk every new due kanji in the source deck,
// show ranked words for each and queue the selections, then commit once.
func (s *Session) Prepare(ctx context.Context) error {
	due, err := s.cards.DueKanji(ctx, s.cfg.Anki.KanjiDeck)
	if err != nil {
		return fmt.Errorf("failed to fetch due cards: %w", err)
	}
	if len(due) == 0 {
		render.Info(s.out, "no new kanji due in %s", s.cfg.Anki.KanjiDeck)
		return nil
	}

	render.Info(s.out, "%d kanji to process", len(due))
	for i, kanji := range due {
		render.Info(s.out, "[%d/%d] %s", i+1, len(due), string(kanji))
		s.showWordsFor(ctx, kanji)
		if len(s.displayed) == 0 {
			continue
		}

		render.Info(s.out, "numbers to select, empty to skip")
		fmt.Fprint(s.out, "> ")
		line, ok := s.readLine()
		if !ok {
			break
		}
		if line != "" {
			s.selectWords(line)
		}
	}

	return s.commit(ctx)
}
