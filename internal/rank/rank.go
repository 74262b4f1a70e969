// Package rank orders dictionary search results by how useful they are as
// new study material for a kanji the learner has just reviewed.
package rank

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/yomu-cards/jishoanki/internal/kanjikana"
)

var Logger = zerolog.Nop()

// DefaultLimit caps the ranked list when the caller passes a non-positive limit.
const DefaultLimit = 10

// Word is one normalized dictionary search result.
type Word struct {
	Expression    string   // Headword as written, may mix kanji and kana
	Reading       string   // Kana reading of the expression
	Level         int      // JLPT level, N5(easiest)=5 down to N1=1, 0 = unranked/common
	Definitions   []string // English definitions in relevance order, never empty
	PartsOfSpeech []string // Best-effort pairing with Definitions, may be empty
}

// Ranked is a Word annotated with its derived study priority.
type Ranked struct {
	Word
	// Priority is true when every kanji in the expression other than the
	// anchor has already been reviewed, i.e. the word introduces no
	// unfamiliar kanji.
	Priority bool
}

// RankedWords is an ordered ranking result.
type RankedWords []Ranked

// ReviewedSet is a membership oracle over previously studied kanji.
type ReviewedSet map[rune]struct{}

// NewReviewedSet builds a ReviewedSet from individual kanji.
func NewReviewedSet(kanji ...rune) ReviewedSet {
	set := make(ReviewedSet, len(kanji))
	for _, k := range kanji {
		set[k] = struct{}{}
	}
	return set
}

// Contains reports whether k is in the set.
func (s ReviewedSet) Contains(k rune) bool {
	_, ok := s[k]
	return ok
}

// Provider supplies the learner's reviewed-kanji set. Implementations may
// fail (the usual one talks to Anki over HTTP); callers of Rank substitute
// an empty set on failure so ranking always proceeds.
type Provider interface {
	ReviewedKanji() (ReviewedSet, error)
}

// Rank filters, prioritizes, orders and truncates dictionary search results
// for a single anchor kanji.
//
// Words whose expression is exactly the anchor alone are dropped: the search
// always returns the single-character entry for the anchor itself, which is
// worthless as a "new word containing this kanji". Each remaining word gets
// Priority=true iff all its non-anchor kanji are in reviewed (vacuously true
// when there are none). The result is sorted by priority descending, then
// JLPT level descending with unranked (0) last; the sort is stable so the
// dictionary's own relevance order breaks ties. At most limit entries are
// returned; a non-positive limit means DefaultLimit.
//
// Rank never fails: empty input yields an empty result, an empty reviewed
// set just marks every multi-kanji word as non-priority.
func Rank(words []Word, anchor rune, reviewed ReviewedSet, limit int) RankedWords {
	if limit <= 0 {
		limit = DefaultLimit
	}

	ranked := make(RankedWords, 0, len(words))
	for _, w := range words {
		if w.Expression == string(anchor) {
			continue
		}
		ranked = append(ranked, Ranked{
			Word:     w,
			Priority: allReviewed(kanjikana.OtherKanji(w.Expression, anchor), reviewed),
		})
	}

	// Priority major, level minor; unranked words carry level 0 and so land
	// after N1 within their priority group. Stability preserves the
	// dictionary relevance order as the final tie-break.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Priority != ranked[j].Priority {
			return ranked[i].Priority
		}
		return ranked[i].Level > ranked[j].Level
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	Logger.Debug().
		Str("anchor", string(anchor)).
		Int("in", len(words)).
		Int("out", len(ranked)).
		Msg("ranked search results")

	return ranked
}

// allReviewed reports whether every kanji in others is in reviewed.
func allReviewed(others []rune, reviewed ReviewedSet) bool {
	for _, k := range others {
		if !reviewed.Contains(k) {
			return false
		}
	}
	return true
}

// Expressions returns the headwords in ranked order.
func (ws RankedWords) Expressions() (parts []string) {
	for _, w := range ws {
		parts = append(parts, w.Expression)
	}
	return
}

// PriorityCount returns how many entries carry the priority flag.
func (ws RankedWords) PriorityCount() (n int) {
	for _, w := range ws {
		if w.Priority {
			n++
		}
	}
	return
}
