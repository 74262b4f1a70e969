package jisho

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/yomu-cards/jishoanki/internal/kanjikana"
)

// Furigana fetches the jisho.org page for word and returns the expression in
// Anki's bracket reading format, e.g. 勉[べん]強[きょう]する.
//
// The search API has no per-kanji reading placement, so this scrapes the
// word page where each kanji's reading is marked up individually. When even
// jisho has no per-kanji mapping (e.g. 借金-style jukujikun) the whole
// reading is attached to the whole expression instead.
func (c *Client) Furigana(ctx context.Context, word string) (string, error) {
	u := c.siteURL + "/word/" + url.PathEscape(word)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build word page request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch word page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("word page returned status %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse word page: %w", err)
	}

	repr := doc.Find("div.concept_light-representation").First()
	if repr.Length() == 0 {
		return "", fmt.Errorf("no representation block on word page for %q", word)
	}

	text := strings.Trim(repr.Find("span.text").First().Text(), " \n")
	var readings []string
	repr.Find("span.kanji").Each(func(_ int, s *goquery.Selection) {
		readings = append(readings, s.Text())
	})

	furigana, err := bracketFurigana(text, readings)
	if err != nil {
		Logger.Debug().Err(err).Str("word", word).Msg("falling back to whole-word reading")
		return text + "[" + strings.Join(readings, "") + "]", nil
	}
	return furigana, nil
}

// bracketFurigana pairs each kanji in text with its reading. Hiragana passes
// through with a trailing space so Anki does not swallow it into the
// preceding bracket.
func bracketFurigana(text string, readings []string) (string, error) {
	kanjiCount := 0
	for _, r := range text {
		if kanjikana.IsKanji(r) {
			kanjiCount++
		}
	}
	if kanjiCount != len(readings) {
		return "", fmt.Errorf("got %d readings for %d kanji", len(readings), kanjiCount)
	}

	var b strings.Builder
	idx := 0
	for _, r := range text {
		switch {
		case kanjikana.IsKanji(r):
			b.WriteRune(r)
			b.WriteString("[" + readings[idx] + "]")
			idx++
		case kanjikana.IsHiragana(r) || kanjikana.IsKatakana(r):
			b.WriteRune(r)
			b.WriteRune(' ')
		default:
			return "", fmt.Errorf("unexpected character %q in expression", r)
		}
	}
	return strings.TrimRight(b.String(), " "), nil
}
