// Package jisho is a client for the jisho.org dictionary: word search via
// the public JSON API and furigana extraction from the word pages.
package jisho

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/pretty"

	"github.com/yomu-cards/jishoanki/internal/rank"
)

var Logger = zerolog.Nop()

const (
	DefaultAPIURL  = "https://jisho.org/api/v1"
	DefaultSiteURL = "https://jisho.org"

	// maxSenses bounds how many senses are turned into definitions per word.
	maxSenses = 3
)

// Client talks to jisho.org. The zero value is not usable; use NewClient.
type Client struct {
	apiURL  string
	siteURL string
	http    *http.Client
}

// NewClient returns a Client with the given base URLs and timeout. Empty
// URLs fall back to jisho.org, a zero timeout to 10s.
func NewClient(apiURL, siteURL string, timeout time.Duration) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if siteURL == "" {
		siteURL = DefaultSiteURL
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiURL:  strings.TrimSuffix(apiURL, "/"),
		siteURL: strings.TrimSuffix(siteURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// searchResponse mirrors the /search/words API payload, limited to the
// fields the tool consumes.
type searchResponse struct {
	Data []searchEntry `json:"data"`
}

type searchEntry struct {
	Japanese []japaneseForm `json:"japanese"`
	Jlpt     []string       `json:"jlpt"`
	Senses   []sense        `json:"senses"`
}

type japaneseForm struct {
	Word    string `json:"word"`
	Reading string `json:"reading"`
}

type sense struct {
	EnglishDefinitions []string `json:"english_definitions"`
	PartsOfSpeech      []string `json:"parts_of_speech"`
}

// Search looks up words containing the given kanji, normalized into the
// ranking engine's shape. Entries that do not contain the kanji or carry no
// definitions are dropped here so the engine can assume well-formed input.
func (c *Client) Search(ctx context.Context, kanji rune) ([]rank.Word, error) {
	// Wildcards on both sides so compounds match, not just prefixes.
	data, err := c.searchRaw(ctx, "*"+string(kanji)+"*")
	if err != nil {
		return nil, err
	}

	var words []rank.Word
	for _, entry := range data.Data {
		w, ok := normalize(entry)
		if !ok || !strings.ContainsRune(w.Expression, kanji) {
			continue
		}
		words = append(words, w)
	}

	Logger.Debug().
		Str("kanji", string(kanji)).
		Int("results", len(words)).
		Msg("jisho search")

	return words, nil
}

// SearchWord looks up a word directly, returning the entry whose expression
// matches exactly when there is one, otherwise the normalized results as-is.
func (c *Client) SearchWord(ctx context.Context, word string) ([]rank.Word, error) {
	data, err := c.searchRaw(ctx, word)
	if err != nil {
		return nil, err
	}

	var words []rank.Word
	for _, entry := range data.Data {
		if w, ok := normalize(entry); ok {
			words = append(words, w)
		}
	}
	for _, w := range words {
		if w.Expression == word {
			return []rank.Word{w}, nil
		}
	}
	return words, nil
}

func (c *Client) searchRaw(ctx context.Context, keyword string) (*searchResponse, error) {
	u := c.apiURL + "/search/words?keyword=" + url.QueryEscape(keyword)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build jisho request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach jisho: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jisho returned status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read jisho response: %w", err)
	}

	if Logger.GetLevel() <= zerolog.DebugLevel {
		Logger.Debug().Msgf("jisho raw response: %s", stringCapLen(string(pretty.Pretty(body)), 2000))
	}

	var data searchResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to decode jisho response: %w", err)
	}
	return &data, nil
}

// normalize flattens one API entry into a rank.Word. The second return is
// false when the entry is unusable (no japanese form, no definitions).
func normalize(entry searchEntry) (rank.Word, bool) {
	if len(entry.Japanese) == 0 {
		return rank.Word{}, false
	}

	form := entry.Japanese[0]
	expression := form.Word
	if expression == "" {
		expression = form.Reading
	}
	if expression == "" {
		return rank.Word{}, false
	}

	w := rank.Word{
		Expression: expression,
		Reading:    form.Reading,
		Level:      parseJlptLevel(entry.Jlpt),
	}

	senses := entry.Senses
	if len(senses) > maxSenses {
		senses = senses[:maxSenses]
	}
	for _, s := range senses {
		def := strings.Join(s.EnglishDefinitions, "; ")
		if def == "" {
			continue
		}
		w.Definitions = append(w.Definitions, def)
		w.PartsOfSpeech = append(w.PartsOfSpeech, strings.Join(s.PartsOfSpeech, "; "))
	}
	if len(w.Definitions) == 0 {
		return rank.Word{}, false
	}

	return w, true
}

// parseJlptLevel extracts the numeric level from tags like "jlpt-n5".
// An entry can carry several tags; the first parsable one wins.
func parseJlptLevel(tags []string) int {
	for _, tag := range tags {
		rest, ok := strings.CutPrefix(tag, "jlpt-n")
		if !ok {
			continue
		}
		if level, err := strconv.Atoi(rest); err == nil && level >= 1 && level <= 5 {
			return level
		}
	}
	return 0
}

func stringCapLen(s string, max int) string {
	trimmed := false
	for len(s) > max {
		s = s[:len(s)-1]
		trimmed = true
	}
	if trimmed {
		s += "…"
	}
	return s
}
