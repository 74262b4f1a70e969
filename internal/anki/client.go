// Package anki is a client for the AnkiConnect add-on API of a locally
// running Anki instance.
package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yomu-cards/jishoanki/internal/kanjikana"
	"github.com/yomu-cards/jishoanki/internal/rank"
)

var Logger = zerolog.Nop()

const (
	DefaultURL = "http://localhost:8765"

	// apiVersion is the AnkiConnect protocol version sent with every call.
	apiVersion = 6
)

var reHTMLTag = regexp.MustCompile(`<[^>]*>`)

// Client talks to AnkiConnect.
type Client struct {
	url  string
	http *http.Client
}

// NewClient returns a Client for the given AnkiConnect URL. An empty URL
// falls back to the default local address, a zero timeout to 5s.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		url:  strings.TrimSuffix(url, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

type rpcRequest struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// invoke performs one AnkiConnect call, decoding the result into out when
// out is non-nil.
func (c *Client) invoke(ctx context.Context, action string, params any, out any) error {
	payload, err := json.Marshal(rpcRequest{Action: action, Version: apiVersion, Params: params})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to Anki (is it running with AnkiConnect installed?): %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", action, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("AnkiConnect returned status %s for %s", resp.Status, action)
	}

	var rpc rpcResponse
	if err := json.Unmarshal(body, &rpc); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", action, err)
	}
	if rpc.Error != nil && *rpc.Error != "" {
		return fmt.Errorf("AnkiConnect error on %s: %s", action, *rpc.Error)
	}

	Logger.Debug().Str("action", action).Int("resultBytes", len(rpc.Result)).Msg("anki call")

	if out != nil && len(rpc.Result) > 0 && string(rpc.Result) != "null" {
		if err := json.Unmarshal(rpc.Result, out); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", action, err)
		}
	}
	return nil
}

// fieldValue is one note field as AnkiConnect reports it.
type fieldValue struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}

// Card is a reviewed card with its note fields flattened to plain text.
type Card struct {
	ID     int64
	Fields map[string]string
}

// Anchor extracts the kanji under review from the card. The "Kanji" field
// wins; otherwise any field whose name contains "front" is used. The first
// rune of the cleaned value must be a kanji.
func (c Card) Anchor() (rune, error) {
	value, ok := c.Fields["Kanji"]
	if !ok {
		for name, v := range c.Fields {
			if strings.Contains(strings.ToLower(name), "front") {
				value = v
				break
			}
		}
	}
	value = stripHTML(value)
	if value == "" {
		return 0, fmt.Errorf("current card has no kanji field")
	}

	anchor := []rune(value)[0]
	if !kanjikana.IsKanji(anchor) {
		return 0, fmt.Errorf("current card value %q does not start with a kanji", value)
	}
	return anchor, nil
}

type rawCard struct {
	CardID int64                 `json:"cardId"`
	Fields map[string]fieldValue `json:"fields"`
}

func (r rawCard) card() Card {
	fields := make(map[string]string, len(r.Fields))
	for name, f := range r.Fields {
		fields[name] = f.Value
	}
	return Card{ID: r.CardID, Fields: fields}
}

// CurrentCard returns the card currently shown in the Anki review window.
func (c *Client) CurrentCard(ctx context.Context) (Card, error) {
	var raw rawCard
	if err := c.invoke(ctx, "guiCurrentCard", nil, &raw); err != nil {
		return Card{}, err
	}
	if raw.CardID == 0 && len(raw.Fields) == 0 {
		return Card{}, fmt.Errorf("no card is currently displayed in Anki")
	}
	return raw.card(), nil
}

// ReviewedKanji returns the set of kanji on cards matching query, typically
// "deck:current (-is:new OR flag:1)". Only single-character Kanji fields
// count; anything longer is a vocabulary card that slipped into the deck.
func (c *Client) ReviewedKanji(ctx context.Context, query string) (rank.ReviewedSet, error) {
	cardIDs, err := c.findCards(ctx, query)
	if err != nil {
		return nil, err
	}

	set := rank.ReviewedSet{}
	if len(cardIDs) == 0 {
		return set, nil
	}

	cards, err := c.cardsInfo(ctx, cardIDs)
	if err != nil {
		return nil, err
	}
	for _, card := range cards {
		value := stripHTML(card.Fields["Kanji"])
		runes := []rune(value)
		if len(runes) == 1 && kanjikana.IsKanji(runes[0]) {
			set[runes[0]] = struct{}{}
		}
	}

	Logger.Debug().Int("cards", len(cards)).Int("kanji", len(set)).Msg("fetched reviewed kanji")
	return set, nil
}

// ReviewedWords returns the expressions already present in deck, with any
// bracket readings stripped, so the UI can flag duplicates before adding.
func (c *Client) ReviewedWords(ctx context.Context, deck string) ([]string, error) {
	cardIDs, err := c.findCards(ctx, fmt.Sprintf("deck:%q", deck))
	if err != nil {
		return nil, err
	}
	if len(cardIDs) == 0 {
		return nil, nil
	}

	cards, err := c.cardsInfo(ctx, cardIDs)
	if err != nil {
		return nil, err
	}

	var words []string
	for _, card := range cards {
		front, ok := card.Fields["Front"]
		if !ok {
			continue
		}
		if word := stripFurigana(stripHTML(front)); word != "" {
			words = append(words, word)
		}
	}
	return words, nil
}

// DueKanji returns the distinct kanji on new due cards in deck, in due
// order, for batch preparation.
func (c *Client) DueKanji(ctx context.Context, deck string) ([]rune, error) {
	cardIDs, err := c.findCards(ctx, fmt.Sprintf("deck:%q is:new is:due", deck))
	if err != nil {
		return nil, err
	}
	if len(cardIDs) == 0 {
		return nil, nil
	}

	cards, err := c.cardsInfo(ctx, cardIDs)
	if err != nil {
		return nil, err
	}

	var kanji []rune
	seen := make(map[rune]struct{})
	for _, card := range cards {
		runes := []rune(stripHTML(card.Fields["Kanji"]))
		if len(runes) != 1 || !kanjikana.IsKanji(runes[0]) {
			continue
		}
		if _, ok := seen[runes[0]]; ok {
			continue
		}
		seen[runes[0]] = struct{}{}
		kanji = append(kanji, runes[0])
	}
	return kanji, nil
}

func (c *Client) findCards(ctx context.Context, query string) ([]int64, error) {
	var ids []int64
	err := c.invoke(ctx, "findCards", map[string]any{"query": query}, &ids)
	return ids, err
}

func (c *Client) cardsInfo(ctx context.Context, ids []int64) ([]Card, error) {
	var raws []rawCard
	if err := c.invoke(ctx, "cardsInfo", map[string]any{"cards": ids}, &raws); err != nil {
		return nil, err
	}
	cards := make([]Card, 0, len(raws))
	for _, r := range raws {
		cards = append(cards, r.card())
	}
	return cards, nil
}

// stripHTML drops markup Anki wraps around field values.
func stripHTML(s string) string {
	s = strings.ReplaceAll(s, "<br>", " ")
	s = reHTMLTag.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// stripFurigana removes bracket readings and their spacing from an
// expression in Anki furigana format: 勉[べん]強[きょう]す る → 勉強する.
func stripFurigana(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '[':
			depth++
		case r == ']':
			if depth > 0 {
				depth--
			}
		case r == ' ' || r == '　':
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
