package jisho

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wordPageFixture = `<html><body>
<div class="concept_light-representation">
  <span class="furigana">
    <span class="kanji-2-up kanji">べん</span>
    <span class="kanji-2-up kanji">きょう</span>
  </span>
  <span class="text">
  勉強する
  </span>
</div>
</body></html>`

const mismatchPageFixture = `<html><body>
<div class="concept_light-representation">
  <span class="furigana">
    <span class="kanji">しゃっきん</span>
  </span>
  <span class="text">借金</span>
</div>
</body></html>`

func TestFurigana(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/word/%E5%8B%89%E5%BC%B7%E3%81%99%E3%82%8B", r.URL.EscapedPath())
		w.Write([]byte(wordPageFixture))
	})

	got, err := client.Furigana(context.Background(), "勉強する")
	require.NoError(t, err)
	assert.Equal(t, "勉[べん]強[きょう]す る", got)
}

func TestFuriganaWholeWordFallback(t *testing.T) {
	// One reading spanning two kanji: per-kanji pairing is impossible, the
	// reading attaches to the whole expression.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(mismatchPageFixture))
	})

	got, err := client.Furigana(context.Background(), "借金")
	require.NoError(t, err)
	assert.Equal(t, "借金[しゃっきん]", got)
}

func TestFuriganaMissingBlock(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>no such word</body></html>"))
	})

	_, err := client.Furigana(context.Background(), "存在しない")
	assert.ErrorContains(t, err, "representation")
}

func TestBracketFurigana(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		readings []string
		want     string
		wantErr  bool
	}{
		{"two kanji", "学校", []string{"がっ", "こう"}, "学[がっ]校[こう]", false},
		{"kanji then kana", "学ぶ", []string{"まな"}, "学[まな]ぶ", false},
		{"katakana passes through", "缶ビール", []string{"かん"}, "缶[かん]ビ ー ル", false},
		{"count mismatch", "借金", []string{"しゃっきん"}, "", true},
		{"latin rejected", "学x", []string{"がく"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bracketFurigana(tt.text, tt.readings)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
