package kanjikana

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsKanji(t *testing.T) {
	assert.True(t, IsKanji('学'))
	assert.True(t, IsKanji('語'))
	assert.False(t, IsKanji('が'))
	assert.False(t, IsKanji('ガ'))
	assert.False(t, IsKanji('a'))
	assert.False(t, IsKanji('。'))
}

func TestIsHiragana(t *testing.T) {
	assert.True(t, IsHiragana('あ'))
	assert.True(t, IsHiragana('ん'))
	assert.False(t, IsHiragana('ア'))
	assert.False(t, IsHiragana('学'))
}

func TestIsKatakana(t *testing.T) {
	assert.True(t, IsKatakana('ア'))
	assert.True(t, IsKatakana('ー'))
	assert.False(t, IsKatakana('あ'))
	assert.False(t, IsKatakana('学'))
}

func TestContainsKanji(t *testing.T) {
	assert.True(t, ContainsKanji("勉強する"))
	assert.True(t, ContainsKanji("学"))
	assert.False(t, ContainsKanji("べんきょう"))
	assert.False(t, ContainsKanji("katakana"))
	assert.False(t, ContainsKanji(""))
}

func TestIsWord(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"火山", true},
		{"ひらがな", true},
		{"カタカナ", true},
		{"勉強する", true},
		{"学", false},     // single rune
		{"n", false},     // command input
		{"1 3 5", false}, // selection input
		{"word", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsWord(tt.input), "IsWord(%q)", tt.input)
	}
}

func TestOtherKanji(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		anchor rune
		want   []rune
	}{
		{"compound with one other", "学校", '学', []rune{'校'}},
		{"anchor only", "学", '学', nil},
		{"anchor repeated", "学学", '学', nil},
		{"no anchor present", "言語", '学', []rune{'言', '語'}},
		{"kana ignored", "学ぶ", '学', nil},
		{"mixed kana and kanji", "勉強する", '強', []rune{'勉'}},
		{"duplicates collapsed", "日本日和", '和', []rune{'日', '本'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OtherKanji(tt.expr, tt.anchor))
		})
	}
}
