// Package kanjikana classifies runes of Japanese text into the script
// subsets the rest of the tool cares about: kanji (CJK Unified Ideographs),
// hiragana and katakana.
package kanjikana

import "unicode"

// IsKanji reports whether r is a kanji character.
func IsKanji(r rune) bool {
	return unicode.Is(unicode.Han, r)
}

// IsHiragana reports whether r is a hiragana character. Block-based rather
// than script-based so the iteration marks count as kana.
func IsHiragana(r rune) bool {
	return r >= 0x3040 && r <= 0x309F
}

// IsKatakana reports whether r is a katakana character, including the
// prolonged sound mark ー (script Common, so unicode.Is would miss it).
func IsKatakana(r rune) bool {
	return r >= 0x30A0 && r <= 0x30FF
}

// ContainsKanji checks if a string contains any kanji characters.
func ContainsKanji(s string) bool {
	for _, r := range s {
		if IsKanji(r) {
			return true
		}
	}
	return false
}

// IsWord reports whether s looks like a Japanese word: at least two runes,
// all of them kanji, hiragana or katakana. Used by the interactive loop to
// tell a direct word lookup apart from command input.
func IsWord(s string) bool {
	runes := []rune(s)
	if len(runes) < 2 {
		return false
	}
	for _, r := range runes {
		if !IsKanji(r) && !IsHiragana(r) && !IsKatakana(r) {
			return false
		}
	}
	return true
}

// OtherKanji returns the distinct kanji in s other than anchor, in order of
// first appearance. Kana and punctuation are ignored.
func OtherKanji(s string, anchor rune) []rune {
	var others []rune
	seen := make(map[rune]struct{})
	for _, r := range s {
		if r == anchor || !IsKanji(r) {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		others = append(others, r)
	}
	return others
}
