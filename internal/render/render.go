// Package render writes the tool's terminal output: the ranked word table,
// word detail views and status lines.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/k0kubun/pp"

	"github.com/yomu-cards/jishoanki/internal/rank"
)

// jlptColors follows the usual beginner-green to advanced-red convention.
var jlptColors = map[int]string{
	5: "#209c05",
	4: "#85e62c",
	3: "#ebff0a",
	2: "#f2ce02",
	1: "#ff0a0a",
}

// Welcome prints the banner and the one-line command help.
func Welcome(w io.Writer) {
	color.Fprintf(w, "<bold>jishoanki</> - add vocabulary to Anki from the kanji you are reviewing\n")
	color.Fprintf(w, "<gray>n</>: current card   <gray>1 3 5</>: select words   <gray>火山</>: look up a word   <gray>c</>: commit   <gray>q</>: quit\n\n")
}

// Table writes the ranked words, one row per word: index, expression,
// reading, JLPT tier, priority marker, already-in-deck marker, first
// definition. inDeck flags expressions already present in the vocab deck.
func Table(w io.Writer, ranked rank.RankedWords, inDeck map[string]bool) {
	Rule(w)
	for i, word := range ranked {
		fmt.Fprintf(w, "%3d. ", i+1)
		color.Fprintf(w, "<bold>%s</>", word.Expression)
		fmt.Fprint(w, "  ")
		color.Fprintf(w, "<cyan>%s</>", word.Reading)
		fmt.Fprint(w, "  ")
		fmt.Fprint(w, jlptCell(word.Level))
		fmt.Fprint(w, "  ")
		if word.Priority {
			fmt.Fprint(w, color.Green.Sprint("R"))
		} else {
			fmt.Fprint(w, color.Red.Sprint("N"))
		}
		fmt.Fprint(w, "  ")
		if inDeck[word.Expression] {
			fmt.Fprint(w, color.Yellow.Sprint("Y"), "  ")
		} else {
			fmt.Fprint(w, "-", "  ")
		}
		if len(word.Definitions) > 0 {
			fmt.Fprint(w, word.Definitions[0])
		}
		fmt.Fprintln(w)
	}
	Rule(w)
}

func jlptCell(level int) string {
	if level == 0 {
		return "Common"
	}
	label := fmt.Sprintf("N%d", level)
	if hex, ok := jlptColors[level]; ok {
		return color.HEX(hex).Sprint(label)
	}
	return label
}

// WordDetail writes a single word with all its definitions and parts of
// speech, used after a direct word lookup.
func WordDetail(w io.Writer, word rank.Word) {
	color.Fprintf(w, "  <bold>%s</> (<cyan>%s</>)  %s\n", word.Expression, word.Reading, jlptCell(word.Level))
	for i, def := range word.Definitions {
		pos := ""
		if i < len(word.PartsOfSpeech) {
			pos = word.PartsOfSpeech[i]
		}
		fmt.Fprintf(w, "   %d. %s", i+1, def)
		if pos != "" {
			color.Fprintf(w, "  <gray>[%s]</>", pos)
		}
		fmt.Fprintln(w)
	}
	Rule(w)
}

// Rule writes a dim separator line.
func Rule(w io.Writer) {
	color.Fprintf(w, "<gray>%s</>\n", strings.Repeat("─", 80))
}

// Info, Success and Error write one status line each.
func Info(w io.Writer, format string, args ...any) {
	color.Fprintf(w, "<cyan>%s</>\n", fmt.Sprintf(format, args...))
}

func Success(w io.Writer, format string, args ...any) {
	color.Fprintf(w, "<green>✓</> %s\n", fmt.Sprintf(format, args...))
}

func Error(w io.Writer, format string, args ...any) {
	color.Fprintf(w, "<red>✗</> %s\n", fmt.Sprintf(format, args...))
}

// Dump pretty-prints an arbitrary value for --debug runs.
func Dump(w io.Writer, v any) {
	pp.Fprintln(w, v)
}
