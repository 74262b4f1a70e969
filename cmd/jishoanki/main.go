// jishoanki adds vocabulary to Anki based on the kanji card under review.
package main

import (
	"os"

	"github.com/yomu-cards/jishoanki/cmd/jishoanki/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
