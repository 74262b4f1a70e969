package cmd

import (
	"github.com/spf13/cobra"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Batch mode: pick vocabulary for every new due kanji",
	Long: "Walks the new cards due in the kanji deck, shows ranked words for each\n" +
		"kanji in turn, and commits all selections in one batch at the end.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		return s.Prepare(cmd.Context())
	},
}
