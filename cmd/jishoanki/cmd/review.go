package cmd

import (
	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Interactive loop alongside an Anki review session",
	Long: "Press n to fetch the kanji card currently shown in Anki, pick words by\n" +
		"number, type a word directly to look it up, c to commit, q to quit.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		return s.Run(cmd.Context())
	},
}
