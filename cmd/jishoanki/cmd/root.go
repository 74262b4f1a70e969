package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yomu-cards/jishoanki/internal/anki"
	"github.com/yomu-cards/jishoanki/internal/config"
	"github.com/yomu-cards/jishoanki/internal/jisho"
	"github.com/yomu-cards/jishoanki/internal/rank"
	"github.com/yomu-cards/jishoanki/internal/session"
)

var (
	flagConfig string
	flagDebug  bool
	flagLimit  int
)

var rootCmd = &cobra.Command{
	Use:   "jishoanki",
	Short: "jishoanki - build Anki vocabulary from the kanji you review",
	Long: "Reads the kanji card currently under review in Anki, searches jisho.org\n" +
		"for words containing it, ranks them by JLPT level and your review history,\n" +
		"and adds the words you pick back to Anki.",
	SilenceUsage:  true,
	SilenceErrors: false,
	// Bare invocation starts the review loop.
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		return s.Run(cmd.Context())
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config.toml (default: XDG config dir)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "verbose logging, including raw API payloads")
	rootCmd.PersistentFlags().IntVar(&flagLimit, "limit", 0, "max ranked words shown per kanji (overrides config)")

	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(prepareCmd)
	rootCmd.AddCommand(versionCmd)
}

// newSession loads config, wires logging and builds the clients.
func newSession() (*session.Session, error) {
	logger := setupLogging(flagDebug)

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagLimit > 0 {
		cfg.CLI.ResultLimit = flagLimit
	}

	dict := jisho.NewClient(cfg.Jisho.APIURL, cfg.Jisho.SiteURL,
		time.Duration(cfg.Jisho.TimeoutSeconds)*time.Second)
	cards := anki.NewClient(cfg.Anki.URL,
		time.Duration(cfg.Anki.TimeoutSeconds)*time.Second)

	logger.Debug().
		Str("anki", cfg.Anki.URL).
		Str("jisho", cfg.Jisho.APIURL).
		Int("limit", cfg.CLI.ResultLimit).
		Msg("configured")

	return session.New(cfg, dict, cards, os.Stdin, os.Stdout), nil
}

// setupLogging hands one console logger to every package.
func setupLogging(debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()

	config.Logger = logger
	rank.Logger = logger
	jisho.Logger = logger
	anki.Logger = logger
	session.Logger = logger
	return logger
}
