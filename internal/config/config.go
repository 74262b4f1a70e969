// Package config manages the TOML configuration for jishoanki.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
)

var Logger = zerolog.Nop()

// Config holds the entire config structure.
type Config struct {
	Anki  AnkiConfig  `toml:"anki"`
	Jisho JishoConfig `toml:"jisho"`
	CLI   CLIConfig   `toml:"cli"`
}

// AnkiConfig has AnkiConnect related options.
type AnkiConfig struct {
	URL       string `toml:"url"`
	KanjiDeck string `toml:"kanji_deck"` // Source deck holding single-kanji cards
	VocabDeck string `toml:"vocab_deck"` // Target deck for new vocabulary notes
	NoteModel string `toml:"note_model"`
	// ReviewedQuery is the Anki search used to collect reviewed kanji.
	ReviewedQuery  string   `toml:"reviewed_query"`
	Tags           []string `toml:"tags"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// JishoConfig holds dictionary endpoint options.
type JishoConfig struct {
	APIURL         string `toml:"api_url"`
	SiteURL        string `toml:"site_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// CLIConfig holds interface options.
type CLIConfig struct {
	ResultLimit int `toml:"result_limit"` // Max ranked words shown per kanji
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Anki: AnkiConfig{
			URL:            "http://localhost:8765",
			KanjiDeck:      "All in one Kanji",
			VocabDeck:      "VocabularyNew",
			NoteModel:      "Basic",
			ReviewedQuery:  "deck:current (-is:new OR flag:1)",
			Tags:           []string{"jishoanki"},
			TimeoutSeconds: 5,
		},
		Jisho: JishoConfig{
			APIURL:         "https://jisho.org/api/v1",
			SiteURL:        "https://jisho.org",
			TimeoutSeconds: 10,
		},
		CLI: CLIConfig{
			ResultLimit: 10,
		},
	}
}

// DefaultPath returns the per-user config file location, creating parent
// directories as needed.
func DefaultPath() (string, error) {
	path, err := xdg.ConfigFile("jishoanki/config.toml")
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return path, nil
}

// Load reads path on top of the defaults. A missing file is not an error:
// the defaults are returned and written out so the user has something to
// edit. Environment variables JISHOANKI_ANKI_URL and JISHOANKI_LIMIT
// override the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return cfg, err
		}
	}

	switch _, err := os.Stat(path); {
	case os.IsNotExist(err):
		Logger.Debug().Str("path", path).Msg("no config file, writing defaults")
		if werr := Write(path, cfg); werr != nil {
			Logger.Warn().Err(werr).Msg("could not write default config")
		}
	case err != nil:
		return cfg, fmt.Errorf("failed to stat config file: %w", err)
	default:
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// Write stores cfg at path as TOML.
func Write(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if url := os.Getenv("JISHOANKI_ANKI_URL"); url != "" {
		cfg.Anki.URL = url
	}
	if limit := os.Getenv("JISHOANKI_LIMIT"); limit != "" {
		n := 0
		if _, err := fmt.Sscanf(limit, "%d", &n); err == nil && n > 0 {
			cfg.CLI.ResultLimit = n
		}
	}
}
