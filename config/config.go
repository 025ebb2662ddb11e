// Package config holds the experiment settings. Defaults live in Default;
// a JSON file overlays only the keys it names.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sorelyss/somber/som"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the full set of run settings.
type Config struct {
	// data
	WordsPath  string   `json:"words_path"`
	MaxLen     int      `json:"max_len"`     // letters per word, boundary markers excluded
	TrainLimit int      `json:"train_limit"` // 0 = all words
	Probes     []string `json:"probes"`
	Alphabet   string   `json:"alphabet"`

	// model
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Beta     float64      `json:"beta"`
	Schedule som.Schedule `json:"schedule"`

	// training
	BatchSize int   `json:"batch_size"`
	Epochs    int   `json:"epochs"`
	Seed      int64 `json:"seed"`

	// journal
	DBPath string `json:"db_path"` // empty disables the journal

	// logging
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"` // "text" or "json"
}

// Default mirrors the Dutch orthography run: 30x30 map, 1000 words,
// batches of 100, 100 epochs.
func Default() Config {
	return Config{
		WordsPath:  "data/dpalign-txt-dutch.txt.dpalign",
		MaxLen:     15,
		TrainLimit: 1000,
		Probes:     []string{"#gedaan", "#haan", "#maan", "#ongedaan", "#spaans", "#man", "#mannen", "#kan", "#kannen"},
		Alphabet:   "#abcdefghijklmnopqrstuvwxyz",
		Width:      30,
		Height:     30,
		Beta:       0.2,
		Schedule:   som.DefaultSchedule(),
		BatchSize:  100,
		Epochs:     100,
		Seed:       44,
		DBPath:     "thsom.db",
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalid, c.Width, c.Height)
	case c.MaxLen <= 0:
		return fmt.Errorf("%w: max_len=%d", ErrInvalid, c.MaxLen)
	case c.Beta <= 0 || math.IsNaN(c.Beta):
		return fmt.Errorf("%w: beta=%f", ErrInvalid, c.Beta)
	case c.BatchSize <= 0:
		return fmt.Errorf("%w: batch_size=%d", ErrInvalid, c.BatchSize)
	case c.Epochs < 0:
		return fmt.Errorf("%w: epochs=%d", ErrInvalid, c.Epochs)
	case c.TrainLimit < 0:
		return fmt.Errorf("%w: train_limit=%d", ErrInvalid, c.TrainLimit)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format=%q", ErrInvalid, c.LogFormat)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := c.Schedule.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Logger builds a logrus logger from the logging settings.
func (c Config) Logger() *logrus.Logger {
	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
