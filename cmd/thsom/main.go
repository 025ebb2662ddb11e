// Command thsom trains a temporal Hebbian SOM on a word list and reports
// the winner sequences of a few probe words.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sorelyss/somber/config"
	"github.com/sorelyss/somber/journal"
	"github.com/sorelyss/somber/ortho"
	"github.com/sorelyss/somber/thsom"
)

func main() {
	var (
		configPath = flag.String("config", "", "JSON file overlaid on the default settings")
		words      = flag.String("words", "", "word list (word pronunciation per line), overrides config")
		dbPath     = flag.String("db", "", "sqlite journal path, overrides config; \"-\" disables it")
		seed       = flag.Int64("seed", 0, "random seed, overrides config when non-zero")
		epochs     = flag.Int("epochs", -1, "number of epochs, overrides config when >= 0")
		verbose    = flag.Bool("verbose", false, "log every batch")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *words != "" {
		cfg.WordsPath = *words
	}
	switch *dbPath {
	case "":
	case "-":
		cfg.DBPath = ""
	default:
		cfg.DBPath = *dbPath
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *epochs >= 0 {
		cfg.Epochs = *epochs
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}

	logger := cfg.Logger()
	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("run failed")
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *logrus.Logger) error {
	f, err := os.Open(cfg.WordsPath)
	if err != nil {
		return err
	}
	wordlist, err := ortho.LoadWordList(f, cfg.MaxLen)
	f.Close()
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"path": cfg.WordsPath, "words": len(wordlist)}).Info("word list loaded")

	// +2 for the boundary markers around each word.
	enc, err := ortho.New(cfg.MaxLen+2, cfg.Alphabet)
	if err != nil {
		return err
	}
	enc.Fit(wordlist)
	enc.Fit(cfg.Probes)

	raw, err := enc.Encode(wordlist)
	if err != nil {
		return err
	}
	x, err := thsom.FromSlices(raw)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	x.Shuffle(rng)
	if cfg.TrainLimit > 0 && cfg.TrainLimit < x.N {
		x = x.Slice(0, cfg.TrainLimit)
	}

	var (
		j     *journal.Journal
		runID string
		opts  = []thsom.Option{thsom.WithRand(rng), thsom.WithLogger(logger)}
	)
	if cfg.DBPath != "" {
		j, err = journal.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer j.Close()
		runID, err = j.StartRun(journal.Run{
			Width:     cfg.Width,
			Height:    cfg.Height,
			DataDim:   enc.Dim(),
			Beta:      cfg.Beta,
			Schedule:  cfg.Schedule.Kind,
			BatchSize: cfg.BatchSize,
			Epochs:    cfg.Epochs,
			Sequences: x.N,
			Seed:      cfg.Seed,
		})
		if err != nil {
			return err
		}
		opts = append(opts, thsom.WithEpochHook(j.EpochHook(runID)))
		logger.WithFields(logrus.Fields{"db": cfg.DBPath, "run": runID}).Info("journal opened")
	}

	model, err := thsom.New(cfg.Width, cfg.Height, enc.Dim(), cfg.Schedule, cfg.Beta, opts...)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"grid":      fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"data_dim":  enc.Dim(),
		"sequences": x.N,
		"length":    x.L,
	}).Info("training")

	if _, err := model.Train(x, cfg.BatchSize, cfg.Epochs); err != nil {
		return err
	}

	if len(cfg.Probes) == 0 {
		return nil
	}
	probeRaw, err := enc.Encode(cfg.Probes)
	if err != nil {
		return err
	}
	probes, err := thsom.FromSlices(probeRaw)
	if err != nil {
		return err
	}
	winners, err := model.Predict(probes)
	if err != nil {
		return err
	}
	for i, w := range cfg.Probes {
		// only positions that hold a letter
		seq := winners[i][:len([]rune(w))]
		logger.WithField("word", w).Info(formatWinners(seq))
		if j != nil {
			if err := j.RecordPrediction(runID, w, seq); err != nil {
				return err
			}
		}
	}

	tc := thsom.CountTransitions(trimmed(winners, cfg.Probes))
	for _, tr := range tc.Strongest(10) {
		logger.WithFields(logrus.Fields{
			"from":  tr.From,
			"to":    tr.To,
			"count": tr.Count,
		}).Info("transition")
	}
	return nil
}

func trimmed(winners [][]int, words []string) [][]int {
	out := make([][]int, len(winners))
	for i, w := range words {
		out[i] = winners[i][:len([]rune(w))]
	}
	return out
}

func formatWinners(seq []int) string {
	parts := make([]string, len(seq))
	for i, u := range seq {
		parts[i] = fmt.Sprint(u)
	}
	return strings.Join(parts, " ")
}
