// Package journal records training runs in a sqlite database: one row per
// run, one per epoch, and the winner sequences of probe words.
package journal

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/sorelyss/somber/thsom"
)

// Journal is a handle on one sqlite journal file.
type Journal struct {
	db *sql.DB
}

// Run describes the setup of one training run.
type Run struct {
	ID        string
	Started   time.Time
	Width     int
	Height    int
	DataDim   int
	Beta      float64
	Schedule  string
	BatchSize int
	Epochs    int
	Sequences int
	Seed      int64
}

// EpochRow is one stored epoch.
type EpochRow struct {
	Epoch        int
	Radius       float64
	LearningRate float64
	MeanResidual float64
	CacheMisses  int
	ElapsedMS    int64
}

// Open creates the schema if needed.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	stmts := []string{`
		CREATE TABLE IF NOT EXISTS runs(
			id TEXT PRIMARY KEY,
			ts REAL NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			data_dim INTEGER NOT NULL,
			beta REAL NOT NULL,
			schedule TEXT NOT NULL,
			batch_size INTEGER NOT NULL,
			epochs INTEGER NOT NULL,
			sequences INTEGER NOT NULL,
			seed INTEGER NOT NULL
		)`, `
		CREATE TABLE IF NOT EXISTS epochs(
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			ts REAL NOT NULL,
			epoch INTEGER NOT NULL,
			radius REAL NOT NULL,
			lr REAL NOT NULL,
			mean_residual REAL NOT NULL,
			cache_misses INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL
		)`, `
		CREATE TABLE IF NOT EXISTS predictions(
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			word TEXT NOT NULL,
			winners TEXT NOT NULL
		)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			db.Close()
			return nil, fmt.Errorf("journal: schema: %w", err)
		}
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error { return j.db.Close() }

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000.0
}

// StartRun stores r under a fresh id and returns it.
func (j *Journal) StartRun(r Run) (string, error) {
	r.ID = uuid.New().String()
	if r.Started.IsZero() {
		r.Started = time.Now()
	}
	_, err := j.db.Exec(`INSERT INTO runs(id,ts,width,height,data_dim,beta,schedule,batch_size,epochs,sequences,seed)
		VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		r.ID, unixSeconds(r.Started), r.Width, r.Height, r.DataDim, r.Beta,
		r.Schedule, r.BatchSize, r.Epochs, r.Sequences, r.Seed)
	if err != nil {
		return "", fmt.Errorf("journal: start run: %w", err)
	}
	return r.ID, nil
}

// RecordEpoch stores one training report.
func (j *Journal) RecordEpoch(runID string, rep thsom.EpochReport) error {
	_, err := j.db.Exec(`INSERT INTO epochs(run_id,ts,epoch,radius,lr,mean_residual,cache_misses,elapsed_ms)
		VALUES(?,?,?,?,?,?,?,?)`,
		runID, unixSeconds(time.Now()), rep.Epoch, rep.Radius, rep.LearningRate,
		rep.MeanResidual, rep.CacheMisses, rep.Elapsed.Milliseconds())
	if err != nil {
		return fmt.Errorf("journal: record epoch %d: %w", rep.Epoch, err)
	}
	return nil
}

// EpochHook adapts RecordEpoch to thsom.WithEpochHook.
func (j *Journal) EpochHook(runID string) func(thsom.EpochReport) error {
	return func(rep thsom.EpochReport) error {
		return j.RecordEpoch(runID, rep)
	}
}

// RecordPrediction stores the winner sequence of one word.
func (j *Journal) RecordPrediction(runID, word string, winners []int) error {
	parts := make([]string, len(winners))
	for i, w := range winners {
		parts[i] = strconv.Itoa(w)
	}
	_, err := j.db.Exec("INSERT INTO predictions(run_id,word,winners) VALUES(?,?,?)",
		runID, word, strings.Join(parts, " "))
	if err != nil {
		return fmt.Errorf("journal: record prediction %q: %w", word, err)
	}
	return nil
}

// Epochs returns the stored epochs of a run in order.
func (j *Journal) Epochs(runID string) ([]EpochRow, error) {
	rows, err := j.db.Query(`SELECT epoch, radius, lr, mean_residual, cache_misses, elapsed_ms
		FROM epochs WHERE run_id = ? ORDER BY epoch`, runID)
	if err != nil {
		return nil, fmt.Errorf("journal: epochs: %w", err)
	}
	defer rows.Close()
	var out []EpochRow
	for rows.Next() {
		var e EpochRow
		if err := rows.Scan(&e.Epoch, &e.Radius, &e.LearningRate, &e.MeanResidual, &e.CacheMisses, &e.ElapsedMS); err != nil {
			return nil, fmt.Errorf("journal: epochs: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Predictions returns word -> winners for a run.
func (j *Journal) Predictions(runID string) (map[string][]int, error) {
	rows, err := j.db.Query("SELECT word, winners FROM predictions WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, fmt.Errorf("journal: predictions: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]int)
	for rows.Next() {
		var word, enc string
		if err := rows.Scan(&word, &enc); err != nil {
			return nil, fmt.Errorf("journal: predictions: %w", err)
		}
		var ws []int
		for _, f := range strings.Fields(enc) {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("journal: predictions: bad winner %q for %q", f, word)
			}
			ws = append(ws, v)
		}
		out[word] = ws
	}
	return out, rows.Err()
}

// Runs lists stored run ids, newest first.
func (j *Journal) Runs() ([]string, error) {
	rows, err := j.db.Query("SELECT id FROM runs ORDER BY ts DESC, rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("journal: runs: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("journal: runs: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
