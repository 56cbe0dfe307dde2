package metrics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ModelConfig describes one model taking part in an experiment.
type ModelConfig struct {
	ID   int    `yaml:"id" json:"id"`
	Kind string `yaml:"kind" json:"kind"` // "random", "greedy" or "search"
	Seed uint64 `yaml:"seed" json:"seed"`
	Elo  int    `yaml:"elo" json:"elo"` // starting rating, 0 for the default

	// Search only
	Goroutines int `yaml:"goroutines" json:"goroutines"`
	Episodes   int `yaml:"episodes" json:"episodes"`
	Horizon    int `yaml:"horizon" json:"horizon"`
}

type GameRecord struct {
	ID     int
	Run    string // evaluation batch
	Old    int    // ModelConfig.ID
	New    int    // ModelConfig.ID
	OldElo int    // rating after this game
	NewElo int    // rating after this game
	GameMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a fresh directory for an experiment under root/name.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	dir := fmt.Sprintf("%s_%s", timestamp, uuid.NewString()[:8])
	baseDir := filepath.Join(root, name, dir)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

// WriteSetup stores the experiment setup as indented JSON.
func (w *Writer) WriteSetup(setup any) error {
	b, err := json.MarshalIndent(setup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode setup: %w", err)
	}
	err = os.WriteFile(filepath.Join(w.baseDir, "setup.json"), b, 0644)
	if err != nil {
		return fmt.Errorf("failed to write setup file: %w", err)
	}
	return nil
}

func (w *Writer) WriteModelConfigs(configs []ModelConfig) error {
	header := []string{"id", "kind", "seed", "elo", "goroutines", "episodes", "horizon"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Kind,
			strconv.FormatUint(config.Seed, 10),
			strconv.Itoa(config.Elo),
			strconv.Itoa(config.Goroutines),
			strconv.Itoa(config.Episodes),
			strconv.Itoa(config.Horizon),
		})
	}
	return w.writeCSV("model_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{
		"id", "run", "old", "new", "old_elo", "new_elo", "winner", "steps", "rejected",
		"out_of_range", "reward0", "reward1", "start_time", "end_time", "duration",
	}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			record.Run,
			strconv.Itoa(record.Old),
			strconv.Itoa(record.New),
			strconv.Itoa(record.OldElo),
			strconv.Itoa(record.NewElo),
			record.Winner,
			strconv.Itoa(record.Steps),
			strconv.Itoa(record.Rejected),
			strconv.Itoa(record.OutOfRange),
			strconv.FormatFloat(record.Rewards[0], 'f', -1, 64),
			strconv.FormatFloat(record.Rewards[1], 'f', -1, 64),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		})
	}
	return w.writeCSV("game_records.csv", header, rows)
}

func (w *Writer) writeCSV(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	for _, row := range rows {
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write %s row: %w", name, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", name, err)
	}
	return nil
}
