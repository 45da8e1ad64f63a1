// Package storage persists finished runs under a data directory, one
// directory per run holding metadata.json and trajectory.csv.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/natefinch/atomic"
	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/control"
	"github.com/san-kum/pidlab/internal/sim"
)

const (
	DefaultDir = "~/.pidlab/runs"

	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	now     func() time.Time
}

// New returns a store rooted at baseDir. A leading ~ is expanded.
func New(baseDir string) (*Store, error) {
	dir, err := homedir.Expand(baseDir)
	if err != nil {
		return nil, fmt.Errorf("expanding %s: %w", baseDir, err)
	}
	return &Store{baseDir: dir, now: time.Now}, nil
}

func (s *Store) Dir() string { return s.baseDir }

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0o755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Ticks     int                `json:"ticks"`
	TickRate  int                `json:"tick_rate"`
	Gains     control.Gains      `json:"gains"`
	Rounding  string             `json:"rounding"`
	Alpha     float64            `json:"derivative_alpha"`
	Skipped   int                `json:"skipped"`
	Metrics   map[string]float64 `json:"metrics"`
	Config    *config.Config     `json:"config,omitempty"`
}

// Save writes a run and returns its id. Both files are replaced atomically.
func (s *Store) Save(name string, cfg *config.Config, result *sim.Result) (string, error) {
	ts := s.now()
	runID := fmt.Sprintf("%s_%d", name, ts.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: ts,
		Ticks:     result.Final.Ticks,
		TickRate:  cfg.TickRate,
		Gains:     cfg.Gains,
		Rounding:  cfg.Rounding,
		Alpha:     cfg.DerivativeAlpha,
		Skipped:   result.Final.Skipped,
		Metrics:   result.Metrics,
		Config:    cfg,
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}
	if err := atomic.WriteFile(filepath.Join(runDir, metadataFile), bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("writing metadata: %w", err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, result.Samples); err != nil {
		return "", err
	}
	if err := atomic.WriteFile(filepath.Join(runDir, trajectoryFile), &buf); err != nil {
		return "", fmt.Errorf("writing trajectory: %w", err)
	}

	return runID, nil
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) ([]sim.Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()

	return ReadCSV(f)
}
