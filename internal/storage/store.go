package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/infodiff/internal/diffusion"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

type Store struct {
	baseDir string
	log     *zap.Logger
	newID   func(time.Time) string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, log: zap.NewNop(), newID: defaultRunID}
}

func defaultRunID(now time.Time) string {
	return fmt.Sprintf("run_%d", now.UnixNano())
}

// WithLogger sets the logger used for skipped or unreadable runs.
func (s *Store) WithLogger(log *zap.Logger) *Store {
	if log != nil {
		s.log = log
	}
	return s
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string                 `json:"id"`
	Preset    string                 `json:"preset,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Params    diffusion.Params       `json:"params"`
	Initial   diffusion.Compartments `json:"initial"`
	Horizon   float64                `json:"horizon"`
	Step      float64                `json:"step"`
	Samples   int                    `json:"samples"`
	Summary   diffusion.Summary      `json:"summary"`
	Health    map[string]float64     `json:"health"`
}

// Save writes the run's time,S,I,R table and its metadata under a new run
// directory and returns the run id. Metadata is written last, so a run that
// List reports always has its table. A failed save leaves no directory.
func (s *Store) Save(preset string, tr *diffusion.Trajectory) (string, error) {
	summary, err := diffusion.Summarize(tr)
	if err != nil {
		return "", err
	}
	if err := checkFinite(tr); err != nil {
		return "", err
	}

	now := time.Now()
	id := s.newID(now)
	runDir := filepath.Join(s.baseDir, id)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        id,
		Preset:    preset,
		Timestamp: now,
		Params:    tr.Params,
		Initial:   tr.Initial,
		Horizon:   tr.Horizon,
		Step:      tr.Step,
		Samples:   tr.Len(),
		Summary:   summary,
		Health:    tr.Health,
	}

	if err := writeRun(runDir, meta, tr); err != nil {
		if rmErr := os.RemoveAll(runDir); rmErr != nil {
			s.log.Warn("failed to remove partial run", zap.String("dir", runDir), zap.Error(rmErr))
		}
		return "", fmt.Errorf("save %s: %w", id, err)
	}

	s.log.Debug("run saved", zap.String("id", id), zap.Int("samples", tr.Len()))
	return id, nil
}

func writeRun(runDir string, meta RunMetadata, tr *diffusion.Trajectory) error {
	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return err
	}
	if err := WriteCSV(csvFile, tr); err != nil {
		csvFile.Close()
		return err
	}
	if err := csvFile.Close(); err != nil {
		return err
	}

	return writeJSON(filepath.Join(runDir, metadataFile), meta)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns every readable run, oldest first.
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
			s.log.Warn("skipping unreadable run", zap.String("dir", entry.Name()), zap.Error(err))
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrajectory rebuilds a saved trajectory from its metadata and table.
func (s *Store) LoadTrajectory(runID string) (*diffusion.Trajectory, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(diffusion.Columns)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", trajectoryFile, err)
	}

	tr := &diffusion.Trajectory{
		Params:  meta.Params,
		Initial: meta.Initial,
		Horizon: meta.Horizon,
		Step:    meta.Step,
		Health:  meta.Health,
	}
	if len(records) < 2 {
		return tr, nil
	}

	tr.Points = make([]diffusion.Point, 0, len(records)-1)
	for i, record := range records[1:] {
		var vals [4]float64
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i+1, diffusion.Columns[j], err)
			}
			vals[j] = v
		}
		tr.Points = append(tr.Points, diffusion.Point{Time: vals[0], S: vals[1], I: vals[2], R: vals[3]})
	}

	return tr, nil
}
