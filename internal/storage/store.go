package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/seesaw/internal/beam"
	"github.com/san-kum/seesaw/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: filepath.Join(baseDir, "runs")}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Strategy  string             `json:"strategy"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Params    beam.Params        `json:"params"`
	Items     []beam.Item        `json:"items"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Trace is the per-frame record of a run.
type Trace struct {
	Times   []float64
	Angles  []float64
	Targets []float64
	Left    []float64
	Right   []float64
}

var traceHeader = []string{"time", "angle", "target", "left_kg", "right_kg"}

var (
	ErrInvalidID = errors.New("storage: invalid run id")

	validID = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

// checkID keeps run ids to a single path element under runs/.
func checkID(id string) error {
	if !validID.MatchString(id) || id == "." || id == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%s", meta.Strategy, uuid.NewString()[:8])
	}
	if err := checkID(meta.ID); err != nil {
		return "", err
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.Seed = result.Seed
	meta.Items = result.Items
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trace.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(traceHeader); err != nil {
		return "", err
	}
	for i := range result.Times {
		row := []string{
			strconv.FormatFloat(result.Times[i], 'f', 6, 64),
			strconv.FormatFloat(result.Angles[i], 'f', 6, 64),
			strconv.FormatFloat(result.Targets[i], 'f', 6, 64),
			strconv.FormatFloat(result.Left[i], 'f', 1, 64),
			strconv.FormatFloat(result.Right[i], 'f', 1, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns all runs, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	if err := checkID(runID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadTrace(runID string) (*Trace, error) {
	if err := checkID(runID); err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(s.baseDir, runID, "trace.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	tr := &Trace{}
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < len(traceHeader) {
			continue
		}
		vals := make([]float64, len(traceHeader))
		ok := true
		for j := range traceHeader {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}
		tr.Times = append(tr.Times, vals[0])
		tr.Angles = append(tr.Angles, vals[1])
		tr.Targets = append(tr.Targets, vals[2])
		tr.Left = append(tr.Left, vals[3])
		tr.Right = append(tr.Right, vals[4])
	}

	return tr, nil
}
