package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/lplab/internal/config"
	"github.com/san-kum/lplab/internal/experiment"
	"github.com/san-kum/lplab/internal/simplex"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

var traceHeader = []string{"iteration", "row", "column", "leaving", "ratio", "objective", "degenerate"}

// ErrInvalidRunID is returned for IDs that would resolve outside the store.
var ErrInvalidRunID = errors.New("storage: invalid run id")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Kind      string             `json:"kind"`
	Timestamp time.Time          `json:"timestamp"`
	Status    simplex.Status     `json:"status"`
	Error     string             `json:"error,omitempty"`
	M         int                `json:"m"`
	N         int                `json:"n"`
	Value     float64            `json:"value"`
	Primal    []float64          `json:"primal,omitempty"`
	Dual      []float64          `json:"dual,omitempty"`
	Row       []float64          `json:"row,omitempty"`
	Column    []float64          `json:"column,omitempty"`
	Shift     float64            `json:"shift,omitempty"`
	Pivots    int                `json:"pivots"`
	ElapsedNS int64              `json:"elapsed_ns"`
	Metrics   map[string]float64 `json:"metrics"`
	Problem   *config.Config     `json:"problem,omitempty"`
}

// Save writes metadata.json and trace.csv for one run and returns its ID.
// problem may be nil.
func (s *Store) Save(result *experiment.Result, problem *config.Config) (string, error) {
	now := time.Now()
	runID, runDir, err := s.newRunDir(result.Name, now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      result.Name,
		Kind:      result.Kind,
		Timestamp: now,
		Status:    result.Status,
		M:         result.M,
		N:         result.N,
		Value:     result.Value(),
		Pivots:    len(result.Trace),
		ElapsedNS: result.Elapsed.Nanoseconds(),
		Metrics:   result.Metrics,
		Problem:   problem,
	}
	if result.Err != nil {
		meta.Error = result.Err.Error()
	}
	if sol := result.Solution; sol != nil {
		meta.Primal = sol.Primal
		meta.Dual = sol.Dual
	}
	if eq := result.Equilibrium; eq != nil {
		meta.Row = eq.Row
		meta.Column = eq.Column
		meta.Shift = eq.Shift
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrace(filepath.Join(runDir, traceFile), result.Trace); err != nil {
		return "", err
	}
	return runID, nil
}

// newRunDir creates a fresh directory, suffixing the ID if two runs of the
// same problem land on the same timestamp.
func (s *Store) newRunDir(name string, now time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", cleanName(name), now.UnixNano())
	for i := 0; ; i++ {
		runID := base
		if i > 0 {
			runID = fmt.Sprintf("%s_%d", base, i)
		}
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
	}
}

// cleanName maps a problem name to a single safe path element.
func cleanName(name string) string {
	b := []byte(name)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			b[i] = '_'
		}
	}
	if strings.Trim(string(b), "_") == "" {
		return "run"
	}
	return string(b)
}

// runDir resolves a run ID to its directory. IDs must be a single path
// element below the base directory.
func (s *Store) runDir(runID string) (string, error) {
	if runID == "" || runID == "." || runID == ".." ||
		strings.ContainsAny(runID, `/\`) || filepath.Base(runID) != runID {
		return "", fmt.Errorf("%w: %q", ErrInvalidRunID, runID)
	}
	return filepath.Join(s.baseDir, runID), nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTrace(path string, trace []simplex.Pivot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(traceHeader); err != nil {
		return err
	}
	for _, p := range trace {
		row := []string{
			strconv.Itoa(p.Iteration),
			strconv.Itoa(p.Row),
			strconv.Itoa(p.Column),
			strconv.Itoa(p.Leaving),
			strconv.FormatFloat(p.Ratio, 'g', -1, 64),
			strconv.FormatFloat(p.Objective, 'g', -1, 64),
			strconv.FormatBool(p.Degenerate),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
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
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadTrace(runID string) ([]simplex.Pivot, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(dir, traceFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(traceHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []simplex.Pivot{}, nil
	}

	trace := make([]simplex.Pivot, 0, len(records)-1)
	for i, rec := range records[1:] {
		p, err := parsePivot(rec)
		if err != nil {
			return nil, fmt.Errorf("storage: %s line %d: %w", traceFile, i+2, err)
		}
		trace = append(trace, p)
	}
	return trace, nil
}

func parsePivot(rec []string) (simplex.Pivot, error) {
	var p simplex.Pivot
	var err error
	ints := []*int{&p.Iteration, &p.Row, &p.Column, &p.Leaving}
	for i, dst := range ints {
		if *dst, err = strconv.Atoi(rec[i]); err != nil {
			return p, err
		}
	}
	if p.Ratio, err = strconv.ParseFloat(rec[4], 64); err != nil {
		return p, err
	}
	if p.Objective, err = strconv.ParseFloat(rec[5], 64); err != nil {
		return p, err
	}
	if p.Degenerate, err = strconv.ParseBool(rec[6]); err != nil {
		return p, err
	}
	return p, nil
}

// Delete removes a run directory.
func (s *Store) Delete(runID string) error {
	if _, err := s.Load(runID); err != nil {
		return err
	}
	dir, err := s.runDir(runID)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

type ExportData struct {
	RunMetadata
	Trace []simplex.Pivot `json:"trace"`
}

// ExportJSON writes the metadata and full pivot trace of a run to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	trace, err := s.LoadTrace(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: *meta, Trace: trace})
}

// ExportCSV copies the raw trace of a run to w.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	dir, err := s.runDir(runID)
	if err != nil {
		return err
	}
	f, err := os.Open(filepath.Join(dir, traceFile))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
