package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/physcore/internal/sim"
	"github.com/san-kum/physcore/internal/world"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
	samplesFile  = "samples.csv"
)

var (
	ErrRunNotFound  = errors.New("storage: run not found")
	ErrAmbiguousRun = errors.New("storage: run prefix matches more than one run")
)

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
	ID          string             `json:"id"`
	Scene       string             `json:"scene"`
	Preset      string             `json:"preset,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Steps       int                `json:"steps"`
	Integrator  string             `json:"integrator"`
	World       world.Config       `json:"world"`
	Fingerprint string             `json:"fingerprint"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes a run under a fresh ID and returns it. Fields of meta that
// describe the result are filled in from result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	meta.ID = fmt.Sprintf("%s-%s", meta.Scene, uuid.NewString())
	meta.Timestamp = time.Now().UTC()
	meta.Steps = result.StepsTaken
	meta.Fingerprint = fmt.Sprintf("%016x", result.Fingerprint)
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}

	if err := writeFile(filepath.Join(runDir, statesFile), func(w io.Writer) error {
		return writeStates(w, result)
	}); err != nil {
		return "", fmt.Errorf("write states: %w", err)
	}

	if err := writeFile(filepath.Join(runDir, samplesFile), func(w io.Writer) error {
		return writeSamples(w, result.Samples)
	}); err != nil {
		return "", fmt.Errorf("write samples: %w", err)
	}

	return meta.ID, nil
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

	slices.SortFunc(runs, func(a, b RunMetadata) int { return a.Timestamp.Compare(b.Timestamp) })
	return runs, nil
}

// Resolve expands a unique prefix of a run ID to the full ID.
func (s *Store) Resolve(prefix string) (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}

	var match string
	for _, r := range runs {
		if r.ID == prefix {
			return r.ID, nil
		}
		if strings.HasPrefix(r.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", ErrAmbiguousRun, prefix)
			}
			match = r.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	}
	return match, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata of %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadStates reads back the recorded trajectory as column labels, one
// state per recorded frame and the frame times.
func (s *Store) LoadStates(runID string) ([]string, []sim.State, []float64, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, nil, nil, err
	}
	if len(records) == 0 {
		return nil, []sim.State{}, []float64{}, nil
	}

	labels := records[0][1:]
	times := make([]float64, 0, len(records)-1)
	states := make([]sim.State, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		state := make(sim.State, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				continue
			}
			state = append(state, val)
		}
		times = append(times, t)
		states = append(states, state)
	}

	return labels, states, times, nil
}

// LoadSamples reads back the per-frame summaries of a run.
func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}

	samples := make([]sim.Sample, 0, max(len(records)-1, 0))
	for i, record := range records {
		if i == 0 || len(record) != len(sampleHeader) {
			continue
		}
		sample, err := parseSample(record)
		if err != nil {
			return nil, fmt.Errorf("samples.csv line %d: %w", i+1, err)
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

var sampleHeader = []string{
	"time", "kinetic_energy", "bodies", "awake", "contacts",
	"iterations", "pairs", "penetration", "truncated",
}

func writeStates(w io.Writer, result *sim.Result) error {
	cw := csv.NewWriter(w)

	header := append([]string{"time"}, result.Labels...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, state := range result.States {
		row := make([]string, 0, len(state)+1)
		row = append(row, formatFloat(result.Times[i]))
		for _, val := range state {
			row = append(row, formatFloat(val))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func writeSamples(w io.Writer, samples []sim.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sampleHeader); err != nil {
		return err
	}

	for _, s := range samples {
		row := []string{
			formatFloat(s.Time),
			formatFloat(s.KineticEnergy),
			strconv.Itoa(s.Bodies),
			strconv.Itoa(s.Awake),
			strconv.Itoa(s.Contacts),
			strconv.Itoa(s.Iterations),
			strconv.Itoa(s.Pairs),
			formatFloat(s.Penetration),
			strconv.FormatBool(s.Truncated),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func parseSample(record []string) (sim.Sample, error) {
	var s sim.Sample
	var err error
	floats := []*float64{&s.Time, &s.KineticEnergy}
	for i, dst := range floats {
		if *dst, err = strconv.ParseFloat(record[i], 64); err != nil {
			return s, err
		}
	}
	ints := []*int{&s.Bodies, &s.Awake, &s.Contacts, &s.Iterations, &s.Pairs}
	for i, dst := range ints {
		if *dst, err = strconv.Atoi(record[2+i]); err != nil {
			return s, err
		}
	}
	if s.Penetration, err = strconv.ParseFloat(record[7], 64); err != nil {
		return s, err
	}
	s.Truncated, err = strconv.ParseBool(record[8])
	return s, err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
