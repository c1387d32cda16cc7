package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/physcore/internal/sim"
)

type ExportData struct {
	RunMetadata
	Labels  []string     `json:"labels"`
	Times   []float64    `json:"times"`
	States  []sim.State  `json:"states"`
	Samples []sim.Sample `json:"samples"`
}

// Export loads a stored run in full.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	labels, states, times, err := s.LoadStates(runID)
	if err != nil {
		return nil, err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return nil, err
	}
	return &ExportData{
		RunMetadata: *meta,
		Labels:      labels,
		Times:       times,
		States:      states,
		Samples:     samples,
	}, nil
}

func WriteJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data *ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(file, data); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
