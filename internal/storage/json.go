package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/fallsim/internal/fall"
)

type ExportData struct {
	Model    string             `json:"model"`
	TimeStep float64            `json:"time_step"`
	Params   fall.DragParams    `json:"params"`
	Samples  int                `json:"samples"`
	Times    []float64          `json:"times"`
	Heights  []float64          `json:"heights"`
	Speeds   []float64          `json:"speeds"`
	Metrics  map[string]float64 `json:"metrics"`
}

// ExportJSON writes the run as a single indented JSON document with the
// samples split into parallel arrays.
func ExportJSON(w io.Writer, meta RunMetadata, traj fall.Trajectory) error {
	data := ExportData{
		Model:    meta.Model,
		TimeStep: meta.TimeStep,
		Params:   meta.Params,
		Samples:  len(traj),
		Times:    traj.Times(),
		Heights:  traj.Heights(),
		Speeds:   traj.Speeds(),
		Metrics:  meta.Metrics,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
