package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/infodiff/internal/diffusion"
	"github.com/san-kum/infodiff/internal/dynamo"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// checkFinite rejects trajectories JSON cannot represent.
func checkFinite(tr *diffusion.Trajectory) error {
	for i, p := range tr.Points {
		if !(dynamo.State{p.S, p.I, p.R}).IsValid() {
			return &dynamo.SimulationError{
				Step:    i,
				Time:    p.Time,
				State:   dynamo.State{p.S, p.I, p.R},
				Wrapped: dynamo.ErrInvalidState,
			}
		}
	}
	return nil
}

// WriteCSV writes the trajectory as a time,S,I,R table. Values use the
// shortest exact representation so reloads are lossless.
func WriteCSV(w io.Writer, tr *diffusion.Trajectory) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(diffusion.Columns))
	for i, c := range diffusion.Columns {
		header[i] = c.String()
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, p := range tr.Points {
		row := []string{formatFloat(p.Time), formatFloat(p.S), formatFloat(p.I), formatFloat(p.R)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type ExportData struct {
	ID      string                 `json:"id,omitempty"`
	Params  diffusion.Params       `json:"params"`
	R0      *float64               `json:"r0,omitempty"`
	Initial diffusion.Compartments `json:"initial"`
	Horizon float64                `json:"horizon"`
	Step    float64                `json:"step"`
	Samples int                    `json:"samples"`
	Summary diffusion.Summary      `json:"summary"`
	Health  map[string]float64     `json:"health,omitempty"`
	Times   []float64              `json:"time"`
	S       []float64              `json:"S"`
	I       []float64              `json:"I"`
	R       []float64              `json:"R"`
}

// ExportJSON writes the run as column arrays ready for charting.
func ExportJSON(w io.Writer, id string, tr *diffusion.Trajectory) error {
	summary, err := diffusion.Summarize(tr)
	if err != nil {
		return err
	}
	if err := checkFinite(tr); err != nil {
		return err
	}

	data := ExportData{
		ID:      id,
		Params:  tr.Params,
		Initial: tr.Initial,
		Horizon: tr.Horizon,
		Step:    tr.Step,
		Samples: tr.Len(),
		Summary: summary,
		Health:  tr.Health,
		Times:   tr.Times(),
		S:       tr.Series(diffusion.ColumnS),
		I:       tr.Series(diffusion.ColumnI),
		R:       tr.Series(diffusion.ColumnR),
	}

	// JSON has no encoding for +Inf, so a zero gamma drops the field.
	if r0 := tr.Params.R0(); !math.IsInf(r0, 0) {
		data.R0 = &r0
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
