package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/pidlab/internal/control"
	"github.com/san-kum/pidlab/internal/geom"
	"github.com/san-kum/pidlab/internal/sim"
)

var csvHeader = []string{
	"tick", "time",
	"x", "y",
	"target_x", "target_y",
	"error_x", "error_y",
	"control_x", "control_y",
	"integral_x", "integral_y",
	"kp", "ki", "kd",
	"dragging",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes one row per sample.
func WriteCSV(w io.Writer, samples []sim.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	row := make([]string, len(csvHeader))
	for _, s := range samples {
		row = row[:0]
		row = append(row, strconv.Itoa(s.Tick), formatFloat(s.Time))
		for _, p := range []geom.Point{s.Position, s.Target, s.Error, s.Control, s.Integral} {
			row = append(row, formatFloat(p.X), formatFloat(p.Y))
		}
		row = append(row,
			formatFloat(s.Gains.Kp), formatFloat(s.Gains.Ki), formatFloat(s.Gains.Kd),
			strconv.FormatBool(s.Dragging),
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses what WriteCSV produced.
func ReadCSV(r io.Reader) ([]sim.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for i, rec := range records[1:] {
		s, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func parseRow(rec []string) (sim.Sample, error) {
	var s sim.Sample
	var err error

	if s.Tick, err = strconv.Atoi(rec[0]); err != nil {
		return s, err
	}

	vals := make([]float64, 14)
	for i := range vals {
		if vals[i], err = strconv.ParseFloat(rec[i+1], 64); err != nil {
			return s, err
		}
	}
	s.Time = vals[0]
	s.Position = geom.Pt(vals[1], vals[2])
	s.Target = geom.Pt(vals[3], vals[4])
	s.Error = geom.Pt(vals[5], vals[6])
	s.Control = geom.Pt(vals[7], vals[8])
	s.Integral = geom.Pt(vals[9], vals[10])
	s.Gains = control.Gains{Kp: vals[11], Ki: vals[12], Kd: vals[13]}

	if s.Dragging, err = strconv.ParseBool(rec[15]); err != nil {
		return s, err
	}
	return s, nil
}

type ExportData struct {
	Run     *RunMetadata `json:"run,omitempty"`
	Steps   int          `json:"steps"`
	Samples []sim.Sample `json:"samples"`
}

// WriteJSON writes the run metadata and its samples as one indented document.
func WriteJSON(w io.Writer, meta *RunMetadata, samples []sim.Sample) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{
		Run:     meta,
		Steps:   len(samples),
		Samples: samples,
	})
}
