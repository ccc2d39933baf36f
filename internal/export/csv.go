package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/pidsim/internal/dynamo"
)

var csvColumns = []string{"time", "value", "goal", "error", "output"}

// WriteCSV writes one row per recorded step: time, value, goal, error,
// output and then the raw state components x0, x1, ...
func WriteCSV(w io.Writer, rec *Recorder) error {
	cw := csv.NewWriter(w)

	header := append([]string{}, csvColumns...)
	if rec.Len() > 0 {
		for i := range rec.States[0] {
			header = append(header, fmt.Sprintf("x%d", i))
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := range rec.Times {
		row := []string{
			format(rec.Times[i]),
			format(rec.Values[i]),
			format(rec.Goals[i]),
			format(rec.Errors[i]),
			format(rec.Controls[i]),
		}
		for _, v := range rec.States[i] {
			row = append(row, format(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file written by WriteCSV back into a recorder.
func ReadCSV(r io.Reader) (*Recorder, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv: missing header")
	}
	if len(records[0]) < len(csvColumns) {
		return nil, fmt.Errorf("csv: expected at least %d columns, got %d", len(csvColumns), len(records[0]))
	}

	rec := NewRecorder()
	for line, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("csv line %d: %w", line+2, err)
			}
			vals[j] = v
		}
		if len(vals) < len(csvColumns) {
			return nil, fmt.Errorf("csv line %d: short row", line+2)
		}
		rec.Times = append(rec.Times, vals[0])
		rec.Values = append(rec.Values, vals[1])
		rec.Goals = append(rec.Goals, vals[2])
		rec.Errors = append(rec.Errors, vals[3])
		rec.Controls = append(rec.Controls, vals[4])
		rec.States = append(rec.States, dynamo.State(vals[len(csvColumns):]))
	}
	return rec, nil
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
