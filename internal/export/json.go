package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/pidsim/internal/config"
	"github.com/san-kum/pidsim/internal/sim"
)

type Trace struct {
	Demo     string             `json:"demo"`
	Config   config.Config      `json:"config"`
	Steps    int                `json:"steps"`
	Duration float64            `json:"duration"`
	Frozen   bool               `json:"frozen"`
	Metrics  map[string]float64 `json:"metrics"`
	Times    []float64          `json:"times"`
	Values   []float64          `json:"values"`
	Goals    []float64          `json:"goals"`
	Errors   []float64          `json:"errors"`
	Controls []float64          `json:"controls"`
	States   [][]float64        `json:"states"`
}

func NewTrace(result *sim.Result, rec *Recorder) Trace {
	t := Trace{
		Demo:     result.Config.Demo,
		Config:   result.Config,
		Steps:    result.Steps,
		Duration: result.Time,
		Frozen:   result.Frozen,
		Metrics:  result.Metrics,
		Times:    rec.Times,
		Values:   rec.Values,
		Goals:    rec.Goals,
		Errors:   rec.Errors,
		Controls: rec.Controls,
		States:   make([][]float64, len(rec.States)),
	}
	for i, s := range rec.States {
		t.States[i] = s
	}
	return t
}

func WriteJSON(w io.Writer, result *sim.Result, rec *Recorder) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewTrace(result, rec))
}
