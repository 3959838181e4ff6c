package store

import (
	"encoding/json"
	"os"

	"github.com/san-kum/reactord/internal/solver"
)

type ExportData struct {
	Mechanism  string             `json:"mechanism"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Components []string           `json:"components"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Metrics    map[string]float64 `json:"metrics"`
}

func buildExport(mechanism, integrator string, dt, duration float64, components []string, result *solver.Result) ExportData {
	data := ExportData{
		Mechanism:  mechanism,
		Integrator: integrator,
		Dt:         dt,
		Duration:   duration,
		Steps:      len(result.Times),
		Components: components,
		Times:      result.Times,
		States:     make([][]float64, len(result.States)),
		Metrics:    result.Metrics,
	}
	for i, s := range result.States {
		data.States[i] = s
	}
	return data
}

func ExportJSON(path, mechanism, integrator string, dt, duration float64, components []string, result *solver.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildExport(mechanism, integrator, dt, duration, components, result))
}

func ExportJSONStdout(mechanism, integrator string, dt, duration float64, components []string, result *solver.Result) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildExport(mechanism, integrator, dt, duration, components, result))
}
