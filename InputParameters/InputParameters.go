package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type SimulationParameters struct {
	Title              string  `json:"Title"`
	Fluid              string  `json:"Fluid"`    // "water" or "pg-water:<fraction>"
	Scheme             string  `json:"Scheme"`   // convection scheme name
	Friction           string  `json:"Friction"` // "churchill" or "haaland"
	Density            float64 `json:"Density"`  // constant density [kg/m³]
	AmbientTemperature float64 `json:"AmbientTemperature"` // [K]
	CellWidth          float64 `json:"CellWidth"`          // requested pipe cell width [m]
	FinalTime          float64 `json:"FinalTime"`          // [s]
	TimeStep           float64 `json:"TimeStep"`           // [s]
	Tolerance          float64 `json:"Tolerance"`          // Newton residual tolerance
	MaxIterations      int     `json:"MaxIterations"`
	ParallelDegree     int     `json:"ParallelDegree"`
	InitialTemperature float64 `json:"InitialTemperature"` // [K]
	InitialMassflow    float64 `json:"InitialMassflow"`    // [kg/s]
}

func DefaultSimulationParameters() SimulationParameters {
	return SimulationParameters{
		Fluid:              "water",
		Scheme:             "upwind",
		Friction:           "churchill",
		Density:            990.0,
		AmbientTemperature: 283.15,
		CellWidth:          10.0,
		FinalTime:          3600.0,
		TimeStep:           5.0,
		Tolerance:          1e-8,
		MaxIterations:      50,
		ParallelDegree:     1,
		InitialTemperature: 300.0,
		InitialMassflow:    0.1,
	}
}

func (sp *SimulationParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, sp); err != nil {
		return err
	}
	return sp.Validate()
}

func (sp *SimulationParameters) Validate() error {
	if sp.Density <= 0 {
		return fmt.Errorf("InputParameters: Density must be positive, got %v", sp.Density)
	}
	if sp.CellWidth <= 0 {
		return fmt.Errorf("InputParameters: CellWidth must be positive, got %v", sp.CellWidth)
	}
	if sp.TimeStep <= 0 {
		return fmt.Errorf("InputParameters: TimeStep must be positive, got %v", sp.TimeStep)
	}
	return nil
}

func (sp *SimulationParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", sp.Title)
	fmt.Printf("[%s]\t\t= Fluid\n", sp.Fluid)
	fmt.Printf("[%s]\t\t= Scheme\n", sp.Scheme)
	fmt.Printf("[%s]\t\t= Friction\n", sp.Friction)
	fmt.Printf("%8.2f\t\t= Density\n", sp.Density)
	fmt.Printf("%8.2f\t\t= AmbientTemperature\n", sp.AmbientTemperature)
	fmt.Printf("%8.2f\t\t= CellWidth\n", sp.CellWidth)
	fmt.Printf("%8.2f\t\t= FinalTime\n", sp.FinalTime)
	fmt.Printf("%8.2f\t\t= TimeStep\n", sp.TimeStep)
}
