package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = 1e-6
	DefaultDuration    = 1e-3
	DefaultTemperature = 1100.0
	DefaultPressure    = 101325.0
	DefaultVolume      = 1.0
)

type Config struct {
	Mechanism  string        `yaml:"mechanism"`
	Integrator string        `yaml:"integrator"`
	Dt         float64       `yaml:"dt"`
	Duration   float64       `yaml:"duration"`
	Reactor    ReactorConfig `yaml:"reactor"`
	Inlet      FlowConfig    `yaml:"inlet"`
	Outlet     FlowConfig    `yaml:"outlet"`
	Surface    SurfaceConfig `yaml:"surface"`
	Env        EnvConfig     `yaml:"environment"`
}

type ReactorConfig struct {
	Type        string             `yaml:"type"` // "reactor" or "ideal_gas"
	Temperature float64            `yaml:"temperature"`
	Pressure    float64            `yaml:"pressure"`
	Composition map[string]float64 `yaml:"composition"` // mass fractions
	Volume      float64            `yaml:"volume"`
	Energy      bool               `yaml:"energy"`
	Chemistry   bool               `yaml:"chemistry"`
}

type FlowConfig struct {
	Enabled     bool               `yaml:"enabled"`
	Rate        float64            `yaml:"rate"` // kg/s
	Temperature float64            `yaml:"temperature"`
	Composition map[string]float64 `yaml:"composition"`
}

type SurfaceConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Mechanism string  `yaml:"mechanism"`
	Area      float64 `yaml:"area"` // m^2
}

type EnvConfig struct {
	Temperature       float64 `yaml:"temperature"`
	Pressure          float64 `yaml:"pressure"`
	HeatTransferCoeff float64 `yaml:"heat_transfer_coeff"` // W/(m^2 K); 0 = adiabatic
	WallArea          float64 `yaml:"wall_area"`
}

func DefaultConfig() *Config {
	return &Config{
		Mechanism:  "h2o2",
		Integrator: "rk4",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Reactor: ReactorConfig{
			Type:        "ideal_gas",
			Temperature: DefaultTemperature,
			Pressure:    DefaultPressure,
			Composition: map[string]float64{"H2": 0.011, "O2": 0.089, "N2": 0.9},
			Volume:      DefaultVolume,
			Energy:      true,
			Chemistry:   true,
		},
		Env: EnvConfig{
			Temperature: 300.0,
			Pressure:    DefaultPressure,
			WallArea:    1.0,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
