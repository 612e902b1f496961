// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"e2sim/internal/telemetry"
)

// Defaults applied when the configuration omits a value.
const (
	DefaultTickInterval   = 5 * time.Second
	DefaultRequestTimeout = 5 * time.Second
	DefaultHandoverProb   = 0.3
	DefaultControlProb    = 0.2
	DefaultUECount        = 20
)

// Duration wraps time.Duration so intervals can be written as "5s" in YAML.
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Destination identifies one delivery target by name.
type Destination struct {
	Name string `yaml:"name" json:"name"`
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
	Path string `yaml:"path" json:"path"`
}

// URL builds the endpoint address for this destination.
func (d Destination) URL() string {
	return fmt.Sprintf("http://%s:%d%s", d.Host, d.Port, d.Path)
}

// Routes maps each record stream to a destination name.
type Routes struct {
	KPI      string `yaml:"kpi"`
	Handover string `yaml:"handover"`
	QoE      string `yaml:"qoe"`
	Control  string `yaml:"control"`
}

// SimulationConfig is the root configuration for destinations, the entity
// registry, and loop parameters.
type SimulationConfig struct {
	NodeID              string        `yaml:"node_id"`
	Destinations        []Destination `yaml:"destinations"`
	Cells               []string      `yaml:"cells"`
	UECount             int           `yaml:"ue_count"`
	TickInterval        Duration      `yaml:"tick_interval"`
	RequestTimeout      Duration      `yaml:"request_timeout"`
	HandoverProbability float64       `yaml:"handover_probability"`
	ControlProbability  float64       `yaml:"control_probability"`
	Routes              Routes        `yaml:"routes"`
}

// Load loads YAML config, validates it against a CUE schema, and applies
// defaults.
func Load(configPath, cueSchemaPath string) (*SimulationConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg SimulationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *SimulationConfig) applyDefaults() {
	if c.UECount <= 0 {
		c.UECount = DefaultUECount
	}
	if c.TickInterval <= 0 {
		c.TickInterval = Duration(DefaultTickInterval)
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = Duration(DefaultRequestTimeout)
	}
	if c.HandoverProbability <= 0 {
		c.HandoverProbability = DefaultHandoverProb
	}
	if c.ControlProbability <= 0 {
		c.ControlProbability = DefaultControlProb
	}
	if c.Routes.KPI == "" {
		c.Routes.KPI = "kpimon"
	}
	if c.Routes.Handover == "" {
		c.Routes.Handover = "traffic-steering"
	}
	if c.Routes.QoE == "" {
		c.Routes.QoE = "qoe-predictor"
	}
	if c.Routes.Control == "" {
		c.Routes.Control = "ran-control"
	}
}

// Validate checks invariants the CUE schema cannot express per-document.
func (c *SimulationConfig) Validate() error {
	if len(c.Destinations) == 0 {
		return fmt.Errorf("no destinations configured")
	}
	seen := make(map[string]bool, len(c.Destinations))
	for _, d := range c.Destinations {
		if seen[d.Name] {
			return fmt.Errorf("duplicate destination name %q", d.Name)
		}
		seen[d.Name] = true
	}
	if len(c.Cells) == 0 {
		return fmt.Errorf("no cells configured")
	}
	if c.HandoverProbability > 1 || c.ControlProbability > 1 {
		return fmt.Errorf("probabilities must be <= 1")
	}
	return nil
}

// Registry builds the generator sampling universe from the configuration.
func (c *SimulationConfig) Registry() telemetry.Registry {
	ues := make([]int, c.UECount)
	for i := range ues {
		ues[i] = i + 1
	}
	return telemetry.Registry{Cells: c.Cells, UEs: ues}
}
