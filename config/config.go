package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/elemops/observe"
)

// Scenario is the top-level elemrun configuration.
type Scenario struct {
	ServiceName string          `yaml:"service_name"`
	Timeouts    TimeoutConfig   `yaml:"timeouts"`
	FanOut      FanOutConfig    `yaml:"fan_out"`
	Telemetry   TelemetryConfig `yaml:"telemetry"`
	Instances   []Instance      `yaml:"instances"`
	Steps       []Step          `yaml:"steps"`
}

// TimeoutConfig bounds the waits the driver performs.
type TimeoutConfig struct {
	Implicit  time.Duration `yaml:"implicit"`
	Clickable time.Duration `yaml:"clickable"`
	Step      time.Duration `yaml:"step"`
}

// FanOutConfig controls how steps run across instances.
type FanOutConfig struct {
	Limit    int  `yaml:"limit"`
	FailFast bool `yaml:"fail_fast"`
}

// TelemetryConfig mirrors observe.Config.
type TelemetryConfig struct {
	Tracing struct {
		Enabled   bool    `yaml:"enabled"`
		Exporter  string  `yaml:"exporter"`
		SamplePct float64 `yaml:"sample_pct"`
	} `yaml:"tracing"`
	Metrics struct {
		Enabled  bool   `yaml:"enabled"`
		Exporter string `yaml:"exporter"`
	} `yaml:"metrics"`
	LogLevel string `yaml:"log_level"`
}

// Instance is one browser to drive.
type Instance struct {
	Name     string            `yaml:"name"`
	Remote   string            `yaml:"remote"` // DevTools websocket; empty launches Chrome
	Bin      string            `yaml:"bin"`
	Headless *bool             `yaml:"headless"`
	Stealth  bool              `yaml:"stealth"`
	URL      string            `yaml:"url"`
	Flags    map[string]string `yaml:"flags"`
}

// IsHeadless reports whether a local launch should be headless. Default true.
func (i Instance) IsHeadless() bool {
	return i.Headless == nil || *i.Headless
}

// Step is one element command fanned out to every instance.
type Step struct {
	Command string `yaml:"command"`
	Using   string `yaml:"using"`
	Value   string `yaml:"value"`
	Index   *int   `yaml:"index"`
	Args    []any  `yaml:"args"`
}

// ElementIndex returns the step's match index, or -1 for a single lookup.
func (s Step) ElementIndex() int {
	if s.Index == nil {
		return -1
	}
	return *s.Index
}

// LoadFile reads, expands and validates a scenario file.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse expands, decodes and validates scenario YAML. Unknown keys are
// rejected.
func Parse(data []byte) (*Scenario, error) {
	expanded, err := ExpandEnv(string(data))
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	sc.applyDefaults()
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *Scenario) applyDefaults() {
	if s.ServiceName == "" {
		s.ServiceName = "elemrun"
	}
	if s.Timeouts.Implicit <= 0 {
		s.Timeouts.Implicit = 5 * time.Second
	}
	if s.Timeouts.Clickable <= 0 {
		s.Timeouts.Clickable = 5 * time.Second
	}
	if s.Timeouts.Step <= 0 {
		s.Timeouts.Step = time.Minute
	}
	if s.Telemetry.LogLevel == "" {
		s.Telemetry.LogLevel = "info"
	}
	for i := range s.Instances {
		if s.Instances[i].Name == "" {
			s.Instances[i].Name = fmt.Sprintf("instance-%d", i)
		}
	}
	for i := range s.Steps {
		if s.Steps[i].Using == "" {
			s.Steps[i].Using = "css selector"
		}
	}
}

// Validate checks the scenario. Every problem is reported.
func (s *Scenario) Validate() error {
	if len(s.Instances) == 0 {
		return ErrNoInstances
	}

	var errs []error
	seen := make(map[string]bool, len(s.Instances))
	for i, inst := range s.Instances {
		if seen[inst.Name] {
			errs = append(errs, fmt.Errorf("%w: instances[%d]: duplicate name %q", ErrInvalidInstance, i, inst.Name))
		}
		seen[inst.Name] = true
		if inst.Remote != "" && inst.Bin != "" {
			errs = append(errs, fmt.Errorf("%w: instances[%d]: remote and bin are mutually exclusive", ErrInvalidInstance, i))
		}
	}

	for i, st := range s.Steps {
		if st.Command == "" {
			errs = append(errs, fmt.Errorf("%w: steps[%d]: command is required", ErrInvalidStep, i))
		}
		if st.Value == "" {
			errs = append(errs, fmt.Errorf("%w: steps[%d]: value is required", ErrInvalidStep, i))
		}
		if st.Index != nil && *st.Index < 0 {
			errs = append(errs, fmt.Errorf("%w: steps[%d]: index must not be negative", ErrInvalidStep, i))
		}
	}

	if s.FanOut.Limit < 0 {
		errs = append(errs, errors.New("config: fan_out.limit must not be negative"))
	}

	oc := s.ObserveConfig()
	if err := oc.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ObserveConfig converts the telemetry section for observe.NewObserver.
func (s *Scenario) ObserveConfig() observe.Config {
	names := make([]string, len(s.Instances))
	for i, inst := range s.Instances {
		names[i] = inst.Name
	}
	return observe.Config{
		ServiceName: s.ServiceName,
		Instances:   names,
		Tracing: observe.TracingConfig{
			Enabled:   s.Telemetry.Tracing.Enabled,
			Exporter:  s.Telemetry.Tracing.Exporter,
			SamplePct: s.Telemetry.Tracing.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  s.Telemetry.Metrics.Enabled,
			Exporter: s.Telemetry.Metrics.Exporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   s.Telemetry.LogLevel,
		},
	}
}
