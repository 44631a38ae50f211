// Package config reads the YAML configuration of a govacf run.
package config

import (
	"bufio"
	"fmt"
	"os"

	"github.com/rmera/govacf/chemstat"
	"gopkg.in/yaml.v3"
)

// Config holds the parameters of a run. It can be read from a file with Load
// or filled by hand, in which case Check should be called before using it.
type Config struct {
	// Traj is the dump file to read (.gz and .zst are decompressed).
	Traj string `yaml:"traj"`

	// Centered subtracts the ensemble mean velocity at each timestep.
	Centered bool `yaml:"centered"`

	// Workers is the number of concurrent lag computations. 0 means
	// one per available CPU.
	Workers int `yaml:"workers"`

	// Method is "direct" or "fft".
	Method string `yaml:"method"`

	// Dt is the time between frames. If not 0, the Green-Kubo
	// integral is also reported.
	Dt float64 `yaml:"dt"`

	// Normalize divides the curve by its value at lag 0.
	Normalize bool `yaml:"normalize"`

	// Plot is an image file where the curve is drawn. Empty for no plot.
	Plot string `yaml:"plot"`

	// Graph prints a terminal plot of the curve to stderr.
	Graph bool `yaml:"graph"`

	// Out is a file where the "lag N: value" lines are written,
	// in addition to stdout.
	Out string `yaml:"out"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Method: chemstat.Direct.String(),
	}
}

// Load reads the YAML file path over the defaults, and checks the result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c := Default()
	dec := yaml.NewDecoder(bufio.NewReader(f))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := c.Check(); err != nil {
		return nil, fmt.Errorf("config %s: Check: %w", path, err)
	}
	return c, nil
}

// Save writes c to path as YAML.
func Save(path string, c *Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Check returns an error if a field doesn't meet the requirements.
func (c *Config) Check() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}
	if c.Dt < 0 {
		return fmt.Errorf("dt cannot be negative")
	}
	if _, err := chemstat.ParseMethod(c.Method); err != nil {
		return err
	}
	return nil
}

// Options returns the chemstat options for c.
func (c *Config) Options() (chemstat.Options, error) {
	m, err := chemstat.ParseMethod(c.Method)
	if err != nil {
		return chemstat.Options{}, err
	}
	return chemstat.Options{Centered: c.Centered, Workers: c.Workers, Method: m}, nil
}
