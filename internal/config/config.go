// Package config loads the decom configuration from defaults, a YAML file and the environment.
package config

import (
	"io"
	"os"
	"runtime"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-decom/internal/logging"
	"github.com/askiada/go-decom/pkg/pipe"
)

// EnvPrefix prefixes every environment variable read by Load, e.g. DECOM_FORMAT.
const EnvPrefix = "DECOM"

// Format selects the record sink.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatSQLite Format = "sqlite"
	FormatXLSX   Format = "xlsx"
)

// Extension returns the file extension of the records written in f.
func (f Format) Extension() string {
	if f == FormatSQLite {
		return ".db"
	}

	return "." + string(f)
}

var (
	ErrInvalidCapacity = errors.New("capacity must be greater than 0")
	ErrInvalidWorkers  = errors.New("workers must be greater than 0")
	ErrUnknownFormat   = errors.New("unknown format")
)

// Config holds the decom configuration.
type Config struct {
	// OutputDir receives the output files. Empty means next to each input.
	OutputDir string `yaml:"outputDir" envconfig:"OUTPUT_DIR"`
	Format    Format `yaml:"format" envconfig:"FORMAT"`
	// Capacity is the size in bytes of every pipe between stages.
	Capacity int `yaml:"capacity" envconfig:"CAPACITY"`
	// Workers bounds the number of inputs processed at the same time.
	Workers int `yaml:"workers" envconfig:"WORKERS"`
	// Graph writes the stage graph of each input, with its timings, next to its records.
	Graph bool `yaml:"graph" envconfig:"GRAPH"`
	// MetricsPath, when set, receives the stage metrics in the Prometheus text format.
	MetricsPath string         `yaml:"metrics" envconfig:"METRICS"`
	Logging     logging.Config `yaml:"logging" envconfig:"LOG"`
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Format:   FormatCSV,
		Capacity: pipe.DefaultCapacity,
		Workers:  runtime.GOMAXPROCS(0),
		Logging:  logging.DefaultConfig(),
	}
}

// Load applies the YAML file at path, when path is not empty, then the environment on top
// of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		err := loadFile(path, cfg)
		if err != nil {
			return nil, err
		}
	}

	err := envconfig.Process(EnvPrefix, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load environment")
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "unable to open %s", path)
	}
	defer file.Close()

	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)

	err = dec.Decode(cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrapf(err, "unable to decode %s", path)
	}

	return nil
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Capacity <= 0 {
		return errors.Wrapf(ErrInvalidCapacity, "got %d", c.Capacity)
	}

	if c.Workers <= 0 {
		return errors.Wrapf(ErrInvalidWorkers, "got %d", c.Workers)
	}

	switch c.Format {
	case FormatCSV, FormatSQLite, FormatXLSX:
	default:
		return errors.Wrapf(ErrUnknownFormat, "%q", c.Format)
	}

	return nil
}
