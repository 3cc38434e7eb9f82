package cplxfnc

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultTol is the relative tolerance used when none is given.
	DefaultTol = 1e-16

	// DefaultLimit is the number of precision levels tried per evaluation.
	DefaultLimit = 5

	// DefaultZetaPrec is the starting precision for zeta. It gives errors
	// below 1e-16 for s and a of order one.
	DefaultZetaPrec = 56

	// DefaultGammaPrec is the starting precision for the incomplete gamma function.
	DefaultGammaPrec = 75

	// MaxPrec is the hard ceiling on the working precision in bits.
	MaxPrec = 1 << 16
)

// validate is shared; validator caches struct metadata.
var validate = validator.New()

// Config controls an Evaluator. The zero value is not valid; start from
// DefaultConfig.
type Config struct {
	Tol       float64 `yaml:"tol" json:"tol" validate:"gt=0,lte=1" jsonschema:"description=maximum relative error of a returned value,exclusiveMinimum=0,maximum=1,default=1e-16"`
	Limit     int     `yaml:"limit" json:"limit" validate:"gte=1,lte=16" jsonschema:"description=number of working precisions tried before giving up,minimum=1,maximum=16,default=5"`
	ZetaPrec  uint    `yaml:"zeta_prec" json:"zeta_prec" validate:"gte=2,lte=65536" jsonschema:"description=initial working precision for zeta in bits,minimum=2,maximum=65536,default=56"`
	GammaPrec uint    `yaml:"gamma_prec" json:"gamma_prec" validate:"gte=2,lte=65536" jsonschema:"description=initial working precision for gamma_inc in bits,minimum=2,maximum=65536,default=75"`
}

// DefaultConfig returns the configuration used by the package-level functions.
func DefaultConfig() Config {
	return Config{
		Tol:       DefaultTol,
		Limit:     DefaultLimit,
		ZetaPrec:  DefaultZetaPrec,
		GammaPrec: DefaultGammaPrec,
	}
}

// Validate checks c and returns an error wrapping ErrInvalidArgument.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: config: %v", ErrInvalidArgument, err)
	}
	return nil
}

// ReadConfig decodes YAML from r over DefaultConfig and validates the result.
// Unknown keys are rejected.
func ReadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("cplxfnc: decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a YAML configuration file (see ReadConfig).
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("cplxfnc: open config: %w", err)
	}
	defer f.Close()
	return ReadConfig(f)
}

// ConfigSchema returns the JSON schema of the configuration file.
func ConfigSchema() ([]byte, error) {
	r := &jsonschema.Reflector{DoNotReference: true}
	return json.MarshalIndent(r.Reflect(&Config{}), "", "  ")
}
