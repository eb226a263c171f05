package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/corotation/internal/kinematics"
	"github.com/banshee-data/corotation/internal/rotation"
)

// DefaultConfigPath is the path to the canonical defaults file.
const DefaultConfigPath = "config/kinematics.defaults.json"

// KinematicsConfig holds extractor tolerances, the bending case and the
// mapper settings. Nil fields fall back to the defaults returned by the Get*
// methods, so partial files are safe.
type KinematicsConfig struct {
	// Extractor tolerances
	Epsilon              *float64 `json:"epsilon,omitempty"`
	PairTolerance        *float64 `json:"pair_tolerance,omitempty"`
	OrthonormalTolerance *float64 `json:"orthonormal_tolerance,omitempty"`
	ValidateInput        *bool    `json:"validate_input,omitempty"`

	// Arc bending case
	BeamLength *float64 `json:"beam_length,omitempty"`
	TipSlope   *float64 `json:"tip_slope,omitempty"`
	Twist      *float64 `json:"twist,omitempty"` // defaults to tip_slope
	Roll       *float64 `json:"roll,omitempty"`
	NodeCount  *int     `json:"node_count,omitempty"`

	// Harness
	Workers *int `json:"workers,omitempty"` // 0 means GOMAXPROCS

	Mapper *kinematics.MapperSettings `json:"mapper,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyKinematicsConfig returns a KinematicsConfig with all fields nil.
func EmptyKinematicsConfig() *KinematicsConfig {
	return &KinematicsConfig{}
}

// LoadKinematicsConfig loads a KinematicsConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadKinematicsConfig(path string) (*KinematicsConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyKinematicsConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents up to the repository root.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *KinematicsConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,       // from cmd/
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadKinematicsConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the values that are set.
func (c *KinematicsConfig) Validate() error {
	if err := c.Tolerances().Validate(); err != nil {
		return err
	}
	if err := c.ArcBending().Validate(); err != nil {
		return err
	}
	if c.NodeCount != nil && *c.NodeCount < 2 {
		return fmt.Errorf("node_count must be at least 2, got %d", *c.NodeCount)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if c.Mapper != nil {
		if err := c.Mapper.Validate(); err != nil {
			return fmt.Errorf("mapper: %w", err)
		}
	}
	return nil
}

// GetEpsilon returns the epsilon value or the default.
func (c *KinematicsConfig) GetEpsilon() float64 {
	if c.Epsilon == nil {
		return rotation.DefaultEpsilon
	}
	return *c.Epsilon
}

// GetPairTolerance returns the pair_tolerance value or the default.
func (c *KinematicsConfig) GetPairTolerance() float64 {
	if c.PairTolerance == nil {
		return rotation.DefaultPairTolerance
	}
	return *c.PairTolerance
}

// GetOrthonormalTolerance returns the orthonormal_tolerance value or the default.
func (c *KinematicsConfig) GetOrthonormalTolerance() float64 {
	if c.OrthonormalTolerance == nil {
		return rotation.DefaultOrthonormalTolerance
	}
	return *c.OrthonormalTolerance
}

// GetValidateInput returns the validate_input value or the default.
func (c *KinematicsConfig) GetValidateInput() bool {
	if c.ValidateInput == nil {
		return false // default: trust callers to pass rotations
	}
	return *c.ValidateInput
}

// GetBeamLength returns the beam_length value or the default.
func (c *KinematicsConfig) GetBeamLength() float64 {
	if c.BeamLength == nil {
		return kinematics.DefaultArcBending().Length
	}
	return *c.BeamLength
}

// GetTipSlope returns the tip_slope value or the default.
func (c *KinematicsConfig) GetTipSlope() float64 {
	if c.TipSlope == nil {
		return kinematics.DefaultArcBending().TipSlope
	}
	return *c.TipSlope
}

// GetTwist returns the twist value, or the tip slope when unset.
func (c *KinematicsConfig) GetTwist() float64 {
	if c.Twist == nil {
		return c.GetTipSlope()
	}
	return *c.Twist
}

func (c *KinematicsConfig) GetRoll() float64 {
	if c.Roll == nil {
		return 0
	}
	return *c.Roll
}

// GetNodeCount returns the node_count value or the default.
func (c *KinematicsConfig) GetNodeCount() int {
	if c.NodeCount == nil {
		return 21
	}
	return *c.NodeCount
}

// GetWorkers returns the workers value or the default.
func (c *KinematicsConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}

// Tolerances builds extractor tolerances from the config.
func (c *KinematicsConfig) Tolerances() rotation.Tolerances {
	return rotation.Tolerances{
		Epsilon:              c.GetEpsilon(),
		PairTolerance:        c.GetPairTolerance(),
		OrthonormalTolerance: c.GetOrthonormalTolerance(),
	}
}

// Extractor builds a rotation extractor from the config.
func (c *KinematicsConfig) Extractor() rotation.Extractor {
	return rotation.Extractor{
		Tolerances:    c.Tolerances(),
		ValidateInput: c.GetValidateInput(),
	}
}

// ArcBending builds the bending case from the config.
func (c *KinematicsConfig) ArcBending() kinematics.ArcBending {
	return kinematics.ArcBending{
		Length:   c.GetBeamLength(),
		TipSlope: c.GetTipSlope(),
		Twist:    c.GetTwist(),
		Roll:     c.GetRoll(),
	}
}

// MapperSettings returns the mapper settings or the defaults.
func (c *KinematicsConfig) MapperSettings() kinematics.MapperSettings {
	if c.Mapper == nil {
		return kinematics.DefaultMapperSettings()
	}
	return *c.Mapper
}

// Harness builds a harness from the config with the given mapper (may be nil).
func (c *KinematicsConfig) Harness(m kinematics.Mapper) *kinematics.Harness {
	return &kinematics.Harness{
		Extractor: c.Extractor(),
		Workers:   c.GetWorkers(),
		Mapper:    m,
	}
}
