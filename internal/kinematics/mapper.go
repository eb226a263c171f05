package kinematics

import (
	"context"
	"errors"
	"fmt"
)

// Mapper transfers a nodal field from a source model part onto a target
// model part. aux carries the rotational field used for the corotational
// correction of source.
type Mapper interface {
	Map(ctx context.Context, source, aux, target Variable) error
}

// MapperFunc adapts a function to the Mapper interface.
type MapperFunc func(ctx context.Context, source, aux, target Variable) error

func (f MapperFunc) Map(ctx context.Context, source, aux, target Variable) error {
	return f(ctx, source, aux, target)
}

// MapperSettings are passed through to the mapper implementation.
type MapperSettings struct {
	MapperType          string  `json:"mapper_type"`
	EchoLevel           int     `json:"echo_level"`
	LocalCoordTolerance float64 `json:"local_coord_tolerance"`
	UseCorotation       bool    `json:"use_corotation"`
}

// DefaultMapperSettings returns the beam mapper settings used for the blade
// bending case.
func DefaultMapperSettings() MapperSettings {
	return MapperSettings{
		MapperType:          "beam_mapper",
		EchoLevel:           3,
		LocalCoordTolerance: 0.25,
		UseCorotation:       true,
	}
}

// Validate checks the settings for obvious mistakes.
func (s MapperSettings) Validate() error {
	if s.MapperType == "" {
		return errors.New("mapper_type must be set")
	}
	if !(s.LocalCoordTolerance > 0) {
		return fmt.Errorf("local_coord_tolerance must be positive, got %g", s.LocalCoordTolerance)
	}
	if s.EchoLevel < 0 {
		return fmt.Errorf("echo_level must be non-negative, got %d", s.EchoLevel)
	}
	return nil
}

// MapperFactory builds a Mapper between two model parts.
type MapperFactory func(source, target *ModelPart, settings MapperSettings) (Mapper, error)

// NewMapper validates the settings and the variables each side must carry,
// then delegates to factory.
func NewMapper(factory MapperFactory, source, target *ModelPart, settings MapperSettings) (Mapper, error) {
	if factory == nil {
		return nil, errors.New("mapper factory is nil")
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mapper settings: %w", err)
	}
	for _, v := range []Variable{Displacement, Rotation} {
		if !source.HasVariable(v) {
			return nil, fmt.Errorf("source %q: %s: %w", source.Name, v, ErrUnknownVariable)
		}
	}
	if !target.HasVariable(Displacement) {
		return nil, fmt.Errorf("target %q: %s: %w", target.Name, Displacement, ErrUnknownVariable)
	}

	m, err := factory(source, target, settings)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", settings.MapperType, err)
	}
	return m, nil
}
