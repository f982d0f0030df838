package layout

import (
	"github.com/matzehuels/layerview/pkg/dag/ordering"
	"github.com/matzehuels/layerview/pkg/errors"
)

// Default values for [Options].
const (
	DefaultMaxWidth      = 10
	DefaultLayerSpacing  = 1.0
	DefaultVertexSpacing = 1.0
)

// Options configures [Compute].
type Options struct {
	MaxWidth       int     `json:"max_width" toml:"max_width"`             // Most vertices per layer, relays included
	MaxRounds      int     `json:"max_rounds" toml:"max_rounds"`           // Crossing minimizer round budget
	TransposeAfter int     `json:"transpose_after" toml:"transpose_after"` // First round that runs transposition
	LayerSpacing   float64 `json:"layer_spacing" toml:"layer_spacing"`     // Distance between layers (x)
	VertexSpacing  float64 `json:"vertex_spacing" toml:"vertex_spacing"`   // Distance between slots of a layer (y)
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		MaxWidth:       DefaultMaxWidth,
		MaxRounds:      ordering.DefaultMaxRounds,
		TransposeAfter: ordering.DefaultTransposeAfter,
		LayerSpacing:   DefaultLayerSpacing,
		VertexSpacing:  DefaultVertexSpacing,
	}
}

// Validate reports the first unusable option as an INVALID_INPUT error.
func (o Options) Validate() error {
	switch {
	case o.MaxWidth < 1:
		return errors.New(errors.ErrCodeInvalidInput, "max width must be at least 1, got %d", o.MaxWidth)
	case o.MaxRounds < 1:
		return errors.New(errors.ErrCodeInvalidInput, "max rounds must be at least 1, got %d", o.MaxRounds)
	case o.TransposeAfter < 0:
		return errors.New(errors.ErrCodeInvalidInput, "transpose round must not be negative, got %d", o.TransposeAfter)
	case o.LayerSpacing <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "layer spacing must be positive, got %v", o.LayerSpacing)
	case o.VertexSpacing <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "vertex spacing must be positive, got %v", o.VertexSpacing)
	}
	return nil
}

func (o Options) ordering() ordering.Options {
	return ordering.Options{MaxRounds: o.MaxRounds, TransposeAfter: o.TransposeAfter}
}
