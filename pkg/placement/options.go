package placement

import (
	"math"

	"github.com/matzehuels/scenegen/pkg/errors"
)

// Default values reproduce the reference heuristic exactly.
const (
	// DefaultCount is the number of items placed per scene.
	DefaultCount = 10

	// DefaultLogMean and DefaultLogStdDev parameterise the log-normal
	// half-extent distribution: extent = exp(Normal(mean, stddev)).
	DefaultLogMean   = -1.5
	DefaultLogStdDev = 0.5

	// DefaultExtent is the half-width of the square centres are drawn from.
	DefaultExtent = 1.0

	// DefaultClearance scales every overlap ratio, leaving a 10% margin.
	DefaultClearance = 0.9

	// DefaultBoxMinScale is the smallest shrink factor a box accepts.
	DefaultBoxMinScale = 0.5

	// DefaultSphereMinScale is the smallest shrink factor a sphere accepts.
	DefaultSphereMinScale = 0.8

	// DefaultSphereYFactor weights the y distance for sphere candidates,
	// letting spheres approach twice as close along y.
	DefaultSphereYFactor = 0.5

	// DefaultLopsidedRatio is the largest allowed max/min half-extent ratio for boxes.
	DefaultLopsidedRatio = 2.0
)

// Options configures [Generate]. A zero field selects its default, so the
// zero Options value is the reference configuration with unbounded retry.
// LogMean is a pointer because a mean of 0 (median extent 1) is a valid
// setting; nil selects DefaultLogMean. The remaining tunables must be
// positive, so zero never collides with a real value.
type Options struct {
	// Count is the number of items to place.
	Count int `json:"count" toml:"count" yaml:"count"`

	// MaxAttempts caps the total number of attempts. Zero retries forever.
	MaxAttempts int `json:"max_attempts,omitempty" toml:"max_attempts" yaml:"max_attempts"`

	LogMean   *float64 `json:"log_mean,omitempty" toml:"log_mean" yaml:"log_mean"`
	LogStdDev float64  `json:"log_stddev" toml:"log_stddev" yaml:"log_stddev"`

	Extent         float64 `json:"extent" toml:"extent" yaml:"extent"`
	Clearance      float64 `json:"clearance" toml:"clearance" yaml:"clearance"`
	BoxMinScale    float64 `json:"box_min_scale" toml:"box_min_scale" yaml:"box_min_scale"`
	SphereMinScale float64 `json:"sphere_min_scale" toml:"sphere_min_scale" yaml:"sphere_min_scale"`
	SphereYFactor  float64 `json:"sphere_y_factor" toml:"sphere_y_factor" yaml:"sphere_y_factor"`
	LopsidedRatio  float64 `json:"lopsided_ratio" toml:"lopsided_ratio" yaml:"lopsided_ratio"`
}

// WithDefaults returns a copy of o with every zero field set to its default.
func (o Options) WithDefaults() Options {
	if o.Count == 0 {
		o.Count = DefaultCount
	}
	if o.LogMean == nil {
		o.LogMean = Float(DefaultLogMean)
	}
	if o.LogStdDev == 0 {
		o.LogStdDev = DefaultLogStdDev
	}
	if o.Extent == 0 {
		o.Extent = DefaultExtent
	}
	if o.Clearance == 0 {
		o.Clearance = DefaultClearance
	}
	if o.BoxMinScale == 0 {
		o.BoxMinScale = DefaultBoxMinScale
	}
	if o.SphereMinScale == 0 {
		o.SphereMinScale = DefaultSphereMinScale
	}
	if o.SphereYFactor == 0 {
		o.SphereYFactor = DefaultSphereYFactor
	}
	if o.LopsidedRatio == 0 {
		o.LopsidedRatio = DefaultLopsidedRatio
	}
	return o
}

// Validate checks o after defaults have been applied.
func (o Options) Validate() error {
	if err := errors.ValidateCount("count", o.Count, 1); err != nil {
		return err
	}
	if err := errors.ValidateCount("max_attempts", o.MaxAttempts, 0); err != nil {
		return err
	}
	if m := o.Mean(); math.IsNaN(m) || math.IsInf(m, 0) {
		return errors.New(errors.ErrCodeInvalidOptions, "log_mean must be finite, got %v", m).WithField("log_mean")
	}
	if err := errors.ValidatePositive("log_stddev", o.LogStdDev); err != nil {
		return err
	}
	if err := errors.ValidatePositive("extent", o.Extent); err != nil {
		return err
	}
	if err := errors.ValidatePositive("sphere_y_factor", o.SphereYFactor); err != nil {
		return err
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"clearance", o.Clearance},
		{"box_min_scale", o.BoxMinScale},
		{"sphere_min_scale", o.SphereMinScale},
	} {
		if err := errors.ValidateFraction(f.name, f.v); err != nil {
			return err
		}
	}
	if o.LopsidedRatio < 1 {
		return errors.New(errors.ErrCodeInvalidOptions, "lopsided_ratio must be at least 1, got %v", o.LopsidedRatio).WithField("lopsided_ratio")
	}
	return nil
}

// Mean returns the log-normal mean, DefaultLogMean when unset.
func (o Options) Mean() float64 {
	if o.LogMean == nil {
		return DefaultLogMean
	}
	return *o.LogMean
}

// Float returns a pointer to v, for setting Options.LogMean.
func Float(v float64) *float64 { return &v }

// MinScale returns the acceptance threshold for kind.
func (o Options) MinScale(kind Kind) float64 {
	if kind == Box {
		return o.BoxMinScale
	}
	return o.SphereMinScale
}
