package placement

import (
	"context"
	"math"

	"github.com/matzehuels/scenegen/pkg/errors"
)

// kindWeights draws from {0, 1, 2}; 0 selects a box.
var kindWeights = []float64{1, 1, 1}

type candidate struct {
	kind Kind
	ext  Vec3
	x, y float64
}

// Generate places opts.Count items and returns them in insertion order.
//
// Rejected attempts are retried silently. With opts.MaxAttempts zero the
// retry loop is unbounded; a count the sampling square cannot hold then only
// ends through ctx. With a positive MaxAttempts, running out of attempts
// returns an INFEASIBLE_PLACEMENT error.
func Generate(ctx context.Context, s Sampler, opts Options) (*Set, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	set := &Set{
		Options: opts,
		Items:   make([]Item, 0, opts.Count),
	}
	for len(set.Items) < opts.Count {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if opts.MaxAttempts > 0 && set.Attempts >= opts.MaxAttempts {
			return nil, errors.New(errors.ErrCodeInfeasible,
				"infeasible placement density: placed %d of %d items in %d attempts",
				len(set.Items), opts.Count, set.Attempts)
		}
		set.Attempts++

		c, ok := sample(s, opts)
		if !ok {
			set.Rejections.Lopsided++
			continue
		}
		scale, _ := ShrinkFactor(c.kind, c.ext, c.x, c.y, set.Items, opts)
		if scale < opts.MinScale(c.kind) {
			set.Rejections.TooClose++
			continue
		}

		item, err := NewItem(c.kind, c.ext, c.x, c.y, scale)
		if err != nil {
			return nil, err
		}
		item.Attempt = set.Attempts
		set.Items = append(set.Items, item)
	}
	return set, nil
}

// sample draws one candidate. Draw order is kind, extents, x, y; a lopsided
// box is discarded before its centre is drawn.
func sample(s Sampler, opts Options) (candidate, bool) {
	if s.Choice(kindWeights) == 0 {
		ext := Vec3{
			X: extent(s, opts),
			Y: extent(s, opts),
			Z: extent(s, opts),
		}
		if lopsided(ext, opts.LopsidedRatio) {
			return candidate{}, false
		}
		x, y := center(s, opts)
		return candidate{kind: Box, ext: ext, x: x, y: y}, true
	}

	r := extent(s, opts)
	x, y := center(s, opts)
	return candidate{kind: Sphere, ext: Vec3{X: r, Y: r, Z: r}, x: x, y: y}, true
}

func extent(s Sampler, opts Options) float64 {
	return math.Exp(s.Normal(opts.Mean(), opts.LogStdDev))
}

func center(s Sampler, opts Options) (float64, float64) {
	x := s.Uniform(-opts.Extent, opts.Extent)
	y := s.Uniform(-opts.Extent, opts.Extent)
	return x, y
}
