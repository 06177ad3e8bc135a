package placement

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler is the random source the generator draws from.
// Implementations need not be safe for concurrent use; every generation
// sequence owns its sampler.
type Sampler interface {
	// Uniform returns a value in [a, b).
	Uniform(a, b float64) float64

	// Normal returns a normally distributed value.
	Normal(mean, std float64) float64

	// Choice returns an index into weights, drawn with probability
	// proportional to its weight.
	Choice(weights []float64) int
}

// NewSampler returns a deterministic sampler seeded with seed.
func NewSampler(seed uint64) Sampler {
	return &pcgSampler{src: rand.NewPCG(seed, seed^0xdeadbeef)}
}

type pcgSampler struct {
	src rand.Source
}

func (s *pcgSampler) Uniform(a, b float64) float64 {
	u := distuv.Uniform{Min: a, Max: b, Src: s.src}
	return u.Rand()
}

func (s *pcgSampler) Normal(mean, std float64) float64 {
	n := distuv.Normal{Mu: mean, Sigma: std, Src: s.src}
	return n.Rand()
}

func (s *pcgSampler) Choice(weights []float64) int {
	c := distuv.NewCategorical(weights, s.src)
	return int(c.Rand())
}

// DeriveSeed mixes base and index into an independent seed (SplitMix64), so
// scene i of a run is reproducible regardless of how many scenes run in
// parallel.
func DeriveSeed(base uint64, index int) uint64 {
	z := base + uint64(index+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
