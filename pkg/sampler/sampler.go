// Package sampler provides the sample generators consumed by the worker
// loop. Each worker thread owns an independently seeded sampler instance, so
// none of the implementations here need to be safe for concurrent use.
package sampler

import (
	"math"
	"math/rand"

	"github.com/lumen-render/go-tile-raytracer/pkg/core"
	"github.com/lumen-render/go-tile-raytracer/pkg/registry"
)

// Sample round requests outside this range are clamped.
const (
	minRound = 1
	maxRound = 1024
)

var registryInst = registry.New[core.SamplerFactory]("sampler")

func init() {
	registryInst.Register("random", func(map[string]string) (core.SamplerFactory, error) {
		return func(seed int64) core.Sampler { return NewRandom(seed) }, nil
	})
	registryInst.Register("stratified", func(map[string]string) (core.SamplerFactory, error) {
		return func(seed int64) core.Sampler { return NewStratified(seed) }, nil
	})
}

// Create looks up a sampler factory by type name.
func Create(name string, props map[string]string) (core.SamplerFactory, error) {
	return registryInst.Create(name, props)
}

// Names returns the registered sampler type names.
func Names() []string {
	return registryInst.Names()
}

func clampRound(requested int) int {
	return max(minRound, min(maxRound, requested))
}

// Random produces independent uniform samples
type Random struct {
	random *rand.Rand
}

// NewRandom creates a random sampler with the given seed
func NewRandom(seed int64) *Random {
	return &Random{random: rand.New(rand.NewSource(seed))}
}

// Get1D returns a random float64 in [0, 1)
func (r *Random) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *Random) Get2D() core.Vec2 {
	return core.NewVec2(r.random.Float64(), r.random.Float64())
}

// RoundSize accepts any sample count within the allowed range
func (r *Random) RoundSize(requested int) int {
	return clampRound(requested)
}

// Stratified jitters samples within the cells of a square grid, cycling
// through strata as samples are drawn.
type Stratified struct {
	random *rand.Rand
	dim    int // grid edge, strata count is dim*dim
	next   int // next stratum index
}

// NewStratified creates a stratified sampler with the given seed. The grid
// dimension is set by the first RoundSize call; until then it samples a
// single stratum (plain uniform).
func NewStratified(seed int64) *Stratified {
	return &Stratified{random: rand.New(rand.NewSource(seed)), dim: 1}
}

// RoundSize rounds the requested count up to the next perfect square and
// configures the stratification grid accordingly.
func (s *Stratified) RoundSize(requested int) int {
	requested = clampRound(requested)
	dim := int(math.Ceil(math.Sqrt(float64(requested))))
	size := clampRound(dim * dim)
	s.dim = dim
	s.next = 0
	return size
}

// Get1D returns a jittered sample from the next stratum of a 1D partition
func (s *Stratified) Get1D() float64 {
	strata := s.dim * s.dim
	i := s.next
	s.next = (s.next + 1) % strata
	return (float64(i) + s.random.Float64()) / float64(strata)
}

// Get2D returns a jittered sample from the next cell of the 2D grid
func (s *Stratified) Get2D() core.Vec2 {
	strata := s.dim * s.dim
	i := s.next
	s.next = (s.next + 1) % strata
	x := i % s.dim
	y := i / s.dim
	return core.NewVec2(
		(float64(x)+s.random.Float64())/float64(s.dim),
		(float64(y)+s.random.Float64())/float64(s.dim),
	)
}
