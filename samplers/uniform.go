// Package samplers provides reference Sampler implementations for the
// graph package's external Sampler capability.
package samplers

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/JRL-CARI-CNR-UNIBS/cari-motion-planning/graph"
)

// Uniform samples configurations uniformly within [lower,upper] in
// every dimension, independently per dimension.
type Uniform struct {
	lower, upper graph.Configuration
	start, stop  graph.Configuration
	cost         float64
	dists        []distuv.Uniform
}

// NewUniform builds a Uniform sampler bounded by lower/upper, with
// start/stop recorded for informed-sampler bookkeeping (Sampler's
// StartConfig/StopConfig).
func NewUniform(lower, upper, start, stop graph.Configuration) *Uniform {
	dists := make([]distuv.Uniform, len(lower))
	for i := range lower {
		dists[i] = distuv.Uniform{Min: lower[i], Max: upper[i]}
	}
	return &Uniform{
		lower: lower.Clone(),
		upper: upper.Clone(),
		start: start.Clone(),
		stop:  stop.Clone(),
		cost:  math.Inf(1),
		dists: dists,
	}
}

// Sample draws an independent uniform value per dimension.
func (u *Uniform) Sample() graph.Configuration {
	q := make(graph.Configuration, len(u.dists))
	for i, d := range u.dists {
		q[i] = d.Rand()
	}
	return q
}

// StartConfig returns the sampler's recorded start configuration.
func (u *Uniform) StartConfig() graph.Configuration { return u.start }

// StopConfig returns the sampler's recorded stop configuration.
func (u *Uniform) StopConfig() graph.Configuration { return u.stop }

// Lower returns the sampler's lower bound.
func (u *Uniform) Lower() graph.Configuration { return u.lower }

// Upper returns the sampler's upper bound.
func (u *Uniform) Upper() graph.Configuration { return u.upper }

// Cost returns the current best-solution cost used by informed
// variants to narrow their sampling region. Uniform ignores it but
// still reports it so it composes with wrappers that do use it.
func (u *Uniform) Cost() float64 { return u.cost }

// UpdateCost records a new best-solution cost.
func (u *Uniform) UpdateCost(c float64) { u.cost = c }

var _ graph.Sampler = (*Uniform)(nil)
