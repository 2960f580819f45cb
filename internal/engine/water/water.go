// Package water provides an animated wave height field.
package water

import (
	"github.com/chewxy/math32"
)

// Wave is a radial damped sine wave centred at (CenterX, CenterZ):
//
//	Amplitude * exp(-Falloff * r^2) * sin(Frequency*r - Speed*t)
type Wave struct {
	CenterX   float32 `yaml:"center_x" toml:"center_x"`
	CenterZ   float32 `yaml:"center_z" toml:"center_z"`
	Amplitude float32 `yaml:"amplitude" toml:"amplitude"`
	Falloff   float32 `yaml:"falloff" toml:"falloff"`
	Frequency float32 `yaml:"frequency" toml:"frequency"`
	Speed     float32 `yaml:"speed" toml:"speed"`
}

// At returns the wave's contribution at (x, z) and time t.
func (w Wave) At(x, z, t float32) float32 {
	dx := x - w.CenterX
	dz := z - w.CenterZ
	r2 := dx*dx + dz*dz
	r := math32.Sqrt(r2)
	return w.Amplitude * math32.Exp(-w.Falloff*r2) * math32.Sin(w.Frequency*r-w.Speed*t)
}

// Surface is the sum of its waves at the current time.
// It is not safe for concurrent Update and Height calls.
type Surface struct {
	Waves []Wave
	time  float32
}

// NewSurface creates a surface at time zero.
func NewSurface(waves ...Wave) *Surface {
	return &Surface{Waves: waves}
}

// DefaultWaves returns a two-source ripple pattern.
func DefaultWaves() []Wave {
	return []Wave{
		{CenterX: -0.3, CenterZ: -0.2, Amplitude: 0.08, Falloff: 1.5, Frequency: 18, Speed: 4},
		{CenterX: 0.4, CenterZ: 0.35, Amplitude: 0.05, Falloff: 2.5, Frequency: 24, Speed: 6},
	}
}

// Height returns the surface height at (x, z).
func (s *Surface) Height(x, z float32) float32 {
	var h float32
	for _, w := range s.Waves {
		h += w.At(x, z, s.time)
	}
	return h
}

// Update advances the surface by dt seconds.
func (s *Surface) Update(dt float32) {
	s.time += dt
}

// Time returns the elapsed time in seconds.
func (s *Surface) Time() float32 {
	return s.time
}

// Reset rewinds the surface to time zero.
func (s *Surface) Reset() {
	s.time = 0
}
