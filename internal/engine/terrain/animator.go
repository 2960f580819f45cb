package terrain

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrInvalidFrameRate is returned for non-positive frame rates.
var ErrInvalidFrameRate = errors.New("frame rate must be positive")

// AnimatedSource is a height field that changes over time.
type AnimatedSource interface {
	Height(x, z float32) float32
	Update(dt float32)
}

// Frame is one regenerated grid of an animation.
type Frame struct {
	Index   int
	Time    float32
	Buffers *Buffers
}

// Animator regenerates a grid every frame from an animated source.
type Animator struct {
	mesher *Mesher
	source AnimatedSource
	grid   Grid
	step   float32
	log    *zap.Logger
}

// NewAnimator creates an animator advancing the source by 1/frameRate
// seconds per frame.
func NewAnimator(mesher *Mesher, source AnimatedSource, xRes, zRes int, frameRate float32) (*Animator, error) {
	if frameRate <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrameRate, frameRate)
	}
	g, err := NewGrid(xRes, zRes)
	if err != nil {
		return nil, err
	}
	return &Animator{
		mesher: mesher,
		source: source,
		grid:   g,
		step:   1 / frameRate,
		log:    mesher.log,
	}, nil
}

// Run meshes frames [0, frames) and passes each to sink. The source is
// advanced after each frame is meshed, so frame 0 shows the source's
// current state. Cancellation is checked between frames. A sink error
// stops the run and is returned as is.
func (a *Animator) Run(ctx context.Context, frames int, sink func(Frame) error) error {
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		b, err := a.mesher.Generate(a.source.Height, a.grid.XRes, a.grid.ZRes)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if err := sink(Frame{Index: i, Time: float32(i) * a.step, Buffers: b}); err != nil {
			return err
		}

		a.source.Update(a.step)
	}

	a.log.Debug("animation finished", zap.Int("frames", frames))
	return nil
}
