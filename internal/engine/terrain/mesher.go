package terrain

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options configures a Mesher.
type Options struct {
	// Workers splits sampling and normal estimation across row bands.
	// Values <= 1 keep everything on the calling goroutine.
	Workers int
	// Logger receives per-call debug output. Nil disables logging.
	Logger *zap.Logger
}

// Mesher generates grid meshes from height functions. It holds no state
// between calls, so one Mesher may be shared by goroutines.
type Mesher struct {
	workers int
	log     *zap.Logger
}

// NewMesher creates a mesher.
func NewMesher(opts Options) *Mesher {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Mesher{workers: workers, log: log}
}

// Workers returns the effective worker count.
func (m *Mesher) Workers() int {
	return m.workers
}

// Generate samples fn on an xRes x zRes grid. Every call allocates new
// buffers; nothing from a previous call is reused, so fn may change
// between calls (an animated field is simply called again).
func (m *Mesher) Generate(fn HeightFunc, xRes, zRes int) (*Buffers, error) {
	if fn == nil {
		return nil, ErrNilHeightFunc
	}
	g, err := NewGrid(xRes, zRes)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	b := &Buffers{
		Grid:      g,
		Positions: make([]float32, g.Len()*3),
		Normals:   make([]float32, g.Len()*3),
	}

	if m.workers == 1 {
		sampleRows(g, fn, b.Positions, 0, g.XRes)
		if err := normalRows(g, b.Positions, b.Normals, 0, g.XRes); err != nil {
			return nil, err
		}
		b.Indices = buildIndices(g)
	} else if err := m.generateParallel(g, fn, b); err != nil {
		return nil, err
	}

	m.log.Debug("heightfield meshed",
		zap.Int("x_res", g.XRes),
		zap.Int("z_res", g.ZRes),
		zap.Int("triangles", b.TriangleCount()),
		zap.Int("workers", m.workers),
		zap.Duration("elapsed", time.Since(start)),
	)
	return b, nil
}

// generateParallel runs the index pass alongside sampling and normal
// estimation. Normals start only after every row has been sampled, since
// a row's normals read its neighbours' positions.
func (m *Mesher) generateParallel(g Grid, fn HeightFunc, b *Buffers) error {
	var outer errgroup.Group

	outer.Go(func() error {
		b.Indices = buildIndices(g)
		return nil
	})

	outer.Go(func() error {
		bands := rowBands(g.XRes, m.workers)

		var sampling errgroup.Group
		for _, band := range bands {
			band := band
			sampling.Go(func() error {
				sampleRows(g, fn, b.Positions, band[0], band[1])
				return nil
			})
		}
		if err := sampling.Wait(); err != nil {
			return err
		}

		var normals errgroup.Group
		for _, band := range bands {
			band := band
			normals.Go(func() error {
				return normalRows(g, b.Positions, b.Normals, band[0], band[1])
			})
		}
		return normals.Wait()
	})

	return outer.Wait()
}

// rowBands splits [0, rows) into at most n contiguous half-open ranges.
func rowBands(rows, n int) [][2]int {
	if n > rows {
		n = rows
	}
	size := (rows + n - 1) / n

	bands := make([][2]int, 0, n)
	for from := 0; from < rows; from += size {
		to := from + size
		if to > rows {
			to = rows
		}
		bands = append(bands, [2]int{from, to})
	}
	return bands
}
