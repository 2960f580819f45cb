package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// HTBL format errors.
var (
	ErrInvalidHTBLMagic       = errors.New("invalid height table magic: expected 'HTBL'")
	ErrUnsupportedHTBLVersion = errors.New("unsupported height table version")
	ErrTruncatedHTBLData      = errors.New("truncated height table data")
)

const htblMagic = "HTBL"

// Version is a Major.Minor file version.
type Version struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// HeightTable is a regular grid of sampled heights.
//
// Layout on disk: "HTBL", version [minor, major], uint32 width (samples
// along X), uint32 depth (samples along Z), then width*depth float32
// values with X varying fastest. All little-endian.
type HeightTable struct {
	Version Version
	Width   uint32
	Depth   uint32
	Heights []float32
}

// NewHeightTable returns a zeroed table of the given size. A zero width or
// depth gives an empty table that terrain.NewHeightmap rejects.
func NewHeightTable(width, depth uint32) *HeightTable {
	return &HeightTable{
		Version: Version{Major: 1, Minor: 0},
		Width:   width,
		Depth:   depth,
		Heights: make([]float32, int(width)*int(depth)),
	}
}

// At returns the height at sample (x, z). Out-of-range samples are clamped
// to the nearest edge.
func (t *HeightTable) At(x, z int) float32 {
	x = clampIndex(x, int(t.Width))
	z = clampIndex(z, int(t.Depth))
	return t.Heights[z*int(t.Width)+x]
}

// Set stores the height at sample (x, z). Out-of-range writes are ignored.
func (t *HeightTable) Set(x, z int, h float32) {
	if x < 0 || z < 0 || x >= int(t.Width) || z >= int(t.Depth) {
		return
	}
	t.Heights[z*int(t.Width)+x] = h
}

// Range returns the minimum and maximum height in the table.
func (t *HeightTable) Range() (min, max float32) {
	if len(t.Heights) == 0 {
		return 0, 0
	}
	min, max = t.Heights[0], t.Heights[0]
	for _, h := range t.Heights {
		if h < min {
			min = h
		}
		if h > max {
			max = h
		}
	}
	return min, max
}

// ParseHeightTable parses a height table from raw bytes.
func ParseHeightTable(data []byte) (*HeightTable, error) {
	if len(data) < 14 {
		return nil, ErrTruncatedHTBLData
	}
	if string(data[0:4]) != htblMagic {
		return nil, ErrInvalidHTBLMagic
	}

	// Version is stored as [minor, major]
	version := Version{Major: data[5], Minor: data[4]}
	if version.Major != 1 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedHTBLVersion, version)
	}

	r := bytes.NewReader(data[6:])

	var width, depth uint32
	if err := binary.Read(r, binary.LittleEndian, &width); err != nil {
		return nil, fmt.Errorf("%w: reading width", ErrTruncatedHTBLData)
	}
	if err := binary.Read(r, binary.LittleEndian, &depth); err != nil {
		return nil, fmt.Errorf("%w: reading depth", ErrTruncatedHTBLData)
	}
	if width == 0 || depth == 0 || width > 8192 || depth > 8192 {
		return nil, fmt.Errorf("invalid height table dimensions: %dx%d", width, depth)
	}

	count := int(width) * int(depth)
	if r.Len() < count*4 {
		return nil, fmt.Errorf("%w: need %d heights, have %d bytes", ErrTruncatedHTBLData, count, r.Len())
	}

	table := &HeightTable{
		Version: version,
		Width:   width,
		Depth:   depth,
		Heights: make([]float32, count),
	}
	if err := binary.Read(r, binary.LittleEndian, table.Heights); err != nil {
		return nil, fmt.Errorf("%w: reading heights", ErrTruncatedHTBLData)
	}
	return table, nil
}

// ParseHeightTableFile parses a height table from disk.
func ParseHeightTableFile(path string) (*HeightTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading height table file: %w", err)
	}
	return ParseHeightTable(data)
}

// Encode writes the table in HTBL layout.
func (t *HeightTable) Encode(w io.Writer) error {
	if len(t.Heights) != int(t.Width)*int(t.Depth) {
		return fmt.Errorf("height table has %d values for %dx%d", len(t.Heights), t.Width, t.Depth)
	}

	buf := new(bytes.Buffer)
	buf.WriteString(htblMagic)
	buf.WriteByte(t.Version.Minor)
	buf.WriteByte(t.Version.Major)
	binary.Write(buf, binary.LittleEndian, t.Width)
	binary.Write(buf, binary.LittleEndian, t.Depth)
	binary.Write(buf, binary.LittleEndian, t.Heights)

	_, err := w.Write(buf.Bytes())
	return err
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
