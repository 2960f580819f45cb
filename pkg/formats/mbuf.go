package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/surfmesh/pkg/math"
)

// MBUF format errors.
var (
	ErrInvalidMBUFMagic       = errors.New("invalid mesh buffer magic: expected 'MBUF'")
	ErrUnsupportedMBUFVersion = errors.New("unsupported mesh buffer version")
	ErrTruncatedMBUFData      = errors.New("truncated mesh buffer data")
	ErrBufferShape            = errors.New("inconsistent mesh buffer shape")
)

const mbufMagic = "MBUF"

// MeshBuffers is the flat vertex/index layout handed to a renderer:
// 3 floats per position, 3 floats per normal, optionally 2 floats per
// texture coordinate, 3 indices per triangle.
//
// Layout on disk: "MBUF", version [minor, major], uint32 vertex count,
// uint32 index count, positions, normals, texture coordinates (version
// 1.1 only), indices. All little-endian. Version 1.0 is written when
// TexCoords is empty.
type MeshBuffers struct {
	Version   Version
	Positions []float32
	Normals   []float32
	TexCoords []float32
	Indices   []uint32
}

// HasTexCoords reports whether the buffers carry texture coordinates.
func (b *MeshBuffers) HasTexCoords() bool {
	return len(b.TexCoords) > 0
}

// VertexCount returns the number of vertices.
func (b *MeshBuffers) VertexCount() int {
	return len(b.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (b *MeshBuffers) TriangleCount() int {
	return len(b.Indices) / 3
}

// Normal returns the normal of vertex i.
func (b *MeshBuffers) Normal(i int) math.Vec3 {
	return math.Vec3{X: b.Normals[i*3], Y: b.Normals[i*3+1], Z: b.Normals[i*3+2]}
}

// Validate checks buffer shapes and index ranges.
func (b *MeshBuffers) Validate() error {
	if len(b.Positions)%3 != 0 {
		return fmt.Errorf("%w: %d position floats", ErrBufferShape, len(b.Positions))
	}
	if len(b.Normals) != len(b.Positions) {
		return fmt.Errorf("%w: %d normal floats for %d position floats", ErrBufferShape, len(b.Normals), len(b.Positions))
	}
	if b.HasTexCoords() && len(b.TexCoords) != b.VertexCount()*2 {
		return fmt.Errorf("%w: %d texcoord floats for %d vertices", ErrBufferShape, len(b.TexCoords), b.VertexCount())
	}
	if len(b.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices", ErrBufferShape, len(b.Indices))
	}
	n := uint32(b.VertexCount())
	for i, idx := range b.Indices {
		if idx >= n {
			return fmt.Errorf("%w: index %d at %d exceeds vertex count %d", ErrBufferShape, idx, i, n)
		}
	}
	return nil
}

// WriteMeshBuffers writes b in MBUF layout.
func WriteMeshBuffers(w io.Writer, b *MeshBuffers) error {
	if err := b.Validate(); err != nil {
		return err
	}

	version := Version{Major: 1, Minor: 0}
	if b.HasTexCoords() {
		version.Minor = 1
	}

	buf := new(bytes.Buffer)
	buf.WriteString(mbufMagic)
	buf.WriteByte(version.Minor)
	buf.WriteByte(version.Major)
	binary.Write(buf, binary.LittleEndian, uint32(b.VertexCount()))
	binary.Write(buf, binary.LittleEndian, uint32(len(b.Indices)))
	binary.Write(buf, binary.LittleEndian, b.Positions)
	binary.Write(buf, binary.LittleEndian, b.Normals)
	if b.HasTexCoords() {
		binary.Write(buf, binary.LittleEndian, b.TexCoords)
	}
	binary.Write(buf, binary.LittleEndian, b.Indices)

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteMeshBuffersFile writes b to path.
func WriteMeshBuffersFile(path string, b *MeshBuffers) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating mesh buffer file: %w", err)
	}
	if err := WriteMeshBuffers(f, b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ParseMeshBuffers parses MBUF data.
func ParseMeshBuffers(data []byte) (*MeshBuffers, error) {
	if len(data) < 14 {
		return nil, ErrTruncatedMBUFData
	}
	if string(data[0:4]) != mbufMagic {
		return nil, ErrInvalidMBUFMagic
	}

	version := Version{Major: data[5], Minor: data[4]}
	if version.Major != 1 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMBUFVersion, version)
	}

	r := bytes.NewReader(data[6:])

	var vertexCount, indexCount uint32
	if err := binary.Read(r, binary.LittleEndian, &vertexCount); err != nil {
		return nil, fmt.Errorf("%w: reading vertex count", ErrTruncatedMBUFData)
	}
	if err := binary.Read(r, binary.LittleEndian, &indexCount); err != nil {
		return nil, fmt.Errorf("%w: reading index count", ErrTruncatedMBUFData)
	}

	floatsPerVertex := 6
	if version.Minor >= 1 {
		floatsPerVertex = 8
	}
	need := int(vertexCount)*floatsPerVertex*4 + int(indexCount)*4
	if r.Len() < need {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedMBUFData, need, r.Len())
	}

	b := &MeshBuffers{
		Version:   version,
		Positions: make([]float32, vertexCount*3),
		Normals:   make([]float32, vertexCount*3),
		Indices:   make([]uint32, indexCount),
	}
	if err := binary.Read(r, binary.LittleEndian, b.Positions); err != nil {
		return nil, fmt.Errorf("%w: reading positions", ErrTruncatedMBUFData)
	}
	if err := binary.Read(r, binary.LittleEndian, b.Normals); err != nil {
		return nil, fmt.Errorf("%w: reading normals", ErrTruncatedMBUFData)
	}
	if version.Minor >= 1 {
		b.TexCoords = make([]float32, vertexCount*2)
		if err := binary.Read(r, binary.LittleEndian, b.TexCoords); err != nil {
			return nil, fmt.Errorf("%w: reading texture coordinates", ErrTruncatedMBUFData)
		}
	}
	if err := binary.Read(r, binary.LittleEndian, b.Indices); err != nil {
		return nil, fmt.Errorf("%w: reading indices", ErrTruncatedMBUFData)
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// ParseMeshBuffersFile parses an MBUF file from disk.
func ParseMeshBuffersFile(path string) (*MeshBuffers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mesh buffer file: %w", err)
	}
	return ParseMeshBuffers(data)
}
