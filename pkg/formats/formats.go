// Package formats provides readers and writers for mesh assets and
// generated geometry buffers.
package formats

// Note: OBJ (Wavefront geometry) is implemented in obj.go
// Note: HTBL (height table) is implemented in htbl.go
// Note: MBUF (flat render buffers) is implemented in mbuf.go
