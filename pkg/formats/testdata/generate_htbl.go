//go:build ignore

// This program generates a sample height table for manual runs of
// meshgen terrain with source "table".
// Run with: go run generate_htbl.go
package main

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
)

func main() {
	const width, depth = 33, 33

	var buf bytes.Buffer
	buf.WriteString("HTBL")
	buf.WriteByte(0) // minor
	buf.WriteByte(1) // major (version 1.0)
	binary.Write(&buf, binary.LittleEndian, uint32(width))
	binary.Write(&buf, binary.LittleEndian, uint32(depth))

	// A single rounded hill centred in the table.
	for z := 0; z < depth; z++ {
		for x := 0; x < width; x++ {
			dx := float64(x)/float64(width-1)*2 - 1
			dz := float64(z)/float64(depth-1)*2 - 1
			h := 0.4 * math.Exp(-3*(dx*dx+dz*dz))
			binary.Write(&buf, binary.LittleEndian, float32(h))
		}
	}

	if err := os.WriteFile("hill.htbl", buf.Bytes(), 0644); err != nil {
		panic(err)
	}
}
