package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestHeightTable_EncodeParse(t *testing.T) {
	table := NewHeightTable(3, 2)
	table.Set(0, 0, -1)
	table.Set(2, 1, 4.5)
	table.Set(1, 1, 2)

	var buf bytes.Buffer
	if err := table.Encode(&buf); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	parsed, err := ParseHeightTable(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseHeightTable failed: %v", err)
	}

	if parsed.Version.String() != "1.0" {
		t.Errorf("expected version 1.0, got %s", parsed.Version)
	}
	if parsed.Width != 3 || parsed.Depth != 2 {
		t.Errorf("expected 3x2, got %dx%d", parsed.Width, parsed.Depth)
	}
	if parsed.At(2, 1) != 4.5 {
		t.Errorf("At(2,1) = %v, want 4.5", parsed.At(2, 1))
	}

	min, max := parsed.Range()
	if min != -1 || max != 4.5 {
		t.Errorf("Range() = %v, %v; want -1, 4.5", min, max)
	}
}

func TestHeightTable_AtClamps(t *testing.T) {
	table := NewHeightTable(2, 2)
	table.Set(0, 0, 1)
	table.Set(1, 1, 9)

	if got := table.At(-5, -5); got != 1 {
		t.Errorf("At(-5,-5) = %v, want 1", got)
	}
	if got := table.At(10, 10); got != 9 {
		t.Errorf("At(10,10) = %v, want 9", got)
	}

	// Out-of-range writes are dropped.
	table.Set(5, 0, 100)
	for _, h := range table.Heights {
		if h == 100 {
			t.Error("out-of-range Set modified the table")
		}
	}
}

func TestParseHeightTable_Errors(t *testing.T) {
	header := func(magic string, major uint8, w, d uint32) *bytes.Buffer {
		buf := new(bytes.Buffer)
		buf.WriteString(magic)
		buf.WriteByte(0)
		buf.WriteByte(major)
		binary.Write(buf, binary.LittleEndian, w)
		binary.Write(buf, binary.LittleEndian, d)
		return buf
	}

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"too short", []byte("HTBL"), ErrTruncatedHTBLData},
		{"bad magic", header("GRAT", 1, 1, 1).Bytes(), ErrInvalidHTBLMagic},
		{"bad version", header("HTBL", 2, 1, 1).Bytes(), ErrUnsupportedHTBLVersion},
		{"missing heights", header("HTBL", 1, 2, 2).Bytes(), ErrTruncatedHTBLData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeightTable(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseHeightTable_ZeroDimensions(t *testing.T) {
	buf := new(bytes.Buffer)
	buf.WriteString("HTBL")
	buf.WriteByte(0)
	buf.WriteByte(1)
	binary.Write(buf, binary.LittleEndian, uint32(0))
	binary.Write(buf, binary.LittleEndian, uint32(4))

	if _, err := ParseHeightTable(buf.Bytes()); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestParseHeightTableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hills.htbl")

	table := NewHeightTable(4, 4)
	table.Set(1, 2, 3)
	var buf bytes.Buffer
	if err := table.Encode(&buf); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write table: %v", err)
	}

	parsed, err := ParseHeightTableFile(path)
	if err != nil {
		t.Fatalf("ParseHeightTableFile failed: %v", err)
	}
	if parsed.At(1, 2) != 3 {
		t.Errorf("At(1,2) = %v, want 3", parsed.At(1, 2))
	}

	if _, err := ParseHeightTableFile(filepath.Join(t.TempDir(), "missing.htbl")); err == nil {
		t.Error("expected error for missing file")
	}
}
