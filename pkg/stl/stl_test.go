package stl

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/stlwrap/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
)

func sample() *mesh.Mesh {
	return &mesh.Mesh{
		Header: "binary STL from test",
		Triangles: []mesh.Triangle{
			{
				Normal: v3.Vec{X: 0, Y: 0, Z: 1},
				V:      [3]mesh.Vertex{{X: 0, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}, {X: 1, Y: 1.5, Z: 0}},
				Attr:   0x1234,
			},
			{
				Normal: v3.Vec{X: 0, Y: -1, Z: 0},
				V:      [3]mesh.Vertex{{X: -1, Y: 0, Z: 0.25}, {X: 0, Y: 0, Z: 4}, {X: 3, Y: 0, Z: 0}},
			},
		},
	}
}

func TestWriteLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	b := buf.Bytes()
	if len(b) != 84+2*50 {
		t.Fatalf("len = %d, want %d", len(b), 84+2*50)
	}
	if !strings.HasPrefix(string(b[:80]), "binary STL from test\x00") {
		t.Errorf("header = %q", b[:80])
	}
	if n := binary.LittleEndian.Uint32(b[80:]); n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
	if a := binary.LittleEndian.Uint16(b[84+48:]); a != 0x1234 {
		t.Errorf("attr = %#x, want 0x1234", a)
	}
}

func TestReadWrite(t *testing.T) {
	want := sample()
	var buf bytes.Buffer
	if err := Write(&buf, want); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Header != want.Header {
		t.Errorf("Header = %q, want %q", got.Header, want.Header)
	}
	if got.TriangleCount() != want.TriangleCount() {
		t.Fatalf("TriangleCount() = %d, want %d", got.TriangleCount(), want.TriangleCount())
	}
	// Sample values are exact in float32.
	for i := range want.Triangles {
		if got.Triangles[i] != want.Triangles[i] {
			t.Errorf("triangle %d = %+v, want %+v", i, got.Triangles[i], want.Triangles[i])
		}
	}
}

func TestLongHeaderTruncated(t *testing.T) {
	m := &mesh.Mesh{Header: strings.Repeat("h", 100)}
	var buf bytes.Buffer
	if err := Write(&buf, m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Header != strings.Repeat("h", 80) {
		t.Errorf("Header = %q", got.Header)
	}
	if !got.IsEmpty() {
		t.Error("expected empty mesh")
	}
}

func TestReadTruncated(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	full := buf.Bytes()
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short header", full[:40]},
		{"missing record", full[:84+50]},
		{"partial record", full[:84+50+10]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(bytes.NewReader(tt.data))
			if errors.Cause(err) != ErrTruncated {
				t.Errorf("Read() error = %v, want ErrTruncated", err)
			}
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "part.stl")
	if err := WriteFile(path, sample()); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got.TriangleCount() != 2 {
		t.Errorf("TriangleCount() = %d, want 2", got.TriangleCount())
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.stl")); err == nil {
		t.Error("ReadFile(missing) should fail")
	}
}
