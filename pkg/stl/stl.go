// Package stl reads and writes binary STL files.
//
// A binary STL file is an 80-byte header, a little-endian uint32 triangle
// count, then one 50-byte record per triangle: normal, three vertices (all
// float32 triples) and a uint16 attribute.
package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/chazu/stlwrap/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
)

const (
	headerSize = 80
	recordSize = 50
)

// ErrTruncated is returned when the file ends before the declared number
// of triangles has been read.
var ErrTruncated = errors.New("stl: truncated file")

// Read decodes a binary STL mesh from r.
func Read(r io.Reader) (*mesh.Mesh, error) {
	var head [headerSize + 4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, errors.Wrap(ErrTruncated, "stl: reading header")
	}
	n := binary.LittleEndian.Uint32(head[headerSize:])

	m := &mesh.Mesh{
		Header:    string(bytes.TrimRight(head[:headerSize], "\x00")),
		Triangles: make([]mesh.Triangle, 0, capHint(n)),
	}

	var rec [recordSize]byte
	for i := uint32(0); i < n; i++ {
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			return nil, errors.Wrapf(ErrTruncated, "stl: triangle %d of %d", i, n)
		}
		m.Triangles = append(m.Triangles, mesh.Triangle{
			Normal: readVec(rec[0:]),
			V: [3]mesh.Vertex{
				readVec(rec[12:]),
				readVec(rec[24:]),
				readVec(rec[36:]),
			},
			Attr: binary.LittleEndian.Uint16(rec[48:]),
		})
	}
	return m, nil
}

// capHint limits preallocation so a corrupt count cannot force a huge
// allocation before any record is read.
func capHint(n uint32) int {
	const max = 1 << 20
	if n > max {
		return max
	}
	return int(n)
}

// Write encodes m as binary STL. Headers longer than 80 bytes are cut.
func Write(w io.Writer, m *mesh.Mesh) error {
	if uint64(len(m.Triangles)) > math.MaxUint32 {
		return errors.Errorf("stl: %d triangles exceed the format limit", len(m.Triangles))
	}
	bw := bufio.NewWriter(w)

	var head [headerSize + 4]byte
	copy(head[:headerSize], m.Header)
	binary.LittleEndian.PutUint32(head[headerSize:], uint32(len(m.Triangles)))
	if _, err := bw.Write(head[:]); err != nil {
		return errors.Wrap(err, "stl: writing header")
	}

	var rec [recordSize]byte
	for i, t := range m.Triangles {
		putVec(rec[0:], t.Normal)
		putVec(rec[12:], t.V[0])
		putVec(rec[24:], t.V[1])
		putVec(rec[36:], t.V[2])
		binary.LittleEndian.PutUint16(rec[48:], t.Attr)
		if _, err := bw.Write(rec[:]); err != nil {
			return errors.Wrapf(err, "stl: writing triangle %d", i)
		}
	}
	return errors.Wrap(bw.Flush(), "stl: flush")
}

// ReadFile reads the binary STL file at path.
func ReadFile(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "stl")
	}
	defer f.Close()
	m, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return m, nil
}

// WriteFile writes m to path as binary STL, replacing any existing file.
func WriteFile(path string, m *mesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "stl")
	}
	if err := Write(f, m); err != nil {
		f.Close()
		return errors.Wrap(err, path)
	}
	return errors.Wrap(f.Close(), path)
}

func readVec(b []byte) v3.Vec {
	return v3.Vec{
		X: float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:]))),
		Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))),
		Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))),
	}
}

func putVec(b []byte, v v3.Vec) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(float32(v.Z)))
}
