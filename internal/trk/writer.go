package trk

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Faultbox/handroom/internal/anchor"
	"github.com/Faultbox/handroom/pkg/math"
)

// Writer encodes TRK records to a stream.
type Writer struct {
	w *bufio.Writer
}

// NewWriter writes the TRK header and returns a record writer.
func NewWriter(w io.Writer) (*Writer, error) {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(Magic[:]); err != nil {
		return nil, fmt.Errorf("writing TRK header: %w", err)
	}
	if _, err := bw.Write([]byte{VersionMajor, VersionMinor}); err != nil {
		return nil, fmt.Errorf("writing TRK version: %w", err)
	}
	return &Writer{w: bw}, nil
}

// WriteHand appends a hand event captured at time t (seconds since
// session start).
func (w *Writer) WriteHand(t float64, ev anchor.Event[anchor.Hand]) error {
	if err := w.writeHeader(t, DomainHand, ev.Kind); err != nil {
		return err
	}

	h := &ev.Anchor
	if err := w.write(byte(h.Chirality), boolByte(h.Tracked)); err != nil {
		return err
	}
	if err := w.writeTransform(h.Origin); err != nil {
		return err
	}

	if len(h.Skeleton) > MaxJoints {
		return fmt.Errorf("skeleton too large: %d joints", len(h.Skeleton))
	}
	if err := w.write(byte(len(h.Skeleton))); err != nil {
		return err
	}
	for _, j := range h.Skeleton {
		if err := w.write(boolByte(j.Tracked)); err != nil {
			return err
		}
		if err := w.writeTransform(j.Local); err != nil {
			return err
		}
	}
	return nil
}

// WriteMesh appends a mesh event captured at time t.
func (w *Writer) WriteMesh(t float64, ev anchor.Event[anchor.Mesh]) error {
	if err := w.writeHeader(t, DomainMesh, ev.Kind); err != nil {
		return err
	}

	m := &ev.Anchor
	if err := w.write(m.ID); err != nil {
		return err
	}
	if err := w.writeTransform(m.Origin); err != nil {
		return err
	}

	if len(m.Geometry.Vertices) > MaxVertexFloats || len(m.Geometry.Indices) > MaxIndices {
		return fmt.Errorf("geometry too large: %d floats, %d indices",
			len(m.Geometry.Vertices), len(m.Geometry.Indices))
	}
	if err := w.write(uint32(len(m.Geometry.Vertices))); err != nil {
		return err
	}
	if len(m.Geometry.Vertices) > 0 {
		if err := w.write(m.Geometry.Vertices); err != nil {
			return err
		}
	}
	if err := w.write(uint32(len(m.Geometry.Indices))); err != nil {
		return err
	}
	if len(m.Geometry.Indices) > 0 {
		if err := w.write(m.Geometry.Indices); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes any buffered records to the underlying stream.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

func (w *Writer) writeHeader(t float64, d Domain, k anchor.Kind) error {
	if err := w.write(byte(d), byte(k)); err != nil {
		return err
	}
	return w.write(bitsFromFloat64(t))
}

func (w *Writer) writeTransform(tr math.Transform) error {
	return w.write([7]float32{
		tr.Position.X, tr.Position.Y, tr.Position.Z,
		tr.Rotation.X, tr.Rotation.Y, tr.Rotation.Z, tr.Rotation.W,
	})
}

func (w *Writer) write(vs ...any) error {
	for _, v := range vs {
		if err := binary.Write(w.w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
