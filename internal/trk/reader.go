package trk

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Faultbox/handroom/internal/anchor"
	"github.com/Faultbox/handroom/pkg/math"
)

// Record is one replayable event with its capture timestamp in seconds
// since session start. Exactly one of Hand/Mesh is meaningful,
// according to Domain.
type Record struct {
	Time   float64
	Domain Domain
	Hand   anchor.Event[anchor.Hand]
	Mesh   anchor.Event[anchor.Mesh]
}

// Reader decodes TRK records from a stream.
type Reader struct {
	r       *bufio.Reader
	version Version
}

// NewReader validates the TRK header and returns a record reader.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, fmt.Errorf("reading TRK header: %w", err)
	}
	if magic != Magic {
		return nil, ErrInvalidMagic
	}

	var ver [2]byte
	if _, err := io.ReadFull(br, ver[:]); err != nil {
		return nil, fmt.Errorf("reading TRK version: %w", err)
	}
	v := Version{Major: ver[0], Minor: ver[1]}
	if v.Major != VersionMajor {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, v)
	}

	return &Reader{r: br, version: v}, nil
}

// Version returns the file's format version.
func (r *Reader) Version() Version {
	return r.version
}

// Next decodes the next record. It returns io.EOF at a clean end of
// stream and ErrTruncatedRecord if the stream ends mid-record.
func (r *Reader) Next() (Record, error) {
	var rec Record

	// Record header: domain, kind, timestamp. EOF here is a clean end.
	domain, err := r.r.ReadByte()
	if err == io.EOF {
		return rec, io.EOF
	}
	if err != nil {
		return rec, fmt.Errorf("reading record header: %w", err)
	}

	kind, err := r.readByte()
	if err != nil {
		return rec, err
	}
	if anchor.Kind(kind) > anchor.Removed {
		return rec, fmt.Errorf("%w: %d", ErrInvalidKind, kind)
	}
	ts, err := r.readU64()
	if err != nil {
		return rec, err
	}

	rec.Time = floatFromBits64(ts)
	rec.Domain = Domain(domain)

	switch rec.Domain {
	case DomainHand:
		h, err := r.readHand()
		if err != nil {
			return rec, err
		}
		rec.Hand = anchor.Event[anchor.Hand]{Kind: anchor.Kind(kind), Anchor: h}
	case DomainMesh:
		m, err := r.readMesh()
		if err != nil {
			return rec, err
		}
		rec.Mesh = anchor.Event[anchor.Mesh]{Kind: anchor.Kind(kind), Anchor: m}
	default:
		return rec, fmt.Errorf("%w: %d", ErrUnknownDomain, domain)
	}

	return rec, nil
}

func (r *Reader) readHand() (anchor.Hand, error) {
	var h anchor.Hand

	chirality, err := r.readByte()
	if err != nil {
		return h, err
	}
	// Chirality indexes fixed-size per-hand slot arrays downstream, so a
	// corrupt byte must never leave the decoder.
	if chirality >= anchor.NumChiralities {
		return h, fmt.Errorf("%w: %d", ErrInvalidChirality, chirality)
	}
	tracked, err := r.readByte()
	if err != nil {
		return h, err
	}
	origin, err := r.readTransform()
	if err != nil {
		return h, err
	}

	h.Chirality = anchor.Chirality(chirality)
	h.Tracked = tracked != 0
	h.Origin = origin

	jointCount, err := r.readByte()
	if err != nil {
		return h, err
	}
	if jointCount == 0 {
		return h, nil
	}

	h.Skeleton = make([]anchor.Joint, jointCount)
	for i := range h.Skeleton {
		jt, err := r.readByte()
		if err != nil {
			return h, err
		}
		local, err := r.readTransform()
		if err != nil {
			return h, err
		}
		h.Skeleton[i] = anchor.Joint{Local: local, Tracked: jt != 0}
	}
	return h, nil
}

func (r *Reader) readMesh() (anchor.Mesh, error) {
	var m anchor.Mesh

	if err := r.read(&m.ID); err != nil {
		return m, err
	}
	origin, err := r.readTransform()
	if err != nil {
		return m, err
	}
	m.Origin = origin

	var nVerts uint32
	if err := r.read(&nVerts); err != nil {
		return m, err
	}
	if nVerts > MaxVertexFloats {
		return m, fmt.Errorf("%w: %d vertex floats", ErrOversizedGeometry, nVerts)
	}
	if nVerts > 0 {
		m.Geometry.Vertices = make([]float32, nVerts)
		if err := r.read(m.Geometry.Vertices); err != nil {
			return m, err
		}
	}

	var nIdx uint32
	if err := r.read(&nIdx); err != nil {
		return m, err
	}
	if nIdx > MaxIndices {
		return m, fmt.Errorf("%w: %d indices", ErrOversizedGeometry, nIdx)
	}
	if nIdx > 0 {
		m.Geometry.Indices = make([]uint32, nIdx)
		if err := r.read(m.Geometry.Indices); err != nil {
			return m, err
		}
	}

	return m, nil
}

func (r *Reader) readTransform() (math.Transform, error) {
	var f [7]float32
	if err := r.read(&f); err != nil {
		return math.Transform{}, err
	}
	return math.Transform{
		Position: math.Vec3{X: f[0], Y: f[1], Z: f[2]},
		Rotation: math.Quat{X: f[3], Y: f[4], Z: f[5], W: f[6]},
	}, nil
}

// read decodes little-endian data, mapping EOF mid-record to
// ErrTruncatedRecord.
func (r *Reader) read(v any) error {
	if err := binary.Read(r.r, binary.LittleEndian, v); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return ErrTruncatedRecord
		}
		return err
	}
	return nil
}

func (r *Reader) readByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, ErrTruncatedRecord
	}
	return b, nil
}

func (r *Reader) readU64() (uint64, error) {
	var v uint64
	if err := r.read(&v); err != nil {
		return 0, err
	}
	return v, nil
}
