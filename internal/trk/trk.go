// Package trk implements the TRK tracking-session recording format: a
// little-endian stream of timestamped hand and mesh anchor events that
// can be replayed in place of live tracking.
package trk

import (
	"errors"
	"fmt"
	gomath "math"
)

// Magic bytes at the start of every TRK file.
var Magic = [4]byte{'T', 'R', 'K', 'S'}

// Current format version.
const (
	VersionMajor = 1
	VersionMinor = 0
)

// TRK format errors.
var (
	ErrInvalidMagic       = errors.New("invalid TRK magic: expected 'TRKS'")
	ErrUnsupportedVersion = errors.New("unsupported TRK version")
	ErrTruncatedRecord    = errors.New("truncated TRK record")
	ErrUnknownDomain      = errors.New("unknown TRK record domain")
	ErrInvalidKind        = errors.New("invalid TRK event kind")
	ErrInvalidChirality   = errors.New("invalid TRK hand chirality")
	ErrOversizedGeometry  = errors.New("TRK geometry exceeds size limit")
)

// Size limits guarding against corrupt length fields.
const (
	MaxVertexFloats = 1 << 22 // ~4M floats, 16 MB of vertex data
	MaxIndices      = 1 << 22
	MaxJoints       = 255
)

// Version is a TRK file version.
type Version struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Domain tags which anchor stream a record belongs to.
type Domain uint8

const (
	DomainHand Domain = iota
	DomainMesh
)

// String returns a human-readable domain name.
func (d Domain) String() string {
	switch d {
	case DomainHand:
		return "hand"
	case DomainMesh:
		return "mesh"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(d))
	}
}

// Timestamps travel as raw float64 bits.
func floatFromBits64(bits uint64) float64 {
	return gomath.Float64frombits(bits)
}

func bitsFromFloat64(f float64) uint64 {
	return gomath.Float64bits(f)
}
