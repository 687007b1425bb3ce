// Package anchor defines the tracked-anchor data model: the events a
// tracking source emits and the hand and mesh payloads they carry.
package anchor

import (
	"fmt"

	"github.com/Faultbox/handroom/pkg/math"
)

// Kind tags an anchor event.
type Kind uint8

const (
	Added Kind = iota
	Updated
	Removed
)

// String returns a human-readable event kind.
func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Updated:
		return "updated"
	case Removed:
		return "removed"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// Event is one element of an anchor stream.
type Event[T any] struct {
	Kind   Kind
	Anchor T
}

// Chirality identifies which hand an anchor belongs to. It is a valid
// index into a two-element slot array, which is how "one model per
// chirality" is enforced.
type Chirality uint8

const (
	Left Chirality = iota
	Right
)

// NumChiralities is the slot-array length for per-hand state.
const NumChiralities = 2

// String returns "left" or "right".
func (c Chirality) String() string {
	if c == Left {
		return "left"
	}
	return "right"
}

// Joint is one articulation point of a tracked hand skeleton.
// Local is expressed relative to the hand anchor's origin transform,
// and Tracked is independent of the anchor's overall tracking state.
type Joint struct {
	Local   math.Transform
	Tracked bool
}

// Hand is a hand-tracking anchor payload. Skeleton indexes by JointID;
// a nil Skeleton means the source delivered no joint data this event.
type Hand struct {
	Chirality Chirality
	Origin    math.Transform
	Tracked   bool
	Skeleton  []Joint
}

// Joint returns the skeleton entry for id. ok is false when the
// skeleton is missing or does not cover the id.
func (h *Hand) Joint(id JointID) (Joint, bool) {
	if h.Skeleton == nil || int(id) >= len(h.Skeleton) {
		return Joint{}, false
	}
	return h.Skeleton[id], true
}

// Mesh is a scene-reconstruction anchor payload: one surface patch.
type Mesh struct {
	ID       uint64
	Origin   math.Transform
	Geometry MeshGeometry
}

// MeshGeometry is a triangulated surface in flat-array form: three
// floats per vertex, three indices per triangle.
type MeshGeometry struct {
	Vertices []float32
	Indices  []uint32
}

// VertexCount returns the number of vertices.
func (g MeshGeometry) VertexCount() int {
	return len(g.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (g MeshGeometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// IsEmpty reports whether the geometry has no vertices.
func (g MeshGeometry) IsEmpty() bool {
	return len(g.Vertices) == 0
}

// Vertex returns vertex i as a vector. It panics if i is out of range,
// matching slice-index semantics.
func (g MeshGeometry) Vertex(i int) math.Vec3 {
	return math.Vec3{
		X: g.Vertices[i*3],
		Y: g.Vertices[i*3+1],
		Z: g.Vertices[i*3+2],
	}
}
