// Package collision derives static collision shapes from reconstructed
// surface geometry. Derivation is fallible: malformed geometry yields an
// error, never a partial shape.
package collision

import (
	"errors"
	gomath "math"

	"github.com/Faultbox/handroom/internal/anchor"
	"github.com/Faultbox/handroom/pkg/math"
)

// Shape derivation errors.
var (
	ErrEmptyGeometry     = errors.New("empty geometry")
	ErrTruncatedGeometry = errors.New("truncated geometry: vertex or index data is not a whole number of elements")
	ErrIndexOutOfRange   = errors.New("triangle index out of range")
	ErrNonFiniteVertex   = errors.New("non-finite vertex coordinate")
	ErrDegenerateShape   = errors.New("degenerate shape: no triangles with area")
)

// Shape is a static triangle-soup collider in anchor-local space with a
// precomputed bounding box. Shapes are immutable once derived.
type Shape struct {
	Vertices []math.Vec3
	Indices  []uint32

	Min math.Vec3
	Max math.Vec3
}

// TriangleCount returns the number of triangles.
func (s *Shape) TriangleCount() int {
	return len(s.Indices) / 3
}

// Triangle returns the corners of triangle i.
func (s *Shape) Triangle(i int) (a, b, c math.Vec3) {
	return s.Vertices[s.Indices[i*3]],
		s.Vertices[s.Indices[i*3+1]],
		s.Vertices[s.Indices[i*3+2]]
}

// FromMesh derives a static collision shape from mesh geometry.
// Zero-area triangles are dropped; if none survive the geometry is
// rejected as degenerate.
func FromMesh(g anchor.MeshGeometry) (*Shape, error) {
	if g.IsEmpty() {
		return nil, ErrEmptyGeometry
	}
	if len(g.Vertices)%3 != 0 || len(g.Indices)%3 != 0 {
		return nil, ErrTruncatedGeometry
	}

	n := g.VertexCount()
	verts := make([]math.Vec3, n)
	min := math.Vec3{X: gomath.MaxFloat32, Y: gomath.MaxFloat32, Z: gomath.MaxFloat32}
	max := math.Vec3{X: -gomath.MaxFloat32, Y: -gomath.MaxFloat32, Z: -gomath.MaxFloat32}

	for i := 0; i < n; i++ {
		v := g.Vertex(i)
		if !v.IsFinite() {
			return nil, ErrNonFiniteVertex
		}
		verts[i] = v

		if v.X < min.X {
			min.X = v.X
		}
		if v.Y < min.Y {
			min.Y = v.Y
		}
		if v.Z < min.Z {
			min.Z = v.Z
		}
		if v.X > max.X {
			max.X = v.X
		}
		if v.Y > max.Y {
			max.Y = v.Y
		}
		if v.Z > max.Z {
			max.Z = v.Z
		}
	}

	indices := make([]uint32, 0, len(g.Indices))
	for i := 0; i+2 < len(g.Indices); i += 3 {
		ia, ib, ic := g.Indices[i], g.Indices[i+1], g.Indices[i+2]
		if int(ia) >= n || int(ib) >= n || int(ic) >= n {
			return nil, ErrIndexOutOfRange
		}
		if triangleArea(verts[ia], verts[ib], verts[ic]) <= 0 {
			continue
		}
		indices = append(indices, ia, ib, ic)
	}

	if len(indices) == 0 {
		return nil, ErrDegenerateShape
	}

	return &Shape{
		Vertices: verts,
		Indices:  indices,
		Min:      min,
		Max:      max,
	}, nil
}

// triangleArea returns the area of the triangle abc.
func triangleArea(a, b, c math.Vec3) float32 {
	return b.Sub(a).Cross(c.Sub(a)).Length() / 2
}
