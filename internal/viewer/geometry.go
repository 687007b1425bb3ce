package viewer

import (
	"github.com/Faultbox/handroom/internal/anchor"
	"github.com/Faultbox/handroom/internal/reconcile"
	"github.com/Faultbox/handroom/internal/scene"
	"github.com/Faultbox/handroom/pkg/math"
)

// Line and point batches share one vertex layout: position + RGBA color.
const vertexStride = 7

func appendVertex(buf []float32, p math.Vec3, color [4]float32) []float32 {
	return append(buf, p.X, p.Y, p.Z, color[0], color[1], color[2], color[3])
}

func appendLine(buf []float32, a, b math.Vec3, color [4]float32) []float32 {
	buf = appendVertex(buf, a, color)
	return appendVertex(buf, b, color)
}

// gridVertices builds a square line grid on the Y=0 plane, centered at
// the origin.
func gridVertices(halfExtent, step float32, color [4]float32) []float32 {
	var buf []float32
	for d := -halfExtent; d <= halfExtent; d += step {
		buf = appendLine(buf, math.Vec3{X: d, Y: 0, Z: -halfExtent}, math.Vec3{X: d, Y: 0, Z: halfExtent}, color)
		buf = appendLine(buf, math.Vec3{X: -halfExtent, Y: 0, Z: d}, math.Vec3{X: halfExtent, Y: 0, Z: d}, color)
	}
	return buf
}

// pointVertices builds one point per entity state at its world position,
// using the entity's style color.
func pointVertices(states []scene.State) []float32 {
	var buf []float32
	for _, s := range states {
		buf = appendVertex(buf, s.Pose.Position, s.Style.Color)
	}
	return buf
}

// boneVertices builds line segments between each attached joint entity
// and its attached parent. Detached joints drop out of the skeleton
// silently, which is exactly what tracking loss should look like.
func boneVertices(model *reconcile.HandModel, root *scene.Root, color [4]float32) []float32 {
	if model == nil {
		return nil
	}
	var buf []float32
	for id := anchor.JointID(0); id < anchor.JointCount; id++ {
		parent := id.Parent()
		if parent == id {
			continue
		}
		e := model.JointEntity(id)
		pe := model.JointEntity(parent)
		if !root.Contains(e) || !root.Contains(pe) {
			continue
		}
		buf = appendLine(buf, e.Pose().Position, pe.Pose().Position, color)
	}
	return buf
}

// wireframeVertices builds triangle-edge lines for every entity state
// that carries a collision shape, transformed into world space.
func wireframeVertices(states []scene.State) []float32 {
	var buf []float32
	for _, s := range states {
		if s.Collider == nil {
			continue
		}
		for i := 0; i < s.Collider.TriangleCount(); i++ {
			a, b, c := s.Collider.Triangle(i)
			wa := s.Pose.TransformPoint(a)
			wb := s.Pose.TransformPoint(b)
			wc := s.Pose.TransformPoint(c)
			buf = appendLine(buf, wa, wb, s.Style.Color)
			buf = appendLine(buf, wb, wc, s.Style.Color)
			buf = appendLine(buf, wc, wa, s.Style.Color)
		}
	}
	return buf
}

// boxEdges returns the 12 edges of an axis-aligned box as endpoint pairs.
func boxEdges(min, max math.Vec3) [12][2]math.Vec3 {
	return [12][2]math.Vec3{
		// Bottom face
		{{X: min.X, Y: min.Y, Z: min.Z}, {X: max.X, Y: min.Y, Z: min.Z}},
		{{X: max.X, Y: min.Y, Z: min.Z}, {X: max.X, Y: min.Y, Z: max.Z}},
		{{X: max.X, Y: min.Y, Z: max.Z}, {X: min.X, Y: min.Y, Z: max.Z}},
		{{X: min.X, Y: min.Y, Z: max.Z}, {X: min.X, Y: min.Y, Z: min.Z}},
		// Top face
		{{X: min.X, Y: max.Y, Z: min.Z}, {X: max.X, Y: max.Y, Z: min.Z}},
		{{X: max.X, Y: max.Y, Z: min.Z}, {X: max.X, Y: max.Y, Z: max.Z}},
		{{X: max.X, Y: max.Y, Z: max.Z}, {X: min.X, Y: max.Y, Z: max.Z}},
		{{X: min.X, Y: max.Y, Z: max.Z}, {X: min.X, Y: max.Y, Z: min.Z}},
		// Vertical edges
		{{X: min.X, Y: min.Y, Z: min.Z}, {X: min.X, Y: max.Y, Z: min.Z}},
		{{X: max.X, Y: min.Y, Z: min.Z}, {X: max.X, Y: max.Y, Z: min.Z}},
		{{X: max.X, Y: min.Y, Z: max.Z}, {X: max.X, Y: max.Y, Z: max.Z}},
		{{X: min.X, Y: min.Y, Z: max.Z}, {X: min.X, Y: max.Y, Z: max.Z}},
	}
}

// boundsVertices builds wireframe boxes around each collider's local
// AABB, transformed by the entity pose.
func boundsVertices(states []scene.State, color [4]float32) []float32 {
	var buf []float32
	for _, s := range states {
		if s.Collider == nil {
			continue
		}
		for _, edge := range boxEdges(s.Collider.Min, s.Collider.Max) {
			buf = appendLine(buf, s.Pose.TransformPoint(edge[0]), s.Pose.TransformPoint(edge[1]), color)
		}
	}
	return buf
}
