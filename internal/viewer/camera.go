package viewer

import (
	gomath "math"

	"github.com/Faultbox/handroom/pkg/math"
)

// OrbitCamera orbits around a center point. Units are meters, matching
// the tracking data, so defaults are tuned for a room-scale scene.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera looking at standing-hand height.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Center:          math.Vec3{X: 0, Y: 1.2, Z: 0},
		Distance:        2.5,
		RotationX:       0.35,
		RotationY:       0.0,
		MinDistance:     0.2,
		MaxDistance:     15.0,
		MinPitch:        -1.4,
		MaxPitch:        1.4,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return math.Vec3{
		X: c.Center.X + x,
		Y: c.Center.Y + y,
		Z: c.Center.Z + z,
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	pos := c.Position()
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(pos, c.Center, up)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	// Clamp pitch
	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// HandlePan moves the center point in the camera's screen plane.
func (c *OrbitCamera) HandlePan(deltaX, deltaY float32) {
	// Speed scales with distance for consistent feel
	speed := c.Distance * 0.002

	rightX := float32(gomath.Cos(float64(c.RotationY)))
	rightZ := float32(-gomath.Sin(float64(c.RotationY)))

	c.Center.X += -deltaX * rightX * speed
	c.Center.Z += -deltaX * rightZ * speed
	c.Center.Y += deltaY * speed
}
