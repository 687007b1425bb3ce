package track

import (
	"context"
	gomath "math"
	"time"

	"github.com/Faultbox/handroom/internal/anchor"
	"github.com/Faultbox/handroom/pkg/math"
)

// Synthetic generates plausible hand and room data so the app runs with
// no tracking hardware and no recording: two hands waving in front of
// the viewer, a room shell of surface patches, and periodic tracking
// dropouts to exercise detach paths.
type Synthetic struct {
	streams
	rate time.Duration
}

// dropout cadence: each hand goes untracked for dropFor out of every
// dropEvery seconds, offset so both hands never drop together.
const (
	dropEvery = 9.0
	dropFor   = 1.5
)

// NewSynthetic creates a generator emitting at rateHz (clamped to at
// least 1 Hz).
func NewSynthetic(rateHz float64) *Synthetic {
	if rateHz < 1 {
		rateHz = 1
	}
	return &Synthetic{
		streams: newStreams(),
		rate:    time.Duration(float64(time.Second) / rateHz),
	}
}

// Run emits events until ctx is cancelled.
func (s *Synthetic) Run(ctx context.Context) error {
	defer s.close()

	// Session opens with both hands and the room shell announced.
	for c := anchor.Chirality(0); c < anchor.NumChiralities; c++ {
		if !s.sendHand(ctx, anchor.Event[anchor.Hand]{Kind: anchor.Added, Anchor: anchor.Hand{Chirality: c}}) {
			return ctx.Err()
		}
	}
	for _, patch := range roomShell() {
		if !s.sendMesh(ctx, anchor.Event[anchor.Mesh]{Kind: anchor.Added, Anchor: patch}) {
			return ctx.Err()
		}
	}

	ticker := time.NewTicker(s.rate)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			t := now.Sub(start).Seconds()
			for c := anchor.Chirality(0); c < anchor.NumChiralities; c++ {
				if !s.sendHand(ctx, anchor.Event[anchor.Hand]{Kind: anchor.Updated, Anchor: wavingHand(c, t)}) {
					return ctx.Err()
				}
			}
		}
	}
}

// wavingHand builds the hand pose at time t. The dropout window zeroes
// the tracked flag so reconcilers see transient loss.
func wavingHand(c anchor.Chirality, t float64) anchor.Hand {
	phase := 0.0
	side := float32(-1)
	if c == anchor.Right {
		phase = dropEvery / 2
		side = 1
	}

	h := anchor.Hand{
		Chirality: c,
		Origin: math.Transform{
			Position: math.Vec3{
				X: side * 0.25,
				Y: 1.1 + 0.05*float32(gomath.Sin(t*1.3)),
				Z: -0.4,
			},
			Rotation: math.QuatFromAxisAngle(math.Vec3{Z: 1}, 0.4*float32(gomath.Sin(t*2.1))),
		},
	}

	if cycle := gomath.Mod(t+phase, dropEvery); cycle < dropFor {
		// Tracking lost: no skeleton either.
		return h
	}
	h.Tracked = true

	curl := 0.5 + 0.5*float32(gomath.Sin(t*2.1)) // 0..1 finger curl
	h.Skeleton = make([]anchor.Joint, anchor.JointCount)
	for id := anchor.JointID(0); id < anchor.JointCount; id++ {
		h.Skeleton[id] = anchor.Joint{Local: jointPose(id, curl), Tracked: true}
	}

	// The little finger flickers out of tracking near full curl,
	// independently of the rest of the hand.
	if curl > 0.9 {
		h.Skeleton[anchor.LittleTip].Tracked = false
		h.Skeleton[anchor.LittleIntermediateTip].Tracked = false
	}
	return h
}

// fingerBases positions each digit's first joint relative to the wrist.
var fingerBases = map[anchor.JointID]math.Vec3{
	anchor.ThumbKnuckle:     {X: 0.03, Y: 0, Z: -0.02},
	anchor.IndexMetacarpal:  {X: 0.02, Y: 0, Z: -0.04},
	anchor.MiddleMetacarpal: {X: 0.005, Y: 0, Z: -0.045},
	anchor.RingMetacarpal:   {X: -0.01, Y: 0, Z: -0.04},
	anchor.LittleMetacarpal: {X: -0.025, Y: 0, Z: -0.035},
}

// jointPose lays out a schematic hand: digits fan out from the wrist
// and curl toward the palm as curl approaches 1.
func jointPose(id anchor.JointID, curl float32) math.Transform {
	switch id {
	case anchor.Wrist:
		return math.TransformIdentity()
	case anchor.ForearmWrist:
		return math.Transform{Position: math.Vec3{Z: 0.05}, Rotation: math.QuatIdentity()}
	case anchor.ForearmArm:
		return math.Transform{Position: math.Vec3{Z: 0.2}, Rotation: math.QuatIdentity()}
	}

	// Walk up the parent chain to find the digit base and the depth
	// along the digit.
	depth := 0
	base := id
	for base.Parent() != anchor.Wrist {
		base = base.Parent()
		depth++
	}

	origin, ok := fingerBases[base]
	if !ok {
		return math.TransformIdentity()
	}

	// Each segment extends away from the palm and bends with curl.
	segment := float32(0.025)
	bend := curl * 0.9 * float32(depth)
	pos := origin.Add(math.Vec3{
		Y: segment * float32(depth) * float32(gomath.Sin(float64(bend))) * -0.5,
		Z: -segment * float32(depth) * float32(gomath.Cos(float64(bend))),
	})
	return math.Transform{
		Position: pos,
		Rotation: math.QuatFromAxisAngle(math.Vec3{X: 1}, bend),
	}
}

// roomShell builds the reconstructed-room patches: a floor, a ceiling,
// and four walls, each a single quad patch.
func roomShell() []anchor.Mesh {
	const (
		w = 4.0 // room width (X)
		d = 4.0 // room depth (Z)
		h = 2.6 // room height (Y)
	)

	quad := func(id uint64, origin math.Vec3, rot math.Quat, sx, sy float32) anchor.Mesh {
		return anchor.Mesh{
			ID:     id,
			Origin: math.Transform{Position: origin, Rotation: rot},
			Geometry: anchor.MeshGeometry{
				Vertices: []float32{
					-sx / 2, 0, -sy / 2,
					sx / 2, 0, -sy / 2,
					sx / 2, 0, sy / 2,
					-sx / 2, 0, sy / 2,
				},
				Indices: []uint32{0, 1, 2, 0, 2, 3},
			},
		}
	}

	halfPi := float32(gomath.Pi / 2)
	return []anchor.Mesh{
		quad(1, math.Vec3{Y: 0}, math.QuatIdentity(), w, d),                                             // floor
		quad(2, math.Vec3{Y: h}, math.QuatFromAxisAngle(math.Vec3{X: 1}, 2*halfPi), w, d),               // ceiling
		quad(3, math.Vec3{Y: h / 2, Z: -d / 2}, math.QuatFromAxisAngle(math.Vec3{X: 1}, halfPi), w, h),  // back
		quad(4, math.Vec3{Y: h / 2, Z: d / 2}, math.QuatFromAxisAngle(math.Vec3{X: 1}, -halfPi), w, h),  // front
		quad(5, math.Vec3{X: -w / 2, Y: h / 2}, math.QuatFromAxisAngle(math.Vec3{Z: 1}, -halfPi), h, d), // left
		quad(6, math.Vec3{X: w / 2, Y: h / 2}, math.QuatFromAxisAngle(math.Vec3{Z: 1}, halfPi), h, d),   // right
	}
}
