// Package track supplies anchor event streams: a synthetic generator, a
// session-recording replayer, and a TCP feed client. Every source emits
// ordered events on two independent channels, one per tracked-entity
// domain, and closes them when the stream ends.
package track

import (
	"context"

	"github.com/Faultbox/handroom/internal/anchor"
)

// channel buffer per stream; reconcilers normally drain faster than
// sources emit, the buffer just absorbs frame jitter.
const streamBuffer = 64

// Source produces the two anchor streams the reconcilers consume.
// Run blocks until the stream ends or ctx is cancelled, and closes both
// channels before returning. A Source is not restartable.
type Source interface {
	Hands() <-chan anchor.Event[anchor.Hand]
	Meshes() <-chan anchor.Event[anchor.Mesh]
	Run(ctx context.Context) error
}

// streams is the channel pair every source embeds.
type streams struct {
	hands  chan anchor.Event[anchor.Hand]
	meshes chan anchor.Event[anchor.Mesh]
}

func newStreams() streams {
	return streams{
		hands:  make(chan anchor.Event[anchor.Hand], streamBuffer),
		meshes: make(chan anchor.Event[anchor.Mesh], streamBuffer),
	}
}

// Hands returns the hand anchor stream.
func (s *streams) Hands() <-chan anchor.Event[anchor.Hand] {
	return s.hands
}

// Meshes returns the mesh anchor stream.
func (s *streams) Meshes() <-chan anchor.Event[anchor.Mesh] {
	return s.meshes
}

func (s *streams) close() {
	close(s.hands)
	close(s.meshes)
}

// sendHand delivers an event unless ctx is cancelled first.
func (s *streams) sendHand(ctx context.Context, ev anchor.Event[anchor.Hand]) bool {
	select {
	case s.hands <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *streams) sendMesh(ctx context.Context, ev anchor.Event[anchor.Mesh]) bool {
	select {
	case s.meshes <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
