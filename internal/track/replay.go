package track

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Faultbox/handroom/internal/trk"
)

// Replay plays back a recorded tracking session from a TRK file,
// pacing events by their capture timestamps.
type Replay struct {
	streams
	path  string
	paced bool
	loop  bool
}

// NewReplay creates a replayer for path. When paced is false, events
// are delivered as fast as the reconcilers consume them. When loop is
// true, playback restarts at end of file until cancelled.
func NewReplay(path string, paced, loop bool) *Replay {
	return &Replay{
		streams: newStreams(),
		path:    path,
		paced:   paced,
		loop:    loop,
	}
}

// Run plays the recording until end of file (or forever when looping)
// or until ctx is cancelled.
func (r *Replay) Run(ctx context.Context) error {
	defer r.close()

	for {
		if err := r.playOnce(ctx); err != nil {
			return err
		}
		if !r.loop {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

func (r *Replay) playOnce(ctx context.Context) error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("opening recording: %w", err)
	}
	defer f.Close()

	reader, err := trk.NewReader(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", r.path, err)
	}

	start := time.Now()
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", r.path, err)
		}

		if r.paced {
			due := start.Add(time.Duration(rec.Time * float64(time.Second)))
			if wait := time.Until(due); wait > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(wait):
				}
			}
		}

		switch rec.Domain {
		case trk.DomainHand:
			if !r.sendHand(ctx, rec.Hand) {
				return ctx.Err()
			}
		case trk.DomainMesh:
			if !r.sendMesh(ctx, rec.Mesh) {
				return ctx.Err()
			}
		}
	}
}

// Record captures a source's output to a TRK writer until the source's
// streams close or ctx is cancelled. It is the inverse of Replay, used
// by the recording tool.
func Record(ctx context.Context, src Source, w *trk.Writer) error {
	start := time.Now()
	hands, meshes := src.Hands(), src.Meshes()

	for hands != nil || meshes != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-hands:
			if !ok {
				hands = nil
				continue
			}
			if err := w.WriteHand(time.Since(start).Seconds(), ev); err != nil {
				return err
			}
		case ev, ok := <-meshes:
			if !ok {
				meshes = nil
				continue
			}
			if err := w.WriteMesh(time.Since(start).Seconds(), ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// compile-time interface checks
var (
	_ Source = (*Replay)(nil)
	_ Source = (*Synthetic)(nil)
)
