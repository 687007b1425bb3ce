package track

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/handroom/internal/anchor"
	"github.com/Faultbox/handroom/internal/trk"
	"github.com/Faultbox/handroom/pkg/math"
)

func TestSyntheticOpensWithAddsForBothDomains(t *testing.T) {
	src := NewSynthetic(60)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- src.Run(ctx) }()

	// Both hands announced first.
	seen := map[anchor.Chirality]bool{}
	for i := 0; i < 2; i++ {
		select {
		case ev := <-src.Hands():
			if ev.Kind != anchor.Added {
				t.Fatalf("expected added, got %v", ev.Kind)
			}
			seen[ev.Anchor.Chirality] = true
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for hand added events")
		}
	}
	if !seen[anchor.Left] || !seen[anchor.Right] {
		t.Errorf("expected both chiralities announced, got %v", seen)
	}

	// Room shell patches follow.
	patches := 0
	timeout := time.After(time.Second)
	for patches < 6 {
		select {
		case ev := <-src.Meshes():
			if ev.Kind != anchor.Added {
				t.Fatalf("expected mesh added, got %v", ev.Kind)
			}
			if ev.Anchor.Geometry.IsEmpty() {
				t.Error("room patch has empty geometry")
			}
			patches++
		case <-timeout:
			t.Fatalf("timed out: got %d of 6 room patches", patches)
		}
	}

	// Then periodic hand updates.
	select {
	case ev := <-src.Hands():
		if ev.Kind != anchor.Updated {
			t.Fatalf("expected updated after session open, got %v", ev.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for hand update")
	}

	cancel()
	if err := <-errc; err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestWavingHandDropout(t *testing.T) {
	// Inside the dropout window the hand is untracked with no skeleton.
	h := wavingHand(anchor.Left, 0.1)
	if h.Tracked || h.Skeleton != nil {
		t.Error("expected untracked skeleton-less hand during dropout")
	}

	// Outside the window the full skeleton is present.
	h = wavingHand(anchor.Left, dropFor+1)
	if !h.Tracked {
		t.Error("expected tracked hand outside dropout window")
	}
	if len(h.Skeleton) != int(anchor.JointCount) {
		t.Errorf("skeleton has %d joints, want %d", len(h.Skeleton), anchor.JointCount)
	}

	// The two hands drop at different times.
	r := wavingHand(anchor.Right, 0.1)
	if !r.Tracked {
		t.Error("right hand should not drop together with left")
	}
}

func TestReplayDeliversRecordedEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.trk")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating recording: %v", err)
	}
	w, err := trk.NewWriter(f)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	handEv := anchor.Event[anchor.Hand]{
		Kind:   anchor.Added,
		Anchor: anchor.Hand{Chirality: anchor.Left},
	}
	meshEv := anchor.Event[anchor.Mesh]{
		Kind: anchor.Added,
		Anchor: anchor.Mesh{
			ID:     5,
			Origin: math.TransformIdentity(),
			Geometry: anchor.MeshGeometry{
				Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
				Indices:  []uint32{0, 1, 2},
			},
		},
	}
	if err := w.WriteHand(0, handEv); err != nil {
		t.Fatalf("WriteHand failed: %v", err)
	}
	if err := w.WriteMesh(0.01, meshEv); err != nil {
		t.Fatalf("WriteMesh failed: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	f.Close()

	src := NewReplay(path, false, false)
	errc := make(chan error, 1)
	go func() { errc <- src.Run(context.Background()) }()

	select {
	case ev := <-src.Hands():
		if ev.Kind != anchor.Added || ev.Anchor.Chirality != anchor.Left {
			t.Errorf("unexpected hand event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for replayed hand event")
	}
	select {
	case ev := <-src.Meshes():
		if ev.Anchor.ID != 5 {
			t.Errorf("unexpected mesh event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for replayed mesh event")
	}

	if err := <-errc; err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Channels are closed after a non-looping replay ends.
	if _, ok := <-src.Hands(); ok {
		t.Error("hand stream should be closed after replay")
	}
}

func TestReplayMissingFile(t *testing.T) {
	src := NewReplay("/nonexistent/session.trk", false, false)
	if err := src.Run(context.Background()); err == nil {
		t.Error("expected error for missing recording")
	}
}

func TestFeedReceivesStreamedSession(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	defer ln.Close()

	// Bridge side: stream a TRK session and close.
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		w, err := trk.NewWriter(conn)
		if err != nil {
			return
		}
		w.WriteHand(0, anchor.Event[anchor.Hand]{
			Kind:   anchor.Added,
			Anchor: anchor.Hand{Chirality: anchor.Right},
		})
		w.Flush()
	}()

	src := NewFeed(ln.Addr().String(), time.Second)
	errc := make(chan error, 1)
	go func() { errc <- src.Run(context.Background()) }()

	select {
	case ev := <-src.Hands():
		if ev.Anchor.Chirality != anchor.Right {
			t.Errorf("unexpected event: %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for feed event")
	}

	// Bridge disconnect ends the stream cleanly.
	if err := <-errc; err != nil {
		t.Errorf("Run returned error on clean disconnect: %v", err)
	}
}

func TestFeedConnectFailure(t *testing.T) {
	src := NewFeed("127.0.0.1:1", 200*time.Millisecond)
	if err := src.Run(context.Background()); err == nil {
		t.Error("expected connection error")
	}
}
