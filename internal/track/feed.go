package track

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/Faultbox/handroom/internal/trk"
)

// Feed consumes live anchor events from a TCP tracking bridge. The
// wire protocol is simply a TRK session streamed over the connection:
// header first, then records until the bridge closes the socket.
// Reconnecting is the caller's concern; a dropped connection ends the
// streams.
type Feed struct {
	streams
	addr    string
	timeout time.Duration
}

// NewFeed creates a client for the bridge at addr ("host:port").
func NewFeed(addr string, connectTimeout time.Duration) *Feed {
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	return &Feed{
		streams: newStreams(),
		addr:    addr,
		timeout: connectTimeout,
	}
}

// Run connects and relays records until the bridge disconnects or ctx
// is cancelled.
func (f *Feed) Run(ctx context.Context) error {
	defer f.close()

	dialer := net.Dialer{Timeout: f.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", f.addr)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", f.addr, err)
	}
	defer conn.Close()

	// Unblock the blocking read when ctx is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	reader, err := trk.NewReader(conn)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("feed handshake with %s: %w", f.addr, err)
	}

	for {
		rec, err := reader.Next()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err == io.EOF || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("feed from %s: %w", f.addr, err)
		}

		switch rec.Domain {
		case trk.DomainHand:
			if !f.sendHand(ctx, rec.Hand) {
				return ctx.Err()
			}
		case trk.DomainMesh:
			if !f.sendMesh(ctx, rec.Mesh) {
				return ctx.Err()
			}
		}
	}
}

var _ Source = (*Feed)(nil)
