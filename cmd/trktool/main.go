// trktool is a CLI utility for working with .trk tracking session recordings.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Faultbox/handroom/internal/anchor"
	"github.com/Faultbox/handroom/internal/track"
	"github.com/Faultbox/handroom/internal/trk"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "dump":
		cmdDump(args)
	case "record":
		cmdRecord(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`trktool - tracking session recording utility

Usage:
  trktool <command> [options]

Commands:
  info <file.trk>                     Show recording summary
  dump <file.trk>                     Print every record
  record <file.trk> [-rate N] [-for D] Record a synthetic session

Examples:
  trktool info session.trk
  trktool dump session.trk
  trktool record demo.trk -rate 30 -for 10s`)
}

func openReader(path string) (*os.File, *trk.Reader) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	r, err := trk.NewReader(f)
	if err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return f, r
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: trktool info <file.trk>")
		os.Exit(1)
	}

	f, r := openReader(args[0])
	defer f.Close()

	var handEvents, meshEvents int
	kinds := make(map[anchor.Kind]int)
	meshIDs := make(map[uint64]struct{})
	var last float64

	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		last = rec.Time
		switch rec.Domain {
		case trk.DomainHand:
			handEvents++
			kinds[rec.Hand.Kind]++
		case trk.DomainMesh:
			meshEvents++
			kinds[rec.Mesh.Kind]++
			meshIDs[rec.Mesh.Anchor.ID] = struct{}{}
		}
	}

	ver := r.Version()
	fmt.Printf("Recording: %s\n", args[0])
	fmt.Printf("Format:    TRK %d.%d\n", ver.Major, ver.Minor)
	fmt.Printf("Duration:  %.2fs\n", last)
	fmt.Printf("Hand events: %d\n", handEvents)
	fmt.Printf("Mesh events: %d (%d distinct anchors)\n", meshEvents, len(meshIDs))
	fmt.Printf("By kind:   added=%d updated=%d removed=%d\n",
		kinds[anchor.Added], kinds[anchor.Updated], kinds[anchor.Removed])
}

func cmdDump(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: trktool dump <file.trk>")
		os.Exit(1)
	}

	f, r := openReader(args[0])
	defer f.Close()

	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		switch rec.Domain {
		case trk.DomainHand:
			h := rec.Hand.Anchor
			fmt.Printf("%8.3fs hand %-7s %-5s tracked=%-5v joints=%d\n",
				rec.Time, rec.Hand.Kind, h.Chirality, h.Tracked, len(h.Skeleton))
		case trk.DomainMesh:
			m := rec.Mesh.Anchor
			fmt.Printf("%8.3fs mesh %-7s id=%d vertices=%d triangles=%d\n",
				rec.Time, rec.Mesh.Kind, m.ID, m.Geometry.VertexCount(), m.Geometry.TriangleCount())
		}
	}
}

func cmdRecord(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: trktool record <file.trk> [-rate N] [-for D]")
		os.Exit(1)
	}
	path := args[0]

	fs := flag.NewFlagSet("record", flag.ExitOnError)
	rate := fs.Float64("rate", 30, "synthetic emit rate in Hz")
	dur := fs.Duration("for", 10*time.Second, "recording length")
	fs.Parse(args[1:])

	if err := recordSynthetic(path, *rate, *dur); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Recorded %s of synthetic session to %s\n", *dur, path)
}

// recordSynthetic captures a synthetic session of length dur to path.
// The run's own deadline is the normal stop condition; any other source
// or writer error is reported.
func recordSynthetic(path string, rate float64, dur time.Duration) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := trk.NewWriter(f)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), dur)
	defer cancel()

	src := track.NewSynthetic(rate)
	srcErr := make(chan error, 1)
	go func() {
		srcErr <- src.Run(ctx)
	}()

	if err := track.Record(ctx, src, w); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if err := <-srcErr; err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return w.Flush()
}
