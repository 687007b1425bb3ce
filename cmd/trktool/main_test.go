package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/handroom/internal/trk"
)

func TestRecordSynthetic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.trk")

	if err := recordSynthetic(path, 120, 100*time.Millisecond); err != nil {
		t.Fatalf("recordSynthetic failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open recording: %v", err)
	}
	defer f.Close()

	r, err := trk.NewReader(f)
	if err != nil {
		t.Fatalf("recording has invalid header: %v", err)
	}

	// The synthetic session opens with both hands and the room shell,
	// so even a short recording holds several records.
	records := 0
	for {
		if _, err := r.Next(); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			t.Fatalf("Next failed after %d records: %v", records, err)
		}
		records++
	}
	if records < 8 {
		t.Errorf("expected at least 8 records, got %d", records)
	}
}
