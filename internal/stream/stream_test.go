package stream

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/mimikastudio/orchestrator/internal/engine"
)

type nopFlusher struct{ flushed int }

func (n *nopFlusher) Flush() { n.flushed++ }

func TestPipe_WritesPCM16Samples(t *testing.T) {
	frames := make(chan engine.PCMFrame, 2)
	frames <- engine.PCMFrame{Samples: []float32{0, 0.5, -0.5, 1, -1}}
	frames <- engine.PCMFrame{Samples: []float32{0.25}, FinalFrame: true}
	close(frames)

	var buf bytes.Buffer
	flusher := &nopFlusher{}

	n, err := Pipe(&buf, flusher, frames, 1.0)
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	if n != 6 {
		t.Errorf("samples written = %d, want 6", n)
	}
	if buf.Len() != 12 {
		t.Errorf("bytes written = %d, want 12 (6 samples * 2 bytes)", buf.Len())
	}
	if flusher.flushed != 2 {
		t.Errorf("flush count = %d, want 2 (one per frame)", flusher.flushed)
	}

	var v int16
	if err := binary.Read(bytes.NewReader(buf.Bytes()[2:4]), binary.LittleEndian, &v); err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if v <= 0 {
		t.Errorf("second sample (0.5) decoded as %d, want positive", v)
	}
}

func TestPipe_EmptyGenerationIsError(t *testing.T) {
	frames := make(chan engine.PCMFrame)
	close(frames)

	var buf bytes.Buffer
	_, err := Pipe(&buf, nil, frames, 1.0)
	if err != ErrEmptyGeneration {
		t.Errorf("Pipe(empty) error = %v, want ErrEmptyGeneration", err)
	}
}

func TestPipe_SpeedScalingShortensOutput(t *testing.T) {
	samples := make([]float32, 2400)
	frames := make(chan engine.PCMFrame, 1)
	frames <- engine.PCMFrame{Samples: samples, FinalFrame: true}
	close(frames)

	var buf bytes.Buffer
	n, err := Pipe(&buf, nil, frames, 2.0)
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	if n >= len(samples) {
		t.Errorf("samples written at 2x speed = %d, want fewer than %d", n, len(samples))
	}
}

func TestSession_ReleaseRemovesScratchFileAndCancels(t *testing.T) {
	dir := t.TempDir()
	scratch := filepath.Join(dir, "scratch.wav")
	if err := os.WriteFile(scratch, []byte("x"), 0o644); err != nil {
		t.Fatalf("write scratch file: %v", err)
	}

	cancelled := false
	sess := Session{
		Cancel:      func() { cancelled = true },
		ScratchPath: scratch,
	}
	sess.Release()

	if !cancelled {
		t.Error("Release did not call Cancel")
	}
	if _, err := os.Stat(scratch); !os.IsNotExist(err) {
		t.Error("Release did not remove the scratch file")
	}
}
