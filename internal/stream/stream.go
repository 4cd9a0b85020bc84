// Package stream implements the C7 streaming pipeline: wrapping an
// adapter's lazy, finite PCM frame sequence in a framed HTTP response
// body (spec §4.7).
package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"

	"github.com/mimikastudio/orchestrator/internal/audio"
	"github.com/mimikastudio/orchestrator/internal/engine"
)

const (
	// SampleRate is the fixed streaming output rate (spec §4.7: "24 kHz").
	SampleRate = 24000
	// Channels is the fixed streaming channel count (spec §4.7: mono).
	Channels = 1
	// ContentType is the advisory MIME type for raw PCM L16 streaming.
	ContentType = "audio/L16; rate=24000; channels=1"
)

// ErrEmptyGeneration is returned when an adapter's frame sequence yields
// no samples at all (spec §4.7: "Empty generation is an error").
var ErrEmptyGeneration = errors.New("stream: generation produced no audio")

// SetHeaders sets the content type and the advisory audio headers on w,
// grounded on the teacher's "audio/wav"+"Transfer-Encoding: chunked"
// streaming response in handleTTSStream, generalized to raw PCM framing.
func SetHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("X-Audio-Format", "pcm_s16le")
	w.Header().Set("X-Audio-Sample-Rate", fmt.Sprintf("%d", SampleRate))
	w.Header().Set("X-Audio-Channels", fmt.Sprintf("%d", Channels))
	w.Header().Set("Transfer-Encoding", "chunked")
}

// Pipe drains frames, applying speed-scaling resample to each chunk when
// speed != 1.0, and writes each as little-endian PCM16 to w, flushing
// after every chunk (spec §4.7). It returns the number of samples
// written, or ErrEmptyGeneration if the sequence ended without ever
// producing a sample. The caller is responsible for cancelling the
// context that produces frames on client disconnect; Pipe itself simply
// stops draining once frames closes or w's underlying write fails.
func Pipe(w io.Writer, flusher http.Flusher, frames <-chan engine.PCMFrame, speed float64) (int, error) {
	var total int

	for frame := range frames {
		samples := frame.Samples
		if speed > 0 && speed != 1.0 {
			targetSR := int(math.Round(float64(SampleRate) / speed))
			samples = audio.Resample(samples, SampleRate, targetSR)
		}

		if len(samples) == 0 {
			continue
		}

		if err := writePCM16(w, samples); err != nil {
			return total, fmt.Errorf("stream: write chunk: %w", err)
		}
		total += len(samples)

		if flusher != nil {
			flusher.Flush()
		}
	}

	if total == 0 {
		return 0, ErrEmptyGeneration
	}

	return total, nil
}

// writePCM16 encodes float32 samples (range [-1, 1]) as little-endian
// signed 16-bit PCM.
func writePCM16(w io.Writer, samples []float32) error {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		v := int16(clampSample(s) * 32767)
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(v))
	}
	_, err := w.Write(buf)
	return err
}

func clampSample(s float32) float32 {
	switch {
	case s > 1:
		return 1
	case s < -1:
		return -1
	default:
		return s
	}
}
