package audio

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/cwbudde/wav"
)

// DecodeWAVAny decodes WAV bytes of any sample rate, channel count, or bit
// depth, returning interleaved float32 PCM samples alongside the source
// format. Unlike DecodeWAV it performs no format validation, since voice
// uploads (spec §4.3) arrive in arbitrary formats and are normalized by the
// caller via downmix + Resample + EncodeWAV.
func DecodeWAVAny(data []byte) (samples []float32, sampleRate, channels int, err error) {
	if len(data) == 0 {
		return nil, 0, 0, errors.New("empty WAV input")
	}

	r := bytes.NewReader(data)
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, 0, errors.New("invalid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("reading PCM data: %w", err)
	}

	return buf.Data, dec.SampleRate, dec.NumChans, nil
}

// Downmix averages interleaved multi-channel samples down to mono. Already
// mono input is returned unchanged.
func Downmix(samples []float32, channels int) []float32 {
	if channels <= 1 || len(samples) == 0 {
		return samples
	}

	frames := len(samples) / channels
	out := make([]float32, frames)

	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += samples[i*channels+c]
		}
		out[i] = sum / float32(channels)
	}

	return out
}
