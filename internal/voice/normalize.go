package voice

import (
	"fmt"

	"github.com/mimikastudio/orchestrator/internal/audio"
)

// normalizeUpload decodes raw audio of any format, down-mixes to mono,
// resamples to 24 kHz, and re-encodes as 16-bit PCM WAV (spec §4.3 "on
// upload, audio is decoded, down-mixed to mono, resampled to 24 kHz, and
// written as 16-bit PCM WAV").
func normalizeUpload(raw []byte) ([]byte, error) {
	samples, sampleRate, channels, err := audio.DecodeWAVAny(raw)
	if err != nil {
		return nil, fmt.Errorf("decode upload: %w", err)
	}

	mono := audio.Downmix(samples, channels)
	mono = audio.DCBlock(mono, sampleRate)
	resampled := audio.Resample(mono, sampleRate, audio.ExpectedSampleRate)
	normalized := audio.PeakNormalize(resampled)

	encoded, err := audio.EncodeWAV(normalized)
	if err != nil {
		return nil, fmt.Errorf("encode normalized voice: %w", err)
	}

	return encoded, nil
}
