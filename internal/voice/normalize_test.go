package voice

import (
	"math"
	"testing"

	"github.com/mimikastudio/orchestrator/internal/audio"
)

func TestNormalizeUpload_RemovesDCOffsetAndNormalizesPeak(t *testing.T) {
	const n = audio.ExpectedSampleRate // 1 second

	samples := make([]float32, n)
	for i := range samples {
		samples[i] = 0.5 + 0.1*float32(math.Sin(2*math.Pi*440*float64(i)/float64(audio.ExpectedSampleRate)))
	}

	raw, err := audio.EncodeWAV(samples)
	if err != nil {
		t.Fatalf("encode input WAV: %v", err)
	}

	out, err := normalizeUpload(raw)
	if err != nil {
		t.Fatalf("normalizeUpload: %v", err)
	}

	decoded, sampleRate, channels, err := audio.DecodeWAVAny(out)
	if err != nil {
		t.Fatalf("decode normalized WAV: %v", err)
	}
	if sampleRate != audio.ExpectedSampleRate {
		t.Errorf("sample rate = %d, want %d", sampleRate, audio.ExpectedSampleRate)
	}
	if channels != 1 {
		t.Errorf("channels = %d, want 1", channels)
	}

	var sum float64
	var peak float32
	for _, v := range decoded {
		sum += float64(v)
		if a := float32(math.Abs(float64(v))); a > peak {
			peak = a
		}
	}
	mean := sum / float64(len(decoded))

	if math.Abs(mean) > 0.02 {
		t.Errorf("mean after normalize = %f, want near 0 (DC offset removed)", mean)
	}
	if math.Abs(float64(peak)-1.0) > 0.05 {
		t.Errorf("peak after normalize = %f, want ~1.0", peak)
	}
}
