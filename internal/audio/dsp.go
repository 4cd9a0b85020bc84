package audio

import "math"

// PeakNormalize scales samples so the peak amplitude reaches 1.0. Silence
// (all-zero input) is returned unchanged.
func PeakNormalize(samples []float32) []float32 {
	var peak float32
	for _, v := range samples {
		if a := float32(math.Abs(float64(v))); a > peak {
			peak = a
		}
	}

	if peak == 0 {
		return samples
	}

	scale := 1.0 / peak
	for i, v := range samples {
		samples[i] = v * scale
	}

	return samples
}

// dcBlockCutoffHz is the high-pass cutoff used by DCBlock, chosen well
// below any audible content so only true DC offset is removed.
const dcBlockCutoffHz = 20.0

// DCBlock removes DC offset from samples using a one-pole high-pass filter
// (y[n] = x[n] - x[n-1] + R*y[n-1]) with a cutoff derived from sampleRate
// so behavior is consistent across sample rates.
func DCBlock(samples []float32, sampleRate int) []float32 {
	if len(samples) == 0 || sampleRate <= 0 {
		return samples
	}

	r := 1.0 - 2*math.Pi*dcBlockCutoffHz/float64(sampleRate)

	var prevX, prevY float64
	for i, v := range samples {
		x := float64(v)
		y := x - prevX + r*prevY
		samples[i] = float32(y)
		prevX, prevY = x, y
	}

	return samples
}

// FadeIn applies a linear fade-in ramp over the given duration in
// milliseconds, leaving samples after the ramp unmodified.
func FadeIn(samples []float32, sampleRate int, ms float64) []float32 {
	n := fadeSampleCount(sampleRate, ms, len(samples))
	for i := 0; i < n; i++ {
		factor := float32(i) / float32(n)
		samples[i] *= factor
	}

	return samples
}

// FadeOut applies a linear fade-out ramp over the given duration in
// milliseconds, leaving samples before the ramp unmodified.
func FadeOut(samples []float32, sampleRate int, ms float64) []float32 {
	n := fadeSampleCount(sampleRate, ms, len(samples))
	start := len(samples) - n

	for i := start; i < len(samples); i++ {
		offset := i - start
		factor := 1 - float32(offset+1)/float32(n)
		samples[i] *= factor
	}

	return samples
}

func fadeSampleCount(sampleRate int, ms float64, total int) int {
	n := int(ms / 1000.0 * float64(sampleRate))
	if n <= 0 {
		return 0
	}
	if n > total {
		return total
	}

	return n
}
