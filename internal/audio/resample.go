package audio

import "math"

// Resample converts samples from fromSR to toSR using linear interpolation.
// If fromSR equals toSR, or the input is empty, samples is returned
// unchanged (spec §4.2 C2 Audio Stitcher).
func Resample(samples []float32, fromSR, toSR int) []float32 {
	if fromSR <= 0 || toSR <= 0 || fromSR == toSR || len(samples) == 0 {
		return samples
	}

	ratio := float64(toSR) / float64(fromSR)
	outLen := int(math.Round(float64(len(samples)) * ratio))
	if outLen <= 0 {
		return nil
	}

	out := make([]float32, outLen)
	last := len(samples) - 1

	for i := range out {
		srcPos := float64(i) / ratio
		i0 := int(math.Floor(srcPos))
		frac := float32(srcPos - float64(i0))

		s0 := sampleAt(samples, i0, last)
		s1 := sampleAt(samples, i0+1, last)

		out[i] = s0 + frac*(s1-s0)
	}

	return out
}

func sampleAt(samples []float32, i, last int) float32 {
	switch {
	case i < 0:
		return samples[0]
	case i > last:
		return samples[last]
	default:
		return samples[i]
	}
}
