package audio

import "fmt"

// Merge concatenates chunks into a single buffer. If crossfadeMs is 0, the
// chunks are simply concatenated. Otherwise each adjacent pair is blended
// over an overlap of min(crossfade_ms*sr/1000, len(a), len(b)) samples with
// a linear equal-power ramp, so total output duration equals the sum of
// chunk durations minus the sum of overlaps (spec §4.2 C2 Audio Stitcher).
func Merge(chunks [][]float32, sr int, crossfadeMs float64) ([]float32, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no audio generated")
	}

	if crossfadeMs == 0 {
		return concatenate(chunks), nil
	}

	result := append([]float32{}, chunks[0]...)

	for _, next := range chunks[1:] {
		overlap := crossfadeOverlap(crossfadeMs, sr, len(result), len(next))
		if overlap == 0 {
			result = append(result, next...)
			continue
		}
		overlapMs := float64(overlap) / float64(sr) * 1000.0

		tailStart := len(result) - overlap
		tail := FadeOut(append([]float32{}, result[tailStart:]...), sr, overlapMs)
		head := FadeIn(append([]float32{}, next[:overlap]...), sr, overlapMs)

		for i := 0; i < overlap; i++ {
			result[tailStart+i] = tail[i] + head[i]
		}

		result = append(result, next[overlap:]...)
	}

	return result, nil
}

func crossfadeOverlap(crossfadeMs float64, sr, lenA, lenB int) int {
	n := int(crossfadeMs / 1000.0 * float64(sr))
	if n < 0 {
		n = 0
	}
	if n > lenA {
		n = lenA
	}
	if n > lenB {
		n = lenB
	}

	return n
}

func concatenate(chunks [][]float32) []float32 {
	total := 0
	for _, c := range chunks {
		total += len(c)
	}

	out := make([]float32, 0, total)
	for _, c := range chunks {
		out = append(out, c...)
	}

	return out
}
