package engine

import "context"

// Kokoro is a preset-speaker TTS engine with no cloning support. Spec §4.5
// names it as requiring the internal serialization lock.
type Kokoro struct {
	*baseAdapter
}

// NewKokoro constructs a Kokoro adapter backed by runner.
func NewKokoro(scratchDir string, runner EngineRunner) *Kokoro {
	return &Kokoro{baseAdapter: newBaseAdapter("kokoro", "kokoro", scratchDir, runner, true)}
}

func (k *Kokoro) Generate(ctx context.Context, text string, params Params) (string, error) {
	return k.generate(ctx, text, params)
}
