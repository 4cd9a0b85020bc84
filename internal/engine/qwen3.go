package engine

import "context"

// Qwen3 is a streaming clone-capable engine. Spec §4.5/§4.7: Qwen3
// clone/custom currently supports incremental streaming, and it is not
// named among the engines requiring the internal serialization lock.
type Qwen3 struct {
	*baseAdapter
}

// NewQwen3 constructs a Qwen3 adapter backed by runner.
func NewQwen3(scratchDir string, runner EngineRunner) *Qwen3 {
	return &Qwen3{baseAdapter: newBaseAdapter("qwen3", "qwen3", scratchDir, runner, false)}
}

func (q *Qwen3) Generate(ctx context.Context, text string, params Params) (string, error) {
	return q.generate(ctx, text, params)
}

func (q *Qwen3) Stream(ctx context.Context, text string, params Params) (<-chan PCMFrame, error) {
	return q.stream(ctx, text, params)
}

func (q *Qwen3) SaveVoice(name string, audioBytes []byte, transcript string) (VoiceInfo, error) {
	return q.saveVoice(name, audioBytes, transcript)
}

func (q *Qwen3) ListVoices() ([]VoiceInfo, error) {
	return q.listVoices()
}
