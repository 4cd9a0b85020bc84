package engine

import "context"

// IndexTTS2 is a clone-capable engine that loads through a pip environment
// rather than the hub cache. It is not named among the engines requiring
// the internal serialization lock (spec §4.4, §4.5).
type IndexTTS2 struct {
	*baseAdapter
}

// NewIndexTTS2 constructs an IndexTTS2 adapter backed by runner.
func NewIndexTTS2(scratchDir string, runner EngineRunner) *IndexTTS2 {
	return &IndexTTS2{baseAdapter: newBaseAdapter("indextts2", "indextts2", scratchDir, runner, false)}
}

func (i *IndexTTS2) Generate(ctx context.Context, text string, params Params) (string, error) {
	return i.generate(ctx, text, params)
}

func (i *IndexTTS2) SaveVoice(name string, audioBytes []byte, transcript string) (VoiceInfo, error) {
	return i.saveVoice(name, audioBytes, transcript)
}

func (i *IndexTTS2) ListVoices() ([]VoiceInfo, error) {
	return i.listVoices()
}
