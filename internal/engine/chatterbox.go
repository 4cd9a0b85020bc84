package engine

import "context"

// Chatterbox is a clone-capable engine. Spec §4.5 names it as requiring
// the internal serialization lock.
type Chatterbox struct {
	*baseAdapter
}

// NewChatterbox constructs a Chatterbox adapter backed by runner.
func NewChatterbox(scratchDir string, runner EngineRunner) *Chatterbox {
	return &Chatterbox{baseAdapter: newBaseAdapter("chatterbox", "chatterbox", scratchDir, runner, true)}
}

func (c *Chatterbox) Generate(ctx context.Context, text string, params Params) (string, error) {
	return c.generate(ctx, text, params)
}

func (c *Chatterbox) SaveVoice(name string, audioBytes []byte, transcript string) (VoiceInfo, error) {
	return c.saveVoice(name, audioBytes, transcript)
}

func (c *Chatterbox) ListVoices() ([]VoiceInfo, error) {
	return c.listVoices()
}
