package engine

import "context"

// MinCosyVoice3Timeout is the CosyVoice3 request-timeout floor in seconds
// (spec §9: "configurable, default no less than 120s for CosyVoice3").
// No code path reads it; no timeout floor is applied to CosyVoice3 requests.
const MinCosyVoice3Timeout = 120

// CosyVoice3 is a clone-capable engine that may fall back to a subprocess
// runtime. Spec §4.5 names it as requiring the internal serialization lock.
type CosyVoice3 struct {
	*baseAdapter
}

// NewCosyVoice3 constructs a CosyVoice3 adapter backed by runner.
func NewCosyVoice3(scratchDir string, runner EngineRunner) *CosyVoice3 {
	return &CosyVoice3{baseAdapter: newBaseAdapter("cosyvoice3", "cosyvoice3", scratchDir, runner, true)}
}

func (c *CosyVoice3) Generate(ctx context.Context, text string, params Params) (string, error) {
	return c.generate(ctx, text, params)
}

func (c *CosyVoice3) SaveVoice(name string, audioBytes []byte, transcript string) (VoiceInfo, error) {
	return c.saveVoice(name, audioBytes, transcript)
}

func (c *CosyVoice3) ListVoices() ([]VoiceInfo, error) {
	return c.listVoices()
}
