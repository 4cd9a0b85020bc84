package engine

import "context"

// Supertonic is a preset-speaker TTS engine. Spec §4.5 names it as
// requiring the internal serialization lock.
type Supertonic struct {
	*baseAdapter
}

// NewSupertonic constructs a Supertonic adapter backed by runner.
func NewSupertonic(scratchDir string, runner EngineRunner) *Supertonic {
	return &Supertonic{baseAdapter: newBaseAdapter("supertonic", "supertonic", scratchDir, runner, true)}
}

func (s *Supertonic) Generate(ctx context.Context, text string, params Params) (string, error) {
	return s.generate(ctx, text, params)
}

// ListVoices exposes Supertonic's built-in preset speakers.
func (s *Supertonic) ListVoices() ([]VoiceInfo, error) {
	return s.listVoices()
}
