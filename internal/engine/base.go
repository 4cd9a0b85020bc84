package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mimikastudio/orchestrator/internal/audio"
)

// baseAdapter holds the scaffolding common to every engine: the scratch
// directory for generated WAV files, the injected runner, and an optional
// serialization lock for engines that cannot run two generations at once
// (spec §4.5 names Kokoro, CosyVoice3, Chatterbox and Supertonic).
type baseAdapter struct {
	name      string
	backend   string
	scratch   string
	runner    EngineRunner
	serialize bool // true for engines requiring the internal lock
	mu        sync.Mutex
	loaded    bool
}

func newBaseAdapter(name, backend, scratchDir string, runner EngineRunner, serialize bool) *baseAdapter {
	return &baseAdapter{
		name:      name,
		backend:   backend,
		scratch:   scratchDir,
		runner:    runner,
		serialize: serialize,
		loaded:    true,
	}
}

func (b *baseAdapter) Name() string { return b.name }

func (b *baseAdapter) GetInfo() Info {
	return Info{Name: b.name, Backend: b.backend, Loaded: b.loaded}
}

func (b *baseAdapter) Unload() error {
	b.withLock(func() {})
	err := b.runner.Unload()
	if err == nil {
		b.loaded = false
	}
	return err
}

// withLock runs fn while holding the adapter's lock, but only if this
// adapter requires serialized access; otherwise it runs fn directly.
func (b *baseAdapter) withLock(fn func()) {
	if b.serialize {
		b.mu.Lock()
		defer b.mu.Unlock()
	}
	fn()
}

// generate runs the runner and writes the result to a scratch WAV file,
// serializing access for engines that require it.
func (b *baseAdapter) generate(ctx context.Context, text string, params Params) (audioPath string, err error) {
	var samples []float32
	b.withLock(func() {
		samples, err = b.runner.Generate(ctx, text, params)
	})
	if err != nil {
		return "", fmt.Errorf("%s: generate: %w", b.name, err)
	}

	samples = audio.ApplyHooks(samples, audio.ClipHook)

	encoded, err := audio.EncodeWAV(samples)
	if err != nil {
		return "", fmt.Errorf("%s: encode scratch audio: %w", b.name, err)
	}

	name := b.name + "-" + labelFor(params) + "-" + randomSuffix() + ".wav"
	path := filepath.Join(b.scratch, name)
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return "", fmt.Errorf("%s: write scratch audio: %w", b.name, err)
	}

	return path, nil
}

// labelFor derives the output filename's voice-or-mode segment from the
// request (spec's `{engine}-{label}-{8hex}` grammar). Params carries no
// separate "mode" field, so the voice name doubles as the label; an
// unset voice (e.g. a single-speaker engine run with defaults) falls
// back to "default".
func labelFor(params Params) string {
	voice := strings.ToLower(strings.TrimSpace(params.Voice))
	if voice == "" {
		return "default"
	}

	var b strings.Builder
	for _, r := range voice {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	if b.Len() == 0 {
		return "default"
	}
	return b.String()
}

// stream delegates directly to the runner; streaming engines are not
// named among those requiring serialization (spec §4.5, §4.7).
func (b *baseAdapter) stream(ctx context.Context, text string, params Params) (<-chan PCMFrame, error) {
	frames, err := b.runner.Stream(ctx, text, params)
	if err != nil {
		return nil, fmt.Errorf("%s: stream: %w", b.name, err)
	}
	return frames, nil
}

// saveVoice registers a reference voice with the runner, serializing
// access for engines that require it.
func (b *baseAdapter) saveVoice(name string, audioBytes []byte, transcript string) (VoiceInfo, error) {
	var err error
	b.withLock(func() {
		err = b.runner.SaveVoice(name, audioBytes, transcript)
	})
	if err != nil {
		return VoiceInfo{}, fmt.Errorf("%s: save voice: %w", b.name, err)
	}
	return VoiceInfo{Name: name, Transcript: transcript}, nil
}

func (b *baseAdapter) listVoices() ([]VoiceInfo, error) {
	voices, err := b.runner.ListVoices()
	if err != nil {
		return nil, fmt.Errorf("%s: list voices: %w", b.name, err)
	}
	return voices, nil
}
