// Package engine implements the C5 Engine Adapter contracts: a uniform
// capability surface over the six named synthesis back-ends (Kokoro, Qwen3,
// Chatterbox, Supertonic, CosyVoice3, IndexTTS2). The adapters here own
// locking, parameter shaping, and prompt preparation; the actual neural
// inference is an external collaborator reached through the EngineRunner
// interface (see runner.go), not implemented by this package.
package engine

import "context"

// Params carries generation parameters. Voice and Speed are common across
// engines; Extra holds engine-specific knobs (temperature, top_p,
// exaggeration, cfg_weight, steps, …) that each adapter interprets for
// itself (spec §4.5: "adapters own engine-specific parameter structs").
type Params struct {
	Voice string
	Speed float64
	Extra map[string]float64
}

// Info is the descriptive record returned by GetInfo.
type Info struct {
	Name    string
	Backend string
	Loaded  bool
}

// VoiceInfo describes a voice known to a clone-capable adapter.
type VoiceInfo struct {
	Name       string
	Transcript string
}

// PCMFrame is one chunk of a streaming generation (spec §4.7): mono,
// 16-bit little-endian, 24 kHz samples.
type PCMFrame struct {
	Samples    []float32
	FinalFrame bool
}

// Adapter is the capability set every engine implements.
type Adapter interface {
	// Name returns the catalog name this adapter serves (e.g. "kokoro").
	Name() string
	// Generate synthesizes text and returns the path to a scratch WAV file.
	Generate(ctx context.Context, text string, params Params) (audioPath string, err error)
	// GetInfo returns a descriptive record.
	GetInfo() Info
	// Unload frees any loaded model state.
	Unload() error
}

// Streamer is implemented by adapters that can yield PCM incrementally
// (spec §4.5: "currently Qwen3 clone/custom").
type Streamer interface {
	Stream(ctx context.Context, text string, params Params) (<-chan PCMFrame, error)
}

// VoiceSaver is implemented by clone-capable adapters.
type VoiceSaver interface {
	SaveVoice(name string, audio []byte, transcript string) (VoiceInfo, error)
}

// VoiceLister is implemented by clone-capable (or preset-speaker) adapters.
type VoiceLister interface {
	ListVoices() ([]VoiceInfo, error)
}
