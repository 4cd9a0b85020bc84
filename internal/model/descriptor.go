// Package model implements the model registry (catalog, on-disk layout,
// readiness checks, and download lifecycle) for back-end synthesis models.
package model

import (
	"fmt"
	"strings"
)

// Mode describes what a model descriptor is used for.
type Mode string

const (
	ModeTTS    Mode = "tts"
	ModeClone  Mode = "clone"
	ModeCustom Mode = "custom"
)

// Acquisition describes how a descriptor's weights are obtained.
type Acquisition string

const (
	AcquisitionHuggingFace Acquisition = "huggingface"
	AcquisitionPip         Acquisition = "pip"
)

// Backend tags the synthesis back-end family a descriptor belongs to.
type Backend string

const (
	BackendKokoro     Backend = "kokoro"
	BackendQwen3      Backend = "qwen3"
	BackendChatterbox Backend = "chatterbox"
	BackendSupertonic Backend = "supertonic"
	BackendCosyVoice3 Backend = "cosyvoice3"
	BackendIndexTTS2  Backend = "indextts2"
)

// recognizedWeightExtensions are the file suffixes that count towards
// readiness (spec §4.4).
var recognizedWeightExtensions = []string{".safetensors", ".bin", ".gguf", ".onnx"}

// Descriptor is the static catalog entry for one back-end model (spec §3
// "Model Descriptor").
type Descriptor struct {
	Name           string
	Backend        Backend
	RepoID         string // remote repo identifier, e.g. "hexgrad/Kokoro-82M"; empty for pip acquisitions
	NominalBytes   int64
	Mode           Mode
	Quantization   string
	PresetSpeakers []string
	Acquisition    Acquisition
}

// RepoKey returns the key under which download status for this descriptor is
// tracked: the repo id when present, otherwise the model name (spec §3
// "Download Job" identity rule).
func (d Descriptor) RepoKey() string {
	if d.RepoID != "" {
		return d.RepoID
	}

	return d.Name
}

// CacheDirName computes the Hugging Face-style cache directory name for a
// repo id, e.g. "hexgrad/Kokoro-82M" -> "models--hexgrad--Kokoro-82M".
func CacheDirName(repoID string) string {
	escaped := strings.ReplaceAll(repoID, "/", "--")
	return "models--" + escaped
}

// validate checks invariants (a)/(b) from spec §3 "Model Descriptor".
func (d Descriptor) validate() error {
	if d.Name == "" {
		return fmt.Errorf("model descriptor has empty name")
	}

	if d.Acquisition == AcquisitionPip && d.RepoID != "" {
		return fmt.Errorf("model %q: pip acquisition must not declare a remote repo id", d.Name)
	}

	if d.Acquisition == AcquisitionHuggingFace && d.RepoID == "" {
		return fmt.Errorf("model %q: huggingface acquisition requires a repo id", d.Name)
	}

	return nil
}

// DefaultCatalog returns the static catalog of back-end models wired by
// this service (spec §1's named back-ends). Real repo ids are placeholders
// for the actual published weights; operators may override via config.
func DefaultCatalog() []Descriptor {
	return []Descriptor{
		{
			Name:         "kokoro",
			Backend:      BackendKokoro,
			RepoID:       "hexgrad/Kokoro-82M",
			NominalBytes: 327 * 1024 * 1024,
			Mode:         ModeTTS,
			Acquisition:  AcquisitionHuggingFace,
		},
		{
			Name:           "qwen3",
			Backend:        BackendQwen3,
			RepoID:         "Qwen/Qwen3-TTS-Flow",
			NominalBytes:   1800 * 1024 * 1024,
			Mode:           ModeClone,
			Acquisition:    AcquisitionHuggingFace,
			PresetSpeakers: []string{"default"},
		},
		{
			Name:         "chatterbox",
			Backend:      BackendChatterbox,
			RepoID:       "resemble-ai/chatterbox",
			NominalBytes: 2100 * 1024 * 1024,
			Mode:         ModeClone,
			Acquisition:  AcquisitionHuggingFace,
		},
		{
			Name:         "supertonic",
			Backend:      BackendSupertonic,
			RepoID:       "Supertone/supertonic",
			NominalBytes: 420 * 1024 * 1024,
			Mode:         ModeTTS,
			Acquisition:  AcquisitionHuggingFace,
		},
		{
			Name:         "cosyvoice3",
			Backend:      BackendCosyVoice3,
			RepoID:       "FunAudioLLM/CosyVoice3-0.5B",
			NominalBytes: 2300 * 1024 * 1024,
			Mode:         ModeClone,
			Acquisition:  AcquisitionHuggingFace,
		},
		{
			Name:        "indextts2",
			Backend:     BackendIndexTTS2,
			Mode:        ModeClone,
			Acquisition: AcquisitionPip,
		},
	}
}
