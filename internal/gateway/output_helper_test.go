package gateway

import "testing"

func TestValidOutputName_AcceptsEngineGrammar(t *testing.T) {
	names := []string{
		"kokoro-bf_emma-1a2b3c4d.wav",
		"qwen3-default-deadbeef.mp3",
		"chatterbox-narrator-00000000.m4b",
		"audiobook-a1b2c3d4e5f6.wav",
		"audiobook-a1b2c3d4e5f6.srt",
		"audiobook-a1b2c3d4e5f6.vtt",
	}
	for _, name := range names {
		if !ValidOutputName(name) {
			t.Errorf("ValidOutputName(%q) = false, want true", name)
		}
	}
}

func TestValidOutputName_RejectsUnrecognizedShapes(t *testing.T) {
	names := []string{
		"../../etc/passwd",
		"kokoro-bf_emma-1a2b3c4d5e.wav", // discriminator too long
		"kokoro-bf_emma-1A2B3C4D.wav",   // uppercase hex not matched
		"kokoro-bf_emma.wav",            // missing discriminator segment
		"not-an-engine-default-deadbeef.wav",
		"kokoro-bf_emma-deadbeef.exe",
		"",
	}
	for _, name := range names {
		if ValidOutputName(name) {
			t.Errorf("ValidOutputName(%q) = true, want false", name)
		}
	}
}
