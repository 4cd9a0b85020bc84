package job

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/mimikastudio/orchestrator/internal/audio"
	"github.com/mimikastudio/orchestrator/internal/engine"
	"github.com/mimikastudio/orchestrator/internal/text"
)

// AudiobookRequest is the validated input to EnqueueAudiobook.
type AudiobookRequest struct {
	Title               string
	FullText            string
	Chapters            []string // optional chapter titles, in document order
	Backend             string   // spec §4.6: "Kokoro today"
	Model               string
	Params              engine.Params
	MaxCharsPerChunk    int
	Format              AudioFormat
	SubtitleFormat      SubtitleFormat
	CharsPerSecEstimate float64
	OutputDir           string
}

// EnqueueAudiobook chunks the document via C1, allocates a job, and
// spawns a worker that synthesizes chunks sequentially on one adapter,
// stitches them with C2, and optionally transcodes/emits subtitles
// (spec §4.6 "Audiobook job").
func (e *Engine) EnqueueAudiobook(req AudiobookRequest) (*Job, error) {
	if req.FullText == "" {
		return nil, fmt.Errorf("enqueue audiobook: text must not be empty")
	}

	if req.Model != "" {
		if _, err := e.models.EnsureReady(req.Model); err != nil {
			return nil, err
		}
	}

	adapter, err := e.engines.Get(req.Backend)
	if err != nil {
		return nil, err
	}

	chunks := text.ChunkBySentence(req.FullText, req.MaxCharsPerChunk)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("enqueue audiobook: no synthesizable text")
	}

	charsPerSec := req.CharsPerSecEstimate
	if charsPerSec <= 0 {
		charsPerSec = 14
	}

	totalChars := 0
	for _, c := range chunks {
		totalChars += len(c)
	}

	now := time.Now().UTC()
	j := &Job{
		ID:        newID(),
		Kind:      KindAudiobook,
		Backend:   req.Backend,
		Status:    StatusStarted,
		Title:     req.Title,
		CharCount: len(req.FullText),
		Voice:     req.Params.Voice,
		Model:     req.Model,
		CreatedAt: now,
		UpdatedAt: now,
		Audiobook: &AudiobookProgress{
			TotalChunks:    len(chunks),
			TotalChars:     totalChars,
			CharsPerSec:    charsPerSec,
			Chapters:       req.Chapters,
			Format:         req.Format,
			SubtitleFormat: req.SubtitleFormat,
		},
	}

	e.mu.Lock()
	e.live[j.ID] = j
	e.mu.Unlock()

	go e.runAudiobook(j, adapter, chunks, req)

	return j.clone(), nil
}

func (e *Engine) runAudiobook(j *Job, adapter engine.Adapter, chunks []string, req AudiobookRequest) {
	e.setStatus(j.ID, StatusProcessing, "")

	ctx := context.Background()
	samples := make([][]float32, 0, len(chunks))
	processedChars := 0

	for i, chunk := range chunks {
		if e.audiobookCancelled(j.ID) {
			e.finish(j.ID, StatusCancelled, "", "")
			return
		}

		path, err := adapter.Generate(ctx, chunk, req.Params)
		if err != nil {
			e.log.Error("audiobook chunk failed", "job_id", j.ID, "chunk", i, "error", err)
			e.finish(j.ID, StatusFailed, "", err.Error())
			return
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			e.finish(j.ID, StatusFailed, "", fmt.Sprintf("read chunk audio: %v", err))
			return
		}
		_ = os.Remove(path)

		chunkSamples, err := audio.DecodeWAV(raw)
		if err != nil {
			e.finish(j.ID, StatusFailed, "", fmt.Sprintf("decode chunk audio: %v", err))
			return
		}
		samples = append(samples, chunkSamples)

		processedChars += len(chunk)
		e.updateAudiobookProgress(j.ID, i+1, processedChars)
	}

	merged, err := audio.Merge(samples, audio.ExpectedSampleRate, 20)
	if err != nil {
		e.finish(j.ID, StatusFailed, "", fmt.Sprintf("merge chunks: %v", err))
		return
	}

	wavBytes, err := audio.EncodeWAV(merged)
	if err != nil {
		e.finish(j.ID, StatusFailed, "", fmt.Sprintf("encode audiobook: %v", err))
		return
	}

	format := req.Format
	if format == "" {
		format = FormatWAV
	}

	outPath := filepath.Join(req.OutputDir, fmt.Sprintf("audiobook-%s.%s", j.ID, format))
	if err := finalizeAudiobook(wavBytes, outPath, format); err != nil {
		e.finish(j.ID, StatusFailed, "", err.Error())
		return
	}

	if req.SubtitleFormat != "" && req.SubtitleFormat != SubtitleNone {
		subPath := filepath.Join(req.OutputDir, fmt.Sprintf("audiobook-%s.%s", j.ID, req.SubtitleFormat))
		if err := writeSubtitles(subPath, chunks, req.SubtitleFormat, req.CharsPerSecEstimate); err != nil {
			e.log.Warn("subtitle export failed", "job_id", j.ID, "error", err)
		} else {
			e.setSubtitlePath(j.ID, subPath)
		}
	}

	e.log.Info("audiobook job completed", "job_id", j.ID, "output_path", outPath)
	e.finish(j.ID, StatusCompleted, outPath, "")
}

func (e *Engine) audiobookCancelled(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	j, ok := e.live[id]
	if !ok || j.Audiobook == nil {
		return false
	}
	return j.Audiobook.cancelRequested
}

func (e *Engine) updateAudiobookProgress(id string, currentChunk, processedChars int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	j, ok := e.live[id]
	if !ok || j.Audiobook == nil {
		return
	}

	ab := j.Audiobook
	ab.CurrentChunk = currentChunk
	ab.ProcessedChars = processedChars
	if len(ab.Chapters) > 0 {
		idx := currentChunk * len(ab.Chapters) / ab.TotalChunks
		if idx >= len(ab.Chapters) {
			idx = len(ab.Chapters) - 1
		}
		ab.CurrentChapter = ab.Chapters[idx]
	}

	remainingChars := ab.TotalChars - processedChars
	if remainingChars < 0 {
		remainingChars = 0
	}
	if ab.CharsPerSec > 0 {
		ab.ETASeconds = float64(remainingChars) / ab.CharsPerSec
	}

	j.UpdatedAt = time.Now().UTC()
}

func (e *Engine) setSubtitlePath(id, path string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	j, ok := e.live[id]
	if !ok || j.Audiobook == nil {
		return
	}
	j.Audiobook.SubtitlePath = path
}

// finalizeAudiobook writes the merged WAV audio to outPath, transcoding
// via an ffmpeg subprocess when a lossy container was requested. No
// library in the retrieved corpus provides native MP3/M4B encoding;
// shelling out mirrors the subprocess-fallback pattern spec §5 already
// names for CosyVoice3 and device probing.
func finalizeAudiobook(wavBytes []byte, outPath string, format AudioFormat) error {
	if format == FormatWAV {
		return os.WriteFile(outPath, wavBytes, 0o644)
	}

	tmpWAV, err := os.CreateTemp("", "mimika-audiobook-*.wav")
	if err != nil {
		return fmt.Errorf("finalize audiobook: %w", err)
	}
	defer os.Remove(tmpWAV.Name())

	if _, err := tmpWAV.Write(wavBytes); err != nil {
		tmpWAV.Close()
		return fmt.Errorf("finalize audiobook: %w", err)
	}
	if err := tmpWAV.Close(); err != nil {
		return fmt.Errorf("finalize audiobook: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	args := []string{"-y", "-i", tmpWAV.Name()}
	if format == FormatM4B {
		args = append(args, "-c:a", "aac", "-f", "mp4")
	}
	args = append(args, outPath)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("transcode to %s: %w", format, err)
	}

	return nil
}

// writeSubtitles emits a simple sentence-per-cue subtitle file. Cue
// timing is estimated from the same chars-per-second model used for
// audiobook ETA, since no transcript-aligned timing collaborator is
// available in this scope (spec §1 excludes alignment models).
func writeSubtitles(path string, chunks []string, format SubtitleFormat, charsPerSec float64) error {
	if charsPerSec <= 0 {
		charsPerSec = 14
	}

	var b []byte
	var t float64
	for i, chunk := range chunks {
		dur := float64(len(chunk)) / charsPerSec
		start, end := t, t+dur
		t = end

		switch format {
		case SubtitleSRT:
			b = append(b, []byte(fmt.Sprintf("%d\n%s --> %s\n%s\n\n", i+1, srtTimestamp(start), srtTimestamp(end), chunk))...)
		case SubtitleVTT:
			if i == 0 {
				b = append(b, []byte("WEBVTT\n\n")...)
			}
			b = append(b, []byte(fmt.Sprintf("%s --> %s\n%s\n\n", vttTimestamp(start), vttTimestamp(end), chunk))...)
		}
	}

	return os.WriteFile(path, b, 0o644)
}

func srtTimestamp(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	ms := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

func vttTimestamp(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	ms := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
