package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/mimikastudio/orchestrator/internal/doctor"
	"github.com/mimikastudio/orchestrator/internal/model"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check for ffmpeg, Python, and downloaded model weights",
		RunE: func(_ *cobra.Command, _ []string) error {
			comps, err := buildComponents(activeCfg, slog.Default())
			if err != nil {
				return err
			}

			cfg := doctor.Config{
				FFmpegVersion: probeFFmpegVersion,
				PythonVersion: probePythonVersion,
				ModelFiles:    readyModelFiles(comps),
			}

			result := doctor.Run(cfg, os.Stdout)
			if result.Failed() {
				for _, f := range result.Failures() {
					fmt.Fprintf(os.Stderr, "FAIL: %s\n", f)
				}
				return errors.New("doctor checks failed")
			}

			fmt.Fprintln(os.Stdout, "doctor checks passed")
			return nil
		},
	}

	return cmd
}

// probeFFmpegVersion runs `ffmpeg -version` and returns its first line.
func probeFFmpegVersion() (string, error) {
	out, err := exec.CommandContext(context.Background(), "ffmpeg", "-version").Output()
	if err != nil {
		return "", fmt.Errorf("ffmpeg -version failed: %w", err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return line, nil
}

// probePythonVersion tries python3 then python and returns the version string.
func probePythonVersion() (string, error) {
	for _, bin := range []string{"python3", "python"} {
		out, err := exec.CommandContext(context.Background(), bin, "--version").Output()
		if err != nil {
			continue
		}
		raw := strings.TrimSpace(string(out))
		raw = strings.TrimPrefix(raw, "Python ")
		if raw != "" {
			return raw, nil
		}
	}
	return "", errors.New("python3/python not found on PATH")
}

// readyModelFiles returns one representative on-disk path per downloaded
// model, so the doctor check fails clearly if a cache directory was
// deleted out from under the registry's record of it.
func readyModelFiles(comps *components) []string {
	var paths []string
	for _, d := range comps.models.List() {
		if d.Acquisition != model.AcquisitionHuggingFace {
			continue
		}
		if path, ready := comps.models.Ready(d.Name); ready {
			paths = append(paths, path)
		}
	}
	return paths
}
