package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mimikastudio/orchestrator/internal/config"
	"github.com/mimikastudio/orchestrator/internal/engine"
	"github.com/mimikastudio/orchestrator/internal/model"
	"github.com/mimikastudio/orchestrator/internal/output"
	"github.com/mimikastudio/orchestrator/internal/pathstore"
	"github.com/mimikastudio/orchestrator/internal/settings"
	"github.com/mimikastudio/orchestrator/internal/voice"
)

// components bundles every collaborator the gateway and CLI commands
// need, built once from resolved configuration.
type components struct {
	paths    *pathstore.Service
	settings *settings.Store
	models   *model.Registry
	voices   *voice.Store
	output   *output.Store
	engines  *engine.Registry
}

// buildComponents wires C4, C3, C8, C5, and C10 from cfg, following the
// teacher's config-then-construct ordering in its serve command.
func buildComponents(cfg config.Config, log *slog.Logger) (*components, error) {
	homeDir, _ := os.UserHomeDir()

	paths, err := pathstore.New(map[pathstore.Dir][]string{
		pathstore.DirRuntimeHome: pathstore.DefaultDataCandidates(cfg.Paths.RuntimeHome, "", "mimikastudio"),
		pathstore.DirData:        pathstore.DefaultDataCandidates(cfg.Paths.DataDir, cfg.Paths.RuntimeHome, "data"),
		pathstore.DirLog:         pathstore.DefaultDataCandidates(cfg.Paths.LogDir, cfg.Paths.RuntimeHome, "logs"),
		pathstore.DirPDF:         pathstore.DefaultDataCandidates(cfg.Paths.PDFDir, cfg.Paths.RuntimeHome, "pdf"),
		pathstore.DirHub:         pathstore.DefaultDataCandidates(cfg.Paths.HubRoot, cfg.Paths.RuntimeHome, "hub"),
	})
	if err != nil {
		return nil, fmt.Errorf("resolve runtime paths: %w", err)
	}

	settingsStore, err := settings.Open(filepath.Join(paths.Path(pathstore.DirRuntimeHome), "settings.json"), log)
	if err != nil {
		return nil, fmt.Errorf("open settings store: %w", err)
	}

	models, err := model.NewRegistry(paths.Path(pathstore.DirHub), cfg.Model.HFToken, model.DefaultCatalog())
	if err != nil {
		return nil, fmt.Errorf("build model registry: %w", err)
	}

	defaultsDir := filepath.Join(paths.Path(pathstore.DirData), "voices", "defaults")
	userDir := filepath.Join(paths.Path(pathstore.DirData), "voices", "user")
	legacyDirs := legacyVoiceDirs(paths.Path(pathstore.DirData))
	voices, err := voice.NewStore(defaultsDir, userDir, legacyDirs)
	if err != nil {
		return nil, fmt.Errorf("build voice store: %w", err)
	}

	settingsOutputDir, _ := settingsStore.Get("output_folder")
	envOutputDir := cfg.Paths.OutputDir
	outputStore, err := output.New(output.Candidates(envOutputDir, settingsOutputDir, homeDir), envOutputDir != "")
	if err != nil {
		return nil, fmt.Errorf("build output store: %w", err)
	}

	scratchDir := filepath.Join(paths.Path(pathstore.DirData), "scratch")
	engines, err := engine.NewRegistry(scratchDir)
	if err != nil {
		return nil, fmt.Errorf("build engine registry: %w", err)
	}
	registerEngineFactories(engines)

	return &components{
		paths:    paths,
		settings: settingsStore,
		models:   models,
		voices:   voices,
		output:   outputStore,
		engines:  engines,
	}, nil
}

// legacyVoiceDirs names the per-engine folders earlier single-engine
// deployments kept voices in, consolidated into the shared pool on
// first startup (spec §4.3).
func legacyVoiceDirs(dataDir string) []string {
	legacy := []string{"kokoro-voices", "chatterbox-voices", "cosyvoice3-voices", "qwen3-voices", "indextts2-voices"}
	dirs := make([]string, 0, len(legacy))
	for _, name := range legacy {
		dirs = append(dirs, filepath.Join(dataDir, name))
	}
	return dirs
}

// registerEngineFactories wires the six named back-ends to their
// RunnerFactory. The actual neural inference runtime for each engine is
// an external collaborator this repository never implements (spec §1);
// until one is configured, every factory reports the engine as
// unavailable rather than the registry silently returning a non-functional
// adapter.
func registerEngineFactories(engines *engine.Registry) {
	for _, name := range []string{"kokoro", "supertonic", "cosyvoice3", "qwen3", "chatterbox", "indextts2"} {
		name := name
		engines.Register(name, func() (engine.EngineRunner, error) {
			return nil, fmt.Errorf("no runner configured for engine %q: wire an EngineRunner implementation", name)
		})
	}
}
