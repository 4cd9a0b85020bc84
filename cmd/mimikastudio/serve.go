package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mimikastudio/orchestrator/internal/config"
	"github.com/mimikastudio/orchestrator/internal/diag"
	"github.com/mimikastudio/orchestrator/internal/gateway"
	"github.com/mimikastudio/orchestrator/internal/job"
	"github.com/mimikastudio/orchestrator/internal/pathstore"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Mimika Studio HTTP gateway",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := activeCfg
			log := slog.Default()

			comps, err := buildComponents(cfg, log)
			if err != nil {
				return err
			}

			jobs := job.NewEngine(cfg.Job.HistoryCapacity, comps.models, comps.engines, log)
			jobs.StartHousekeeping(time.Duration(cfg.Job.PruneFailedAfterMins) * time.Minute)
			defer jobs.StopHousekeeping()

			dataDir := comps.paths.Path(pathstore.DirData)
			logDir := comps.paths.Path(pathstore.DirLog)
			logPaths, _ := filepath.Glob(filepath.Join(logDir, "*.log"))

			deps := gateway.Dependencies{
				Models:   comps.models,
				Engines:  comps.engines,
				Jobs:     jobs,
				Voices:   comps.voices,
				Output:   comps.output,
				Settings: comps.settings,
				DataDir:  dataDir,
				PDFDir:   comps.paths.Path(pathstore.DirPDF),

				PythonProbe: wrapVersionProbe(probePythonVersion),
				LogPaths:    logPaths,

				// No TextExtractor is wired: PDF/EPUB/DOCX extraction is
				// an external collaborator this repository never
				// implements (spec §1).
			}

			h := gateway.NewHandler(deps,
				gateway.WithLogger(log),
				gateway.WithCORSOrigins(cfg.Server.CORSOrigins),
				gateway.WithMaxTextBytes(int64(cfg.Server.MaxTextBytes)),
			)

			httpServer := &http.Server{
				Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
				Handler:           h,
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info("gateway listening", "addr", httpServer.Addr)
				errCh <- httpServer.ListenAndServe()
			}()

			shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
				defer cancel()

				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("http shutdown: %w", err)
				}
				return nil
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("http listen: %w", err)
			}
		},
	}

	return cmd
}

// wrapVersionProbe adapts a context-free doctor.VersionFunc to the
// context-bounded diag.VersionFunc the system-info endpoint expects.
func wrapVersionProbe(fn func() (string, error)) diag.VersionFunc {
	return func(_ context.Context) (string, error) {
		return fn()
	}
}
