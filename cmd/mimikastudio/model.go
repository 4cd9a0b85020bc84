package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Model acquisition and readiness commands",
	}

	cmd.AddCommand(newModelListCmd())
	cmd.AddCommand(newModelDownloadCmd())
	cmd.AddCommand(newModelDeleteCmd())
	return cmd
}

func newModelListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the model catalog and readiness state",
		RunE: func(_ *cobra.Command, _ []string) error {
			comps, err := buildComponents(activeCfg, slog.Default())
			if err != nil {
				return err
			}

			for _, d := range comps.models.List() {
				_, ready := comps.models.Ready(d.Name)
				state := "not downloaded"
				if ready {
					state = "ready"
				}
				fmt.Fprintf(os.Stdout, "%-12s %-10s %s\n", d.Name, d.Backend, state)
			}
			return nil
		},
	}
}

func newModelDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download [name]",
		Short: "Download a model's weights from its catalog source",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			comps, err := buildComponents(activeCfg, slog.Default())
			if err != nil {
				return err
			}

			status, alreadyInProgress, err := comps.models.Download(args[0])
			if err != nil {
				return err
			}
			if alreadyInProgress {
				fmt.Fprintf(os.Stdout, "download already in progress: %s\n", status.State)
				return nil
			}

			d, _ := comps.models.Get(args[0])
			key := d.RepoKey()

			for {
				status, _ = comps.models.Status(key)
				fmt.Fprintf(os.Stdout, "\r%s: %s", args[0], status.State)
				if status.State != "downloading" {
					fmt.Fprintln(os.Stdout)
					break
				}
				time.Sleep(500 * time.Millisecond)
			}

			if status.Error != "" {
				return fmt.Errorf("download failed: %s", status.Error)
			}
			return nil
		},
	}
}

func newModelDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a downloaded model's cached weights",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			comps, err := buildComponents(activeCfg, slog.Default())
			if err != nil {
				return err
			}
			return comps.models.Delete(args[0])
		},
	}
}
