package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"mediascribe/internal/config"
	"mediascribe/internal/services"
	"mediascribe/internal/services/whispercpp"
)

func newModelsCommand(ctx *commandContext) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Manage whisper.cpp model files",
	}
	modelsCmd.AddCommand(newModelsDownloadCommand(ctx))
	return modelsCmd
}

func newModelsDownloadCommand(ctx *commandContext) *cobra.Command {
	var dir string
	var baseURL string

	cmd := &cobra.Command{
		Use:   "download [model...]",
		Short: "Download ggml models for the whispercpp backend",
		Example: `  mediascribe models download base
  mediascribe models download large-v3-turbo --dir /srv/models`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			target := cfg.WhisperCPP.ModelDir
			if strings.TrimSpace(dir) != "" {
				if target, err = config.ExpandPath(strings.TrimSpace(dir)); err != nil {
					return services.Usagef("--dir: %v", err)
				}
			}
			if len(args) == 0 {
				args = []string{cfg.Transcribe.Model}
			}

			downloader := whispercpp.Downloader{Client: http.DefaultClient, BaseURL: baseURL, Dir: target}
			out := cmd.OutOrStdout()
			for _, model := range args {
				fmt.Fprintf(out, "Fetching %s...\n", model)
				path, fetched, err := downloader.Download(cmd.Context(), model)
				if err != nil {
					return services.Wrap(services.ErrIO, "models", "download", model, err)
				}
				if fetched {
					fmt.Fprintf(out, "Downloaded %s\n", path)
				} else {
					fmt.Fprintf(out, "%s is already up to date\n", path)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Destination directory (default: whispercpp.model_dir)")
	cmd.Flags().StringVar(&baseURL, "base-url", whispercpp.ModelBaseURL, "Model download base URL")
	return cmd
}
