package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"newsforge/internal/api"
	"newsforge/internal/article"
	"newsforge/internal/pipeline"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var (
		kind     string
		file     string
		audience string
		fastMode bool
		useStyle bool
	)

	cmd := &cobra.Command{
		Use:   "submit [text-or-url]",
		Short: "Submit an article for derivation",
		Long: `Submit an article for derivation.

Paste text directly, point at a file with --file, or pass a URL with
--kind url. The command prints the job id; follow it with "newsforge status".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := resolvePayload(args, file)
			if err != nil {
				return err
			}
			sourceKind := article.SourceKind(kind)
			if file != "" && kind == "paste" {
				sourceKind = article.SourceUpload
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}
			jobID, err := client.Submit(cmd.Context(), api.SubmitRequest{
				Source: article.Source{Kind: sourceKind, Payload: payload},
				Options: pipeline.Options{
					Audience: audience,
					FastMode: fastMode,
					UseStyle: useStyle,
				},
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), jobID)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "paste", "Source kind: paste, upload, or url")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read article text from a file")
	cmd.Flags().StringVar(&audience, "audience", "general", "Target audience for generated content")
	cmd.Flags().BoolVar(&fastMode, "fast", false, "Fast mode: skip audio and translation pipelines")
	cmd.Flags().BoolVar(&useStyle, "style", false, "Apply the configured house style")

	return cmd
}

func resolvePayload(args []string, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read article file: %w", err)
		}
		return string(data), nil
	}
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}
	return "", errors.New("provide article text, a --file, or a url")
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show one job's status and artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			status, err := client.JobStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderStatus(cmd.OutOrStdout(), status)
			return nil
		},
	}
}

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			summaries, err := client.ListJobs(cmd.Context(), statusFilter)
			if err != nil {
				return err
			}
			renderJobs(cmd.OutOrStdout(), summaries)
			return nil
		},
	}
	cmd.Flags().StringVarP(&statusFilter, "status", "s", "", "Filter by status")
	return cmd
}

func newArtifactsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "artifacts <job-id>",
		Short: "List one job's artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			artifacts, err := client.Artifacts(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderArtifacts(cmd.OutOrStdout(), artifacts)
			return nil
		},
	}
}

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show daemon health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			health, err := client.Health(cmd.Context())
			if err != nil {
				return err
			}
			renderHealth(cmd.OutOrStdout(), health)
			return nil
		},
	}
}
