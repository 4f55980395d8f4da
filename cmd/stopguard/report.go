package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/stopguard/stopguard/internal/report"
)

func newReportCmd() *cobra.Command {
	var configPath string
	var inputPath string
	var since string
	var format string
	var outPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize the decision log",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := decisionLogPath(configPath, inputPath)
			if err != nil {
				return err
			}

			reader := report.Reader{}
			if since != "" {
				dur, err := time.ParseDuration(since)
				if err != nil {
					return fmt.Errorf("invalid since duration: %w", err)
				}
				reader.Since = time.Now().Add(-dur)
			}

			decisions, err := reader.Read(path)
			if err != nil {
				return err
			}

			summary := report.Summarize(decisions)
			var content []byte
			switch format {
			case "", "text":
				content = []byte(report.RenderText(summary))
			case "md":
				content = []byte(report.RenderMarkdown(summary))
			case "json":
				content, err = report.RenderJSON(summary)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			return report.WriteOutput(outPath, content)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file naming the decision log")
	cmd.Flags().StringVar(&inputPath, "in", "", "Path to decision log JSONL (overrides --config)")
	cmd.Flags().StringVar(&since, "since", "", "Only include entries newer than this duration (e.g. 24h)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|md|json")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file path (default stdout)")

	return cmd
}

func decisionLogPath(configPath, inputPath string) (string, error) {
	if inputPath != "" {
		return inputPath, nil
	}
	if configPath == "" {
		return "", errors.New("either --in or --config is required")
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return "", err
	}
	if cfg.Logging.DecisionLog == "" {
		return "", errors.New("config has no logging.decisionLog")
	}
	return cfg.ResolvePath(cfg.Logging.DecisionLog), nil
}
