package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peroute/hackwest-project/internal/crawler"
)

func crawlCMD(env *string) *cobra.Command {
	var sourcesPath string
	var out string

	var crawl = &cobra.Command{
		Use:   "crawl",
		Short: "Fetch campus pages and write them in the import format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(*env)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			sources, err := crawler.LoadSources(sourcesPath)
			if err != nil {
				return err
			}

			c := crawler.New(
				time.Duration(cfg.Crawler.TimeoutSec)*time.Second,
				cfg.Crawler.MaxChars,
				cfg.Crawler.UserAgent,
				logger,
			)
			set := c.Crawl(cmd.Context(), sources)

			data, err := json.MarshalIndent(set, "", "  ")
			if err != nil {
				return fmt.Errorf("encode crawl result: %w", err)
			}
			data = append(data, '\n')

			if out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(filepath.Clean(out), data, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}

			total := 0
			for _, items := range set {
				total += len(items)
			}
			logger.Info("Crawl finished",
				zap.Int("categories", len(set)),
				zap.Int("pages", total),
				zap.String("out", out),
			)
			return nil
		},
	}
	crawl.Flags().StringVar(&sourcesPath, "sources", "config/sources.yaml", "category to URL list")
	crawl.Flags().StringVarP(&out, "out", "o", "resources.json", "output file (- for stdout)")

	return crawl
}
