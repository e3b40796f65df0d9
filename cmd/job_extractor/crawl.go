package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-extractor/internal/observability"
	"github.com/jonathan/job-extractor/internal/pipeline"
)

type crawlFlags struct {
	dryRun bool
	asJSON bool
}

func newCrawlCmd(a *app) *cobra.Command {
	var f crawlFlags

	cmd := &cobra.Command{
		Use:   "crawl <search-url>...",
		Short: "Harvest search pages, extract every job and upsert it into the jobs API",
		Long: `Harvests job links from each search results page, then loads and extracts every
distinct job page with a bounded worker pool and upserts the postings into the jobs API.

Use --dry-run to extract without submitting. The command fails when any job fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrawl(cmd, a, &f, args)
		},
	}

	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Extract without submitting to the jobs API")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print per-job results as JSON instead of a summary box")
	cmd.Flags().IntVarP(&a.workers, "workers", "w", 0, "Number of pages processed concurrently")
	cmd.Flags().IntVar(&a.maxJobs, "max-jobs", 0, "Stop after this many job pages (0 means no limit)")
	a.addLoadFlags(cmd)
	a.addActionFlags(cmd)
	a.addAPIFlags(cmd)
	return cmd
}

func runCrawl(cmd *cobra.Command, a *app, f *crawlFlags, args []string) error {
	if err := a.prepare(cmd); err != nil {
		return err
	}

	var submitter pipeline.Submitter
	if !f.dryRun {
		client, err := a.apiClient()
		if err != nil {
			return err
		}
		submitter = client
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	loader, release, err := a.loader(ctx)
	if err != nil {
		return err
	}
	defer release()

	runner := pipeline.NewRunner(loader, a.extractor(), submitter, a.runnerOptions(), a.logger)
	summary, crawlErr := runner.Crawl(ctx, args)

	out := cmd.OutOrStdout()
	if f.asJSON {
		data, err := json.MarshalIndent(summary.Jobs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results to JSON: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(data))
	} else {
		observability.NewPrinter(out).PrintSummary(summary)
	}

	if crawlErr != nil {
		return fmt.Errorf("crawl interrupted: %w", crawlErr)
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", summary.Failed, summary.Harvested)
	}
	return nil
}
