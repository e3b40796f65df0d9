package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-extractor/internal/extraction"
	"github.com/jonathan/job-extractor/internal/observability"
	"github.com/jonathan/job-extractor/internal/pipeline"
)

type harvestFlags struct {
	file    string
	pageURL string
	pretty  bool
	asJSON  bool
}

func newHarvestCmd(a *app) *cobra.Command {
	var f harvestFlags

	cmd := &cobra.Command{
		Use:   "harvest [search-url]",
		Short: "List the job links on a search results page",
		Long:  "Collects job detail links from a search results page, normalized and deduplicated, one per line.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHarvest(cmd, a, &f, args)
		},
	}

	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Read the page from a saved HTML file instead of loading a URL")
	cmd.Flags().StringVar(&f.pageURL, "page-url", "", "URL the saved page was loaded from (used with --file)")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "Print a readable box instead of one link per line")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print the links as a JSON array")
	a.addLoadFlags(cmd)
	return cmd
}

func runHarvest(cmd *cobra.Command, a *app, f *harvestFlags, args []string) error {
	if f.pretty && f.asJSON {
		return fmt.Errorf("--pretty and --json are mutually exclusive; provide only one")
	}
	sourceURL, err := sourceArg(args, f.file, f.pageURL)
	if err != nil {
		return err
	}
	if err := a.prepare(cmd); err != nil {
		return err
	}

	var links []string
	if f.file != "" {
		doc, err := parseFile(f.file, sourceURL)
		if err != nil {
			return err
		}
		links = extraction.HarvestJobLinks(doc, a.logger)
	} else {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		loader, release, err := a.loader(ctx)
		if err != nil {
			return err
		}
		defer release()

		runner := pipeline.NewRunner(loader, nil, nil, a.runnerOptions(), a.logger)
		links, err = runner.Harvest(ctx, sourceURL)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	switch {
	case f.pretty:
		observability.NewPrinter(out).PrintJobLinks(links)
	case f.asJSON:
		data, err := json.MarshalIndent(links, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal links to JSON: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(data))
	default:
		for _, link := range links {
			_, _ = fmt.Fprintln(out, link)
		}
	}
	return nil
}
