package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/job-extractor/internal/dom/static"
	"github.com/jonathan/job-extractor/internal/extraction"
	"github.com/jonathan/job-extractor/internal/jobsapi"
	"github.com/jonathan/job-extractor/internal/logging"
	"github.com/jonathan/job-extractor/internal/observability"
	"github.com/jonathan/job-extractor/internal/pipeline"
)

type extractFlags struct {
	file    string
	pageURL string
	pretty  bool
	submit  bool
}

func newExtractCmd(a *app) *cobra.Command {
	var f extractFlags

	cmd := &cobra.Command{
		Use:   "extract [job-url]",
		Short: "Extract one job posting from a job page",
		Long: `Loads a job page (over HTTP, in headless Chrome with --browser, or from a saved
HTML file with --file) and prints the extracted posting as JSON.

With --submit the posting is also upserted into the jobs API.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, a, &f, args)
		},
	}

	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Read the page from a saved HTML file instead of loading a URL")
	cmd.Flags().StringVar(&f.pageURL, "page-url", "", "URL the saved page was loaded from (used with --file)")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "Print a readable summary instead of JSON")
	cmd.Flags().BoolVar(&f.submit, "submit", false, "Upsert the posting into the jobs API")
	a.addLoadFlags(cmd)
	a.addActionFlags(cmd)
	a.addAPIFlags(cmd)
	return cmd
}

func runExtract(cmd *cobra.Command, a *app, f *extractFlags, args []string) error {
	sourceURL, err := sourceArg(args, f.file, f.pageURL)
	if err != nil {
		return err
	}
	if err := a.prepare(cmd); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var result extraction.JobExtractionResult
	if f.file != "" {
		doc, parseErr := parseFile(f.file, sourceURL)
		if parseErr != nil {
			return parseErr
		}
		result = a.extractor().Extract(doc)
		if result.Empty() {
			err = pipeline.ErrEmptyExtraction
		}
	} else {
		result, err = extractURL(ctx, a, sourceURL)
	}
	switch {
	case errors.Is(err, pipeline.ErrEmptyExtraction):
		a.logger.Warn("no job fields found", zap.String(logging.FieldURL, sourceURL))
	case err != nil:
		return err
	}

	out := cmd.OutOrStdout()
	if f.pretty {
		observability.NewPrinter(out).PrintJobResult(result)
	} else {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result to JSON: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(data))
	}

	if !f.submit {
		return nil
	}
	if result.Empty() {
		return fmt.Errorf("not submitting %s: %w", sourceURL, pipeline.ErrEmptyExtraction)
	}
	client, err := a.apiClient()
	if err != nil {
		return err
	}
	posting := jobsapi.NewPosting(sourceURL, result, time.Now())
	outcome, id, err := client.Submit(ctx, posting)
	if err != nil {
		return fmt.Errorf("failed to submit posting: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Posting %s %s (id %s)\n", posting.ExternalID, outcome, id)
	return nil
}

func extractURL(ctx context.Context, a *app, url string) (extraction.JobExtractionResult, error) {
	loader, release, err := a.loader(ctx)
	if err != nil {
		return extraction.JobExtractionResult{}, err
	}
	defer release()

	runner := pipeline.NewRunner(loader, a.extractor(), nil, a.runnerOptions(), a.logger)
	return runner.Extract(ctx, url)
}

// sourceArg returns the page URL from either the positional argument or --page-url.
func sourceArg(args []string, file, pageURL string) (string, error) {
	switch {
	case file != "" && len(args) > 0:
		return "", fmt.Errorf("a URL argument and --file are mutually exclusive; provide only one")
	case file != "":
		if pageURL == "" {
			return "", fmt.Errorf("--page-url is required with --file")
		}
		return pageURL, nil
	case len(args) == 0:
		return "", fmt.Errorf("either a URL argument or --file must be provided")
	default:
		return args[0], nil
	}
}

func parseFile(path, pageURL string) (*static.Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	doc, err := static.NewDocumentFromReader(file, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}
