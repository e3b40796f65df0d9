package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-extractor/internal/schemas"
	rootschemas "github.com/jonathan/job-extractor/schemas"
)

func newValidateCmd(_ *app) *cobra.Command {
	var jsonPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a job posting JSON file against the posting schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, jsonPath)
		},
	}

	cmd.Flags().StringVarP(&jsonPath, "json", "j", "", "Path to job posting JSON file (required)")
	_ = cmd.MarkFlagRequired("json")
	return cmd
}

func runValidate(cmd *cobra.Command, jsonPath string) error {
	content, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", jsonPath, err)
	}

	out := cmd.OutOrStdout()
	err = schemas.ValidateJSONString(rootschemas.JobPosting, string(content))
	if err == nil {
		_, _ = fmt.Fprintf(out, "Validation passed: %s\n", jsonPath)
		return nil
	}

	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		_, _ = fmt.Fprintf(out, "Validation failed: %d error(s)\n", len(validationErr.Errors))
		for _, fe := range validationErr.Errors {
			_, _ = fmt.Fprintf(out, "  %s: %s\n", fe.Field, fe.Message)
		}
		return fmt.Errorf("validation found %d error(s)", len(validationErr.Errors))
	}
	return err
}

func newValidateConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate-config",
		Short: "Check the configuration and print the effective settings",
		Long:  "Resolves the config file, environment and flags, validates the result and prints it as JSON with the API token redacted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.prepare(cmd); err != nil {
				return err
			}
			effective := a.cfg
			if effective.APIToken != "" {
				effective.APIToken = "********"
			}
			data, err := json.MarshalIndent(effective, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config to JSON: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	a.addLoadFlags(cmd)
	a.addActionFlags(cmd)
	a.addAPIFlags(cmd)
	return cmd
}
