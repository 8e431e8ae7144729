package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/patzick/explore-openapi-snapshot/internal/auth"
	"github.com/patzick/explore-openapi-snapshot/internal/markdown"
	"github.com/patzick/explore-openapi-snapshot/pkg/ci"
	"github.com/patzick/explore-openapi-snapshot/pkg/config"
	ghctx "github.com/patzick/explore-openapi-snapshot/pkg/github"
	"github.com/patzick/explore-openapi-snapshot/pkg/snapshot"
)

// runPush executes the single-pass pipeline: resolve context, select a
// credential, submit the schema, report the outcome, publish outputs.
// At most one submission request is issued per invocation.
func runPush(ctx context.Context, _ *cobra.Command, logger *log.Logger) error {
	schemaFile := config.GetSchemaFile()
	if schemaFile == "" {
		return newExitError(ErrSchemaFileRequired, 1)
	}
	project := config.GetProject()
	if project == "" {
		return newExitError(ErrProjectRequired, 1)
	}
	endpoint := config.GetEndpoint()
	if endpoint == "" {
		return newExitError(ErrEndpointRequired, 1)
	}

	schema, err := os.ReadFile(schemaFile)
	if err != nil {
		return newExitError(fmt.Errorf("reading schema file: %w", err), 1)
	}
	if !json.Valid(schema) {
		return newExitError(fmt.Errorf("%w: %s", ErrSchemaNotJSON, schemaFile), 1)
	}

	inv, err := ghctx.DetectContext()
	if err != nil {
		return newExitError(fmt.Errorf("detecting invocation context: %w", err), 1)
	}
	logger.Info("Invocation context detected", "context", inv.String())

	ov := snapshot.Overrides{Name: config.GetSnapshotNameOverride()}
	ov.Permanent, ov.PermanentSet = config.GetPermanentOverride()
	resolved := snapshot.Resolve(inv, ov)
	logger.Info("Snapshot identity resolved",
		"name", resolved.Name,
		"permanent", resolved.Permanent,
		"base", resolved.BaseBranch)

	// Credential errors are fatal before any submission is attempted.
	cred, err := auth.DefaultChain(logger).Resolve(ctx, inv)
	if err != nil {
		return newExitError(err, 1)
	}

	client := snapshot.NewClient(endpoint, logger)
	req := &snapshot.Request{
		Schema:     schema,
		Project:    project,
		Name:       resolved.Name,
		Permanent:  resolved.Permanent,
		BaseBranch: resolved.BaseBranch,
	}
	if cred.Delegated() {
		req.Fork = &snapshot.ForkContext{
			Repository: inv.Repository(),
			PRNumber:   inv.PRNumber,
			CommitSHA:  inv.SHA,
		}
	}

	result, submitErr := client.Submit(ctx, req, cred)

	report := &markdown.Report{
		Result:     result,
		Err:        submitErr,
		Project:    project,
		Name:       resolved.Name,
		BaseBranch: resolved.BaseBranch,
		PRNumber:   inv.PRNumber,
		RunURL:     inv.RunURL(),
	}
	if result != nil {
		report.ViewURL = result.URL
	}
	if resolved.BaseBranch != "" {
		report.CompareURL = client.CompareURL(project, resolved.BaseBranch, resolved.Name)
		report.BaseURL = client.BaseSnapshotURL(project, resolved.BaseBranch)
	}

	integration := ci.DetectIntegration(logger)

	reportErr := deliverReport(ctx, integration, inv, report, logger)
	publishErr := publishOutputs(integration, result, submitErr, logger)

	switch {
	case submitErr != nil:
		// The failure report above was best effort; a secondary failure
		// must not mask the submission error.
		if reportErr != nil {
			logger.Warn("Failure report could not be delivered", "error", reportErr)
		}
		return newExitError(fmt.Errorf("snapshot submission failed: %w", submitErr), 1)

	case reportErr != nil:
		// The submission succeeded; that must stay visible even though
		// the run fails on the reporting error.
		logger.Info("Snapshot submitted successfully",
			"id", result.ID,
			"name", result.Name,
			"url", result.URL)
		return newExitError(fmt.Errorf("snapshot submitted but reporting failed: %w", reportErr), 1)

	case publishErr != nil:
		logger.Info("Snapshot submitted successfully",
			"id", result.ID,
			"name", result.Name,
			"url", result.URL)
		return newExitError(fmt.Errorf("snapshot submitted but publishing outputs failed: %w", publishErr), 1)
	}

	logger.Info("Snapshot submitted successfully",
		"id", result.ID,
		"name", result.Name,
		"url", result.URL,
		"sameAsBase", result.SameAsBase)
	return nil
}

// deliverReport writes the rendered report to the selected target:
// pull-request runs with a usable token get the marker-upserted
// conversation comment, everything else gets the run summary. After a
// successful comment the summary is appended as well; a summary failure
// at that point is only a warning.
func deliverReport(ctx context.Context, integration ci.Integration, inv *ghctx.Context, report *markdown.Report, logger *log.Logger) error {
	if integration == nil {
		logger.Warn("No CI integration detected; skipping report delivery")
		return nil
	}

	ciCtx, err := integration.DetectContext()
	if err != nil {
		return fmt.Errorf("detecting CI context: %w", err)
	}

	commented := false
	if inv.IsPullRequest() && !inv.IsFork && ciCtx.GetToken() != "" {
		manager := integration.CreateCommentManager(ciCtx, logger)
		if manager == nil {
			return ci.ErrContextNotSupported
		}
		if err := manager.PostOrUpdateComment(ctx, ciCtx, markdown.RenderComment(report)); err != nil {
			return fmt.Errorf("reporting to conversation: %w", err)
		}
		commented = true
	}

	writer := integration.GetJobSummaryWriter()
	if writer == nil {
		if !commented {
			logger.Warn("No report target available",
				"pr", inv.PRNumber,
				"fork", inv.IsFork)
		}
		return nil
	}

	if _, err := writer.WriteJobSummary(markdown.RenderJobSummary(report)); err != nil {
		if commented {
			logger.Warn("Job summary could not be written", "error", err)
			return nil
		}
		return fmt.Errorf("reporting to run summary: %w", err)
	}
	return nil
}

// publishedResult is the JSON shape exposed to downstream steps.
type publishedResult struct {
	Success    bool   `json:"success"`
	ID         string `json:"id,omitempty"`
	Name       string `json:"name,omitempty"`
	URL        string `json:"url,omitempty"`
	SameAsBase bool   `json:"sameAsBase"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
}

// publishOutputs writes the normalized result for downstream steps.
func publishOutputs(integration ci.Integration, result *snapshot.Result, submitErr error, logger *log.Logger) error {
	var writer ci.OutputWriter = &ci.NoopOutputWriter{}
	if integration != nil {
		writer = integration.GetOutputWriter()
	}

	published := publishedResult{Success: submitErr == nil}
	if result != nil {
		published.ID = result.ID
		published.Name = result.Name
		published.URL = result.URL
		published.SameAsBase = result.SameAsBase
		published.Message = result.Message
	}
	if submitErr != nil {
		published.Error = submitErr.Error()
	}

	encoded, err := json.Marshal(published)
	if err != nil {
		return fmt.Errorf("encoding result output: %w", err)
	}
	if err := writer.WriteOutput("result", string(encoded)); err != nil {
		return fmt.Errorf("writing result output: %w", err)
	}
	if result != nil && result.URL != "" {
		if err := writer.WriteOutput("snapshot-url", result.URL); err != nil {
			return fmt.Errorf("writing snapshot-url output: %w", err)
		}
	}
	logger.Debug("Outputs published", "success", published.Success)
	return nil
}
