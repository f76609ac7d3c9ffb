package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/quivotequoi/internal/classify"
	"github.com/nao1215/quivotequoi/internal/config"
	"github.com/nao1215/quivotequoi/internal/model"
	"github.com/nao1215/quivotequoi/internal/pipeline"
	"github.com/nao1215/quivotequoi/internal/reconcile"
	"github.com/nao1215/quivotequoi/internal/reference"
	"github.com/nao1215/quivotequoi/internal/report"
	"github.com/nao1215/quivotequoi/internal/votes"
	"github.com/spf13/cobra"
)

// NewVotesCmd creates the votes command.
func NewVotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "votes [dates...]",
		Short: "Extract the votes of plenary sittings",
		Long: `Votes downloads the minutes and roll-call annexes of each sitting, joins the
records of both sources and writes them to votes.csv in the output directory.

Days without published minutes are skipped. A sitting whose roll-call annex
repeats a vote aborts the run, since the join would be ambiguous.

A run summary is printed as a table on a terminal and as JSON otherwise.

Examples:
  # Every sitting of the current term
  quivotequoi votes --calendar

  # Sittings since a date, with roll-call positions resolved
  quivotequoi votes --calendar --since 2024-09-01 -M _data/members.csv

  # Single days
  quivotequoi votes 2024-09-17 2024-09-18

  # Markdown summary written to a file
  quivotequoi votes --calendar --markdown --summary summary.md`,
		Args: cobra.ArbitraryArgs,
		RunE: runVotesCmd,
	}

	addFetchFlags(cmd)
	addSittingFlags(cmd)

	cmd.Flags().IntP("concurrency", "p", config.DefaultConcurrency, "Number of sittings processed at once")
	cmd.Flags().String("cutoff", votes.DefaultCutoff.Format(time.DateOnly),
		"First day published in the current minutes schema")

	// Summary flags
	cmd.Flags().BoolP("json", "j", false, "Write the summary as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false, "Write the summary as Markdown (mutually exclusive with --json)")
	cmd.Flags().String("summary", "", "Write the summary to this file instead of stdout")

	return cmd
}

// runVotesCmd executes the votes command.
func runVotesCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd, cfg.Verbose)
	ctx := cmd.Context()

	s, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	sittings, err := s.sittings(ctx, cmd, args)
	if err != nil {
		return err
	}

	members, err := loadRoster(cfg, logger)
	if err != nil {
		return err
	}

	parsing := pipeline.Parsing{
		Refs:       reference.NewExtractor(cfg.Project.CorrectionTable()),
		Classifier: classify.New(),
		Skips:      cfg.Project.SkipList(),
		Cutoff:     cfg.Cutoff,
	}
	if members != nil {
		parsing.Members = members
	}

	bp := pipeline.NewBatchProcessor(
		pipeline.SittingPipeline(s.sources, parsing, reconcile.New(reconcile.WithLogger(logger)), logger),
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithBatchLogger(logger),
	)

	fmt.Fprintf(cmd.ErrOrStderr(), "Processing %d sittings (concurrency: %d)...\n", len(sittings), cfg.Concurrency)
	start := time.Now()

	runs, err := bp.ProcessBatch(ctx, sittings)
	if err != nil {
		var dup *reconcile.DuplicateKeyError
		if errors.As(err, &dup) {
			for _, row := range dup.Rows() {
				logger.Error("duplicate join key", "sitting", dup.Sitting, "row", row)
			}
		}
		return err
	}

	records := collectVotes(runs)
	path, err := writeCSV(cfg, votesFile, func(w *report.CSVWriter) error {
		return w.WriteVotes(records)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d votes to %s in %s\n",
		len(records), path, time.Since(start).Round(time.Millisecond))

	summary := report.NewSummary(bp.RunID(), getVersion(), runs)
	if err := outputSummary(cmd, cfg, summary); err != nil {
		return err
	}

	if failed := summary.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d sittings failed", failed, len(summary.Sittings))
	}
	return nil
}

// collectVotes concatenates the votes of the successful runs in sitting order.
func collectVotes(runs []*model.SittingRun) []model.Vote {
	var records []model.Vote
	for _, run := range runs {
		if run == nil || run.Error != nil {
			continue
		}
		records = append(records, run.Votes...)
	}
	return records
}

// outputSummary writes the run summary in the requested format.
func outputSummary(cmd *cobra.Command, cfg *config.Config, summary *report.Summary) error {
	var output io.Writer = cmd.OutOrStdout()
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create summary directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create summary file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var writer report.SummaryWriter
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	case cfg.ReportFile == "" && isRedirected(output):
		writer = report.NewJSONWriter(output)
	default:
		writer = report.NewTableWriter(output)
	}
	_, err := writer.WriteSummary(summary)
	return err
}
