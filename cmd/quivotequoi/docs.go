package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/quivotequoi/internal/amendment"
	"github.com/nao1215/quivotequoi/internal/pipeline"
	"github.com/nao1215/quivotequoi/internal/report"
	"github.com/spf13/cobra"
)

// NewDocsCmd creates the docs command.
func NewDocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Resolve voted documents and their tabled amendments",
		Long: `Docs reads the documents voted on from votes.csv, fetches the page of each
document to find its procedure and amendment files, and writes docs.csv and
amendments.csv to the output directory.

Amendments are read from table rows extracted ahead of time from the
amendment PDFs (--rows), as NAME.json or as an HTML table export NAME.html.
Without rows only the documents are resolved.
A document whose page cannot be fetched is written with an empty url.

Examples:
  # Documents of _data/votes.csv
  quivotequoi docs

  # With amendments and authors
  quivotequoi docs --rows _data/rows -M _data/members.csv`,
		Args: cobra.NoArgs,
		RunE: runDocsCmd,
	}

	addFetchFlags(cmd)
	cmd.Flags().String("votes", "", "Votes CSV file (default: votes.csv in the output directory)")
	cmd.Flags().StringP("rows", "r", "", "Directory of extracted amendment rows (NAME.json or NAME.html per NAME.pdf)")

	return cmd
}

// runDocsCmd executes the docs command.
func runDocsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd, cfg.Verbose)

	votesPath, err := cmd.Flags().GetString("votes")
	if err != nil {
		return err
	}
	if votesPath == "" {
		votesPath = filepath.Join(cfg.OutputDir, votesFile)
	}

	f, err := os.Open(votesPath) //nolint:gosec // Input path is chosen by the user
	if err != nil {
		return fmt.Errorf("failed to open votes file: %w", err)
	}
	docs, err := report.ReadDocuments(f)
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", votesPath, err)
	}

	s, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	members, err := loadRoster(cfg, logger)
	if err != nil {
		return err
	}
	var authors amendment.Roster
	if members != nil {
		authors = members
	}
	segmenter := amendment.New(authors, amendment.WithLogger(logger))

	var rows amendment.RowSource
	if cfg.RowsDir != "" {
		rows = amendment.DirRowSource{Dir: cfg.RowsDir}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Resolving %d documents...\n", len(docs))
	resolved, amendments := pipeline.NewDocumentBatch(s.sources, rows, segmenter, logger).Resolve(cmd.Context(), docs)
	if err := cmd.Context().Err(); err != nil {
		return err
	}

	docsPath, err := writeCSV(cfg, docsFile, func(w *report.CSVWriter) error {
		return w.WriteDocuments(resolved)
	})
	if err != nil {
		return err
	}
	amendmentsPath, err := writeCSV(cfg, amendmentsFile, func(w *report.CSVWriter) error {
		return w.WriteAmendments(amendments)
	})
	if err != nil {
		return err
	}

	unresolved := 0
	for _, d := range resolved {
		if d.Unresolved {
			unresolved++
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d documents (%d unresolved) to %s\n", len(resolved), unresolved, docsPath)
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d amendments to %s\n", len(amendments), amendmentsPath)
	return nil
}
