package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/nao1215/quivotequoi/internal/classify"
	"github.com/nao1215/quivotequoi/internal/fetch"
	"github.com/nao1215/quivotequoi/internal/model"
	"github.com/nao1215/quivotequoi/internal/page"
	"github.com/nao1215/quivotequoi/internal/reconcile"
	"github.com/nao1215/quivotequoi/internal/reference"
	"github.com/nao1215/quivotequoi/internal/votes"
)

// Kind is one of the documents published for a sitting day.
type Kind string

const (
	// KindMinutes is the vote results tables of the minutes.
	KindMinutes Kind = "VOT"
	// KindRollCall is the roll-call vote results.
	KindRollCall Kind = "RCV"
	// KindText is the minutes text.
	KindText Kind = "PV"
	// KindAttendance is the attendance register.
	KindAttendance Kind = "ATT"
)

// Sources locates and fetches the documents of the sittings.
type Sources struct {
	// Fetcher downloads one document.
	Fetcher fetch.Fetcher

	// Pool bounds concurrent downloads.
	Pool *fetch.Pool

	// BaseURL is the document root, e.g. "https://www.europarl.europa.eu/doceo/document/".
	BaseURL string

	// Term is the parliamentary term number.
	Term int

	// Lang is the document language code.
	Lang string
}

// URL returns the address of a day's document,
// e.g. BaseURL+"PV-10-2024-09-17-VOT_FR.xml".
func (s *Sources) URL(kind Kind, day time.Time) string {
	prefix := s.BaseURL + "PV-" + strconv.Itoa(s.Term) + "-" + day.Format(time.DateOnly)
	switch kind {
	case KindText:
		return prefix + "_" + s.Lang + ".html"
	case KindAttendance:
		return prefix + "-ATT_" + s.Lang + ".html"
	default:
		return prefix + "-" + string(kind) + "_" + s.Lang + ".xml"
	}
}

// published is a day document that could be fetched.
type published struct {
	day  time.Time
	url  string
	body []byte
}

// fetchDays downloads the kind document of every vote day of the run.
// Days with no published document are recorded in the run and left out.
// Any other failure is returned.
func (s *Sources) fetchDays(ctx context.Context, run *model.SittingRun, kind Kind, logger *slog.Logger) ([]published, error) {
	days := run.Sitting.VoteDays()
	urls := make([]string, len(days))
	for i, day := range days {
		urls[i] = s.URL(kind, day)
	}

	pool := s.Pool
	if pool == nil {
		pool = fetch.NewPool()
	}

	var docs []published
	for i, res := range pool.Fetch(ctx, s.Fetcher, urls) {
		switch {
		case errors.Is(res.Err, fetch.ErrNotFound):
			logger.Debug("document not published", "kind", kind, "url", res.Key)
			if kind == KindMinutes {
				run.SkippedDays = append(run.SkippedDays, days[i])
			}
		case res.Err != nil:
			return nil, fmt.Errorf("failed to fetch %s: %w", res.Key, res.Err)
		default:
			docs = append(docs, published{day: days[i], url: res.Key, body: res.Value})
		}
	}
	return docs, nil
}

// Parsing holds the collaborators shared by the parsing steps.
type Parsing struct {
	// Members resolves roll-call entries.
	Members votes.Members

	// Refs extracts document references with the configured corrections.
	Refs *reference.Extractor

	// Classifier classifies minutes subjects.
	Classifier *classify.Classifier

	// Skips lists minutes records to drop.
	Skips []votes.Skip

	// Cutoff is the first day published in the current minutes schema.
	Cutoff time.Time
}

func (p Parsing) context(run *model.SittingRun, doc published, logger *slog.Logger) *votes.ParseContext {
	pc := votes.NewParseContext(run.Sitting, doc.day)
	pc.URL = doc.url
	pc.Dedup = run.Dedup
	pc.Members = p.Members
	pc.Refs = p.Refs
	pc.Classifier = p.Classifier
	if p.Skips != nil {
		pc.Skips = p.Skips
	}
	pc.Logger = logger
	return pc
}

// MinutesStep reads the vote results tables of every vote day.
type MinutesStep struct {
	sources *Sources
	parsing Parsing
	logger  *slog.Logger
}

// NewMinutesStep creates a minutes step.
func NewMinutesStep(sources *Sources, parsing Parsing, logger *slog.Logger) *MinutesStep {
	if logger == nil {
		logger = slog.Default()
	}
	if parsing.Cutoff.IsZero() {
		parsing.Cutoff = votes.DefaultCutoff
	}
	return &MinutesStep{sources: sources, parsing: parsing, logger: logger}
}

// Name returns the step name.
func (s *MinutesStep) Name() string {
	return "minutes"
}

// Do fetches and parses the results of each day, in day order.
func (s *MinutesStep) Do(ctx context.Context, run *model.SittingRun) error {
	docs, err := s.sources.fetchDays(ctx, run, KindMinutes, s.logger)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		schema := votes.SchemaFor(doc.day, s.parsing.Cutoff)
		records, err := schema.Parser().Parse(s.parsing.context(run, doc, s.logger), bytes.NewReader(doc.body))
		if err != nil {
			return fmt.Errorf("failed to parse %s (%s schema): %w", doc.url, schema, err)
		}
		s.logger.Debug("parsed minutes", "url", doc.url, "schema", schema.String(), "records", len(records))
		run.Minutes = append(run.Minutes, records...)
	}
	return nil
}

// RollCallStep reads the roll-call results of every vote day.
type RollCallStep struct {
	sources *Sources
	parsing Parsing
	logger  *slog.Logger
}

// NewRollCallStep creates a roll-call step.
func NewRollCallStep(sources *Sources, parsing Parsing, logger *slog.Logger) *RollCallStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &RollCallStep{sources: sources, parsing: parsing, logger: logger}
}

// Name returns the step name.
func (s *RollCallStep) Name() string {
	return "rollcall"
}

// Do fetches and parses the roll-call results of each day.
func (s *RollCallStep) Do(ctx context.Context, run *model.SittingRun) error {
	docs, err := s.sources.fetchDays(ctx, run, KindRollCall, s.logger)
	if err != nil {
		return err
	}
	var parser votes.RollCallParser
	for _, doc := range docs {
		records, err := parser.Parse(s.parsing.context(run, doc, s.logger), bytes.NewReader(doc.body))
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", doc.url, err)
		}
		s.logger.Debug("parsed roll-call votes", "url", doc.url, "records", len(records))
		run.RollCalls = append(run.RollCalls, records...)
	}
	return nil
}

// MinutesTextStep reads the paragraphs of the minutes of every vote day.
// They are only used to find referrals back to committee.
type MinutesTextStep struct {
	sources *Sources
	logger  *slog.Logger
}

// NewMinutesTextStep creates a minutes text step.
func NewMinutesTextStep(sources *Sources, logger *slog.Logger) *MinutesTextStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &MinutesTextStep{sources: sources, logger: logger}
}

// Name returns the step name.
func (s *MinutesTextStep) Name() string {
	return "minutes_text"
}

// Do fetches and parses the minutes page of each day.
func (s *MinutesTextStep) Do(ctx context.Context, run *model.SittingRun) error {
	docs, err := s.sources.fetchDays(ctx, run, KindText, s.logger)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		parser, err := page.NewParser(doc.url)
		if err != nil {
			return err
		}
		paragraphs, err := parser.Paragraphs(bytes.NewReader(doc.body))
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", doc.url, err)
		}
		run.Texts = append(run.Texts, model.MinutesText{Date: doc.day, URL: doc.url, Paragraphs: paragraphs})
	}
	return nil
}

// ReconcileStep joins the minutes and roll-call records of the run.
type ReconcileStep struct {
	reconciler *reconcile.Reconciler
}

// NewReconcileStep creates a reconcile step.
func NewReconcileStep(r *reconcile.Reconciler) *ReconcileStep {
	if r == nil {
		r = reconcile.New()
	}
	return &ReconcileStep{reconciler: r}
}

// Name returns the step name.
func (s *ReconcileStep) Name() string {
	return "reconcile"
}

// Do reconciles the run. A duplicate join key is returned as a
// *reconcile.DuplicateKeyError.
func (s *ReconcileStep) Do(_ context.Context, run *model.SittingRun) error {
	merged, err := s.reconciler.Reconcile(run.Sitting, run.Minutes, run.RollCalls, run.Texts)
	if err != nil {
		return err
	}
	run.Votes = merged
	return nil
}

// SittingPipeline returns a factory building the standard sitting pipeline.
func SittingPipeline(sources *Sources, parsing Parsing, r *reconcile.Reconciler, logger *slog.Logger) func() *Pipeline {
	return func() *Pipeline {
		p := New(WithLogger(logger))
		p.AddSteps(
			NewMinutesStep(sources, parsing, logger),
			NewRollCallStep(sources, parsing, logger),
			NewMinutesTextStep(sources, logger),
			NewReconcileStep(r),
		)
		return p
	}
}
