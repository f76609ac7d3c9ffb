package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/nao1215/quivotequoi/internal/calendar"
	"github.com/nao1215/quivotequoi/internal/config"
	"github.com/nao1215/quivotequoi/internal/database"
	"github.com/nao1215/quivotequoi/internal/fetch"
	"github.com/nao1215/quivotequoi/internal/log"
	"github.com/nao1215/quivotequoi/internal/model"
	"github.com/nao1215/quivotequoi/internal/pipeline"
	"github.com/nao1215/quivotequoi/internal/report"
	"github.com/nao1215/quivotequoi/internal/roster"
	"github.com/spf13/cobra"
)

// Output file names, relative to the output directory.
const (
	votesFile      = "votes.csv"
	docsFile       = "docs.csv"
	amendmentsFile = "amendments.csv"
	attendanceFile = "attendance.csv"
	lockFile       = "quivotequoi.lock"
)

var (
	// errLocked is returned when another run holds the cache directory.
	errLocked = errors.New("another quivotequoi run is in progress")

	// errNoSittings is returned when neither dates nor --calendar are given.
	errNoSittings = errors.New("no sittings specified: provide dates (YYYY-MM-DD) or use --calendar")
)

// addFetchFlags registers the flags of commands that download documents.
func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().Int("term", config.DefaultTerm, "Parliamentary term")
	cmd.Flags().String("base-url", config.DefaultBaseURL, "Document root URL")
	cmd.Flags().String("calendar-url", calendar.DefaultBaseURL, "Session calendar endpoint")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers, "Number of concurrent downloads")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Timeout for each request")
	cmd.Flags().Duration("cache-ttl", config.DefaultCacheTTL, "Reuse cached responses younger than this (0 keeps them forever)")
	cmd.Flags().Bool("no-cache", false, "Do not use the response cache")
	cmd.Flags().String("cache-dir", config.XDGCacheDir(), "Response cache directory")
	cmd.Flags().String("proxy", "", "SOCKS5 proxy address (host:port)")
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir, "Directory the CSV files are written to")
	cmd.Flags().StringP("members", "M", "", "Members CSV file (id, full_name, last_name)")
}

// addSittingFlags registers the flags selecting sittings.
func addSittingFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("calendar", false, "Process every sitting of the term's session calendar")
	cmd.Flags().String("since", "", "With --calendar, skip sittings before this date (YYYY-MM-DD)")
}

// changed reports whether the named flag exists on cmd and was set.
func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// getBoolFlag retrieves a bool flag from the command or the root command.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// getStringFlag retrieves a string flag from the command or the root command.
func getStringFlag(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetString(name)
		if err != nil {
			return ""
		}
	}
	return v
}

// buildConfig creates a Config from the project file and the command flags.
// Flags given on the command line win over the project file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getBoolFlag(cmd, "verbose")
	cfg.ConfigFilePath = getStringFlag(cmd, "config")

	// If the user explicitly specified a project file, error if not found.
	// Otherwise silently run without one.
	if path := config.FindConfigFile(cfg.ConfigFilePath); path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load project file %s: %w", path, err)
		}
		file.Apply(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	var err error
	flags := cmd.Flags()
	if changed(cmd, "term") {
		if cfg.Term, err = flags.GetInt("term"); err != nil {
			return nil, err
		}
	}
	if changed(cmd, "base-url") {
		if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
			return nil, err
		}
	}
	if changed(cmd, "calendar-url") {
		if cfg.CalendarURL, err = flags.GetString("calendar-url"); err != nil {
			return nil, err
		}
	}
	if changed(cmd, "workers") {
		if cfg.Workers, err = flags.GetInt("workers"); err != nil {
			return nil, err
		}
	}
	if changed(cmd, "concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return nil, err
		}
	}
	if changed(cmd, "timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if changed(cmd, "cache-ttl") {
		if cfg.CacheTTL, err = flags.GetDuration("cache-ttl"); err != nil {
			return nil, err
		}
	}
	if changed(cmd, "no-cache") {
		if cfg.NoCache, err = flags.GetBool("no-cache"); err != nil {
			return nil, err
		}
	}
	if changed(cmd, "cache-dir") {
		if cfg.CacheDir, err = flags.GetString("cache-dir"); err != nil {
			return nil, err
		}
	}
	if changed(cmd, "proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if changed(cmd, "output") {
		if cfg.OutputDir, err = flags.GetString("output"); err != nil {
			return nil, err
		}
	}
	if changed(cmd, "members") {
		if cfg.RosterPath, err = flags.GetString("members"); err != nil {
			return nil, err
		}
	}
	if changed(cmd, "rows") {
		if cfg.RowsDir, err = flags.GetString("rows"); err != nil {
			return nil, err
		}
	}
	if changed(cmd, "cutoff") {
		raw, err := flags.GetString("cutoff")
		if err != nil {
			return nil, err
		}
		if cfg.Cutoff, err = time.Parse(time.DateOnly, raw); err != nil {
			return nil, fmt.Errorf("invalid --cutoff %q: %w", raw, err)
		}
	}
	if changed(cmd, "json") {
		if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
			return nil, err
		}
	}
	if changed(cmd, "markdown") {
		if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
			return nil, err
		}
	}
	if changed(cmd, "summary") {
		if cfg.ReportFile, err = flags.GetString("summary"); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// setupLogger creates the sanitizing logger selected by the global flags.
func setupLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	if getBoolFlag(cmd, "log-json") {
		return log.NewSecureJSONLogger(cmd.ErrOrStderr(), verbose)
	}
	return log.NewSecureLogger(cmd.ErrOrStderr(), verbose)
}

// session holds what a downloading command needs for one run.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	lock    *flock.Flock
	cache   *database.CacheDB
	client  *fetch.Client
	sources *pipeline.Sources
}

// openSession locks the cache directory and builds the HTTP client.
// The lock keeps two runs from writing the same cache and output files.
func openSession(cfg *config.Config, logger *slog.Logger) (*session, error) {
	if err := os.MkdirAll(cfg.CacheDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	s := &session{cfg: cfg, logger: logger}
	s.lock = flock.New(filepath.Join(cfg.CacheDir, lockFile))
	locked, err := s.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", s.lock.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("%w (lock held on %s)", errLocked, s.lock.Path())
	}

	opts := []fetch.Option{
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithCookie("oeilLanguage", strings.ToLower(cfg.Language)),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithLogger(logger),
	}
	if cfg.ProxyAddress != "" {
		opts = append(opts, fetch.WithProxy(cfg.ProxyAddress))
	}
	if !cfg.NoCache {
		s.cache, err = database.Open(cfg.CacheDir, database.DefaultOptions())
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
		opts = append(opts, fetch.WithCache(s.cache, cfg.CacheTTL))
		logger.Debug("response cache opened", "path", s.cache.Path(), "ttl", cfg.CacheTTL)
	}

	s.client, err = fetch.NewClient(opts...)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	s.sources = &pipeline.Sources{
		Fetcher: s.client,
		Pool:    fetch.NewPool(fetch.WithWorkers(cfg.Workers), fetch.WithPoolLogger(logger)),
		BaseURL: cfg.BaseURL,
		Term:    cfg.Term,
		Lang:    cfg.Language,
	}
	return s, nil
}

// Close releases the cache and the lock.
func (s *session) Close() {
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.logger.Warn("failed to close cache", "error", err)
		}
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("failed to release lock", "path", s.lock.Path(), "error", err)
		}
	}
}

// sittings returns the sittings selected by the arguments or the calendar.
func (s *session) sittings(ctx context.Context, cmd *cobra.Command, args []string) ([]model.Sitting, error) {
	useCalendar, err := cmd.Flags().GetBool("calendar")
	if err != nil {
		return nil, err
	}

	if !useCalendar {
		if len(args) == 0 {
			return nil, errNoSittings
		}
		return calendar.ParseDates(args)
	}

	url := calendar.URL(s.cfg.CalendarURL, s.cfg.Term)
	body, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session calendar: %w", err)
	}
	sittings, err := calendar.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	raw, err := cmd.Flags().GetString("since")
	if err != nil || raw == "" {
		return sittings, err
	}
	since, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --since %q: %w", raw, err)
	}
	kept := sittings[:0]
	for _, st := range sittings {
		if !st.Date.Before(since) {
			kept = append(kept, st)
		}
	}
	s.logger.Info("session calendar loaded", "sittings", len(sittings), "since", raw, "kept", len(kept))
	return kept, nil
}

// loadRoster reads the members file, or returns nil when none is configured.
func loadRoster(cfg *config.Config, logger *slog.Logger) (*roster.Roster, error) {
	if cfg.RosterPath == "" {
		logger.Warn("no members file configured; roll-call positions and amendment authors are left empty")
		return nil, nil
	}
	return roster.LoadFile(cfg.RosterPath)
}

// createOutput creates name in the output directory.
func createOutput(cfg *config.Config, name string) (*os.File, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(cfg.OutputDir, name)
	f, err := os.Create(path) //nolint:gosec // Output path is chosen by the user
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}

// writeCSV creates name in the output directory and fills it with write.
func writeCSV(cfg *config.Config, name string, write func(w *report.CSVWriter) error) (string, error) {
	f, err := createOutput(cfg, name)
	if err != nil {
		return "", err
	}
	if err := write(report.NewCSVWriter(f)); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write %s: %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", f.Name(), err)
	}
	return f.Name(), nil
}

// isRedirected reports whether w is a file descriptor other than a terminal,
// such as a pipe.
func isRedirected(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}
