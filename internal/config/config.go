package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/quivotequoi/internal/calendar"
	"github.com/nao1215/quivotequoi/internal/fetch"
	"github.com/nao1215/quivotequoi/internal/votes"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "quivotequoi"

	// DefaultTerm is the parliamentary term whose sittings are processed.
	DefaultTerm = 10

	// DefaultBaseURL is the prefix of every plenary document address.
	DefaultBaseURL = "https://www.europarl.europa.eu/doceo/document/"

	// DefaultLanguage is the language of the fetched documents. Subject
	// classification and the legacy minutes layout expect French text.
	DefaultLanguage = "FR"

	// DefaultWorkers bounds concurrent document fetches. The publication
	// site throttles aggressive clients, so this is kept small.
	DefaultWorkers = fetch.DefaultWorkers

	// DefaultConcurrency is the number of sittings processed at once.
	DefaultConcurrency = 2

	// DefaultTimeout is the timeout of a single HTTP request. Roll-call
	// annexes of long sittings are several megabytes.
	DefaultTimeout = fetch.DefaultTimeout

	// DefaultCacheTTL is how long a cached response is served without
	// asking the server again. Published minutes rarely change, but the
	// provisional edition of a recent sitting does.
	DefaultCacheTTL = 24 * time.Hour

	// DefaultOutputDir is where extracted CSV files are written.
	DefaultOutputDir = "_data"

	// DefaultUserAgent identifies quivotequoi in HTTP requests.
	DefaultUserAgent = fetch.DefaultUserAgent

	// DefaultMaxBodySize limits the size of a fetched document.
	DefaultMaxBodySize = fetch.DefaultMaxBodySize
)

// Config holds all configuration options for quivotequoi.
// This struct is populated from the project file and CLI flags and passed
// through the application rather than kept as global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., FetchConfig, OutputConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Term is the parliamentary term, used for calendar and document URLs.
	Term int

	// BaseURL is the prefix of every document address. It must end with '/'.
	BaseURL string

	// CalendarURL is the endpoint serving the session calendar of a term.
	CalendarURL string

	// Language is the two letter code of the fetched documents.
	Language string

	// Cutoff is the first sitting day published in the current schema.
	// Earlier days are parsed with the legacy layout.
	Cutoff time.Time

	// Workers bounds concurrent document fetches.
	Workers int

	// Concurrency is the number of sittings processed at once.
	Concurrency int

	// Timeout is the timeout of a single HTTP request.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum document size in bytes.
	// Set to 0 to use the default.
	MaxBodySize int64

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	ProxyAddress string

	// CacheDir is the directory holding the response cache database.
	// Defaults to the XDG cache directory.
	CacheDir string

	// CacheTTL is how long a cached response is reused. 0 keeps
	// responses forever.
	CacheTTL time.Duration

	// NoCache disables the response cache.
	NoCache bool

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// ConfigFilePath is the path to the project file.
	// If empty, the tool searches for .quivotequoi in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// Project holds the project file, if one was found.
	Project *File

	// OutputDir is the directory the CSV files are written to.
	OutputDir string

	// RosterPath is the members CSV file used to resolve roll-call entries.
	RosterPath string

	// RowsDir holds the extracted table rows of amendment documents.
	RowsDir string

	// JSONReport writes the run summary as JSON.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport writes the run summary as GitHub Flavored Markdown.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the run summary.
	// When empty, the summary is written to stdout.
	ReportFile string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., term, timeout).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Term:        DefaultTerm,
		BaseURL:     DefaultBaseURL,
		CalendarURL: calendar.DefaultBaseURL,
		Language:    DefaultLanguage,
		Cutoff:      votes.DefaultCutoff,
		Workers:     DefaultWorkers,
		Concurrency: DefaultConcurrency,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		CacheDir:    XDGCacheDir(),
		CacheTTL:    DefaultCacheTTL,
		OutputDir:   DefaultOutputDir,
	}
}

// XDGDataDir returns the XDG data directory for quivotequoi.
// On Linux: ~/.local/share/quivotequoi
// On macOS: ~/Library/Application Support/quivotequoi
// On Windows: %LOCALAPPDATA%\quivotequoi
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for quivotequoi.
// On Linux: ~/.config/quivotequoi
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for quivotequoi.
// On Linux: ~/.cache/quivotequoi
// On macOS: ~/Library/Caches/quivotequoi
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.Term <= 0 {
		return ErrInvalidTerm
	}

	if !validBaseURL(c.BaseURL) {
		return ErrInvalidBaseURL
	}

	if len(c.Language) != 2 {
		return ErrInvalidLanguage
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.CacheTTL < 0 {
		return ErrInvalidCacheTTL
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.OutputDir == "" {
		return ErrNoOutputDir
	}

	return nil
}

func validBaseURL(raw string) bool {
	if !strings.HasSuffix(raw, "/") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
