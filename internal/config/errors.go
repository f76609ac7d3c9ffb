package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrInvalidTerm is returned when the parliamentary term is not positive.
	ErrInvalidTerm = errors.New("invalid term: must be positive")

	// ErrInvalidBaseURL is returned when the document base URL is not an
	// absolute http or https URL ending with a slash.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http(s) URL ending with '/'")

	// ErrInvalidLanguage is returned when the document language is not a
	// two letter code.
	ErrInvalidLanguage = errors.New("invalid language: must be a two letter code")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidWorkers is returned when the number of fetch workers is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidConcurrency is returned when the number of sittings processed
	// at once is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidCacheTTL is returned when the cache TTL is negative.
	// Use 0 to keep cached responses forever.
	ErrInvalidCacheTTL = errors.New("invalid cache TTL: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one summary format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrNoOutputDir is returned when no output directory is configured.
	ErrNoOutputDir = errors.New("no output directory specified")
)
