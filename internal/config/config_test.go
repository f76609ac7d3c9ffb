package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/quivotequoi/internal/votes"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// Changes to defaults should be intentional, so each one is pinned here.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Term is 10", func(t *testing.T) {
		t.Parallel()
		if cfg.Term != 10 {
			t.Errorf("expected Term to be 10, got %d", cfg.Term)
		}
	})

	t.Run("default BaseURL is the doceo document root", func(t *testing.T) {
		t.Parallel()
		if cfg.BaseURL != "https://www.europarl.europa.eu/doceo/document/" {
			t.Errorf("expected doceo BaseURL, got '%s'", cfg.BaseURL)
		}
	})

	t.Run("default CalendarURL is the plenary session calendar", func(t *testing.T) {
		t.Parallel()
		if cfg.CalendarURL != "https://www.europarl.europa.eu/plenary/fr/ajax/getSessionCalendar.html" {
			t.Errorf("expected session calendar URL, got '%s'", cfg.CalendarURL)
		}
	})

	t.Run("default Language is FR", func(t *testing.T) {
		t.Parallel()
		if cfg.Language != "FR" {
			t.Errorf("expected Language to be 'FR', got '%s'", cfg.Language)
		}
	})

	t.Run("default Cutoff is 2024-01-16", func(t *testing.T) {
		t.Parallel()
		want := time.Date(2024, time.January, 16, 0, 0, 0, 0, time.UTC)
		if !cfg.Cutoff.Equal(want) {
			t.Errorf("expected Cutoff to be %v, got %v", want, cfg.Cutoff)
		}
	})

	t.Run("default Workers is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.Workers != 4 {
			t.Errorf("expected Workers to be 4, got %d", cfg.Workers)
		}
	})

	t.Run("default Concurrency is 2", func(t *testing.T) {
		t.Parallel()
		if cfg.Concurrency != 2 {
			t.Errorf("expected Concurrency to be 2, got %d", cfg.Concurrency)
		}
	})

	t.Run("default Timeout is 60 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 60*time.Second {
			t.Errorf("expected Timeout to be 60s, got %v", cfg.Timeout)
		}
	})

	t.Run("default CacheTTL is 24 hours", func(t *testing.T) {
		t.Parallel()
		if cfg.CacheTTL != 24*time.Hour {
			t.Errorf("expected CacheTTL to be 24h, got %v", cfg.CacheTTL)
		}
	})

	t.Run("default CacheDir is the XDG cache dir", func(t *testing.T) {
		t.Parallel()
		if cfg.CacheDir != XDGCacheDir() {
			t.Errorf("expected CacheDir to be %q, got %q", XDGCacheDir(), cfg.CacheDir)
		}
	})

	t.Run("default OutputDir is _data", func(t *testing.T) {
		t.Parallel()
		if cfg.OutputDir != "_data" {
			t.Errorf("expected OutputDir to be '_data', got '%s'", cfg.OutputDir)
		}
	})

	t.Run("default ProxyAddress is empty", func(t *testing.T) {
		t.Parallel()
		if cfg.ProxyAddress != "" {
			t.Errorf("expected no ProxyAddress, got '%s'", cfg.ProxyAddress)
		}
	})

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case breaks exactly one validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr error
	}{
		{name: "valid config returns nil", modify: func(_ *Config) {}},
		{name: "zero term", modify: func(c *Config) { c.Term = 0 }, wantErr: ErrInvalidTerm},
		{name: "base URL without trailing slash", modify: func(c *Config) { c.BaseURL = "https://example.org/doc" }, wantErr: ErrInvalidBaseURL},
		{name: "relative base URL", modify: func(c *Config) { c.BaseURL = "doceo/document/" }, wantErr: ErrInvalidBaseURL},
		{name: "ftp base URL", modify: func(c *Config) { c.BaseURL = "ftp://example.org/" }, wantErr: ErrInvalidBaseURL},
		{name: "http base URL is valid", modify: func(c *Config) { c.BaseURL = "http://127.0.0.1:8080/" }},
		{name: "empty language", modify: func(c *Config) { c.Language = "" }, wantErr: ErrInvalidLanguage},
		{name: "long language", modify: func(c *Config) { c.Language = "FRA" }, wantErr: ErrInvalidLanguage},
		{name: "zero timeout", modify: func(c *Config) { c.Timeout = 0 }, wantErr: ErrInvalidTimeout},
		{name: "negative timeout", modify: func(c *Config) { c.Timeout = -time.Second }, wantErr: ErrInvalidTimeout},
		{name: "zero workers", modify: func(c *Config) { c.Workers = 0 }, wantErr: ErrInvalidWorkers},
		{name: "zero concurrency", modify: func(c *Config) { c.Concurrency = 0 }, wantErr: ErrInvalidConcurrency},
		{name: "negative cache TTL", modify: func(c *Config) { c.CacheTTL = -time.Minute }, wantErr: ErrInvalidCacheTTL},
		{name: "zero cache TTL is valid", modify: func(c *Config) { c.CacheTTL = 0 }},
		{
			name: "json and markdown together",
			modify: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
		{name: "negative max body size", modify: func(c *Config) { c.MaxBodySize = -1 }, wantErr: ErrInvalidMaxBodySize},
		{name: "empty output dir", modify: func(c *Config) { c.OutputDir = "" }, wantErr: ErrNoOutputDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestFileApply tests that project file values override defaults.
func TestFileApply(t *testing.T) {
	t.Parallel()

	t.Run("set values are copied", func(t *testing.T) {
		t.Parallel()

		f := &File{
			Term:    9,
			Output:  "out",
			Members: "members.csv",
			Rows:    "rows",
			Proxy:   "127.0.0.1:9050",
		}
		cfg := NewConfig()
		f.Apply(cfg)

		if cfg.Term != 9 {
			t.Errorf("expected Term 9, got %d", cfg.Term)
		}
		if cfg.OutputDir != "out" {
			t.Errorf("expected OutputDir 'out', got %q", cfg.OutputDir)
		}
		if cfg.RosterPath != "members.csv" {
			t.Errorf("expected RosterPath 'members.csv', got %q", cfg.RosterPath)
		}
		if cfg.RowsDir != "rows" {
			t.Errorf("expected RowsDir 'rows', got %q", cfg.RowsDir)
		}
		if cfg.ProxyAddress != "127.0.0.1:9050" {
			t.Errorf("expected ProxyAddress, got %q", cfg.ProxyAddress)
		}
		if cfg.Project != f {
			t.Error("expected Project to point at the file")
		}
	})

	t.Run("unset values keep defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		(&File{}).Apply(cfg)

		if cfg.Term != DefaultTerm {
			t.Errorf("expected Term %d, got %d", DefaultTerm, cfg.Term)
		}
		if cfg.OutputDir != DefaultOutputDir {
			t.Errorf("expected OutputDir %q, got %q", DefaultOutputDir, cfg.OutputDir)
		}
	})

	t.Run("nil file is a no-op", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		var f *File
		f.Apply(cfg)

		if cfg.Project != nil {
			t.Error("expected no Project")
		}
	})
}

// TestFileTables tests merging of corrections and skips with the built-in lists.
func TestFileTables(t *testing.T) {
	t.Parallel()

	t.Run("corrections extend the built-in table", func(t *testing.T) {
		t.Parallel()

		f := &File{Corrections: map[string]string{
			"A9-0001/2020": "A9-0001/2021",
			"A9-0280/2019": "A9-0280/2022",
		}}
		want := map[string]string{
			"A9-0001/2020": "A9-0001/2021",
			"A9-0280/2019": "A9-0280/2022",
		}
		if diff := cmp.Diff(want, f.CorrectionTable()); diff != "" {
			t.Errorf("corrections mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("nil file returns a copy of the built-in table", func(t *testing.T) {
		t.Parallel()

		var f *File
		table := f.CorrectionTable()
		table["X"] = "Y"
		if _, ok := f.CorrectionTable()["X"]; ok {
			t.Error("expected built-in table to be left untouched")
		}
	})

	t.Run("skips follow the built-in list", func(t *testing.T) {
		t.Parallel()

		f := &File{Skips: []votes.Skip{{Doc: "B9-0001/2024", Subject: "Vote unique"}}}
		want := append(append([]votes.Skip(nil), votes.DefaultSkips...), votes.Skip{Doc: "B9-0001/2024", Subject: "Vote unique"})
		if diff := cmp.Diff(want, f.SkipList()); diff != "" {
			t.Errorf("skips mismatch (-want +got):\n%s", diff)
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.quivotequoi")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".quivotequoi")
		content := `term: 10
output: out
members: out/members.csv
rows: out/rows
corrections:
  A9-0001/2020: A9-0001/2021
skips:
  - doc: A9-0337/2023
    subject: "Article 16, § 3 TUE"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		got, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := &File{
			Term:        10,
			Output:      "out",
			Members:     "out/members.csv",
			Rows:        "out/rows",
			Corrections: map[string]string{"A9-0001/2020": "A9-0001/2021"},
			Skips:       []votes.Skip{{Doc: "A9-0337/2023", Subject: "Article 16, § 3 TUE"}},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("file mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".quivotequoi")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("initializes nil Corrections map", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".quivotequoi")
		if err := os.WriteFile(configPath, []byte("term: 9\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Corrections == nil {
			t.Error("expected Corrections map to be initialized")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("term: 10\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})

	t.Run("finds the file in the current directory", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("term: 10\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		t.Chdir(dir)

		if result := FindConfigFile(""); filepath.Base(result) != DefaultConfigFile {
			t.Errorf("expected %s in the current directory, got %q", DefaultConfigFile, result)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{
		"data":   XDGDataDir(),
		"config": XDGConfigDir(),
		"cache":  XDGCacheDir(),
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if filepath.Base(dir) != AppName {
				t.Errorf("expected %s dir to end with %q, got %q", name, AppName, dir)
			}
		})
	}
}
