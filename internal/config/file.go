package config

import (
	"maps"

	"github.com/nao1215/quivotequoi/internal/reference"
	"github.com/nao1215/quivotequoi/internal/votes"
)

// File represents the structure of the .quivotequoi project file.
//
// Example:
//
//	term: 10
//	output: _data
//	members: _data/members.csv
//	rows: _data/rows
//	corrections:
//	  A9-0280/2019: A9-0280/2021
//	skips:
//	  - doc: A9-0337/2023
//	    subject: "Article 16, § 3 TUE"
type File struct {
	// Term overrides the default parliamentary term.
	Term int `yaml:"term,omitempty"`

	// Output is the directory the CSV files are written to.
	Output string `yaml:"output,omitempty"`

	// Members is the path of the members CSV file.
	Members string `yaml:"members,omitempty"`

	// Rows is the directory holding extracted amendment table rows.
	Rows string `yaml:"rows,omitempty"`

	// Proxy is an optional SOCKS5 proxy address.
	Proxy string `yaml:"proxy,omitempty"`

	// Corrections maps misprinted document references to the verified one.
	// Entries are added to the built-in table and win over it.
	Corrections map[string]string `yaml:"corrections,omitempty"`

	// Skips lists minutes records to drop, in addition to the built-in list.
	Skips []votes.Skip `yaml:"skips,omitempty"`
}

// Apply copies the values set in the file onto c.
// Unset values leave c untouched, so flags applied afterwards still win.
func (f *File) Apply(c *Config) {
	if f == nil {
		return
	}
	if f.Term > 0 {
		c.Term = f.Term
	}
	if f.Output != "" {
		c.OutputDir = f.Output
	}
	if f.Members != "" {
		c.RosterPath = f.Members
	}
	if f.Rows != "" {
		c.RowsDir = f.Rows
	}
	if f.Proxy != "" {
		c.ProxyAddress = f.Proxy
	}
	c.Project = f
}

// CorrectionTable returns the built-in reference corrections merged with
// the file's entries.
func (f *File) CorrectionTable() map[string]string {
	table := maps.Clone(reference.DefaultCorrections)
	if f != nil {
		maps.Copy(table, f.Corrections)
	}
	return table
}

// SkipList returns the built-in skipped records followed by the file's.
func (f *File) SkipList() []votes.Skip {
	skips := append([]votes.Skip(nil), votes.DefaultSkips...)
	if f != nil {
		skips = append(skips, f.Skips...)
	}
	return skips
}
