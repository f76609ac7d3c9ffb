// Package config provides configuration structures and utilities for quivotequoi.
// It defines the options for fetching plenary documents, parsing them
// and writing the extracted records, plus the optional project file.
package config
