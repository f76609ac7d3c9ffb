package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/nao1215/quivotequoi/internal/fetch"
	"github.com/nao1215/quivotequoi/internal/pipeline"
	"github.com/nao1215/quivotequoi/internal/report"
	"github.com/spf13/cobra"
)

// errNoMembers is returned by attendance when no members file is configured.
var errNoMembers = errors.New("attendance requires a members file (--members or 'members' in the project file)")

// NewAttendanceCmd creates the attendance command.
func NewAttendanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance [dates...]",
		Short: "Extract the attendance register of plenary sittings",
		Long: `Attendance downloads the attendance register of every vote day of the
selected sittings, resolves the listed names against the members file and
writes attendance.csv to the output directory.

Examples:
  quivotequoi attendance --calendar --since 2024-09-01 -M _data/members.csv
  quivotequoi attendance 2024-09-17 -M _data/members.csv`,
		Args: cobra.ArbitraryArgs,
		RunE: runAttendanceCmd,
	}

	addFetchFlags(cmd)
	addSittingFlags(cmd)

	return cmd
}

// runAttendanceCmd executes the attendance command.
func runAttendanceCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.RosterPath == "" {
		return errNoMembers
	}
	logger := setupLogger(cmd, cfg.Verbose)

	s, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	members, err := loadRoster(cfg, logger)
	if err != nil {
		return err
	}

	sittings, err := s.sittings(cmd.Context(), cmd, args)
	if err != nil {
		return err
	}

	var days []time.Time
	for _, st := range sittings {
		days = append(days, st.VoteDays()...)
	}

	registers := pipeline.Attendances(cmd.Context(), s.sources, members, days)
	if err := cmd.Context().Err(); err != nil {
		return err
	}

	rows := make([]report.Attendance, 0, len(registers))
	for _, reg := range registers {
		switch {
		case errors.Is(reg.Err, fetch.ErrNotFound):
			logger.Debug("no attendance register published", "date", reg.Date.Format(time.DateOnly))
		case reg.Err != nil:
			logger.Warn("failed to read attendance register", "url", reg.URL, "error", reg.Err)
		default:
			rows = append(rows, report.Attendance{Date: reg.Date, Members: reg.Members, URL: reg.URL})
		}
	}

	path, err := writeCSV(cfg, attendanceFile, func(w *report.CSVWriter) error {
		return w.WriteAttendance(rows)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d of %d days to %s\n", len(rows), len(registers), path)
	return nil
}
