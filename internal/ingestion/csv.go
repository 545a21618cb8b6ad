// Package ingestion loads the historical flight-operations dataset from CSV.
// It resolves the file location, validates the column schema once, parses
// timestamps, and hands the core a typed []models.FlightRecord. Schema
// problems surface as *models.DataError naming the offending column.
package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/SaiPavan214/Flight-Schedule-Optimizer/pkg/models"
)

// Dataset column names. The loader validates presence once at open time,
// not per-access.
const (
	ColFlightNumber = "Flight_Number"
	ColRoute        = "Route"
	ColDate         = "Date"
	ColSTD          = "STD_DateTime"
	ColATD          = "ATD_DateTime"
	ColSTA          = "STA_DateTime"
	ColATA          = "ATA_DateTime"
	ColDepDelay     = "Departure_Delay_Minutes"
	ColArrDelay     = "Arrival_Delay_Minutes"
	ColDuration     = "Flight_Duration_Minutes"

	// Optional columns; derived from the scheduled departure when absent.
	ColHourOfDay = "Hour_of_Day"
	ColDayOfWeek = "Day_of_Week"
	ColWeekend   = "Weekend"
	ColPeakTime  = "Peak_Time"
)

var requiredColumns = []string{
	ColFlightNumber, ColRoute, ColDate,
	ColSTD, ColATD, ColSTA, ColATA,
	ColDepDelay, ColArrDelay, ColDuration,
}

// Accepted timestamp layouts, tried in order.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// Loader reads flight records from a CSV dataset.
type Loader struct {
	searchPaths []string
	logger      *zap.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger attaches a logger; the default is a nop logger.
func WithLogger(l *zap.Logger) LoaderOption {
	return func(ld *Loader) { ld.logger = l }
}

// WithSearchPaths adds directories to try when the dataset path is relative
// and not found in the working directory.
func WithSearchPaths(dirs ...string) LoaderOption {
	return func(ld *Loader) { ld.searchPaths = append(ld.searchPaths, dirs...) }
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	ld := &Loader{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Resolve locates the dataset file. Absolute paths are used as-is; relative
// paths are tried against the working directory and then each search path.
func (ld *Loader) Resolve(path string) (string, error) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("dataset %s: %w", path, err)
		}
		return path, nil
	}
	candidates := []string{path}
	for _, dir := range ld.searchPaths {
		candidates = append(candidates, filepath.Join(dir, path))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("dataset %s not found (searched %d locations)", path, len(candidates))
}

// Load resolves and parses the dataset at path.
func (ld *Loader) Load(path string) ([]models.FlightRecord, error) {
	resolved, err := ld.Resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(resolved)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := ld.Parse(f)
	if err != nil {
		return nil, err
	}
	ld.logger.Info("dataset loaded",
		zap.String("path", resolved),
		zap.Int("records", len(records)))
	return records, nil
}

// Parse reads CSV rows from r into flight records. The header row is
// validated against the required column set before any row is parsed.
func (ld *Loader) Parse(r io.Reader) ([]models.FlightRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, &models.DataError{Column: name}
		}
	}

	var out []models.FlightRecord
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", line+1, err)
		}
		line++
		rec, err := parseRow(row, cols)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseRow(row []string, cols map[string]int) (models.FlightRecord, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rec models.FlightRecord
	rec.FlightNumber = field(ColFlightNumber)
	rec.Route = field(ColRoute)
	rec.Date = field(ColDate)

	var err error
	if rec.ScheduledDep, err = parseTime(ColSTD, field(ColSTD)); err != nil {
		return rec, err
	}
	if rec.ActualDep, err = parseTime(ColATD, field(ColATD)); err != nil {
		return rec, err
	}
	if rec.ScheduledArr, err = parseTime(ColSTA, field(ColSTA)); err != nil {
		return rec, err
	}
	if rec.ActualArr, err = parseTime(ColATA, field(ColATA)); err != nil {
		return rec, err
	}
	if rec.DepDelayMin, err = parseFloat(ColDepDelay, field(ColDepDelay)); err != nil {
		return rec, err
	}
	if rec.ArrDelayMin, err = parseFloat(ColArrDelay, field(ColArrDelay)); err != nil {
		return rec, err
	}
	if rec.DurationMin, err = parseFloat(ColDuration, field(ColDuration)); err != nil {
		return rec, err
	}

	// Time-of-day flags come from the dataset when present, otherwise from
	// the scheduled departure.
	if v := field(ColHourOfDay); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil || h < 0 || h > 23 {
			return rec, &models.DataError{Column: ColHourOfDay, Reason: fmt.Sprintf("invalid hour %q", v)}
		}
		rec.HourOfDay = h
	} else {
		rec.HourOfDay = rec.ScheduledDep.Hour()
	}
	if v := field(ColDayOfWeek); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d < 0 || d > 6 {
			return rec, &models.DataError{Column: ColDayOfWeek, Reason: fmt.Sprintf("invalid day %q", v)}
		}
		rec.DayOfWeek = d
	} else {
		// Monday-based index.
		rec.DayOfWeek = (int(rec.ScheduledDep.Weekday()) + 6) % 7
	}
	if v := field(ColWeekend); v != "" {
		rec.Weekend = parseBool(v)
	} else {
		rec.Weekend = rec.DayOfWeek >= 5
	}
	if v := field(ColPeakTime); v != "" {
		rec.PeakTime = parseBool(v)
	} else {
		rec.PeakTime = models.IsPeakHour(rec.HourOfDay)
	}
	return rec, nil
}

func parseTime(col, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, &models.DataError{Column: col, Reason: "empty timestamp"}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &models.DataError{Column: col, Reason: fmt.Sprintf("unparseable timestamp %q", v)}
}

func parseFloat(col, v string) (float64, error) {
	if v == "" {
		return 0, &models.DataError{Column: col, Reason: "empty value"}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &models.DataError{Column: col, Reason: fmt.Sprintf("not a number: %q", v)}
	}
	return f, nil
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "t", "yes":
		return true
	}
	return false
}
