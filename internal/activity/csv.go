package activity

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// Column names in the export.
const (
	ColStartDate    = "start_date_local"
	ColAthlete      = "friendNum"
	ColType         = "type"
	ColAverageSpeed = "average_speed"
	ColID           = "id"
	ColName         = "name"
	ColDistance     = "distance"
	ColMovingTime   = "moving_time"
)

var requiredColumns = []string{ColStartDate, ColAthlete, ColType, ColAverageSpeed}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// ReadCSV parses an activity export. Columns are located by header name, so
// their order and any extra columns do not matter.
func ReadCSV(r io.Reader) ([]Activity, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("failed to read header: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	var acts []Activity
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", row, err)
		}

		a, err := parseRecord(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		acts = append(acts, a)
	}

	return acts, nil
}

func parseRecord(rec []string, cols map[string]int) (Activity, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var a Activity
	var err error

	if a.StartDate, err = parseDate(field(ColStartDate)); err != nil {
		return a, err
	}

	athlete, err := strconv.ParseFloat(field(ColAthlete), 64)
	if err != nil || athlete != math.Trunc(athlete) {
		return a, fmt.Errorf("invalid %s %q", ColAthlete, field(ColAthlete))
	}
	a.Athlete = int(athlete)

	a.Type = field(ColType)
	if a.Type == "" {
		return a, fmt.Errorf("empty %s", ColType)
	}

	a.AverageSpeed, err = strconv.ParseFloat(field(ColAverageSpeed), 64)
	if err != nil || math.IsNaN(a.AverageSpeed) || math.IsInf(a.AverageSpeed, 0) {
		return a, fmt.Errorf("invalid %s %q", ColAverageSpeed, field(ColAverageSpeed))
	}

	a.Name = field(ColName)

	if v := field(ColID); v != "" {
		if a.ID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return a, fmt.Errorf("invalid %s %q", ColID, v)
		}
	}
	if v := field(ColDistance); v != "" {
		if a.Distance, err = strconv.ParseFloat(v, 64); err != nil {
			return a, fmt.Errorf("invalid %s %q", ColDistance, v)
		}
	}
	if v := field(ColMovingTime); v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return a, fmt.Errorf("invalid %s %q", ColMovingTime, v)
		}
		a.MovingTime = time.Duration(secs * float64(time.Second))
	}

	return a, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid %s %q", ColStartDate, s)
}
