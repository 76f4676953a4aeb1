package store

import "time"

// AthleteSummary aggregates the imported activities of one athlete.
type AthleteSummary struct {
	Athlete       int
	Activities    int
	Runs          int
	MeanRunSpeed  float64 // m/s over runs only, 0 when there are none
	FirstActivity time.Time
	LastActivity  time.Time
}
