package activity

import "time"

// TypeRun is the activity type compared by default.
const TypeRun = "Run"

// Activity is one recorded workout from the upstream export.
type Activity struct {
	ID           int64
	Athlete      int // 0 is the owner of the export, friends are numbered from 1
	Type         string
	Name         string
	StartDate    time.Time
	AverageSpeed float64 // m/s
	Distance     float64 // m
	MovingTime   time.Duration
}

// Filter selects the activities forming one comparison sample.
type Filter struct {
	Athlete int
	Type    string // empty matches every type
}

// Match reports whether a satisfies f.
func (f Filter) Match(a Activity) bool {
	if a.Athlete != f.Athlete {
		return false
	}
	return f.Type == "" || a.Type == f.Type
}

// Speeds returns the average speeds of the activities matching f, in input order.
func Speeds(acts []Activity, f Filter) []float64 {
	var speeds []float64
	for _, a := range acts {
		if f.Match(a) {
			speeds = append(speeds, a.AverageSpeed)
		}
	}
	return speeds
}
