package stats

import "fmt"

// InsufficientDataError is returned when a group has no observations.
// Means and resampling are undefined for an empty group.
type InsufficientDataError struct {
	Group string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: group %s has no observations", e.Group)
}

// InvalidParameterError is returned for out-of-range resample counts,
// confidence levels, or non-finite observations. Values are never clamped
// by this package; callers clamp before invoking it.
type InvalidParameterError struct {
	Param  string
	Value  any
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Param, e.Value, e.Reason)
}
