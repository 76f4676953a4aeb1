// Package report turns comparison results into text and charts. It reads
// stats.Result values and never influences how they are computed.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/paceboot/paceboot/internal/stats"
)

// Labels names the two compared groups. A is the first argument to
// stats.Compare, B the second; differences are B minus A.
type Labels struct {
	A    string
	B    string
	Unit string
}

// DefaultLabels matches the usual "mine versus a friend" comparison.
var DefaultLabels = Labels{A: "Friend", B: "Mine", Unit: "m/s"}

// FormatLevel renders a confidence level without trailing zeros ("95", "97.5").
func FormatLevel(level float64) string {
	return strconv.FormatFloat(level, 'f', -1, 64)
}

// WriteSummary writes the bootstrap and permutation summary of res.
func WriteSummary(w io.Writer, l Labels, res *stats.Result) error {
	lvl := FormatLevel(res.ConfidenceLevel)

	_, err := fmt.Fprintf(w,
		"**Bootstrap Summary**\n"+
			"- Mean (%[1]s): %.3[3]f %[5]s\n"+
			"- %[6]s%% CI (%[1]s): (%.3[7]f, %.3[8]f)\n"+
			"- Mean (%[2]s): %.3[4]f %[5]s\n"+
			"- %[6]s%% CI (%[2]s): (%.3[9]f, %.3[10]f)\n"+
			"- Observed Difference: %.3[11]f %[5]s\n\n"+
			"**Permutation Test (No Difference)**\n"+
			"- P-value (from null distribution): %.4[12]f\n"+
			"- %[6]s%% CI (Null): (%.3[13]f, %.3[14]f)\n",
		l.A, l.B, res.A.Mean, res.B.Mean, l.Unit, lvl,
		res.A.CI.Lower, res.A.CI.Upper,
		res.B.CI.Lower, res.B.CI.Upper,
		res.ObservedDiff,
		res.PValue,
		res.NullCI.Lower, res.NullCI.Upper,
	)
	return err
}

// Verdict is a one-line reading of the permutation test at the given alpha.
func Verdict(l Labels, res *stats.Result, alpha float64) string {
	if !res.Significant(alpha) {
		return fmt.Sprintf("No significant difference between %s and %s (p = %.4f)", l.B, l.A, res.PValue)
	}

	direction := "faster"
	if res.ObservedDiff < 0 {
		direction = "slower"
	}
	return fmt.Sprintf("%s is significantly %s than %s (p = %.4f < %v)", l.B, direction, l.A, res.PValue, alpha)
}
