package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/paceboot/paceboot/internal/analysis"
	"github.com/paceboot/paceboot/internal/report"
	"github.com/paceboot/paceboot/internal/stats"
	"github.com/paceboot/paceboot/internal/store"
)

type compareFlags struct {
	mine        int
	friend      int
	activity    string
	resamples   int
	level       float64
	seed        uint64
	workers     int
	json        bool
	html        string
	interactive bool
}

// compareJSON is what --json prints. Group "a" is the friend, "b" is mine.
type compareJSON struct {
	Request    analysis.Request `json:"request"`
	Seed       uint64           `json:"seed"`
	DurationMS float64          `json:"duration_ms"`
	Result     *stats.Result    `json:"result"`
}

func newCompareCmd(a *app) *cobra.Command {
	var f compareFlags

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare your average speed with a friend's",
		Long: `Bootstrap the mean speed of two athletes and test for a difference.

Prints each athlete's mean with a percentile confidence interval, the
observed difference (mine minus friend's), the permutation p-value, and
the confidence interval of the null distribution.

Resample counts above the configured maximum are capped; zero or negative
counts use the default.

Examples:
  paceboot compare
  paceboot compare --friend 3 -n 5000 -l 99
  paceboot compare --seed 42 --html charts.html
  paceboot compare --interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Analysis
			if f.workers > 0 {
				cfg.Workers = f.workers
			}

			req := analysis.Request{
				Mine:      cfg.Mine,
				Friend:    cfg.Friend,
				Type:      cfg.ActivityType,
				Resamples: f.resamples,
				Level:     f.level,
			}
			flags := cmd.Flags()
			if flags.Changed("mine") {
				req.Mine = f.mine
			}
			if flags.Changed("friend") {
				req.Friend = f.friend
			}
			if flags.Changed("type") {
				req.Type = f.activity
			}
			if flags.Changed("seed") {
				req.Seed = &f.seed
			}

			if f.interactive {
				if err := promptRequest(&req, cfg.Levels, cfg.DefaultResamples); err != nil {
					return err
				}
			}

			return a.withStore(func(s *store.SQLiteStore) error {
				out, err := analysis.New(s, cfg, a.logger).Run(cmd.Context(), req)
				if err != nil {
					return err
				}

				if f.html != "" {
					if err := writeChartsFile(f.html, out.Result); err != nil {
						return err
					}
				}

				w := cmd.OutOrStdout()
				if f.json {
					enc := json.NewEncoder(w)
					enc.SetIndent("", "  ")
					return enc.Encode(compareJSON{
						Request:    out.Request,
						Seed:       out.Seed,
						DurationMS: float64(out.Duration) / float64(time.Millisecond),
						Result:     out.Result,
					})
				}

				if err := printComparison(w, out); err != nil {
					return err
				}
				if f.html != "" {
					fmt.Fprintf(w, "Charts written to %s\n", f.html)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&f.mine, "mine", 0, "your athlete number (friendNum column)")
	cmd.Flags().IntVar(&f.friend, "friend", 2, "friend's athlete number")
	cmd.Flags().StringVar(&f.activity, "type", "Run", "activity type to compare (empty for all)")
	cmd.Flags().IntVarP(&f.resamples, "resamples", "n", 0, "number of resamples (default from config, 1000)")
	cmd.Flags().Float64VarP(&f.level, "level", "l", 0, "confidence level in percent (default from config, 95)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed for a reproducible run")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "goroutines per resampling pass (default from config)")
	cmd.Flags().BoolVar(&f.json, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&f.html, "html", "", "write histograms to this HTML file")
	cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "choose level and resamples interactively")

	return cmd
}

func printComparison(w io.Writer, out *analysis.Outcome) error {
	if err := report.WriteSummary(w, report.DefaultLabels, out.Result); err != nil {
		return err
	}
	fmt.Fprintln(w)

	alpha := (100 - out.Request.Level) / 100
	verdict := report.Verdict(report.DefaultLabels, out.Result, alpha)
	if out.Result.Significant(alpha) {
		color.New(color.FgGreen, color.Bold).Fprintln(w, verdict)
	} else {
		color.New(color.FgYellow).Fprintln(w, verdict)
	}

	fmt.Fprintf(w, "\n%d resamples, seed %d (%s)\n", out.Request.Resamples, out.Seed, out.Duration.Round(time.Millisecond))
	return nil
}

func writeChartsFile(path string, res *stats.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := report.RenderCharts(f, report.DefaultLabels, res); err != nil {
		f.Close()
		return fmt.Errorf("failed to render charts: %w", err)
	}
	return f.Close()
}

func promptRequest(req *analysis.Request, levels []float64, defaultResamples int) error {
	items := make([]string, len(levels))
	for i, l := range levels {
		items[i] = report.FormatLevel(l) + "%"
	}

	sel := promptui.Select{
		Label: "Confidence level",
		Items: items,
		Size:  len(items),
	}
	idx, _, err := sel.Run()
	if err != nil {
		return promptError(err)
	}
	req.Level = levels[idx]

	prompt := promptui.Prompt{
		Label:   "Number of resamples",
		Default: strconv.Itoa(defaultResamples),
		Validate: func(s string) error {
			if _, err := strconv.Atoi(s); err != nil {
				return errors.New("enter a whole number")
			}
			return nil
		},
	}
	answer, err := prompt.Run()
	if err != nil {
		return promptError(err)
	}
	req.Resamples, _ = strconv.Atoi(answer)
	return nil
}

func promptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) {
		return errors.New("cancelled")
	}
	return fmt.Errorf("prompt failed: %w", err)
}
