package server

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/paceboot/paceboot/internal/analysis"
	"github.com/paceboot/paceboot/internal/dashboard"
	"github.com/paceboot/paceboot/internal/report"
)

// Dashboard template data structures
type layoutData struct {
	Title   string
	CSS     template.CSS
	Content template.HTML
}

type compareData struct {
	MaxResamples int
	Form         analysis.Request
	Levels       []levelOption
	Error        string
	Summary      string
	Significant  bool
	Verdict      string
	ChartsHTML   string
	ChartsURL    string
	Athletes     []athleteRow
}

type levelOption struct {
	Value    string
	Label    string
	Selected bool
}

type athleteRow struct {
	Athlete      int
	Activities   string
	Runs         string
	MeanRunSpeed string
	First        string
	Last         string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	// Handle logout
	if r.URL.Query().Get("logout") == "1" {
		setTokenCookie(w, "", 0)
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	q := r.URL.Query()
	cfg := s.analyzer.Config()

	req, err := s.requestFromQuery(q)
	data := compareData{MaxResamples: cfg.MaxResamples}
	if err != nil {
		data.Error = err.Error()
	}
	req = s.analyzer.Normalize(req)
	data.Form = req
	data.Levels = levelOptions(cfg.Levels, req.Level)

	if err == nil && q.Get("generate") != "" {
		if err := s.fillComparison(r, &data, req); err != nil {
			data.Error = err.Error()
		}
	}

	athletes, err := s.store.ListAthletes(r.Context())
	if err != nil {
		http.Error(w, "Failed to load athletes", http.StatusInternalServerError)
		return
	}
	for _, a := range athletes {
		row := athleteRow{
			Athlete:    a.Athlete,
			Activities: humanize.Comma(int64(a.Activities)),
			Runs:       humanize.Comma(int64(a.Runs)),
			First:      a.FirstActivity.Format("Jan 2, 2006"),
			Last:       a.LastActivity.Format("Jan 2, 2006"),
		}
		if a.Runs > 0 {
			row.MeanRunSpeed = fmt.Sprintf("%.3f m/s", a.MeanRunSpeed)
		}
		data.Athletes = append(data.Athletes, row)
	}

	s.renderDashboard(w, "Compare", "compare.html", data)
}

// fillComparison runs req once and adds the summary and charts to data. The
// standalone charts link carries the effective seed so it redraws the same
// distributions.
func (s *Server) fillComparison(r *http.Request, data *compareData, req analysis.Request) error {
	out, err := s.compare(r, uuid.NewString(), req)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := report.WriteSummary(&buf, report.DefaultLabels, out.Result); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	var charts bytes.Buffer
	if err := report.RenderCharts(&charts, report.DefaultLabels, out.Result); err != nil {
		return err
	}

	alpha := (100 - out.Request.Level) / 100
	data.Summary = buf.String()
	data.ChartsHTML = charts.String()
	data.Significant = out.Result.Significant(alpha)
	data.Verdict = report.Verdict(report.DefaultLabels, out.Result, alpha)
	data.ChartsURL = "/dashboard/charts?" + chartsQuery(out).Encode()
	return nil
}

func (s *Server) handleDashboardCharts(w http.ResponseWriter, r *http.Request) {
	req, err := s.requestFromQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	reqID := uuid.NewString()
	w.Header().Set(requestIDHeader, reqID)

	out, err := s.compare(r, reqID, req)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.RenderCharts(w, report.DefaultLabels, out.Result); err != nil {
		s.logger.Error("failed to render charts", "request_id", reqID, "error", err)
	}
}

func chartsQuery(out *analysis.Outcome) url.Values {
	q := url.Values{}
	q.Set("mine", strconv.Itoa(out.Request.Mine))
	q.Set("friend", strconv.Itoa(out.Request.Friend))
	q.Set("type", out.Request.Type)
	q.Set("resamples", strconv.Itoa(out.Request.Resamples))
	q.Set("level", report.FormatLevel(out.Request.Level))
	q.Set("seed", strconv.FormatUint(out.Seed, 10))
	return q
}

func levelOptions(levels []float64, selected float64) []levelOption {
	options := make([]levelOption, len(levels))
	for i, l := range levels {
		label := report.FormatLevel(l)
		options[i] = levelOption{Value: label, Label: label + "%", Selected: l == selected}
	}
	return options
}

func (s *Server) renderDashboard(w http.ResponseWriter, title, contentTemplate string, data any) {
	// Load CSS
	cssBytes, err := dashboard.Assets.ReadFile("assets/style.css")
	if err != nil {
		http.Error(w, "Failed to load styles", http.StatusInternalServerError)
		return
	}

	contentTmpl, err := template.ParseFS(dashboard.Templates, "templates/"+contentTemplate)
	if err != nil {
		http.Error(w, "Failed to parse template", http.StatusInternalServerError)
		return
	}

	var contentBuf bytes.Buffer
	if err := contentTmpl.Execute(&contentBuf, data); err != nil {
		http.Error(w, fmt.Sprintf("Failed to render template: %v", err), http.StatusInternalServerError)
		return
	}

	layoutTmpl, err := template.ParseFS(dashboard.Templates, "templates/layout.html")
	if err != nil {
		http.Error(w, "Failed to parse layout", http.StatusInternalServerError)
		return
	}

	page := layoutData{
		Title:   title,
		CSS:     template.CSS(cssBytes),
		Content: template.HTML(contentBuf.String()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := layoutTmpl.Execute(w, page); err != nil {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
}
