package server

import (
	"embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"sort"

	"fjacquet/expense-insights/internal/apperror"
	"fjacquet/expense-insights/internal/logging"
	"fjacquet/expense-insights/internal/pipeline"
	"fjacquet/expense-insights/internal/render"

	"github.com/google/uuid"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var chartTitles = map[string]string{
	render.ChartIncomeVsExpenses:   "Monthly Income vs. Expense",
	render.ChartMonthlyBalance:     "Monthly Balance",
	render.ChartIncomeSources:      "Income Sources",
	render.ChartNeedsWants:         "Needs vs. Wants",
	render.ChartActualVsForecast:   "Actual vs. Forecasted Savings",
	render.ChartNetSavingsForecast: "Net Savings Forecast",
	render.ChartSuspicious:         "Suspicious Transactions",
	render.ChartCategoryTrends:     "Spending by Category Over Time",
}

type chartView struct {
	Name  string
	Title string
	Src   template.URL
}

type outlierView struct {
	Date     string
	Amount   string
	Category string
}

type pageData struct {
	RequestID     string
	TotalIncome   string
	TotalExpenses string
	NetSavings    string
	Charts        []chartView
	Notices       []string
	Outliers      []outlierView
}

type errorPage struct {
	RequestID string
	Message   string
}

type dashboardHandler struct {
	logger logging.Logger
	config Config
}

func newDashboardHandler(logger logging.Logger, config Config) *dashboardHandler {
	return &dashboardHandler{logger: logger, config: config}
}

// Index recomputes the whole analysis and renders the dashboard. Charts are inlined
// as data URIs so concurrent requests never share files.
func (h *dashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	log := h.logger.WithField(logging.FieldRequestID, requestID)
	w.Header().Set("X-Request-ID", requestID)

	res, err := h.config.Dependencies.Analyzer.Run(r.Context(), pipeline.Options{InputPath: h.config.InputPath})
	if err != nil {
		log.WithError(err).Error("Analysis failed")
		msg := "The analysis could not be completed."
		var dfe *apperror.DataFormatError
		if errors.As(err, &dfe) {
			msg = dfe.Error()
		}
		h.renderError(w, requestID, msg)
		return
	}

	charts, failures := h.config.Dependencies.Renderer.RenderAll(res)

	if h.config.Persist {
		paths, err := charts.WriteTo(h.config.OutputDir, requestID)
		if err != nil {
			log.WithError(err).Warn("Failed to persist charts")
		} else {
			log.Debug("Persisted charts",
				logging.F(logging.FieldOutputDir, h.config.OutputDir),
				logging.F(logging.FieldCount, len(paths)))
		}
	}

	data := pageData{
		RequestID:     requestID,
		TotalIncome:   res.Totals.Income.StringFixed(2),
		TotalExpenses: res.Totals.Expenses.StringFixed(2),
		NetSavings:    res.Totals.Net.StringFixed(2),
	}
	for _, name := range charts.Names() {
		img, _ := charts.Image(name)
		data.Charts = append(data.Charts, chartView{
			Name:  name,
			Title: chartTitles[name],
			Src:   template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(img)),
		})
	}
	if res.ForecastErr != nil {
		data.Notices = append(data.Notices, "Savings forecast unavailable: "+res.ForecastErr.Error())
	}
	failed := make([]string, 0, len(failures))
	for name := range failures {
		failed = append(failed, name)
	}
	sort.Strings(failed)
	for _, name := range failed {
		data.Notices = append(data.Notices, chartTitles[name]+" chart unavailable: "+failures[name].Error())
	}
	for _, row := range res.Anomalies.Outliers {
		data.Outliers = append(data.Outliers, outlierView{
			Date:     row.Date.Format("2006-01-02"),
			Amount:   formatAmount(row.Amount),
			Category: row.Category.String(),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, "index.html", data); err != nil {
		log.WithError(err).Error("Failed to render dashboard")
	}
}

func (h *dashboardHandler) renderError(w http.ResponseWriter, requestID, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	if err := pageTemplates.ExecuteTemplate(w, "error.html", errorPage{RequestID: requestID, Message: msg}); err != nil {
		h.logger.WithError(err).Error("Failed to render error page")
	}
}

// Health reports liveness.
func (h *dashboardHandler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		h.logger.WithError(err).Error("Failed to write health response")
	}
}
