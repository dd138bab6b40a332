package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Spok95/costshare-bot/internal/calendar"
	"github.com/Spok95/costshare-bot/internal/infra/metrics"
	"github.com/Spok95/costshare-bot/internal/ledger"
	"github.com/Spok95/costshare-bot/internal/report"
)

type Reporter interface {
	Report(ctx context.Context, month calendar.Month) (*ledger.MonthlyReport, error)
}

type ReportHandler struct {
	log     *slog.Logger
	reports Reporter
}

func NewReportHandler(log *slog.Logger, reports Reporter) *ReportHandler {
	return &ReportHandler{log: log.With("component", "http"), reports: reports}
}

// ServeHTTP serves /reports/monthly?month=YYYY-MM as an xlsx attachment.
func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	monthStr := r.URL.Query().Get("month")
	if monthStr == "" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("missing month parameter"))
		return
	}
	month, err := calendar.ParseMonth(monthStr)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("invalid month parameter, want YYYY-MM"))
		return
	}

	rep, err := h.reports.Report(r.Context(), month)
	if err != nil {
		h.log.Error("monthly report failed", "month", month.String(), "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("failed to build report"))
		return
	}
	data, err := report.XLSX(rep)
	if err != nil {
		h.log.Error("xlsx render failed", "month", month.String(), "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("failed to render report"))
		return
	}

	metrics.ReportDownloads.Inc()
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.Filename(rep)))
	_, _ = w.Write(data)
}
