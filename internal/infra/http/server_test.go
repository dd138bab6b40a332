package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Spok95/costshare-bot/internal/calendar"
	"github.com/Spok95/costshare-bot/internal/domain/records"
	"github.com/Spok95/costshare-bot/internal/ledger"
)

type fakeReporter struct {
	got calendar.Month
	err error
}

func (f *fakeReporter) Report(_ context.Context, m calendar.Month) (*ledger.MonthlyReport, error) {
	f.got = m
	if f.err != nil {
		return nil, f.err
	}
	return &ledger.MonthlyReport{
		Month:  m,
		Rows:   []records.ReportRow{{Date: m.First(), Kind: records.KindProject, Subject: "市集", Member: "BOSS", Cost: 100, Total: 100}},
		Totals: []ledger.Share{{Member: "BOSS", Cost: 100}},
		Total:  100,
	}, nil
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(NewMux(false, nil, discard()))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "OK" {
		t.Errorf("GET /health = %d %q", resp.StatusCode, body)
	}

	resp2, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("GET /metrics with metrics disabled = %d, want 404", resp2.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	NewMux(true, nil, discard()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Errorf("GET /metrics = %d", rec.Code)
	}
}

func TestReportHandler(t *testing.T) {
	fr := &fakeReporter{}
	mux := NewMux(false, fr, discard())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/monthly?month=2025-11", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
	if fr.got != (calendar.Month{Year: 2025, Month: time.November}) {
		t.Errorf("reporter got month %v", fr.got)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "costshare_2025-11.xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	// xlsx files are zip archives.
	if !strings.HasPrefix(rec.Body.String(), "PK") {
		t.Error("body is not an xlsx archive")
	}
}

func TestReportHandlerErrors(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		err    error
		status int
	}{
		{"missing month", "/reports/monthly", nil, http.StatusBadRequest},
		{"bad month", "/reports/monthly?month=2025-13", nil, http.StatusBadRequest},
		{"store failure", "/reports/monthly?month=2025-11", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		mux := NewMux(false, &fakeReporter{err: tt.err}, discard())
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))
		if rec.Code != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.name, rec.Code, tt.status)
		}
	}
}
