package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Spok95/costshare-bot/internal/calendar"
	"github.com/Spok95/costshare-bot/internal/domain/records"
	"github.com/Spok95/costshare-bot/internal/ledger"
	"github.com/xuri/excelize/v2"
)

func sampleReport() *ledger.MonthlyReport {
	d := time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)
	return &ledger.MonthlyReport{
		Month: calendar.Month{Year: 2025, Month: time.November},
		Rows: []records.ReportRow{
			{Date: d, Kind: records.KindProject, Subject: "市集", Member: "小明", Cost: 500, Total: 2000},
			{Date: d, Kind: records.KindProject, Subject: "市集", Member: "BOSS", Cost: 1500, Total: 2000},
			{Date: d.AddDate(0, 0, -2), Kind: records.KindSettlement, Subject: "房租", Member: "小明", Cost: 4050, Total: 8100},
		},
		Totals: []ledger.Share{{Member: "BOSS", Cost: 1500}, {Member: "小明", Cost: 4550}},
		Total:  6050,
	}
}

func TestText(t *testing.T) {
	out := Text(sampleReport())
	for _, want := range []string{
		"2025-11",
		"日期\t紀錄類型\t項目/地點\t攤提人\t攤提金額\t項目總成本",
		"2025/11/03\t活動攤提\t市集\tBOSS\t1,500\t2,000",
		"月成本結算\t房租\t小明\t4,050\t8,100",
		"小明\t4,550",
		"合計\t6,050",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Text() missing %q in:\n%s", want, out)
		}
	}
}

func TestTextEmpty(t *testing.T) {
	rep := &ledger.MonthlyReport{Month: calendar.Month{Year: 2025, Month: time.March}}
	if out := Text(rep); !strings.Contains(out, "3 月份沒有任何費用紀錄") {
		t.Errorf("Text(empty) = %q", out)
	}
}

func TestXLSX(t *testing.T) {
	data, err := XLSX(sampleReport())
	if err != nil {
		t.Fatalf("XLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	if sheets := f.GetSheetList(); len(sheets) != 2 || sheets[0] != detailSheet || sheets[1] != summarySheet {
		t.Fatalf("sheets = %v", sheets)
	}
	tests := []struct {
		sheet, cell, want string
	}{
		{detailSheet, "A1", "日期"},
		{detailSheet, "C2", "市集"},
		{detailSheet, "E3", "1500"},
		{detailSheet, "B4", "月成本結算"},
		{summarySheet, "A3", "小明"},
		{summarySheet, "B4", "6050"},
	}
	for _, tt := range tests {
		got, err := f.GetCellValue(tt.sheet, tt.cell)
		if err != nil {
			t.Errorf("GetCellValue(%s, %s): %v", tt.sheet, tt.cell, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s!%s = %q, want %q", tt.sheet, tt.cell, got, tt.want)
		}
	}
}

func TestFilename(t *testing.T) {
	if got := Filename(sampleReport()); got != "costshare_2025-11.xlsx" {
		t.Errorf("Filename() = %q", got)
	}
}
