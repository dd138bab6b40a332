// Package report renders a month's ledger rows as a pasteable text table and
// as an xlsx workbook.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Spok95/costshare-bot/internal/domain/records"
	"github.com/Spok95/costshare-bot/internal/ledger"
	"github.com/dustin/go-humanize"
	"github.com/xuri/excelize/v2"
)

const (
	detailSheet  = "明細"
	summarySheet = "總結"
)

var detailHeader = []any{"日期", "紀錄類型", "項目/地點", "攤提人", "攤提金額", "項目總成本"}

func KindLabel(k records.Kind) string {
	switch k {
	case records.KindProject:
		return "活動攤提"
	case records.KindSettlement:
		return "月成本結算"
	}
	return string(k)
}

// Text renders the tab-separated detail table followed by per-party totals.
func Text(rep *ledger.MonthlyReport) string {
	if len(rep.Rows) == 0 {
		return fmt.Sprintf("✅ %d 月份沒有任何費用紀錄可以生成報表。", int(rep.Month.Month))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 %s 費用明細報表 (可直接貼上試算表)\n\n", rep.Month)
	sb.WriteString("日期\t紀錄類型\t項目/地點\t攤提人\t攤提金額\t項目總成本\n")
	for _, r := range rep.Rows {
		fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Date.Format("2006/01/02"),
			KindLabel(r.Kind),
			r.Subject,
			r.Member,
			humanize.Comma(r.Cost),
			humanize.Comma(r.Total),
		)
	}

	sb.WriteString("\n--- 總結 ---\n攤提人\t總攤提金額\n")
	for _, s := range rep.Totals {
		fmt.Fprintf(&sb, "%s\t%s\n", s.Member, humanize.Comma(s.Cost))
	}
	fmt.Fprintf(&sb, "合計\t%s", humanize.Comma(rep.Total))
	return sb.String()
}

func Filename(rep *ledger.MonthlyReport) string {
	return fmt.Sprintf("costshare_%s.xlsx", rep.Month)
}

// XLSX builds a workbook with a detail sheet and a summary sheet.
func XLSX(rep *ledger.MonthlyReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), detailSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(detailSheet, "A1", &detailHeader); err != nil {
		return nil, err
	}
	for i, r := range rep.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			r.Date.Format("2006-01-02"),
			KindLabel(r.Kind),
			r.Subject,
			r.Member,
			r.Cost,
			r.Total,
		}
		if err := f.SetSheetRow(detailSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(detailSheet, "A", "F", 14)

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	header := []any{"攤提人", "總攤提金額"}
	if err := f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, s := range rep.Totals {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{s.Member, s.Cost}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, err
		}
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rep.Totals)+2)
	if err != nil {
		return nil, err
	}
	total := []any{"合計", rep.Total}
	if err := f.SetSheetRow(summarySheet, cell, &total); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
