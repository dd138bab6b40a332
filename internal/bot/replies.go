package bot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Spok95/costshare-bot/internal/calendar"
	"github.com/Spok95/costshare-bot/internal/command"
	"github.com/Spok95/costshare-bot/internal/domain/locations"
	"github.com/Spok95/costshare-bot/internal/domain/members"
	"github.com/Spok95/costshare-bot/internal/domain/recurring"
	"github.com/Spok95/costshare-bot/internal/domain/settlements"
	"github.com/Spok95/costshare-bot/internal/ledger"
	"github.com/dustin/go-humanize"
)

const divider = "--------------------------------"


func money(n int64) string { return humanize.Comma(n) }

func joinNames(names []string) string { return strings.Join(names, "、") }

func dateLabel(d time.Time) string {
	return fmt.Sprintf("%d/%d(%s)", int(d.Month()), d.Day(), calendar.WeekdayLabel(d.Weekday()))
}

// detail strips the sentinel prefix from errors built as "<sentinel>: name".
func detail(err, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}

func errorText(err error) string {
	switch {
	case errors.Is(err, ledger.ErrUnknownLocation):
		return fmt.Sprintf("❌ 找不到地點「%s」，請先使用「新增 地點」設定。", detail(err, ledger.ErrUnknownLocation))
	case errors.Is(err, ledger.ErrUnknownItem):
		return fmt.Sprintf("❌ 找不到月項目「%s」，請先使用「新增 月項目」設定。", detail(err, ledger.ErrUnknownItem))
	case errors.Is(err, ledger.ErrUnknownMember):
		return fmt.Sprintf("❌ 成員 %s 不存在。請先使用「新增人名」。", detail(err, ledger.ErrUnknownMember))
	case errors.Is(err, ledger.ErrReservedMember):
		return fmt.Sprintf("❌ %s 為公司帳，會自動加入分攤，不可輸入或刪除。", detail(err, ledger.ErrReservedMember))
	case errors.Is(err, ledger.ErrInvalidCost):
		return fmt.Sprintf("❌ 金額無效 (%s)：總成本必須大於 0 且不能超過 %s。", detail(err, ledger.ErrInvalidCost), money(command.MaxAmount))
	case errors.Is(err, ledger.ErrEmptyRoster):
		return fmt.Sprintf("❌ 無法結算『%s』：分攤人名單不能為空。", detail(err, ledger.ErrEmptyRoster))
	case errors.Is(err, ledger.ErrZeroCapacity):
		return "❌ 無法結算：此月項目的連結地點本月沒有營業日容量。請用「新增 月地點」設定營業日，或加上「容量N」指定。"
	case errors.Is(err, ledger.ErrStillReferenced):
		return "❌ 無法刪除：仍有紀錄或設定引用，請先刪除相關資料。"
	case errors.Is(err, ledger.ErrNotFound):
		return "💡 找不到指定的資料。"
	}
	return "❌ 資料庫處理失敗，本次指令沒有寫入任何資料，請稍後再試。"
}

func projectText(res *ledger.ProjectResult, company string) string {
	p := res.Project
	var sb strings.Builder
	if res.Created {
		fmt.Fprintf(&sb, "✅ 已新增紀錄：%s %s\n", dateLabel(p.Date), p.Location)
	} else {
		fmt.Fprintf(&sb, "✅ 已更新紀錄：%s %s\n", dateLabel(p.Date), p.Location)
	}
	sb.WriteString(divider + "\n")
	mode := "標準分攤"
	if p.Linked {
		mode = "抵扣月項目"
	}
	fmt.Fprintf(&sb, "總成本：%s 元 (%s)\n", money(p.TotalCost), mode)
	if len(res.Added) > 0 && !res.Created {
		fmt.Fprintf(&sb, "新加入：%s\n", joinNames(res.Added))
	}
	fmt.Fprintf(&sb, "分攤人 (%d 位)：%s\n", len(p.Members), joinNames(p.Members))
	fmt.Fprintf(&sb, "每位業務員攤提：%s 元\n", money(res.PerMember))
	fmt.Fprintf(&sb, "%s 攤提：%s 元", company, money(res.Company))
	return sb.String()
}

func settlementText(res *ledger.SettlementResult, company string) string {
	var sb strings.Builder
	action := "新增"
	if res.Replaced {
		action = "更新"
	}
	fmt.Fprintf(&sb, "✅ 成功%s %s 月成本結算：『%s』\n%s\n", action, res.Month, res.Item, divider)
	fmt.Fprintf(&sb, "實際成本：%s 元\n", money(res.Invoice))
	source := "依營業日計算"
	if res.CapacityOverridden {
		source = "手動指定"
	}
	fmt.Fprintf(&sb, "容量：%d 單位 (%s)，每單位 %s 元\n", res.Capacity, source, res.UnitPrice.Round(2).String())
	fmt.Fprintf(&sb, "活動已抵扣：%d 單位，共 %s 元\n", res.ConsumedUnits, money(res.Deducted))
	fmt.Fprintf(&sb, "待分攤餘額：%s 元\n", money(res.Remainder))
	if res.Remainder == 0 {
		sb.WriteString("本月成本已由活動完全抵扣，無需再分攤。")
		return sb.String()
	}
	fmt.Fprintf(&sb, "實際分攤人 (共 %d 位)：%s\n", len(res.Members)+1, joinNames(append(append([]string(nil), res.Members...), company)))
	fmt.Fprintf(&sb, "每位業務員攤提：%s 元\n", money(res.PerMember))
	fmt.Fprintf(&sb, "%s 攤提：%s 元 (含餘數 %d)", company, money(res.Company), res.Company-res.PerMember)
	return sb.String()
}

func overCollectedText(res *ledger.SettlementResult) string {
	return fmt.Sprintf("⚠️ %s 月項目『%s』未結算：活動已抵扣 %s 元 (%d 單位)，超過實際成本 %s 元，超收 %s 元。沒有寫入任何紀錄。",
		res.Month, res.Item, money(res.Deducted), res.ConsumedUnits, money(res.Invoice), money(-res.Remainder))
}

func membersText(ms []members.Member, company string) string {
	var names []string
	for _, m := range ms {
		if m.Name != company {
			names = append(names, m.Name)
		}
	}
	if len(names) == 0 {
		return "目前沒有任何成員。請使用「新增人名」。"
	}
	return fmt.Sprintf("📋 成員名單 (共 %d 位，%s 為公司帳不列入)：\n%s", len(names), company, strings.Join(names, "\n"))
}

func locationsText(ls []locations.Location) string {
	if len(ls) == 0 {
		return "目前沒有任何地點。請使用「新增 地點」。"
	}
	lines := make([]string, 0, len(ls)+1)
	lines = append(lines, "📋 地點清單：")
	for _, l := range ls {
		if l.Linked() {
			lines = append(lines, fmt.Sprintf("%s：%s 元/次，月項目『%s』，營業日 %s", l.Name, money(l.UnitCost), l.RecurringItem, l.OpenDays))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s：%s 元/次", l.Name, money(l.UnitCost)))
	}
	return strings.Join(lines, "\n")
}

func itemsText(items []recurring.Item) string {
	if len(items) == 0 {
		return "目前沒有任何月項目。請使用「新增 月項目」。"
	}
	lines := []string{"📋 月項目清單："}
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s：預設分攤 %s", it.Name, joinNames(it.DefaultMembers)))
	}
	return strings.Join(lines, "\n")
}

func settlementsText(ss []settlements.Settlement) string {
	if len(ss) == 0 {
		return "目前沒有任何月結算紀錄。"
	}
	lines := []string{"📋 月結算清單："}
	for _, s := range ss {
		lines = append(lines, fmt.Sprintf("%s %s：實際 %s，抵扣 %s，分攤 %s (%s)",
			s.Month, s.Item, money(s.Invoice), money(s.Deducted), money(s.Remainder), joinNames(s.Members)))
	}
	return strings.Join(lines, "\n")
}

func helpText(company string) string {
	return strings.Join([]string{
		"📖 指令說明",
		"記錄：11/5(三) 人名 人名 地點 [金額或算式] [x倍數] [標準]",
		"　　　地點 人名 人名 (不寫日期為今天)",
		"結算：結算 月項目 11月 項目 金額 [容量N] [人名...]",
		"新增人名 人名",
		"新增 地點 地點名 成本",
		"新增 月地點 地點名 成本 月項目 營業日(如 一二三四五)",
		"新增 月項目 項目名 人名...",
		"刪除 人名|地點|月項目 名稱",
		"刪除 紀錄 11/5(三) 地點",
		"刪除 月結算 11月 項目",
		"清單 人名|地點|月項目|月結算",
		"統計 人名 11月",
		"報表 11月",
		fmt.Sprintf("%s 為公司帳，會自動加入每一筆分攤，請勿輸入。", company),
	}, "\n")
}
