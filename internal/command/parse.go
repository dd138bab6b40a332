package command

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Spok95/costshare-bot/internal/calendar"
	"github.com/shopspring/decimal"
)

var (
	dateRe       = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:\(([^()]{1,3})\))?$`)
	multiplierRe = regexp.MustCompile(`^[xX*](\d+(?:\.\d+)?)$`)
	capacityRe   = regexp.MustCompile(`^容量[=:]?(\d+)$`)
	furnitureRe  = regexp.MustCompile(`^(\d+[桌椅張])+$`)
)

var standardKeywords = map[string]bool{
	"標準":       true,
	"standard": true,
	"std":      true,
}

var fillerWords = map[string]bool{
	"確認": true,
	"ok": true,
	"好":  true,
	"收到": true,
	"+1": true,
	"桌椅": true,
}

var listTargets = map[string]ListTarget{
	"人名":  ListMembers,
	"成員":  ListMembers,
	"地點":  ListLocations,
	"月項目": ListItems,
	"月結算": ListSettlements,
}

// Parse interprets one message. Only its first non-empty line is used.
func Parse(text string, env Env) (Command, error) {
	raw := firstLine(text)
	line := Normalize(raw)
	if line == "" {
		return nil, parseErr("空白訊息")
	}
	fields := strings.Fields(line)
	head := fields[0]

	switch {
	case line == "測試":
		return Ping{}, nil
	case head == "說明" || strings.EqualFold(head, "help") || head == "/help":
		return Help{}, nil
	case strings.HasPrefix(head, "新增"):
		return parseAdd(fields, env)
	case strings.HasPrefix(head, "刪除"):
		return parseDelete(fields, env)
	case head == "清單":
		return parseList(fields)
	case head == "統計":
		return parseStat(fields, env)
	case head == "報表":
		return parseReport(fields, env)
	case head == "結算":
		return parseSettle(raw, fields, env)
	}
	return parseRecord(raw, fields, env)
}

func today(env Env) time.Time {
	t := env.Today
	if t.IsZero() {
		t = time.Now()
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseDate recognises an M/D token with an optional (weekday) marker.
// ok is false when tok is not shaped like a date at all.
func parseDate(tok string, env Env) (d time.Time, ok bool, err error) {
	m := dateRe.FindStringSubmatch(tok)
	if m == nil {
		return time.Time{}, false, nil
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, true, parseErr("日期格式錯誤：%s", tok)
	}
	year := calendar.NearestYear(today(env), time.Month(month))
	d = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, true, parseErr("日期不存在：%s", tok)
	}
	if mark := m[3]; mark != "" {
		wd, ok := calendar.ParseWeekday(mark)
		if !ok {
			return time.Time{}, true, parseErr("無法辨識的星期標記：%s", tok)
		}
		if wd != d.Weekday() {
			return time.Time{}, true, parseErr("日期與星期不符：%d/%d 是星期%s，不是星期%s",
				month, day, calendar.WeekdayLabel(d.Weekday()), calendar.WeekdayLabel(wd))
		}
	}
	return d, true, nil
}

// parseMonthToken accepts "11月", "11", "2025-11" and "2025/11".
func parseMonthToken(tok string, env Env) (calendar.Month, error) {
	s := strings.TrimSuffix(strings.TrimSpace(tok), "月")
	if strings.ContainsAny(s, "-/") {
		m, err := calendar.ParseMonth(s)
		if err != nil {
			return calendar.Month{}, parseErr("月份格式錯誤：%s", tok)
		}
		return m, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 12 {
		return calendar.Month{}, parseErr("月份格式錯誤，請輸入 1 到 12 的月份：%s", tok)
	}
	return calendar.Month{Year: calendar.NearestYear(today(env), time.Month(n)), Month: time.Month(n)}, nil
}

// parseAmount reads an admin amount: a plain non-negative integer or a cost
// expression.
func parseAmount(tok string) (int64, error) {
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		if n < 0 {
			return 0, parseErr("金額不可為負數：%s", tok)
		}
		return n, nil
	}
	if !isExprToken(tok) {
		return 0, parseErr("金額必須是數字：%s", tok)
	}
	v, err := EvalCost(tok)
	if err != nil {
		return 0, parseErr("金額算式錯誤：%s (%v)", tok, err)
	}
	return v, nil
}

func checkNames(names []string, env Env) error {
	for _, n := range names {
		if env.Company != "" && n == env.Company {
			return parseErr("%s 為公司帳，會自動加入分攤，請勿輸入", env.Company)
		}
	}
	return nil
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func isFiller(tok string) bool {
	return fillerWords[strings.ToLower(tok)] || furnitureRe.MatchString(tok)
}

func parseRecord(raw string, fields []string, env Env) (Command, error) {
	cmd := RecordExpense{Date: today(env), Text: raw}

	hasDate := false
	toks := make([]string, 0, len(fields))
	for i, f := range fields {
		if i == 0 {
			d, ok, err := parseDate(f, env)
			if err != nil {
				return nil, err
			}
			if ok {
				cmd.Date, hasDate = d, true
				continue
			}
		}
		if isFiller(f) {
			continue
		}
		toks = append(toks, f)
	}

	// Trailing modifiers: standard keyword, multiplier, cost override.
trailing:
	for len(toks) > 0 {
		last := toks[len(toks)-1]
		switch {
		case standardKeywords[strings.ToLower(last)]:
			cmd.ForceStandard = true
		case multiplierRe.MatchString(last):
			m, err := decimal.NewFromString(multiplierRe.FindStringSubmatch(last)[1])
			if err != nil || !m.IsPositive() || m.GreaterThan(decimal.NewFromInt(MaxAmount)) {
				return nil, parseErr("倍數格式錯誤：%s", last)
			}
			if cmd.Multiplier == nil {
				cmd.Multiplier = &m
			}
		case isExprToken(last):
			v, err := EvalCost(last)
			if err != nil {
				return nil, parseErr("金額算式錯誤：%s (%v)", last, err)
			}
			if cmd.CostOverride == nil {
				cmd.CostOverride = &v
			}
		default:
			break trailing
		}
		toks = toks[:len(toks)-1]
	}
	if cmd.CostOverride != nil {
		cmd.Multiplier = nil
	}

	if err := checkNames(toks, env); err != nil {
		return nil, err
	}
	if len(toks) < 2 {
		return nil, parseErr("無法識別的指令格式。請輸入「月/日(星期) 人名 地點」或「地點 人名」")
	}

	loc, members := resolveLocation(toks, hasDate, env.Locations)
	if !contains(env.Locations, loc) {
		return nil, parseErr("找不到地點「%s」，請先使用「新增 地點」設定", loc)
	}
	cmd.Location = loc
	cmd.Members = dedupe(members)
	return cmd, nil
}

// resolveLocation prefers any token that names a known location. Otherwise
// the position decides: last token after a date, first token without one.
func resolveLocation(toks []string, hasDate bool, known []string) (string, []string) {
	for i, t := range toks {
		if contains(known, t) {
			rest := make([]string, 0, len(toks)-1)
			rest = append(rest, toks[:i]...)
			rest = append(rest, toks[i+1:]...)
			return t, rest
		}
	}
	if hasDate {
		return toks[len(toks)-1], toks[:len(toks)-1]
	}
	return toks[0], toks[1:]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

const addUsage = "新增指令格式錯誤。\n" +
	"新增人名 [人名]\n" +
	"新增 地點 [地點名] [成本]\n" +
	"新增 月地點 [地點名] [成本] [月項目] [營業日 (如 一二三四五)]\n" +
	"新增 月項目 [項目名] [人名1] [人名2]..."

func parseAdd(f []string, env Env) (Command, error) {
	if f[0] == "新增人名" || f[0] == "新增成員" {
		if len(f) != 2 {
			return nil, parseErr(addUsage)
		}
		if err := checkNames(f[1:], env); err != nil {
			return nil, err
		}
		return AddMember{Name: f[1]}, nil
	}
	if f[0] != "新增" || len(f) < 3 {
		return nil, parseErr(addUsage)
	}
	switch f[1] {
	case "人名", "成員":
		if len(f) != 3 {
			return nil, parseErr(addUsage)
		}
		if err := checkNames(f[2:], env); err != nil {
			return nil, err
		}
		return AddMember{Name: f[2]}, nil
	case "地點":
		if len(f) != 4 {
			return nil, parseErr(addUsage)
		}
		cost, err := parseAmount(f[3])
		if err != nil {
			return nil, err
		}
		return AddLocation{Name: f[2], Cost: cost}, nil
	case "月地點":
		if len(f) != 6 {
			return nil, parseErr(addUsage)
		}
		cost, err := parseAmount(f[3])
		if err != nil {
			return nil, err
		}
		mask, err := calendar.ParseMask(f[5])
		if err != nil {
			return nil, parseErr("營業日格式錯誤：%s (請用 日一二三四五六 或 0-6)", f[5])
		}
		return DefineRecurringLocation{Name: f[2], Cost: cost, Item: f[4], OpenDays: mask}, nil
	case "月項目":
		if len(f) < 4 {
			return nil, parseErr("新增月項目格式錯誤。請使用: 新增 月項目 [項目名] [人名1] [人名2]...")
		}
		if err := checkNames(f[3:], env); err != nil {
			return nil, err
		}
		return DefineRecurringItem{Name: f[2], Members: dedupe(f[3:])}, nil
	}
	return nil, parseErr(addUsage)
}

const deleteUsage = "刪除指令格式錯誤。\n" +
	"刪除 人名 [人名]\n" +
	"刪除 地點 [地點名]\n" +
	"刪除 紀錄 [月/日(星期)] [地點名]\n" +
	"刪除 月項目 [項目名]\n" +
	"刪除 月結算 [月份] [項目名]"

func parseDelete(f []string, env Env) (Command, error) {
	if f[0] != "刪除" || len(f) < 3 {
		return nil, parseErr(deleteUsage)
	}
	switch {
	case (f[1] == "人名" || f[1] == "成員") && len(f) == 3:
		if err := checkNames(f[2:], env); err != nil {
			return nil, err
		}
		return DeleteMember{Name: f[2]}, nil
	case f[1] == "地點" && len(f) == 3:
		return DeleteLocation{Name: f[2]}, nil
	case f[1] == "月項目" && len(f) == 3:
		return DeleteRecurringItem{Name: f[2]}, nil
	case f[1] == "紀錄" && len(f) == 4:
		d, ok, err := parseDate(f[2], env)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, parseErr("刪除紀錄的日期格式無效 (月/日(星期) 地點名)")
		}
		return DeleteProject{Date: d, Location: f[3]}, nil
	case f[1] == "月結算" && len(f) == 4:
		m, err := parseMonthToken(f[2], env)
		if err != nil {
			return nil, err
		}
		return DeleteSettlement{Month: m, Item: f[3]}, nil
	}
	return nil, parseErr(deleteUsage)
}

func parseList(f []string) (Command, error) {
	if len(f) != 2 {
		return nil, parseErr("清單指令格式錯誤。請使用: 清單 人名, 清單 地點, 清單 月項目 或 清單 月結算")
	}
	t, ok := listTargets[f[1]]
	if !ok {
		return nil, parseErr("無法識別的清單類別。請輸入「清單 人名」、「清單 地點」、「清單 月項目」或「清單 月結算」")
	}
	return List{Target: t}, nil
}

func parseStat(f []string, env Env) (Command, error) {
	if len(f) != 3 {
		return nil, parseErr("統計指令格式錯誤。請使用: 統計 [人名/公司] [月份 (例如 9月)]")
	}
	m, err := parseMonthToken(f[2], env)
	if err != nil {
		return nil, err
	}
	// The company may be queried here: it is not typed as a split party.
	return Stat{Member: f[1], Month: m}, nil
}

func parseReport(f []string, env Env) (Command, error) {
	if len(f) != 2 {
		return nil, parseErr("報表指令格式錯誤。請使用: 報表 [月份 (例如 11月)]")
	}
	m, err := parseMonthToken(f[1], env)
	if err != nil {
		return nil, err
	}
	return Report{Month: m}, nil
}

const settleUsage = "結算月項目格式錯誤。\n結算 月項目 [月份 (如 11月)] [項目名] [實際金額] [容量N 選填] [人名選填 (覆蓋預設)]"

func parseSettle(raw string, f []string, env Env) (Command, error) {
	if len(f) < 5 || f[1] != "月項目" {
		return nil, parseErr(settleUsage)
	}
	m, err := parseMonthToken(f[2], env)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(f[4])
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, parseErr("結算金額必須大於 0")
	}
	cmd := SettleRecurring{Month: m, Item: f[3], Invoice: amount, Text: raw}
	var members []string
	for _, tok := range f[5:] {
		if c := capacityRe.FindStringSubmatch(tok); c != nil {
			n, err := strconv.Atoi(c[1])
			if err != nil || n <= 0 {
				return nil, parseErr("容量必須是大於 0 的整數：%s", tok)
			}
			cmd.CapacityOverride = &n
			continue
		}
		members = append(members, tok)
	}
	if err := checkNames(members, env); err != nil {
		return nil, err
	}
	if len(members) > 0 {
		cmd.Members = dedupe(members)
	}
	return cmd, nil
}
