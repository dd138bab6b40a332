package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Spok95/costshare-bot/internal/command"
	"github.com/Spok95/costshare-bot/internal/infra/metrics"
	"github.com/Spok95/costshare-bot/internal/ledger"
	"github.com/Spok95/costshare-bot/internal/report"
)

// Reply is what one inbound message produces: text, and for reports an
// xlsx attachment.
type Reply struct {
	Text     string
	Document *Document
}

type Document struct {
	Name    string
	Bytes   []byte
	Caption string
}

// Dispatcher interprets one message and runs it against the ledger.
type Dispatcher struct {
	eng *ledger.Engine
	log *slog.Logger
}

func NewDispatcher(eng *ledger.Engine, log *slog.Logger) *Dispatcher {
	return &Dispatcher{eng: eng, log: log.With("component", "bot")}
}

func (d *Dispatcher) Handle(ctx context.Context, text string) Reply {
	started := time.Now()

	names, err := d.eng.LocationNames(ctx)
	if err != nil {
		d.log.Error("load locations failed", "err", err)
		metrics.Observe("unknown", "failed", started)
		return Reply{Text: errorText(err)}
	}
	env := command.Env{Today: d.eng.Today(), Company: d.eng.Company(), Locations: names}

	cmd, err := command.Parse(text, env)
	if err != nil {
		var pe *command.ParseError
		if errors.As(err, &pe) {
			d.log.Debug("parse failed", "reason", pe.Reason)
			metrics.Observe("unknown", "parse_error", started)
			return Reply{Text: "❌ " + pe.Reason}
		}
		metrics.Observe("unknown", "failed", started)
		return Reply{Text: errorText(err)}
	}

	reply, err := d.run(ctx, cmd)
	kind := string(cmd.Kind())
	outcome := outcomeOf(err)
	if outcome == "failed" {
		d.log.Error("command failed", "kind", kind, "err", err)
	} else {
		d.log.Info("command handled", "kind", kind, "outcome", outcome, "duration", time.Since(started))
	}
	metrics.Observe(kind, outcome, started)
	if err != nil && reply.Text == "" {
		reply.Text = errorText(err)
	}
	return reply
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ledger.ErrPersistence):
		return "failed"
	default:
		return "rejected"
	}
}

// run executes cmd. A non-nil error with an empty reply gets the generic
// error text for its kind.
func (d *Dispatcher) run(ctx context.Context, cmd command.Command) (Reply, error) {
	company := d.eng.Company()
	switch c := cmd.(type) {
	case command.RecordExpense:
		res, err := d.eng.RecordExpense(ctx, c)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Text: projectText(res, company)}, nil

	case command.SettleRecurring:
		res, err := d.eng.SettleRecurring(ctx, c)
		if errors.Is(err, ledger.ErrNegativeRemainder) {
			return Reply{Text: overCollectedText(res)}, err
		}
		if err != nil {
			return Reply{}, err
		}
		return Reply{Text: settlementText(res, company)}, nil

	case command.AddMember:
		created, err := d.eng.AddMember(ctx, c.Name)
		if err != nil {
			return Reply{}, err
		}
		if !created {
			return Reply{Text: "💡 " + c.Name + " 已在名單中。"}, nil
		}
		return Reply{Text: "✅ 已新增人名：" + c.Name}, nil

	case command.AddLocation:
		if err := d.eng.AddLocation(ctx, c.Name, c.Cost); err != nil {
			return Reply{}, err
		}
		return Reply{Text: fmt.Sprintf("✅ 已設定地點：%s，每次成本 %s 元。", c.Name, money(c.Cost))}, nil

	case command.DefineRecurringLocation:
		if err := d.eng.DefineRecurringLocation(ctx, c.Name, c.Cost, c.Item, c.OpenDays); err != nil {
			return Reply{}, err
		}
		return Reply{Text: fmt.Sprintf("✅ 已設定月地點：%s，每次成本 %s 元，抵扣月項目『%s』，營業日：%s。",
			c.Name, money(c.Cost), c.Item, c.OpenDays)}, nil

	case command.DefineRecurringItem:
		if err := d.eng.DefineRecurringItem(ctx, c.Name, c.Members); err != nil {
			return Reply{}, err
		}
		return Reply{Text: fmt.Sprintf("✅ 已設定月項目『%s』，預設分攤人：%s。", c.Name, joinNames(c.Members))}, nil

	case command.DeleteMember:
		return deleteReply(d.eng.DeleteMember(ctx, c.Name), "人名 "+c.Name)
	case command.DeleteLocation:
		return deleteReply(d.eng.DeleteLocation(ctx, c.Name), "地點 "+c.Name)
	case command.DeleteRecurringItem:
		return deleteReply(d.eng.DeleteRecurringItem(ctx, c.Name), "月項目 "+c.Name)
	case command.DeleteProject:
		return deleteReply(d.eng.DeleteProject(ctx, c.Date, c.Location), dateLabel(c.Date)+" "+c.Location+" 的紀錄")
	case command.DeleteSettlement:
		return deleteReply(d.eng.DeleteSettlement(ctx, c.Month, c.Item), c.Month.String()+" 月項目「"+c.Item+"」的結算")

	case command.List:
		return d.list(ctx, c.Target)

	case command.Stat:
		sum, err := d.eng.Stat(ctx, c.Member, c.Month)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Text: fmt.Sprintf("📊 %s 在 %s 的總攤提金額：%s 元", c.Member, c.Month, money(sum))}, nil

	case command.Report:
		rep, err := d.eng.Report(ctx, c.Month)
		if err != nil {
			return Reply{}, err
		}
		reply := Reply{Text: report.Text(rep)}
		if len(rep.Rows) == 0 {
			return reply, nil
		}
		data, err := report.XLSX(rep)
		if err != nil {
			d.log.Error("xlsx render failed", "month", c.Month.String(), "err", err)
			return reply, nil
		}
		reply.Document = &Document{Name: report.Filename(rep), Bytes: data, Caption: c.Month.String() + " 費用明細"}
		return reply, nil

	case command.Ping:
		return Reply{Text: "Bot 正常運作中！"}, nil
	case command.Help:
		return Reply{Text: helpText(company)}, nil
	}
	return Reply{Text: "無法識別的指令。"}, nil
}

func (d *Dispatcher) list(ctx context.Context, target command.ListTarget) (Reply, error) {
	switch target {
	case command.ListMembers:
		ms, err := d.eng.Members(ctx)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Text: membersText(ms, d.eng.Company())}, nil
	case command.ListLocations:
		ls, err := d.eng.Locations(ctx)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Text: locationsText(ls)}, nil
	case command.ListItems:
		items, err := d.eng.RecurringItems(ctx)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Text: itemsText(items)}, nil
	default:
		ss, err := d.eng.Settlements(ctx)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Text: settlementsText(ss)}, nil
	}
}

func deleteReply(err error, what string) (Reply, error) {
	switch {
	case err == nil:
		return Reply{Text: "✅ 已刪除" + what + "。"}, nil
	case errors.Is(err, ledger.ErrNotFound):
		return Reply{Text: "💡 找不到" + what + "。"}, err
	case errors.Is(err, ledger.ErrStillReferenced):
		return Reply{Text: "❌ 無法刪除" + what + "：仍有紀錄或設定引用，請先刪除相關資料。"}, err
	}
	return Reply{}, err
}
