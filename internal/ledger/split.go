package ledger

import "github.com/shopspring/decimal"

// Share is one party's part of a split.
type Share struct {
	Member string
	Cost   int64
}

// TwoTier halves total into a member pool and the company half, then divides
// the pool evenly. Both remainders go to the company, so
// each*members + company == total.
func TwoTier(total int64, members int) (each, company, pool int64) {
	pool = total / 2
	company = total - pool
	if members <= 0 {
		return 0, total, pool
	}
	each = pool / int64(members)
	company += pool % int64(members)
	return each, company, pool
}

// SingleTier divides amount into members+1 equal shares; the company takes
// one share plus the division remainder.
func SingleTier(amount int64, members int) (each, company int64) {
	n := int64(members) + 1
	each = amount / n
	return each, each + amount%n
}

// Deduction prices consumed capacity units at invoice/capacity and rounds
// half up once, at the end.
func Deduction(invoice int64, capacity, consumed int) (unitPrice decimal.Decimal, deducted int64) {
	inv := decimal.NewFromInt(invoice)
	capD := decimal.NewFromInt(int64(capacity))
	unitPrice = inv.Div(capD)
	deducted = inv.Mul(decimal.NewFromInt(int64(consumed))).DivRound(capD, 0).IntPart()
	return unitPrice, deducted
}

func shares(roster []string, each int64, company string, companyCost int64) []Share {
	out := make([]Share, 0, len(roster)+1)
	for _, m := range roster {
		out = append(out, Share{Member: m, Cost: each})
	}
	return append(out, Share{Member: company, Cost: companyCost})
}
