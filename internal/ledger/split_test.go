package ledger_test

import (
	"testing"

	"github.com/Spok95/costshare-bot/internal/ledger"
)

func TestTwoTier(t *testing.T) {
	tests := []struct {
		total   int64
		members int
		each    int64
		company int64
		pool    int64
	}{
		{1000, 3, 166, 502, 500},
		{1001, 2, 250, 501, 500},
		{999, 4, 124, 503, 499},
		{400, 1, 200, 200, 200},
		{1, 1, 0, 1, 0},
		{0, 2, 0, 0, 0},
	}
	for _, tt := range tests {
		each, company, pool := ledger.TwoTier(tt.total, tt.members)
		if each != tt.each || company != tt.company || pool != tt.pool {
			t.Errorf("TwoTier(%d, %d) = (%d, %d, %d), want (%d, %d, %d)",
				tt.total, tt.members, each, company, pool, tt.each, tt.company, tt.pool)
		}
	}
}

func TestTwoTierSumsToTotal(t *testing.T) {
	for total := int64(0); total <= 5000; total += 37 {
		for n := 1; n <= 12; n++ {
			each, company, _ := ledger.TwoTier(total, n)
			if got := each*int64(n) + company; got != total {
				t.Fatalf("TwoTier(%d, %d) sums to %d", total, n, got)
			}
			if company < each {
				t.Fatalf("TwoTier(%d, %d): company %d below member share %d", total, n, company, each)
			}
		}
	}
}

func TestSingleTier(t *testing.T) {
	tests := []struct {
		amount  int64
		members int
		each    int64
		company int64
	}{
		{8100, 3, 2025, 2025},
		{1000, 2, 333, 334},
		{10, 0, 10, 10},
		{7, 3, 1, 4},
	}
	for _, tt := range tests {
		each, company := ledger.SingleTier(tt.amount, tt.members)
		if each != tt.each || company != tt.company {
			t.Errorf("SingleTier(%d, %d) = (%d, %d), want (%d, %d)",
				tt.amount, tt.members, each, company, tt.each, tt.company)
		}
	}
	for amount := int64(1); amount <= 3000; amount += 41 {
		for n := 0; n <= 10; n++ {
			each, company := ledger.SingleTier(amount, n)
			if got := each*int64(n) + company; got != amount {
				t.Fatalf("SingleTier(%d, %d) sums to %d", amount, n, got)
			}
		}
	}
}

func TestDeduction(t *testing.T) {
	tests := []struct {
		invoice  int64
		capacity int
		consumed int
		unit     string
		deducted int64
	}{
		{9000, 30, 3, "300", 900},
		{1000, 3, 1, "333.3333333333333333", 333},
		{1000, 3, 2, "333.3333333333333333", 667},
		{5, 2, 1, "2.5", 3},
		{1000, 8, 0, "125", 0},
		{1000, 2, 3, "500", 1500},
	}
	for _, tt := range tests {
		unit, deducted := ledger.Deduction(tt.invoice, tt.capacity, tt.consumed)
		if deducted != tt.deducted {
			t.Errorf("Deduction(%d, %d, %d) deducted = %d, want %d", tt.invoice, tt.capacity, tt.consumed, deducted, tt.deducted)
		}
		if unit.String() != tt.unit {
			t.Errorf("Deduction(%d, %d, %d) unit = %s, want %s", tt.invoice, tt.capacity, tt.consumed, unit, tt.unit)
		}
	}
}
