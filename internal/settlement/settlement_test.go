package settlement

import (
	"math"
	"reflect"
	"testing"
)

func TestTotal(t *testing.T) {
	tests := []struct {
		name     string
		expenses []Expense
		want     float64
	}{
		{
			name:     "empty ledger totals zero",
			expenses: nil,
			want:     0,
		},
		{
			name: "sums all amounts",
			expenses: []Expense{
				{Name: "Cabin", Amount: 300},
				{Name: "Groceries", Amount: 82.5},
				{Name: "Gas", Amount: 40},
			},
			want: 422.5,
		},
		{
			name: "zero amounts contribute nothing",
			expenses: []Expense{
				{Name: "Placeholder", Amount: 0},
				{Name: "Drinks", Amount: 25},
			},
			want: 25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Total(tt.expenses); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Total() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBalances(t *testing.T) {
	tests := []struct {
		name     string
		expenses []Expense
		members  []string
		want     map[string]float64
	}{
		{
			name:     "empty ledger maps every member to zero",
			expenses: nil,
			members:  []string{"a", "b", "c"},
			want:     map[string]float64{"a": 0, "b": 0, "c": 0},
		},
		{
			name: "single expense split among all",
			expenses: []Expense{
				{Amount: 90, PaidByUserID: "a", SplitAll: true},
			},
			members: []string{"a", "b", "c"},
			want:    map[string]float64{"a": 60, "b": -30, "c": -30},
		},
		{
			name: "explicit split list",
			expenses: []Expense{
				{Amount: 100, PaidByUserID: "a", SplitAll: true},
				{Amount: 40, PaidByUserID: "b", SplitBetween: []string{"a"}},
			},
			members: []string{"a", "b"},
			want:    map[string]float64{"a": 10, "b": -10},
		},
		{
			name: "payer name used when no user id is set",
			expenses: []Expense{
				{Amount: 30, PaidBy: "a", SplitAll: true},
			},
			members: []string{"a", "b", "c"},
			want:    map[string]float64{"a": 20, "b": -10, "c": -10},
		},
		{
			name: "unknown payer loses its credit but debits still apply",
			expenses: []Expense{
				{Amount: 60, PaidByUserID: "ghost", SplitAll: true},
			},
			members: []string{"a", "b", "c"},
			want:    map[string]float64{"a": -20, "b": -20, "c": -20},
		},
		{
			name: "unknown split ids count toward the divisor but get no entry",
			expenses: []Expense{
				{Amount: 90, PaidByUserID: "a", SplitBetween: []string{"a", "b", "ghost"}},
			},
			members: []string{"a", "b"},
			want:    map[string]float64{"a": 60, "b": -30},
		},
		{
			name: "empty split set debits nothing",
			expenses: []Expense{
				{Amount: 50, PaidByUserID: "a"},
			},
			members: []string{"a", "b"},
			want:    map[string]float64{"a": 50, "b": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Balances(tt.expenses, tt.members)
			if len(got) != len(tt.want) {
				t.Fatalf("Balances() has %d entries, want %d", len(got), len(tt.want))
			}
			for id, want := range tt.want {
				if math.Abs(got[id]-want) > 0.001 {
					t.Errorf("balance[%s] = %v, want %v", id, got[id], want)
				}
			}
		})
	}
}

// Balances over a clean ledger (every payer and split member known) must sum
// to zero.
func TestBalancesZeroSum(t *testing.T) {
	members := []string{"a", "b", "c", "d"}
	expenses := []Expense{
		{Amount: 120, PaidByUserID: "a", SplitAll: true},
		{Amount: 75.3, PaidByUserID: "b", SplitBetween: []string{"b", "c"}},
		{Amount: 18, PaidByUserID: "c", SplitBetween: []string{"a", "d"}},
		{Amount: 9.99, PaidByUserID: "d", SplitAll: true},
	}

	balances := Balances(expenses, members)

	var sum float64
	for _, b := range balances {
		sum += b
	}
	if math.Abs(sum) > 0.001 {
		t.Errorf("balances sum to %v, want 0", sum)
	}
}

// Identical inputs must produce identical outputs, independent of expense
// order.
func TestBalancesIdempotent(t *testing.T) {
	members := []string{"a", "b", "c"}
	expenses := []Expense{
		{Amount: 90, PaidByUserID: "a", SplitAll: true},
		{Amount: 45, PaidByUserID: "b", SplitBetween: []string{"a", "c"}},
	}

	first := Balances(expenses, members)
	second := Balances(expenses, members)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calls differ: %v vs %v", first, second)
	}

	reversed := []Expense{expenses[1], expenses[0]}
	if got := Balances(reversed, members); !reflect.DeepEqual(first, got) {
		t.Errorf("expense order changed the result: %v vs %v", first, got)
	}
}

func TestSettlements(t *testing.T) {
	tests := []struct {
		name     string
		balances map[string]float64
		want     []Transfer
	}{
		{
			name:     "empty balances settle to nothing",
			balances: map[string]float64{},
			want:     nil,
		},
		{
			name:     "all-zero balances settle to nothing",
			balances: map[string]float64{"a": 0, "b": 0},
			want:     nil,
		},
		{
			name:     "balances within tolerance are already settled",
			balances: map[string]float64{"a": 0.009, "b": -0.009},
			want:     nil,
		},
		{
			name:     "single debtor pays single creditor",
			balances: map[string]float64{"a": 10, "b": -10},
			want:     []Transfer{{From: "b", To: "a", Amount: 10}},
		},
		{
			name:     "two debtors pay one creditor",
			balances: map[string]float64{"a": 60, "b": -30, "c": -30},
			want: []Transfer{
				{From: "b", To: "a", Amount: 30},
				{From: "c", To: "a", Amount: 30},
			},
		},
		{
			name:     "largest debtor matched with largest creditor first",
			balances: map[string]float64{"a": 70, "b": 30, "c": -80, "d": -20},
			want: []Transfer{
				{From: "c", To: "a", Amount: 70},
				{From: "c", To: "b", Amount: 10},
				{From: "d", To: "b", Amount: 20},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Settlements(tt.balances)
			if len(got) != len(tt.want) {
				t.Fatalf("Settlements() = %v, want %v", got, tt.want)
			}
			for i, want := range tt.want {
				if got[i].From != want.From || got[i].To != want.To {
					t.Errorf("transfer %d = %s->%s, want %s->%s",
						i, got[i].From, got[i].To, want.From, want.To)
				}
				if math.Abs(got[i].Amount-want.Amount) > 0.01 {
					t.Errorf("transfer %d amount = %v, want %v", i, got[i].Amount, want.Amount)
				}
			}
		})
	}
}

// Summing transfers per debtor must reproduce each debtor's original debit,
// and per creditor each creditor's original credit.
func TestSettlementsConservation(t *testing.T) {
	balances := map[string]float64{
		"a": 55.5,
		"b": 21.25,
		"c": -40,
		"d": -30.5,
		"e": -6.25,
	}

	transfers := Settlements(balances)

	paid := make(map[string]float64)
	received := make(map[string]float64)
	for _, tr := range transfers {
		paid[tr.From] += tr.Amount
		received[tr.To] += tr.Amount
	}

	for id, balance := range balances {
		if balance < -tolerance {
			if math.Abs(paid[id]-(-balance)) > 0.01 {
				t.Errorf("debtor %s pays %v, owes %v", id, paid[id], -balance)
			}
		} else if balance > tolerance {
			if math.Abs(received[id]-balance) > 0.01 {
				t.Errorf("creditor %s receives %v, is owed %v", id, received[id], balance)
			}
		}
	}
}

// The output must not depend on map iteration order.
func TestSettlementsDeterministic(t *testing.T) {
	balances := map[string]float64{
		"a": 20, "b": 20, "c": 20, "d": -20, "e": -20, "f": -20,
	}

	first := Settlements(balances)
	for i := 0; i < 10; i++ {
		if got := Settlements(balances); !reflect.DeepEqual(first, got) {
			t.Fatalf("repeated calls differ: %v vs %v", first, got)
		}
	}
}

func TestByCategory(t *testing.T) {
	expenses := []Expense{
		{Name: "Cabin", Amount: 300, Category: "accommodation"},
		{Name: "Gas", Amount: 40, Category: "transport"},
		{Name: "Tolls", Amount: 12, Category: "transport"},
		{Name: "Sunscreen", Amount: 9},
	}

	byCategory := ByCategory(expenses)

	if len(byCategory) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(byCategory))
	}
	if got := byCategory["transport"].Total; math.Abs(got-52) > 0.001 {
		t.Errorf("transport total = %v, want 52", got)
	}
	if got := len(byCategory["transport"].Expenses); got != 2 {
		t.Errorf("transport has %d expenses, want 2", got)
	}
	if got := byCategory["other"].Total; math.Abs(got-9) > 0.001 {
		t.Errorf("uncategorized expense should land in other, total = %v", got)
	}

	var sum float64
	for _, bucket := range byCategory {
		sum += bucket.Total
	}
	if math.Abs(sum-Total(expenses)) > 0.001 {
		t.Errorf("bucket totals sum to %v, want %v", sum, Total(expenses))
	}
}

func TestByPayer(t *testing.T) {
	expenses := []Expense{
		{Name: "Cabin", Amount: 300, PaidBy: "Alice"},
		{Name: "Gas", Amount: 40, PaidBy: "Bob"},
		{Name: "Groceries", Amount: 60, PaidBy: "Alice"},
	}

	byPayer := ByPayer(expenses)

	if len(byPayer) != 2 {
		t.Fatalf("expected 2 payers, got %d", len(byPayer))
	}
	if got := byPayer["Alice"].Total; math.Abs(got-360) > 0.001 {
		t.Errorf("Alice total = %v, want 360", got)
	}
	if got := len(byPayer["Alice"].Expenses); got != 2 {
		t.Errorf("Alice has %d expenses, want 2", got)
	}
}
