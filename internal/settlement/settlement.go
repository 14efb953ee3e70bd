// Package settlement computes expense totals, per-member balances and debt
// settlements for one event's expense ledger.
//
// Every function is a pure computation over its arguments: no I/O, no
// retained state, and no errors. Inputs are treated permissively (missing
// amounts are zero, unknown member ids are ignored where the rules say so)
// because the underlying expense records are not schema-enforced and the
// results are recomputed from scratch on every read.
package settlement

// Expense carries the minimal expense fields the engine needs. Callers
// convert their stored records into this shape.
type Expense struct {
	// Name is the expense label, used only for grouping output.
	Name string

	// Amount is the expense cost. Missing or unparsable stored amounts
	// must be converted to 0 by the caller.
	Amount float64

	// PaidBy is the payer's display name.
	PaidBy string

	// PaidByUserID is the payer's member id. When set it takes precedence
	// over PaidBy for crediting the payer.
	PaidByUserID string

	// SplitAll marks the expense as split among every current member,
	// either because its split type is "all" or because its split-between
	// field holds the literal "all".
	SplitAll bool

	// SplitBetween is the explicit member id list when SplitAll is false.
	SplitBetween []string

	// Category buckets the expense for ByCategory; empty means "other".
	Category string
}

// Transfer is a single settlement instruction: From pays To the Amount.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// Bucket groups expenses that share a key, carrying their running total.
type Bucket struct {
	Expenses []Expense `json:"expenses"`
	Total    float64   `json:"total"`
}

// tolerance below which a balance counts as settled. Covers floating-point
// noise from repeated share division.
const tolerance = 0.01

// Total sums all expense amounts. An empty ledger totals 0.
func Total(expenses []Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

// Balances computes each member's signed net balance: everything they paid
// minus their share of everything they owe. Positive means the member is
// owed money, negative means they owe.
//
// Only ids present in members get a balance entry. An expense paid by
// someone outside the member set contributes its credit nowhere while its
// debits still apply, so balances are not guaranteed to sum to zero on
// dirty ledgers; callers must tolerate that. Unknown ids in an explicit
// split list still count toward the per-person divisor even though they
// receive no debit.
func Balances(expenses []Expense, members []string) map[string]float64 {
	balances := make(map[string]float64, len(members))
	for _, id := range members {
		balances[id] = 0
	}

	for _, e := range expenses {
		payer := e.PaidByUserID
		if payer == "" {
			payer = e.PaidBy
		}
		if _, known := balances[payer]; known {
			balances[payer] += e.Amount
		}

		var splitSet []string
		if e.SplitAll {
			splitSet = members
		} else {
			splitSet = e.SplitBetween
		}
		if len(splitSet) == 0 {
			continue
		}

		share := e.Amount / float64(len(splitSet))
		for _, id := range splitSet {
			if _, known := balances[id]; known {
				balances[id] -= share
			}
		}
	}

	return balances
}

// ByCategory partitions expenses by category, defaulting empty categories
// to "other". Bucket totals exactly equal the sum of their members.
func ByCategory(expenses []Expense) map[string]Bucket {
	byCategory := make(map[string]Bucket)
	for _, e := range expenses {
		category := e.Category
		if category == "" {
			category = "other"
		}
		bucket := byCategory[category]
		bucket.Expenses = append(bucket.Expenses, e)
		bucket.Total += e.Amount
		byCategory[category] = bucket
	}
	return byCategory
}

// ByPayer partitions expenses by the payer's display name.
func ByPayer(expenses []Expense) map[string]Bucket {
	byPayer := make(map[string]Bucket)
	for _, e := range expenses {
		bucket := byPayer[e.PaidBy]
		bucket.Expenses = append(bucket.Expenses, e)
		bucket.Total += e.Amount
		byPayer[e.PaidBy] = bucket
	}
	return byPayer
}
