package settlement

import "sort"

// party is one side of the settlement matching: a member id and the
// absolute magnitude of their remaining imbalance.
type party struct {
	id     string
	amount float64
}

// Settlements produces an ordered list of transfers that reduces every
// balance to within the settlement tolerance.
//
// The matching is greedy largest-first: creditors and debtors are sorted
// by magnitude descending and walked in lockstep, settling min(credit,
// debit) at each step. This keeps the transfer count small in common cases
// but is not a guaranteed-minimal solution. Each step fully resolves at
// least one side, so at most len(creditors)+len(debtors)-1 transfers are
// emitted.
//
// Balances within the tolerance are treated as already settled. Map order
// never leaks into the output: ties on magnitude break on member id, so
// identical inputs always produce identical transfers.
func Settlements(balances map[string]float64) []Transfer {
	var creditors, debtors []party
	for id, balance := range balances {
		switch {
		case balance > tolerance:
			creditors = append(creditors, party{id: id, amount: balance})
		case balance < -tolerance:
			debtors = append(debtors, party{id: id, amount: -balance})
		}
	}

	sortParties(creditors)
	sortParties(debtors)

	var transfers []Transfer
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor := &creditors[i]
		debtor := &debtors[j]

		settle := creditor.amount
		if debtor.amount < settle {
			settle = debtor.amount
		}

		if settle > tolerance {
			transfers = append(transfers, Transfer{
				From:   debtor.id,
				To:     creditor.id,
				Amount: settle,
			})
		}

		creditor.amount -= settle
		debtor.amount -= settle

		if creditor.amount < tolerance {
			i++
		}
		if debtor.amount < tolerance {
			j++
		}
	}

	return transfers
}

func sortParties(parties []party) {
	sort.Slice(parties, func(i, j int) bool {
		if parties[i].amount != parties[j].amount {
			return parties[i].amount > parties[j].amount
		}
		return parties[i].id < parties[j].id
	})
}
