package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"gatherly/internal/format"
	"gatherly/internal/models"
	"gatherly/internal/service"
)

func (s *Server) expenseService(r *http.Request) *service.ExpenseService {
	return service.NewExpenseService(s.store, chi.URLParam(r, "eventID"))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	if !s.requireMember(w, r, chi.URLParam(r, "eventID"), models.PermRead) {
		return
	}

	expenses, err := s.expenseService(r).List(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if !s.requireMember(w, r, chi.URLParam(r, "eventID"), models.PermWrite) {
		return
	}

	var input models.Expense
	if !decodeJSON(w, r, &input) {
		return
	}

	expense, err := s.expenseService(r).Create(r.Context(), input, UserID(r.Context()))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	if !s.requireMember(w, r, chi.URLParam(r, "eventID"), models.PermWrite) {
		return
	}

	var input models.Expense
	if !decodeJSON(w, r, &input) {
		return
	}

	expense, err := s.expenseService(r).Update(r.Context(), chi.URLParam(r, "expenseID"), input, UserID(r.Context()))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if !s.requireMember(w, r, chi.URLParam(r, "eventID"), models.PermWrite) {
		return
	}

	if err := s.expenseService(r).Delete(r.Context(), chi.URLParam(r, "expenseID"), UserID(r.Context())); err != nil {
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// expenseSummaryPayload augments the derived ledger view with display
// strings: the formatted total and each category's share of it.
type expenseSummaryPayload struct {
	*service.ExpenseSummary
	TotalDisplay   string            `json:"totalDisplay"`
	CategoryShares map[string]string `json:"categoryShares"`
}

func (s *Server) handleExpenseSummary(w http.ResponseWriter, r *http.Request) {
	if !s.requireMember(w, r, chi.URLParam(r, "eventID"), models.PermRead) {
		return
	}

	summary, err := s.expenseService(r).Summary(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}

	shares := make(map[string]string, len(summary.ByCategory))
	for category, bucket := range summary.ByCategory {
		ratio := 0.0
		if summary.Total > 0 {
			ratio = bucket.Total / summary.Total
		}
		shares[category] = format.Percentage(ratio)
	}
	writeJSON(w, http.StatusOK, expenseSummaryPayload{
		ExpenseSummary: summary,
		TotalDisplay:   format.Currency(summary.Total),
		CategoryShares: shares,
	})
}
