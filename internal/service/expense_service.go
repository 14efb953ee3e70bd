package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"gatherly/internal/models"
	"gatherly/internal/settlement"
	"gatherly/internal/store"
)

var (
	ErrNotAuthenticated = errors.New("user must be authenticated")
	ErrExpenseNotFound  = errors.New("expense not found")
)

// ExpenseService manages one event's expense ledger. Each instance is bound
// to its event at construction; callers own their instances and their
// subscription handles.
type ExpenseService struct {
	store   store.Store
	eventID string
}

// NewExpenseService creates an expense service for the given event.
func NewExpenseService(s store.Store, eventID string) *ExpenseService {
	return &ExpenseService{store: s, eventID: eventID}
}

// ExpenseSummary is the derived view over the full ledger: recomputed from
// scratch on every call, never persisted.
type ExpenseSummary struct {
	Total       float64                      `json:"total"`
	Balances    map[string]float64           `json:"balances"`
	Settlements []settlement.Transfer        `json:"settlements"`
	ByCategory  map[string]settlement.Bucket `json:"byCategory"`
	ByPayer     map[string]settlement.Bucket `json:"byPayer"`
}

func (s *ExpenseService) expensesPath() string {
	return "events/" + s.eventID + "/expenses"
}

func (s *ExpenseService) expensePath(expenseID string) string {
	return s.expensesPath() + "/" + expenseID
}

// Create stores a new expense with defaults filled in and returns it with
// its generated id.
func (s *ExpenseService) Create(ctx context.Context, input models.Expense, userID string) (*models.Expense, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	now := time.Now().Unix()
	expense := input
	expense.ID = ""
	if expense.SplitType == "" {
		expense.SplitType = models.SplitTypeAll
	}
	if expense.SplitType == models.SplitTypeAll && !expense.SplitBetween.All && expense.SplitBetween.Members == nil {
		expense.SplitBetween = models.SplitBetweenAll()
	}
	if expense.Category == "" {
		expense.Category = "other"
	}
	if expense.Date == "" {
		expense.Date = time.Now().UTC().Format(time.RFC3339)
	}
	expense.AddedBy = userID
	expense.CreatedAt = now
	expense.UpdatedAt = now

	id, err := s.store.Push(ctx, s.expensesPath(), expense)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	expense.ID = id

	slog.Info("Expense created", "event_id", s.eventID, "expense_id", id, "amount", float64(expense.Amount))
	return &expense, nil
}

// Update replaces the stored expense with the input merged over the existing
// record: user-editable fields come from the input, while provenance fields
// (addedBy, createdAt) and an unset date are preserved from the prior
// version. Last write wins at whole-record granularity.
func (s *ExpenseService) Update(ctx context.Context, expenseID string, input models.Expense, userID string) (*models.Expense, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	existing := models.Expense{}
	if err := s.store.Get(ctx, s.expensePath(expenseID), &existing); err != nil {
		return nil, ErrExpenseNotFound
	}

	updated := input
	updated.ID = ""
	updated.AddedBy = existing.AddedBy
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().Unix()
	if updated.Date == "" {
		updated.Date = existing.Date
	}
	if updated.SplitType == "" {
		updated.SplitType = models.SplitTypeAll
	}
	if updated.Category == "" {
		updated.Category = "other"
	}

	if err := s.store.Set(ctx, s.expensePath(expenseID), updated); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	updated.ID = expenseID

	slog.Info("Expense updated", "event_id", s.eventID, "expense_id", expenseID)
	return &updated, nil
}

// Delete removes an expense.
func (s *ExpenseService) Delete(ctx context.Context, expenseID string, userID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	if err := s.store.Delete(ctx, s.expensePath(expenseID)); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	slog.Info("Expense deleted", "event_id", s.eventID, "expense_id", expenseID)
	return nil
}

// Get retrieves a single expense.
func (s *ExpenseService) Get(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	if err := s.store.Get(ctx, s.expensePath(expenseID), expense); err != nil {
		return nil, ErrExpenseNotFound
	}
	expense.ID = expenseID
	return expense, nil
}

// List returns all expenses of the event, oldest first.
func (s *ExpenseService) List(ctx context.Context) ([]models.Expense, error) {
	children, err := s.store.Children(ctx, s.expensesPath())
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	expenses := make([]models.Expense, 0, len(children))
	for id, raw := range children {
		expense := models.Expense{}
		if err := json.Unmarshal(raw, &expense); err != nil {
			return nil, fmt.Errorf("failed to decode expense %s: %w", id, err)
		}
		expense.ID = id
		expenses = append(expenses, expense)
	}

	sort.Slice(expenses, func(i, j int) bool {
		if expenses[i].CreatedAt != expenses[j].CreatedAt {
			return expenses[i].CreatedAt < expenses[j].CreatedAt
		}
		return expenses[i].ID < expenses[j].ID
	})
	return expenses, nil
}

// Summary recomputes the derived ledger view: total, per-member balances,
// settlement transfers and the category/payer breakdowns. Balances cover
// exactly the event's current members.
func (s *ExpenseService) Summary(ctx context.Context) (*ExpenseSummary, error) {
	expenses, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	members, err := s.memberIDs(ctx)
	if err != nil {
		return nil, err
	}

	entries := toSettlementExpenses(expenses)
	balances := settlement.Balances(entries, members)

	return &ExpenseSummary{
		Total:       settlement.Total(entries),
		Balances:    balances,
		Settlements: settlement.Settlements(balances),
		ByCategory:  settlement.ByCategory(entries),
		ByPayer:     settlement.ByPayer(entries),
	}, nil
}

// Subscribe invokes onChange with the full expense list after every change
// to the ledger. The returned cancel is idempotent; onChange never runs
// after it returns.
func (s *ExpenseService) Subscribe(onChange func([]models.Expense)) store.CancelFunc {
	return s.store.Subscribe(s.expensesPath(), func() {
		expenses, err := s.List(context.Background())
		if err != nil {
			slog.Error("Failed to reload expenses", "event_id", s.eventID, "error", err)
			return
		}
		onChange(expenses)
	})
}

func (s *ExpenseService) memberIDs(ctx context.Context) ([]string, error) {
	children, err := s.store.Children(ctx, "events/"+s.eventID+"/members")
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	ids := make([]string, 0, len(children))
	for id := range children {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// toSettlementExpenses converts stored records into the engine's shape.
func toSettlementExpenses(expenses []models.Expense) []settlement.Expense {
	entries := make([]settlement.Expense, len(expenses))
	for i, e := range expenses {
		entries[i] = settlement.Expense{
			Name:         e.Name,
			Amount:       float64(e.Amount),
			PaidBy:       e.PaidBy,
			PaidByUserID: e.PaidByUserID,
			SplitAll:     e.SplitType == models.SplitTypeAll || e.SplitBetween.All,
			SplitBetween: e.SplitBetween.Members,
			Category:     e.Category,
		}
	}
	return entries
}
