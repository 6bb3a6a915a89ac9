package store

import (
	"context"
	"sync"

	"github.com/sampurna-d/budget-buddy/internal/finance"
)

// Store provides read-only access to a user's financial records.
type Store interface {
	// Transactions returns the user's transactions, most recent first.
	Transactions(ctx context.Context, userID string) ([]finance.Transaction, error)
	// Budgets returns the user's budgets for the current month.
	Budgets(ctx context.Context, userID string) ([]finance.Budget, error)
	// BillReminders returns the user's bill reminders.
	BillReminders(ctx context.Context, userID string) ([]finance.BillReminder, error)
}

// Memory is an in-process Store. Records are grouped by user id. The zero
// value is empty and ready to use.
type Memory struct {
	mu           sync.RWMutex
	transactions map[string][]finance.Transaction
	budgets      map[string][]finance.Budget
	reminders    map[string][]finance.BillReminder
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		transactions: make(map[string][]finance.Transaction),
		budgets:      make(map[string][]finance.Budget),
		reminders:    make(map[string][]finance.BillReminder),
	}
}

// SetTransactions replaces the user's transactions.
func (m *Memory) SetTransactions(userID string, txns []finance.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[userID] = append([]finance.Transaction(nil), txns...)
}

// SetBudgets replaces the user's budgets.
func (m *Memory) SetBudgets(userID string, budgets []finance.Budget) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.budgets[userID] = append([]finance.Budget(nil), budgets...)
}

// SetBillReminders replaces the user's bill reminders.
func (m *Memory) SetBillReminders(userID string, reminders []finance.BillReminder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminders[userID] = append([]finance.BillReminder(nil), reminders...)
}

func (m *Memory) Transactions(_ context.Context, userID string) ([]finance.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]finance.Transaction(nil), m.transactions[userID]...), nil
}

func (m *Memory) Budgets(_ context.Context, userID string) ([]finance.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]finance.Budget(nil), m.budgets[userID]...), nil
}

func (m *Memory) BillReminders(_ context.Context, userID string) ([]finance.BillReminder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]finance.BillReminder(nil), m.reminders[userID]...), nil
}

var _ Store = (*Memory)(nil)
