package service

import (
	"encoding/json"
	"errors"
	"testing"

	"go-stockledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestExpenseLifecycleIsAudited(t *testing.T) {
	env := newTestEnv(t)

	expense := &model.Expense{
		Amount:      decimal.NewFromInt(250),
		Type:        "Utilities",
		Description: "Electricity bill",
	}
	if err := env.expenses.CreateExpense(expense, "tester"); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if got := auditCount(t, env, model.ModuleExpense, model.ActionCreate); got != 1 {
		t.Fatalf("expected 1 Expense CREATE entry got %d", got)
	}

	if err := env.expenses.DeleteExpense(expense.ID, "tester"); err != nil {
		t.Fatalf("delete expense: %v", err)
	}

	var entry model.AuditLog
	if err := env.db.Where("module = ? AND action = ?", model.ModuleExpense, model.ActionDelete).
		First(&entry).Error; err != nil {
		t.Fatalf("load audit entry: %v", err)
	}
	var oldState map[string]interface{}
	if err := json.Unmarshal(entry.OldState, &oldState); err != nil {
		t.Fatalf("decode old state: %v", err)
	}
	if oldState["type"] != "Utilities" {
		t.Fatalf("DELETE oldState should carry the removed row, got %v", oldState)
	}
	if len(entry.NewState) != 0 {
		t.Fatalf("DELETE newState should be null, got %s", entry.NewState)
	}

	var expenseCount int64
	if err := env.db.Model(&model.Expense{}).Count(&expenseCount).Error; err != nil {
		t.Fatalf("count expenses: %v", err)
	}
	if expenseCount != 0 {
		t.Fatalf("expected expense removed, %d left", expenseCount)
	}
}

func TestDeleteUnknownExpense(t *testing.T) {
	env := newTestEnv(t)

	if err := env.expenses.DeleteExpense(uuid.New(), "tester"); !errors.Is(err, model.ErrExpenseNotFound) {
		t.Fatalf("expected ErrExpenseNotFound got %v", err)
	}
}

func TestCreateExpenseRejectsNonPositiveAmount(t *testing.T) {
	env := newTestEnv(t)

	err := env.expenses.CreateExpense(&model.Expense{
		Amount: decimal.Zero,
		Type:   "Misc",
	}, "tester")
	if err == nil {
		t.Fatal("expected validation error for zero amount")
	}
	if got := auditCount(t, env, model.ModuleExpense, model.ActionCreate); got != 0 {
		t.Fatalf("rejected expense wrote audit entries: %d", got)
	}
}

func TestAuditTrailListsNewestFirst(t *testing.T) {
	env := newTestEnv(t)

	for _, name := range []string{"rent", "fuel", "repairs"} {
		if err := env.expenses.CreateExpense(&model.Expense{
			Amount: decimal.NewFromInt(100),
			Type:   name,
		}, "tester"); err != nil {
			t.Fatalf("create expense %s: %v", name, err)
		}
	}

	entries, err := env.audit.ListRecent(2)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries got %d", len(entries))
	}
	if entries[0].ID <= entries[1].ID {
		t.Fatalf("expected newest first, got ids %d, %d", entries[0].ID, entries[1].ID)
	}
}
