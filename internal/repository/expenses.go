package repository

import (
	"context"
	"fmt"

	"github.com/mmynk/onbeventi/internal/models"
	"github.com/mmynk/onbeventi/internal/notify"
	"github.com/mmynk/onbeventi/pkg/validator"
)

// AddExpense appends an expense, generating its id when missing.
func (r *Repository) AddExpense(ctx context.Context, eventID string, expense models.Expense) (*models.Event, error) {
	x := expense
	if x.ID == "" {
		x.ID = NewID()
	}
	if err := validator.Validate(ctx, x); err != nil {
		return nil, err
	}

	return r.mutate(ctx, "add_expense", eventID, func(e *models.Event) (edit, error) {
		if e.ExpenseIndex(x.ID) >= 0 {
			return edit{}, fmt.Errorf("%w: expense %s", ErrDuplicateID, x.ID)
		}
		e.Expenses = append(e.Expenses, x)
		return edit{kind: notify.ExpenseAdded, subject: x.ID}, nil
	})
}

// DeleteExpense removes an expense. Deleting an unknown expense returns the
// unchanged event.
func (r *Repository) DeleteExpense(ctx context.Context, eventID, expenseID string) (*models.Event, error) {
	return r.mutate(ctx, "delete_expense", eventID, func(e *models.Event) (edit, error) {
		i := e.ExpenseIndex(expenseID)
		if i < 0 {
			return edit{}, nil
		}
		e.Expenses = append(e.Expenses[:i], e.Expenses[i+1:]...)
		return edit{kind: notify.ExpenseDeleted, subject: expenseID}, nil
	})
}
