package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOverdueDays(t *testing.T) {
	due := date(2026, 3, 10)

	tests := []struct {
		name       string
		returnDate time.Time
		want       int
	}{
		{"early return", date(2026, 3, 5), 0},
		{"on due date", date(2026, 3, 10), 0},
		{"one day late", date(2026, 3, 11), 1},
		{"three days late", date(2026, 3, 13), 3},
		{"partial day counts as whole day", time.Date(2026, 3, 11, 8, 30, 0, 0, time.UTC), 1},
		{"late evening on due date is not overdue", time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OverdueDays(due, tt.returnDate))
		})
	}
}

func TestComputeFine(t *testing.T) {
	due := date(2026, 3, 10)
	rate := decimal.RequireFromString("1.00")

	t.Run("three days late at 1.00 per day", func(t *testing.T) {
		fine := ComputeFine(due, date(2026, 3, 13), rate)
		assert.True(t, fine.Equal(decimal.RequireFromString("3.00")), "got %s", fine)
	})

	t.Run("on-time return has zero fine", func(t *testing.T) {
		fine := ComputeFine(due, date(2026, 3, 10), rate)
		assert.True(t, fine.IsZero())
	})

	t.Run("early return has zero fine", func(t *testing.T) {
		fine := ComputeFine(due, date(2026, 3, 1), rate)
		assert.True(t, fine.IsZero())
	})

	t.Run("fractional rate", func(t *testing.T) {
		fine := ComputeFine(due, date(2026, 3, 12), decimal.RequireFromString("2.50"))
		assert.True(t, fine.Equal(decimal.RequireFromString("5.00")), "got %s", fine)
	})
}

func TestIsOverdue(t *testing.T) {
	due := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	loan := &Loan{Status: StatusActive, DueDate: due}

	assert.False(t, loan.IsOverdue(due), "not overdue at the due instant")
	assert.True(t, loan.IsOverdue(due.Add(time.Hour)), "overdue any moment past the due instant")
	assert.False(t, loan.IsOverdue(due.Add(-time.Hour)))

	loan.Status = StatusFinished
	assert.False(t, loan.IsOverdue(due.Add(time.Hour)), "finished loans are never overdue")
}
