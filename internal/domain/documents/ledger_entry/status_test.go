package ledger_entry

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cuentas/internal/core/id"
)

var (
	march10 = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	march15 = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	march20 = time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
)

func entryWithDueDate(status Status, due *time.Time) *Entry {
	e := NewEntry(KindReceivable, id.New(), id.New(), decimal.NewFromInt(100))
	e.Date = march10
	e.DueDate = due
	e.Status = status
	return e
}

func TestDeriveStatus(t *testing.T) {
	eps := decimal.New(1, -2) // 0.01

	tests := []struct {
		name      string
		current   Status
		balance   string
		totalPaid string
		want      Status
	}{
		{"untouched entry stays open", StatusOpen, "100", "0", StatusOpen},
		{"partial payment", StatusOpen, "60", "40", StatusPartial},
		{"full payment settles", StatusPartial, "0", "100", StatusSettled},
		{"residue within epsilon settles", StatusPartial, "0.01", "99.99", StatusSettled},
		{"residue above epsilon stays partial", StatusPartial, "0.02", "99.98", StatusPartial},
		{"void is terminal", StatusVoid, "0", "100", StatusVoid},
		{"reversal reopens settled", StatusSettled, "100", "0", StatusOpen},
		{"reversal back to partial", StatusSettled, "60", "40", StatusPartial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deriveStatus(tt.current, dec(tt.balance), dec(tt.totalPaid), eps)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectiveStatus(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		due    *time.Time
		today  time.Time
		want   Status
	}{
		{"open before due date", StatusOpen, &march15, march10, StatusOpen},
		{"open on due date is not overdue", StatusOpen, &march15, march15, StatusOpen},
		{"open past due date", StatusOpen, &march15, march20, StatusOverdue},
		{"partial past due date", StatusPartial, &march15, march20, StatusOverdue},
		{"settled never overdue", StatusSettled, &march15, march20, StatusSettled},
		{"void never overdue", StatusVoid, &march15, march20, StatusVoid},
		{"no due date stays open", StatusOpen, nil, march20, StatusOpen},
		{"no due date stays partial", StatusPartial, nil, march20, StatusPartial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := entryWithDueDate(tt.status, tt.due)
			assert.Equal(t, tt.want, e.EffectiveStatus(tt.today))
		})
	}
}

func TestEffectiveStatus_NeverStored(t *testing.T) {
	e := entryWithDueDate(StatusOpen, &march15)

	require.Equal(t, StatusOverdue, e.EffectiveStatus(march20))
	assert.Equal(t, StatusOpen, e.Status, "projection must not mutate the entry")

	// Same entry, asked about an earlier day
	assert.Equal(t, StatusOpen, e.EffectiveStatus(march10))
}

func TestDaysLate(t *testing.T) {
	tests := []struct {
		name  string
		due   *time.Time
		today time.Time
		want  int
	}{
		{"before due", &march15, march10, 0},
		{"on due date", &march15, march15, 0},
		{"five days late", &march15, march20, 5},
		{"no due date uses issue date", nil, march20, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := entryWithDueDate(StatusOpen, tt.due)
			assert.Equal(t, tt.want, e.DaysLate(tt.today))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		due    *time.Time
		today  time.Time
		want   Classification
	}{
		{"open and current", StatusOpen, &march15, march10, ClassCurrent},
		{"partial and current", StatusPartial, &march15, march10, ClassCurrent},
		{"open and late", StatusOpen, &march15, march20, ClassOverdue},
		{"open without due date stays current", StatusOpen, nil, march20, ClassCurrent},
		{"settled", StatusSettled, &march15, march20, ClassSettled},
		{"void counts as settled", StatusVoid, &march15, march20, ClassSettled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := entryWithDueDate(tt.status, tt.due)
			assert.Equal(t, tt.want, e.Classify(tt.today))
		})
	}
}
