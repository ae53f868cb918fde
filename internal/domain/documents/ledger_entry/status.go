package ledger_entry

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the stored lifecycle state of an entry.
type Status string

const (
	StatusOpen    Status = "open"
	StatusPartial Status = "partial"
	StatusSettled Status = "settled"
	StatusVoid    Status = "void"

	// StatusOverdue is a read-time projection over open/partial entries
	// whose due date has passed. It is never persisted.
	StatusOverdue Status = "overdue"
)

// IsTerminal reports whether no further payments may be applied.
func (s Status) IsTerminal() bool {
	return s == StatusVoid
}

// deriveStatus maps the recomputed balance onto the stored state machine.
// Void is terminal and wins over everything. A balance within epsilon of
// zero counts as settled, so cross-currency residue a fraction of the
// smallest representable unit does not keep an entry open forever.
func deriveStatus(current Status, balance, totalPaid, eps decimal.Decimal) Status {
	if current == StatusVoid {
		return StatusVoid
	}

	switch {
	case balance.LessThanOrEqual(eps):
		return StatusSettled
	case totalPaid.IsZero():
		return StatusOpen
	default:
		return StatusPartial
	}
}

// EffectiveStatus layers the overdue projection over the stored status.
// Settled and void entries are never overdue, and neither is an entry
// without a due date. Only the aging report falls back to the issue
// date, see DaysLate.
func (e *Entry) EffectiveStatus(today time.Time) Status {
	if e.Status == StatusSettled || e.Status == StatusVoid {
		return e.Status
	}

	if e.DueDate == nil {
		return e.Status
	}

	if dateOnly(*e.DueDate).Before(dateOnly(today)) {
		return StatusOverdue
	}

	return e.Status
}

// DaysLate returns how many whole days past due the entry is, never
// negative. Entries without a due date age from their issue date.
func (e *Entry) DaysLate(today time.Time) int {
	due := e.Date
	if e.DueDate != nil {
		due = *e.DueDate
	}

	days := int(dateOnly(today).Sub(dateOnly(due)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Classification is a coarse three-way projection used by receivable
// dashboards: is the money in, pending, or pending and late.
type Classification string

const (
	ClassSettled Classification = "settled"
	ClassCurrent Classification = "current"
	ClassOverdue Classification = "overdue"
)

// Classify projects the entry onto the three-way receivable view.
// Void entries carry no outstanding debt and classify as settled.
func (e *Entry) Classify(today time.Time) Classification {
	switch e.EffectiveStatus(today) {
	case StatusSettled, StatusVoid:
		return ClassSettled
	case StatusOverdue:
		return ClassOverdue
	default:
		return ClassCurrent
	}
}

// dateOnly truncates a timestamp to midnight UTC so day comparisons
// ignore the time component.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
