package billing

import (
	"math"
	"time"

	"github.com/dalemusser/staffhub/internal/domain/models"
)

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthBounds returns midnight UTC of the first day of the month and of the
// first day of the following month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// dayOf returns the 1-based day of month of t relative to monthStart. Days
// before the month are <= 0 and days after it exceed the month length.
func dayOf(t, monthStart time.Time) int {
	return int(truncateDay(t).Sub(monthStart).Hours()/24) + 1
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// span is a closed range of days of month, first..last.
type span struct{ first, last int }

func (s span) days() int {
	if s.last < s.first {
		return 0
	}
	return s.last - s.first + 1
}

// postedSpan is the part of the month a posting covers. A posting runs
// from its start day up to, but not including, the day it ended; active
// postings run to the end of the month.
func postedSpan(p models.EmployeePosting, year int, month time.Month) span {
	start, _ := MonthBounds(year, month)
	n := DaysInMonth(year, month)

	s := span{first: dayOf(p.StartDate, start), last: n}
	if !p.IsActive && p.EndDate != nil {
		s.last = dayOf(*p.EndDate, start) - 1
	}
	if s.first < 1 {
		s.first = 1
	}
	if s.last > n {
		s.last = n
	}
	return s
}

// leaveDaysWithin counts the distinct days of the leaves that fall in s.
func leaveDaysWithin(leaves []models.Leave, s span, year int, month time.Month) int {
	if s.days() == 0 {
		return 0
	}
	start, _ := MonthBounds(year, month)
	seen := make(map[int]bool)
	for _, l := range leaves {
		from, to := dayOf(l.FromDate, start), dayOf(l.ToDate, start)
		if from < s.first {
			from = s.first
		}
		if to > s.last {
			to = s.last
		}
		for d := from; d <= to; d++ {
			seen[d] = true
		}
	}
	return len(seen)
}

// Line computes the invoice line for one posting. unpaid holds the
// employee's approved unpaid leave; leave outside the posted days is
// ignored. ok is false when nothing is billable.
func Line(p models.EmployeePosting, unpaid []models.Leave, year int, month time.Month) (models.InvoiceLine, bool) {
	n := DaysInMonth(year, month)
	s := postedSpan(p, year, month)
	posted := s.days()
	leave := leaveDaysWithin(unpaid, s, year, month)

	billable := posted - leave
	if billable < 0 {
		billable = 0
	}
	line := models.InvoiceLine{
		PostingID:            p.ID,
		EmployeeID:           p.EmployeeID,
		MonthlyBillingSalary: p.MonthlyBillingSalary,
		DaysInMonth:          n,
		PostedDays:           posted,
		UnpaidLeaveDays:      leave,
		BillableDays:         billable,
		Amount:               Round2(p.MonthlyBillingSalary * float64(billable) / float64(n)),
	}
	return line, billable > 0
}
