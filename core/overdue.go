package core

import (
	"time"
)

// LoanPeriod is how long a book may be held before the loan counts as
// overdue: 10 days (864,000,000 milliseconds).
const LoanPeriod = 10 * 24 * time.Hour

// IsOverdue reports whether a loan that started at lentAt is overdue at the
// given moment. The boundary is exclusive: a loan held for exactly the loan
// period is not overdue yet. A nil lentAt means the book is not on loan and
// therefore never overdue.
func IsOverdue(lentAt *time.Time, now time.Time) bool {
	if lentAt == nil {
		return false
	}

	return now.Sub(*lentAt) > LoanPeriod
}
