package records

import "time"

const (
	// CNMPYears is the oversight horizon counted from registration
	CNMPYears = 3
	// DefaultLegalDays is the legal deadline assumed when none was extracted
	DefaultLegalDays = 30
)

// CNMPDeadline returns registration plus exactly three calendar years.
// A Feb 29 registration lands on Feb 28 when the target year is not leap.
func CNMPDeadline(registration time.Time) time.Time {
	return AddYears(registration, CNMPYears)
}

// AddYears adds calendar years keeping month and day, clamping Feb 29
// to Feb 28 instead of rolling into March.
func AddYears(t time.Time, years int) time.Time {
	year, month, day := t.Date()
	target := year + years
	if month == time.February && day == 29 && !isLeap(target) {
		day = 28
	}
	hour, min, sec := t.Clock()
	return time.Date(target, month, day, hour, min, sec, t.Nanosecond(), t.Location())
}

// DefaultLegalDeadline is registration plus thirty days
func DefaultLegalDeadline(registration time.Time) time.Time {
	return registration.AddDate(0, 0, DefaultLegalDays)
}

// DeriveStatus computes the administrative status for the given day.
// Prorrogado is a manual override and is never recomputed.
func DeriveStatus(current AdminStatus, legalDeadline, now time.Time) AdminStatus {
	if current == AdminExtended {
		return AdminExtended
	}
	if DateOnly(legalDeadline).Before(DateOnly(now)) {
		return AdminLate
	}
	return AdminOnTime
}

// Recompute refreshes the derived fields of an administrative process
func (p *AdministrativeProcess) Recompute(now time.Time) {
	p.CNMPDeadline = CNMPDeadline(p.RegistrationDate)
	p.Status = DeriveStatus(p.Status, p.LegalDeadline, now)
}

// DateOnly truncates t to midnight of its own calendar day. The result is
// expressed in UTC so two days from different offsets compare by date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
