package entity

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusDenied    BookingStatus = "Denied"
	BookingStatusCanceled  BookingStatus = "Canceled"
)

// ValidStatus reports whether s is one of the four closed statuses.
func ValidStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusDenied, BookingStatusCanceled:
		return true
	}
	return false
}

// Terminal reports whether no further lifecycle transition leaves s.
// Confirmed is not terminal: a confirmed booking can still be canceled.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusDenied || s == BookingStatusCanceled
}

// Blocking reports whether a booking in this status occupies its date range
// for conflict purposes. Denied and Canceled bookings never block.
func (s BookingStatus) Blocking() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// Booking is a request to occupy the cabin for an inclusive date range.
// StartDate and EndDate are date-only values (midnight UTC); RequesterEmail
// is contact data and must never reach a response payload.
type Booking struct {
	Base
	RequesterFirstName string        `db:"requester_first_name"`
	RequesterEmail     string        `db:"requester_email"`
	StartDate          time.Time     `db:"start_date"`
	EndDate            time.Time     `db:"end_date"`
	TotalDays          int           `db:"total_days"`
	PartySize          int           `db:"party_size"`
	Affiliation        Party         `db:"affiliation"`
	Description        *string       `db:"description"`
	Status             BookingStatus `db:"status"`
	LastActivityAt     time.Time     `db:"last_activity_at"`

	Approvals      []*Approval      `db:"-"`
	TimelineEvents []*TimelineEvent `db:"-"`
}

// ComputeTotalDays returns the inclusive day count: start == end is 1 day.
func ComputeTotalDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

// Overlaps reports whether two inclusive date intervals intersect:
// a.start <= b.end AND a.end >= b.start. This exact predicate handles
// partial overlaps, full enclosure and multi-month spans alike.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// OverlapsRange applies the overlap predicate to this booking.
func (b *Booking) OverlapsRange(start, end time.Time) bool {
	return Overlaps(b.StartDate, b.EndDate, start, end)
}

// IsPast reports whether the booking ended before the given calendar day.
func (b *Booking) IsPast(today time.Time) bool {
	return b.EndDate.Before(today)
}
