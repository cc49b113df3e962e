package entity

import (
	"time"

	"github.com/google/uuid"
)

// Party is one of the three fixed approver identities. The same closed set
// doubles as the requester's cosmetic affiliation label.
type Party string

const (
	PartyIngeborg Party = "Ingeborg"
	PartyCornelia Party = "Cornelia"
	PartyAngelika Party = "Angelika"
)

// AllParties returns the fixed approver set in canonical order.
func AllParties() []Party {
	return []Party{PartyIngeborg, PartyCornelia, PartyAngelika}
}

func ValidParty(p Party) bool {
	switch p {
	case PartyIngeborg, PartyCornelia, PartyAngelika:
		return true
	}
	return false
}

type Decision string

const (
	DecisionNoResponse Decision = "NoResponse"
	DecisionApproved   Decision = "Approved"
	DecisionDenied     Decision = "Denied"
)

func ValidDecision(d Decision) bool {
	switch d {
	case DecisionNoResponse, DecisionApproved, DecisionDenied:
		return true
	}
	return false
}

// Approval is one party's decision on one booking. Exactly one row exists
// per (booking, party) pair; the three rows are created with the booking
// and destroyed with it.
type Approval struct {
	BaseSimple
	BookingID uuid.UUID  `db:"booking_id"`
	Party     Party      `db:"party"`
	Decision  Decision   `db:"decision"`
	Comment   *string    `db:"comment"`
	DecidedAt *time.Time `db:"decided_at"`
}
