package entity

import (
	"time"

	"github.com/google/uuid"
)

// Timeline event types.
const (
	EventCreated      = "Created"
	EventSelfApproved = "SelfApproved"
	EventApproved     = "Approved"
	EventDenied       = "Denied"
	EventEdited       = "Edited"
	EventCanceled     = "Canceled"
)

// TimelineEvent is an append-only audit record for one booking. Rows are
// never mutated; canonical read order is When descending.
type TimelineEvent struct {
	ID        uuid.UUID `db:"id"`
	BookingID uuid.UUID `db:"booking_id"`
	When      time.Time `db:"occurred_at"`
	Actor     string    `db:"actor"`
	EventType string    `db:"event_type"`
	Note      *string   `db:"note"`
}
