package request

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate parses an ISO-8601 calendar date (no time component) into a
// date-only value at midnight UTC.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return t, nil
}

type CreateBookingRequest struct {
	RequesterFirstName string  `json:"requester_first_name" validate:"required"`
	RequesterEmail     string  `json:"requester_email" validate:"required,email"`
	StartDate          string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate            string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	PartySize          int     `json:"party_size" validate:"required,min=1"`
	Affiliation        string  `json:"affiliation" validate:"required,oneof=Ingeborg Cornelia Angelika"`
	Description        *string `json:"description,omitempty"`
	LongStayConfirmed  bool    `json:"long_stay_confirmed"`
}

// UpdateBookingRequest carries a partial update: nil fields keep their
// prior values.
type UpdateBookingRequest struct {
	RequesterFirstName *string `json:"requester_first_name,omitempty"`
	StartDate          *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate            *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PartySize          *int    `json:"party_size,omitempty" validate:"omitempty,min=1"`
	Affiliation        *string `json:"affiliation,omitempty" validate:"omitempty,oneof=Ingeborg Cornelia Angelika"`
	Description        *string `json:"description,omitempty"`
}

type CancelBookingRequest struct {
	Comment *string `json:"comment,omitempty"`
}

type DecisionRequest struct {
	Decision string  `json:"decision" validate:"required,oneof=Approved Denied"`
	Comment  *string `json:"comment,omitempty"`
}
