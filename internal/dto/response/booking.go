package response

import (
	"time"

	"cabin-booking/internal/data/entity"
)

const dateLayout = "2006-01-02"

type ApprovalResponse struct {
	ID        string     `json:"id"`
	Party     string     `json:"party"`
	Decision  string     `json:"decision"`
	DecidedAt *time.Time `json:"decided_at"`
	Comment   *string    `json:"comment"`
}

type TimelineEventResponse struct {
	ID        string    `json:"id"`
	When      time.Time `json:"when"`
	Actor     string    `json:"actor"`
	EventType string    `json:"event_type"`
	Note      *string   `json:"note"`
}

// BookingResponse is the authenticated view. The requester's email is
// deliberately absent; no response shape ever carries it.
type BookingResponse struct {
	ID                 string                  `json:"id"`
	RequesterFirstName string                  `json:"requester_first_name"`
	StartDate          string                  `json:"start_date"`
	EndDate            string                  `json:"end_date"`
	TotalDays          int                     `json:"total_days"`
	PartySize          int                     `json:"party_size"`
	Affiliation        string                  `json:"affiliation"`
	Description        *string                 `json:"description"`
	Status             string                  `json:"status"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
	LastActivityAt     time.Time               `json:"last_activity_at"`
	IsPast             bool                    `json:"is_past"`
	Approvals          []ApprovalResponse      `json:"approvals"`
	TimelineEvents     []TimelineEventResponse `json:"timeline_events"`
}

// PublicBookingResponse is the unauthenticated calendar view: no
// description, no approvals, no timeline.
type PublicBookingResponse struct {
	ID                 string `json:"id"`
	RequesterFirstName string `json:"requester_first_name"`
	StartDate          string `json:"start_date"`
	EndDate            string `json:"end_date"`
	TotalDays          int    `json:"total_days"`
	PartySize          int    `json:"party_size"`
	Affiliation        string `json:"affiliation"`
	Status             string `json:"status"`
	IsPast             bool   `json:"is_past"`
}

type CancelResponse struct {
	Message string `json:"message"`
}

func BookingToResponse(b *entity.Booking, today time.Time) *BookingResponse {
	resp := &BookingResponse{
		ID:                 b.ID.String(),
		RequesterFirstName: b.RequesterFirstName,
		StartDate:          b.StartDate.Format(dateLayout),
		EndDate:            b.EndDate.Format(dateLayout),
		TotalDays:          b.TotalDays,
		PartySize:          b.PartySize,
		Affiliation:        string(b.Affiliation),
		Description:        b.Description,
		Status:             string(b.Status),
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
		LastActivityAt:     b.LastActivityAt,
		IsPast:             b.IsPast(today),
		Approvals:          make([]ApprovalResponse, 0, len(b.Approvals)),
		TimelineEvents:     make([]TimelineEventResponse, 0, len(b.TimelineEvents)),
	}

	for _, a := range b.Approvals {
		resp.Approvals = append(resp.Approvals, ApprovalResponse{
			ID:        a.ID.String(),
			Party:     string(a.Party),
			Decision:  string(a.Decision),
			DecidedAt: a.DecidedAt,
			Comment:   a.Comment,
		})
	}

	for _, e := range b.TimelineEvents {
		resp.TimelineEvents = append(resp.TimelineEvents, TimelineEventResponse{
			ID:        e.ID.String(),
			When:      e.When,
			Actor:     e.Actor,
			EventType: e.EventType,
			Note:      e.Note,
		})
	}

	return resp
}

func BookingToPublicResponse(b *entity.Booking, today time.Time) *PublicBookingResponse {
	return &PublicBookingResponse{
		ID:                 b.ID.String(),
		RequesterFirstName: b.RequesterFirstName,
		StartDate:          b.StartDate.Format(dateLayout),
		EndDate:            b.EndDate.Format(dateLayout),
		TotalDays:          b.TotalDays,
		PartySize:          b.PartySize,
		Affiliation:        string(b.Affiliation),
		Status:             string(b.Status),
		IsPast:             b.IsPast(today),
	}
}
