package usecase

import (
	"context"
	"fmt"

	"cabin-booking/internal/data/entity"
	"cabin-booking/internal/data/repository"
	"cabin-booking/pkg/token"
	"cabin-booking/pkg/utils"

	"go.uber.org/zap"
)

// Notifier is told about state changes after they commit. Delivery is an
// external concern; the lifecycle engine only guarantees the call happens
// synchronously with the state change, never that an email arrives.
type Notifier interface {
	BookingCreated(ctx context.Context, booking *entity.Booking)
	BookingEdited(ctx context.Context, booking *entity.Booking, approvalsReset bool)
	BookingCanceled(ctx context.Context, booking *entity.Booking, comment *string)
	DecisionRecorded(ctx context.Context, booking *entity.Booking, party entity.Party, decision entity.Decision)
}

// logNotifier writes the would-be notifications to the log, including the
// signed access links each approver would receive. Parties with
// notification_enabled=false are skipped.
type logNotifier struct {
	parties repository.ApproverPartyRepository
	signer  *token.Signer
	baseURL string
	log     *zap.Logger
}

func NewLogNotifier(parties repository.ApproverPartyRepository, signer *token.Signer, cfg utils.AppConfig, log *zap.Logger) Notifier {
	return &logNotifier{
		parties: parties,
		signer:  signer,
		baseURL: cfg.BaseURL,
		log:     log.With(zap.String("component", "notifier")),
	}
}

func (n *logNotifier) approverLinks(ctx context.Context, booking *entity.Booking) map[entity.Party]string {
	links := make(map[entity.Party]string)

	parties, err := n.parties.FindAll(ctx)
	if err != nil {
		n.log.Error("Failed to load approver parties for notification", zap.Error(err))
		return links
	}

	for _, p := range parties {
		if !p.NotificationEnabled {
			continue
		}
		tok, err := n.signer.Generate(token.Claims{
			Email:     p.Email,
			Role:      token.RoleApprover,
			BookingID: booking.ID.String(),
			Party:     string(p.Party),
		})
		if err != nil {
			n.log.Error("Failed to mint approver link", zap.Error(err), zap.String("party", string(p.Party)))
			continue
		}
		links[p.Party] = fmt.Sprintf("%s/b/%s?token=%s", n.baseURL, booking.ID.String(), tok)
	}

	return links
}

func (n *logNotifier) BookingCreated(ctx context.Context, booking *entity.Booking) {
	links := n.approverLinks(ctx, booking)
	n.log.Info("Notify: booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("requester", booking.RequesterFirstName),
		zap.Int("approver_links", len(links)),
	)
}

func (n *logNotifier) BookingEdited(ctx context.Context, booking *entity.Booking, approvalsReset bool) {
	n.log.Info("Notify: booking edited",
		zap.String("booking_id", booking.ID.String()),
		zap.Bool("approvals_reset", approvalsReset),
	)
	if approvalsReset {
		// Extended ranges need fresh sign-off; approvers get new links.
		links := n.approverLinks(ctx, booking)
		n.log.Info("Notify: re-approval requested",
			zap.String("booking_id", booking.ID.String()),
			zap.Int("approver_links", len(links)),
		)
	}
}

func (n *logNotifier) BookingCanceled(ctx context.Context, booking *entity.Booking, comment *string) {
	fields := []zap.Field{
		zap.String("booking_id", booking.ID.String()),
		zap.String("requester", booking.RequesterFirstName),
	}
	if comment != nil {
		fields = append(fields, zap.String("comment", *comment))
	}
	n.log.Info("Notify: booking canceled", fields...)
}

func (n *logNotifier) DecisionRecorded(ctx context.Context, booking *entity.Booking, party entity.Party, decision entity.Decision) {
	n.log.Info("Notify: decision recorded",
		zap.String("booking_id", booking.ID.String()),
		zap.String("party", string(party)),
		zap.String("decision", string(decision)),
		zap.String("status", string(booking.Status)),
	)
}
