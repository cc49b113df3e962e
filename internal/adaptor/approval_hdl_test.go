package adaptor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cabin-booking/internal/dto/request"
	"cabin-booking/internal/dto/response"
	"cabin-booking/pkg/apperr"
	"cabin-booking/pkg/token"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubApprovalService struct {
	booking *response.BookingResponse
	err     error
	called  bool
}

func (s *stubApprovalService) RecordDecision(context.Context, string, *token.Claims, *request.DecisionRequest) (*response.BookingResponse, error) {
	s.called = true
	return s.booking, s.err
}

func newApprovalRouter(svc *stubApprovalService) http.Handler {
	h := NewApprovalHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Post("/api/v1/bookings/{id}/approvals", h.RecordDecision)
	return r
}

func TestRecordDecisionHandler(t *testing.T) {
	svc := &stubApprovalService{booking: &response.BookingResponse{ID: "b1", Status: "Confirmed"}}
	router := newApprovalRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings/b1/approvals",
		strings.NewReader(`{"decision": "Approved"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Status)
	assert.True(t, svc.called)
}

func TestRecordDecisionHandlerRejectsBadShape(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"unknown decision value", `{"decision": "Maybe"}`},
		{"missing decision", `{"comment": "ok"}`},
		{"malformed json", `{decision`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubApprovalService{}
			router := newApprovalRouter(svc)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings/b1/approvals",
				strings.NewReader(tc.body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, svc.called, "service must not see a malformed request")
		})
	}
}

func TestRecordDecisionHandlerForwardsServiceError(t *testing.T) {
	svc := &stubApprovalService{err: apperr.Forbidden("Du hast keinen Zugriff auf diesen Eintrag.")}
	router := newApprovalRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings/b1/approvals",
		strings.NewReader(`{"decision": "Approved"}`)))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
