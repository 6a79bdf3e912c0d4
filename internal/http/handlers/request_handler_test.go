package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
	"service-delivery/internal/logx"
	"service-delivery/internal/service/assignment"
)

type stubRequestReader struct {
	listFn func(ctx context.Context, partnerID uuid.UUID, limit int) ([]domain.DeliveryRequest, error)
}

func (s *stubRequestReader) ListByPartner(ctx context.Context, partnerID uuid.UUID, limit int) ([]domain.DeliveryRequest, error) {
	if s.listFn == nil {
		panic("ListByPartner not expected in this test")
	}
	return s.listFn(ctx, partnerID, limit)
}

func TestRequestHandler_Create_OK(t *testing.T) {
	t.Parallel()

	actor := uuid.New()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	req := domain.DeliveryRequest{
		ID:          uuid.New(),
		OrderID:     uuid.New(),
		PartnerID:   uuid.New(),
		ProposedFee: domain.Money{Amount: 1700, Currency: "USD"},
		Status:      domain.RequestPending,
		ExpiresAt:   now.Add(24 * time.Hour),
		CreatedAt:   now,
	}
	uc := &stubAssignmentUsecase{
		requestFn: func(_ context.Context, in assignment.RequestOrderInput) (*domain.DeliveryRequest, error) {
			require.Equal(t, req.OrderID, in.OrderID)
			require.Equal(t, req.PartnerID, in.PartnerID)
			require.Equal(t, actor, in.ActorID)
			require.NotNil(t, in.ProposedFee)
			require.Equal(t, int64(1700), in.ProposedFee.Amount)
			return &req, nil
		},
	}

	body := `{
		"order_id": "` + req.OrderID.String() + `",
		"partner_id": "` + req.PartnerID.String() + `",
		"proposed_fee": {"amount": "17.00", "currency": "USD"}
	}`
	r := httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(body))
	r.Header.Set("X-User-ID", actor.String())

	h := NewRequestHandler(logx.Nop(), uc, nil)
	rr := httptest.NewRecorder()
	h.Create(rr, r)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "/requests/"+req.ID.String(), rr.Header().Get("Location"))

	var dto requestDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
	assert.Equal(t, "pending", dto.Status)
	assert.Equal(t, "17.00", dto.ProposedFee.Amount)
}

func TestRequestHandler_Create_MissingActor(t *testing.T) {
	t.Parallel()

	h := NewRequestHandler(logx.Nop(), &stubAssignmentUsecase{}, nil)
	rr := httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequestHandler_Create_DuplicateConflict(t *testing.T) {
	t.Parallel()

	uc := &stubAssignmentUsecase{
		requestFn: func(context.Context, assignment.RequestOrderInput) (*domain.DeliveryRequest, error) {
			return nil, apperr.Conflict
		},
	}

	body := `{"order_id":"` + uuid.NewString() + `","partner_id":"` + uuid.NewString() + `"}`
	r := httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(body))
	r.Header.Set("X-User-ID", uuid.NewString())

	h := NewRequestHandler(logx.Nop(), uc, nil)
	rr := httptest.NewRecorder()
	h.Create(rr, r)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestRequestHandler_Create_FeeDeviationDetail(t *testing.T) {
	t.Parallel()

	uc := &stubAssignmentUsecase{
		requestFn: func(context.Context, assignment.RequestOrderInput) (*domain.DeliveryRequest, error) {
			return nil, &apperr.DeviationError{
				Proposed:     2100,
				Calculated:   1500,
				DeviationPct: 40,
				MaxPct:       20,
			}
		},
	}

	body := `{
		"order_id": "` + uuid.NewString() + `",
		"partner_id": "` + uuid.NewString() + `",
		"proposed_fee": {"amount": "21.00", "currency": "USD"}
	}`
	r := httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(body))
	r.Header.Set("X-User-ID", uuid.NewString())

	h := NewRequestHandler(logx.Nop(), uc, nil)
	rr := httptest.NewRecorder()
	h.Create(rr, r)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp errResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "40.0%")
	assert.Contains(t, resp.Error, "max 20.0%")
	assert.Contains(t, resp.Error, "2100")
}

func TestRequestHandler_Accept_OK(t *testing.T) {
	t.Parallel()

	actor := uuid.New()
	a := sampleAssignment()
	requestID := uuid.New()
	uc := &stubAssignmentUsecase{
		acceptFn: func(_ context.Context, in assignment.AcceptRequestInput) (*domain.Assignment, error) {
			require.Equal(t, requestID, in.RequestID)
			require.Equal(t, actor, in.ActorID)
			require.Equal(t, "12 Main St", in.PickupAddress)
			return &a, nil
		},
	}

	body := `{"pickup_address":"12 Main St"}`
	r := withURLParam(httptest.NewRequest(http.MethodPost,
		"/requests/"+requestID.String()+"/accept", strings.NewReader(body)), "id", requestID.String())
	r.Header.Set("X-User-ID", actor.String())

	h := NewRequestHandler(logx.Nop(), uc, nil)
	rr := httptest.NewRecorder()
	h.Accept(rr, r)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "/assignments/"+a.ID.String(), rr.Header().Get("Location"))
}

func TestRequestHandler_Accept_Expired(t *testing.T) {
	t.Parallel()

	uc := &stubAssignmentUsecase{
		acceptFn: func(context.Context, assignment.AcceptRequestInput) (*domain.Assignment, error) {
			return nil, apperr.Conflict
		},
	}

	id := uuid.NewString()
	r := withURLParam(httptest.NewRequest(http.MethodPost,
		"/requests/"+id+"/accept", strings.NewReader(`{}`)), "id", id)
	r.Header.Set("X-User-ID", uuid.NewString())

	h := NewRequestHandler(logx.Nop(), uc, nil)
	rr := httptest.NewRecorder()
	h.Accept(rr, r)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestRequestHandler_ListByPartner_OK(t *testing.T) {
	t.Parallel()

	partnerID := uuid.New()
	reader := &stubRequestReader{
		listFn: func(_ context.Context, got uuid.UUID, limit int) ([]domain.DeliveryRequest, error) {
			require.Equal(t, partnerID, got)
			require.Equal(t, 50, limit)
			return []domain.DeliveryRequest{{
				ID:          uuid.New(),
				OrderID:     uuid.New(),
				PartnerID:   partnerID,
				ProposedFee: domain.Money{Amount: 1700, Currency: "USD"},
				Status:      domain.RequestPending,
			}}, nil
		},
	}

	h := NewRequestHandler(logx.Nop(), nil, reader)
	rr := httptest.NewRecorder()
	r := withURLParam(httptest.NewRequest(http.MethodGet,
		"/partners/"+partnerID.String()+"/requests", nil), "id", partnerID.String())
	h.ListByPartner(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)

	var list []requestDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "17.00", list[0].ProposedFee.Amount)
}
