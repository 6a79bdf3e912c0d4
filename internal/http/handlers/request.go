package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"service-delivery/internal/logx"
	"service-delivery/internal/service/assignment"
)

// RequestHandler serves HTTP endpoints for partner delivery requests.
type RequestHandler struct {
	usecase assignmentUsecase
	reader  requestReader
	logger  logx.Logger
}

// NewRequestHandler wires the assignment usecase and request read side into HTTP handlers.
func NewRequestHandler(logger logx.Logger, uc assignmentUsecase, reader requestReader) *RequestHandler {
	return &RequestHandler{usecase: uc, reader: reader, logger: logger}
}

// Create handles POST /requests (partner proposes to deliver an order).
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(r)
	if !ok {
		writeError(h.logger, w, r, http.StatusUnauthorized, "missing or invalid "+actorHeader)
		return
	}

	var req requestOrderRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid order_id")
		return
	}
	partnerID, err := uuid.Parse(req.PartnerID)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid partner_id")
		return
	}
	fee, err := moneyFromDTO(req.ProposedFee)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid proposed_fee")
		return
	}

	out, err := h.usecase.RequestOrder(r.Context(), assignment.RequestOrderInput{
		OrderID:     orderID,
		PartnerID:   partnerID,
		ActorID:     actor,
		ProposedFee: fee,
	})
	if err != nil {
		writeAssignError(h.logger, w, r, err)
		return
	}
	w.Header().Set("Location", "/requests/"+out.ID.String())
	writeJSON(h.logger, w, r, http.StatusCreated, requestToDTO(*out))
}

// Accept handles POST /requests/{id}/accept (seller converts a request into
// an assignment).
func (h *RequestHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, err := uuidFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	actor, ok := actorID(r)
	if !ok {
		writeError(h.logger, w, r, http.StatusUnauthorized, "missing or invalid "+actorHeader)
		return
	}

	var req acceptRequestRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	a, err := h.usecase.AcceptRequest(r.Context(), assignment.AcceptRequestInput{
		RequestID:       id,
		ActorID:         actor,
		PickupAddress:   req.PickupAddress,
		DeliveryAddress: req.DeliveryAddress,
		Instructions:    req.Instructions,
	})
	if err != nil {
		writeAssignError(h.logger, w, r, err)
		return
	}
	w.Header().Set("Location", "/assignments/"+a.ID.String())
	writeJSON(h.logger, w, r, http.StatusCreated, assignmentToDTO(*a))
}

// ListByPartner handles GET /partners/{id}/requests.
func (h *RequestHandler) ListByPartner(w http.ResponseWriter, r *http.Request) {
	id, err := uuidFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		v, aerr := strconv.Atoi(s)
		if aerr != nil || v <= 0 {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = v
	}

	list, err := h.reader.ListByPartner(r.Context(), id, limit)
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, requestsToDTO(list))
}
