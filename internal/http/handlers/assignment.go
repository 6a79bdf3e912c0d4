package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
	"service-delivery/internal/logx"
	"service-delivery/internal/service/assignment"
)

// AssignmentHandler serves HTTP endpoints for delivery assignments.
type AssignmentHandler struct {
	usecase assignmentUsecase
	reader  assignmentReader
	logger  logx.Logger
}

// NewAssignmentHandler wires the assignment usecase and read side into HTTP handlers.
func NewAssignmentHandler(logger logx.Logger, uc assignmentUsecase, reader assignmentReader) *AssignmentHandler {
	return &AssignmentHandler{usecase: uc, reader: reader, logger: logger}
}

// Create handles POST /assignments (seller assigns a partner directly).
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(r)
	if !ok {
		writeError(h.logger, w, r, http.StatusUnauthorized, "missing or invalid "+actorHeader)
		return
	}

	var req directAssignRequest
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
	fee, err := moneyFromDTO(req.Fee)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid fee")
		return
	}

	a, err := h.usecase.DirectAssign(r.Context(), assignment.DirectAssignInput{
		OrderID:         orderID,
		PartnerID:       partnerID,
		ActorID:         actor,
		Fee:             fee,
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

// GetByID handles GET /assignments/{id}.
func (h *AssignmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuidFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	a, err := h.reader.Get(r.Context(), id)
	switch {
	case err != nil:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	case a == nil:
		writeError(h.logger, w, r, http.StatusNotFound, "not found")
	default:
		writeJSON(h.logger, w, r, http.StatusOK, assignmentToDTO(*a))
	}
}

// ListByPartner handles GET /partners/{id}/assignments.
func (h *AssignmentHandler) ListByPartner(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(h.logger, w, r, http.StatusOK, assignmentsToDTO(list))
}

// Transition handles POST /assignments/{id}/transition.
func (h *AssignmentHandler) Transition(w http.ResponseWriter, r *http.Request) {
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

	var req transitionRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	a, err := h.usecase.Transition(r.Context(), assignment.TransitionInput{
		AssignmentID: id,
		ActorID:      actor,
		To:           domain.AssignmentStatus(req.To),
		Notes:        req.Notes,
		ProofRef:     req.ProofRef,
	})
	if err != nil {
		writeAssignError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, assignmentToDTO(*a))
}

// writeAssignError maps assignment usecase errors onto HTTP statuses.
// Transition and deviation errors keep their detail so the client learns the
// allowed moves or how far the proposed fee is off.
func writeAssignError(logger logx.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var trErr *apperr.TransitionError
	var devErr *apperr.DeviationError
	switch {
	case errors.As(err, &trErr):
		writeError(logger, w, r, http.StatusConflict, trErr.Error())
	case errors.As(err, &devErr):
		writeError(logger, w, r, http.StatusBadRequest, devErr.Error())
	case errors.Is(err, apperr.Invalid):
		writeError(logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.Forbidden):
		writeError(logger, w, r, http.StatusForbidden, "forbidden")
	case errors.Is(err, apperr.NotFound):
		writeError(logger, w, r, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.CapacityExceeded):
		writeError(logger, w, r, http.StatusConflict, "partner at capacity")
	case errors.Is(err, apperr.Conflict):
		writeError(logger, w, r, http.StatusConflict, "conflict")
	default:
		writeError(logger, w, r, http.StatusInternalServerError, "internal error")
	}
}
