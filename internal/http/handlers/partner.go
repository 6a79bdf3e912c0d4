package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
	"service-delivery/internal/logx"
)

// PartnerHandler serves HTTP endpoints for delivery partner resources.
type PartnerHandler struct {
	partners partnerUsecase
	matching matchingUsecase
	stats    statsUsecase
	logger   logx.Logger
}

// NewPartnerHandler wires partner, matching and stats usecases into HTTP handlers.
func NewPartnerHandler(logger logx.Logger, partners partnerUsecase, matching matchingUsecase, stats statsUsecase) *PartnerHandler {
	return &PartnerHandler{partners: partners, matching: matching, stats: stats, logger: logger}
}

// Create handles POST /partners.
func (h *PartnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPartnerRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid user_id")
		return
	}
	pricing, err := pricingFromDTO(req.Pricing)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid pricing")
		return
	}

	p := &domain.DeliveryPartner{
		UserID:           userID,
		Name:             req.Name,
		Phone:            req.Phone,
		Location:         pointFromDTO(req.Location),
		ServiceRadiusKm:  req.ServiceRadiusKm,
		ServiceCities:    req.ServiceCities,
		Pricing:          pricing,
		MaxDailyCapacity: req.MaxDailyCapacity,
	}

	id, err := h.partners.Create(r.Context(), p)
	switch {
	case err == nil:
		w.Header().Set("Location", "/partners/"+id.String())
		writeJSON(h.logger, w, r, http.StatusCreated, map[string]string{"id": id.String()})
	case errors.Is(err, apperr.Invalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.Conflict):
		writeError(h.logger, w, r, http.StatusConflict, "partner already exists")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// GetByID handles GET /partners/{id}.
func (h *PartnerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuidFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := h.partners.Get(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, partnerToDTO(*p))
	case errors.Is(err, apperr.NotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// List handles GET /partners.
func (h *PartnerHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var limitPtr, offsetPtr *int
	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid limit")
			return
		}
		limitPtr = &v
	}
	if s := q.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid offset")
			return
		}
		offsetPtr = &v
	}

	list, err := h.partners.List(r.Context(), limitPtr, offsetPtr)
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, partnersToDTO(list))
}

// Update handles PATCH /partners/{id} with partial updates from the request body.
func (h *PartnerHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req updatePartnerRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	u := domain.PartialPartnerUpdate{
		ID:               id,
		Name:             req.Name,
		Phone:            req.Phone,
		IsActive:         req.IsActive,
		Location:         pointFromDTO(req.Location),
		ServiceRadiusKm:  req.ServiceRadiusKm,
		ServiceCities:    req.ServiceCities,
		MaxDailyCapacity: req.MaxDailyCapacity,
	}
	if req.Pricing != nil {
		pricing, perr := pricingFromDTO(req.Pricing)
		if perr != nil {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid pricing")
			return
		}
		u.Pricing = &pricing
	}

	err = h.partners.UpdatePartial(r.Context(), actor, u)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": "ok"})
	case errors.Is(err, apperr.Invalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.Forbidden):
		writeError(h.logger, w, r, http.StatusForbidden, "not the profile owner")
	case errors.Is(err, apperr.NotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// AvailableOrders handles GET /partners/{id}/orders/available.
func (h *PartnerHandler) AvailableOrders(w http.ResponseWriter, r *http.Request) {
	id, err := uuidFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	res, err := h.matching.ListAvailable(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, matchResultToDTO(res))
	case errors.Is(err, apperr.NotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.Forbidden):
		writeError(h.logger, w, r, http.StatusForbidden, "partner not eligible")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Statistics handles GET /partners/{id}/statistics?period=.
func (h *PartnerHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	id, err := uuidFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	period := domain.StatsPeriod(r.URL.Query().Get("period"))
	out, err := h.stats.PartnerStatistics(r.Context(), id, period)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, out)
	case errors.Is(err, apperr.Invalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid period")
	case errors.Is(err, apperr.NotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}
