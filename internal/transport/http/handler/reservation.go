package handler

import (
	"encoding/json"
	"net/http"

	"github.com/laon-cafe/reservation-api/internal/application/reservation"
	"github.com/laon-cafe/reservation-api/internal/domain"
	"github.com/laon-cafe/reservation-api/internal/pkg/validate"
)

// ReservationHandler handles reservation creation and listing.
type ReservationHandler struct {
	svc reservation.Service
}

func NewReservationHandler(svc reservation.Service) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req reservation.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "잘못된 요청입니다.")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "이메일이 필요합니다.")
		return
	}
	res, err := h.svc.Reserve(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ReservationCreatedEnvelope{Success: true, ReservationID: res.ReservationID})
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	if reservations == nil {
		reservations = []domain.Reservation{}
	}
	writeJSON(w, http.StatusOK, ReservationListEnvelope{Success: true, Data: reservations})
}
