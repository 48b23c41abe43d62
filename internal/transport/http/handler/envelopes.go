package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/laon-cafe/reservation-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ReservationCreatedEnvelope wraps a successful reservation response.
type ReservationCreatedEnvelope struct {
	Success       bool   `json:"success"`
	ReservationID string `json:"reservation_id"`
}

// ReservationListEnvelope wraps the reservation listing response.
type ReservationListEnvelope struct {
	Success bool                 `json:"success"`
	Data    []domain.Reservation `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, success bool, msg string) {
	writeJSON(w, status, MessageEnvelope{Success: success, Message: msg})
}

// httpError maps domain sentinel errors to HTTP statuses with fixed
// user-facing messages. Anything unclassified is a storage or transport
// fault and surfaces as a generic 500 — internals are never exposed.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeMessage(w, http.StatusBadRequest, false, "이메일이 필요합니다.")
	case errors.Is(err, domain.ErrCodeInvalid):
		writeMessage(w, http.StatusBadRequest, false, "인증번호가 일치하지 않거나 만료되었습니다.")
	case errors.Is(err, domain.ErrVerificationRequired):
		writeMessage(w, http.StatusUnauthorized, false, "이메일 인증이 필요합니다.")
	case errors.Is(err, domain.ErrNotificationFailed):
		writeMessage(w, http.StatusBadGateway, false, "인증번호 발송에 실패했습니다. 다시 시도해 주세요.")
	default:
		writeJSON(w, http.StatusInternalServerError, MessageEnvelope{Success: false, Error: "internal server error"})
	}
}
