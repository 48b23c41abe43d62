package handler

import (
	"encoding/json"
	"net/http"

	"github.com/laon-cafe/reservation-api/internal/application/verification"
	"github.com/laon-cafe/reservation-api/internal/pkg/validate"
)

// VerificationHandler handles the send-code and verify-code endpoints.
type VerificationHandler struct {
	svc verification.Service
}

func NewVerificationHandler(svc verification.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

func (h *VerificationHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	var req verification.SendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "이메일이 필요합니다.")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "이메일이 필요합니다.")
		return
	}
	if _, err := h.svc.RequestCode(r.Context(), req.Email); err != nil {
		httpError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "인증번호가 발송되었습니다.")
}

func (h *VerificationHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req verification.VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "이메일과 인증번호가 필요합니다.")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "이메일과 인증번호가 필요합니다.")
		return
	}
	if err := h.svc.VerifyCode(r.Context(), req.Email, req.Code); err != nil {
		httpError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "인증되었습니다.")
}
