package handler

import "net/http"

// HealthHandler handles the status endpoints.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

func (h *HealthHandler) Root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Laon Reservation API Server is Running"))
}

func (h *HealthHandler) Test(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, true, "system ready for reservation & email verification")
}
