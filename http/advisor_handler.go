package http

import (
	"net/http"

	"smartsaver/domain"
	"smartsaver/service"
)

type AdvisorHandler struct {
	service *service.AdvisorService
}

func NewAdvisorHandler(service *service.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{service: service}
}

// Onboarding advances the scripted questionnaire by one answer.
func (h *AdvisorHandler) Onboarding(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req domain.AdvisorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	reply, err := h.service.Onboard(r.Context(), req.SessionID, req.Message)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, reply)
}

func (h *AdvisorHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req domain.AdvisorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	reply, err := h.service.Chat(r.Context(), req.SessionID, req.Message)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, reply)
}
