package http

import (
	"context"
	"net/http"

	"smartsaver/domain"
	"smartsaver/service"
)

type SavingsHandler struct {
	service *service.SavingsService
}

func NewSavingsHandler(service *service.SavingsService) *SavingsHandler {
	return &SavingsHandler{service: service}
}

// Truth returns the rates table the simulators use.
func (h *SavingsHandler) Truth(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, h.service.Rates())
}

func (h *SavingsHandler) SimulateFlex(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var input domain.FlexInput
	if err := decodeJSON(r, &input); err != nil {
		writeServiceError(w, r, err)
		return
	}

	result, err := h.service.SimulateFlex(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

func (h *SavingsHandler) SimulateLocked(w http.ResponseWriter, r *http.Request) {
	h.simulateFixed(w, r, h.service.SimulateLocked)
}

func (h *SavingsHandler) SimulateMain(w http.ResponseWriter, r *http.Request) {
	h.simulateFixed(w, r, h.service.SimulateMain)
}

type fixedSimulator func(ctx context.Context, input domain.SimpleInput) (domain.SimulationResult, error)

func (h *SavingsHandler) simulateFixed(w http.ResponseWriter, r *http.Request, simulate fixedSimulator) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var input domain.SimpleInput
	if err := decodeJSON(r, &input); err != nil {
		writeServiceError(w, r, err)
		return
	}

	result, err := simulate(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}
