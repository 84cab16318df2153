package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"parkzone/internal/auth"
	"parkzone/internal/service"

	"github.com/gorilla/mux"
)

type ReservationHandler struct {
	Service *service.ReservationService
}

func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{Service: svc}
}

func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.FromContext(r.Context())
	var req CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	result, err := h.Service.Create(principal.UserID, req.VehicleID, req.ZoneID, req.StartTime, req.EndTime)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreateReservationResponse{
		Reservation:    toReservationResponse(&result.Reservation),
		FreeSpotsAfter: result.FreeSpotsAfter,
		Pricing:        result.Pricing,
		CheckoutURL:    result.CheckoutURL,
	})
}

func (h *ReservationHandler) PayReservation(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.FromContext(r.Context())
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid reservation id", http.StatusBadRequest)
		return
	}
	res, err := h.Service.Pay(principal.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reservation": toReservationResponse(res),
	})
}

func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.FromContext(r.Context())
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid reservation id", http.StatusBadRequest)
		return
	}
	res, err := h.Service.Cancel(principal.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reservation": toReservationResponse(res),
	})
}

func (h *ReservationHandler) ListMyReservations(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.FromContext(r.Context())
	reservations, err := h.Service.ListMine(principal.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]ReservationResponse, 0, len(reservations))
	for i := range reservations {
		resp = append(resp, toReservationResponse(&reservations[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}
