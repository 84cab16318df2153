package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"parkzone/internal/auth"
	"parkzone/internal/service"

	"github.com/gorilla/mux"
)

type VehicleHandler struct {
	Service *service.VehicleService
}

func NewVehicleHandler(svc *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{Service: svc}
}

func (h *VehicleHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.FromContext(r.Context())
	vehicles, err := h.Service.ListMine(principal.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]VehicleResponse, 0, len(vehicles))
	for i := range vehicles {
		resp = append(resp, toVehicleResponse(&vehicles[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *VehicleHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.FromContext(r.Context())
	var req VehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	vehicle, err := h.Service.Create(principal.UserID, req.PlateNumber, req.Model, req.Color)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVehicleResponse(vehicle))
}

func (h *VehicleHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.FromContext(r.Context())
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid vehicle id", http.StatusBadRequest)
		return
	}
	if err := h.Service.Delete(principal.UserID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
