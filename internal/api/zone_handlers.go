package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"parkzone/internal/service"

	"github.com/gorilla/mux"
)

type ZoneHandler struct {
	Service      *service.ZoneService
	Reservations *service.ReservationService
}

func NewZoneHandler(svc *service.ZoneService, reservations *service.ReservationService) *ZoneHandler {
	return &ZoneHandler{Service: svc, Reservations: reservations}
}

func (h *ZoneHandler) ListZones(w http.ResponseWriter, r *http.Request) {
	zones, err := h.Service.List()
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]ZoneResponse, 0, len(zones))
	for i := range zones {
		resp = append(resp, toZoneResponse(&zones[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ZoneHandler) CreateZone(w http.ResponseWriter, r *http.Request) {
	var req ZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	zone, err := h.Service.Create(req.Name, req.Location, req.TotalSpots, req.PricePerHour, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toZoneResponse(zone))
}

func (h *ZoneHandler) UpdateZone(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid zone id", http.StatusBadRequest)
		return
	}
	var req ZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	zone, err := h.Service.Update(id, req.Name, req.Location, req.TotalSpots, req.PricePerHour, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toZoneResponse(zone))
}

// Availability answers "how many free spots between start and end". With no
// window supplied, the next two hours are assumed.
func (h *ZoneHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid zone id", http.StatusBadRequest)
		return
	}

	var start, end time.Time
	if raw := r.URL.Query().Get("start"); raw != "" {
		if start, err = time.Parse(time.RFC3339, raw); err != nil {
			http.Error(w, "Invalid start time, want RFC3339", http.StatusBadRequest)
			return
		}
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		if end, err = time.Parse(time.RFC3339, raw); err != nil {
			http.Error(w, "Invalid end time, want RFC3339", http.StatusBadRequest)
			return
		}
	}

	availability, err := h.Reservations.Availability(id, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, availability)
}
