package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pantrywatch/pantrywatch/pkg/expiry"
	"github.com/pantrywatch/pantrywatch/pkg/inventory"
	"github.com/pantrywatch/pantrywatch/pkg/storage"
	"github.com/pantrywatch/pantrywatch/pkg/units"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type ConvertRequest struct {
	// Quantity is a JSON number or a numeric string; upstream sources deliver
	// both.
	Quantity json.Number `json:"quantity"`
	Unit     string      `json:"unit"`
	System   string      `json:"system"`
	Reverse  bool        `json:"reverse,omitempty"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	qty, err := units.ParseQuantity(req.Quantity.String())
	if err != nil {
		http.Error(w, "quantity is not numeric", http.StatusBadRequest)
		return
	}

	if req.Reverse {
		json.NewEncoder(w).Encode(units.ToCanonical(qty, req.Unit))
		return
	}

	system, ok := units.ParseSystem(req.System)
	if !ok {
		http.Error(w, "system must be metric or imperial", http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(units.Convert(qty, req.Unit, system))
}

type ScheduleRequest struct {
	Items []inventory.ItemSnapshot `json:"items"`
}

type ScheduleResponse struct {
	Requests []expiry.Request `json:"requests"`
	Deduped  int              `json:"deduped"`
	Invalid  int              `json:"invalid"`
	Warnings []string         `json:"warnings,omitempty"`
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := s.Scheduler.Run(r.Context(), req.Items, time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := ScheduleResponse{Requests: res.Requests, Deduped: res.Deduped, Invalid: res.Invalid}
	for _, e := range res.Errors {
		out.Warnings = append(out.Warnings, e.Error())
	}
	json.NewEncoder(w).Encode(out)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	h, err := s.History.Load(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"keys": h.Keys()})
}

func (s *Server) handleGetUnitPref(w http.ResponseWriter, r *http.Request) {
	pref, ok, err := s.DB.GetSlot(r.Context(), storage.SlotUnitPreference)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		pref = string(units.Metric)
	}
	json.NewEncoder(w).Encode(map[string]string{"system": pref})
}

type UnitPrefRequest struct {
	System string `json:"system"`
}

func (s *Server) handleSetUnitPref(w http.ResponseWriter, r *http.Request) {
	var req UnitPrefRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	system, ok := units.ParseSystem(req.System)
	if !ok {
		http.Error(w, "system must be metric or imperial", http.StatusBadRequest)
		return
	}
	if err := s.DB.SetSlot(r.Context(), storage.SlotUnitPreference, string(system)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"system": string(system)})
}
