package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/codegangsta/negroni"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/LeonardoBeccarini/sensor_store/internal/model/messages"
	"github.com/LeonardoBeccarini/sensor_store/internal/model/sensors"
	"github.com/LeonardoBeccarini/sensor_store/internal/repository"
	"github.com/LeonardoBeccarini/sensor_store/internal/services/ingest"
)

const maxBodyBytes = 1 << 20

type handlers struct {
	ingest *ingest.Service
	repo   repository.SensorRepository
	ready  *Readiness
}

// NewRouter wires the HTTP routes. gatherer may be nil to leave out /metrics.
func NewRouter(svc *ingest.Service, repo repository.SensorRepository, ready *Readiness, gatherer prometheus.Gatherer) *mux.Router {
	h := &handlers{ingest: svc, repo: repo, ready: ready}

	r := mux.NewRouter()
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.HandleFunc("/readyz", h.readyz).Methods(http.MethodGet)
	r.HandleFunc("/readings", h.postReading).Methods(http.MethodPost)
	r.HandleFunc("/devices/{deviceID}/readings", h.deviceReadings).Methods(http.MethodGet)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	return r
}

// NewHandler wraps router with panic recovery and request logging.
func NewHandler(router http.Handler) http.Handler {
	n := negroni.New(negroni.NewRecovery(), negroni.NewLogger())
	n.UseHandler(router)
	return n
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *handlers) readyz(w http.ResponseWriter, r *http.Request) {
	type resp struct {
		Ready   bool   `json:"ready"`
		Breaker string `json:"breaker"`
		Error   string `json:"error,omitempty"`
	}
	err := h.ready.Check(r.Context())
	out := resp{Ready: err == nil, Breaker: h.ready.State()}
	status := http.StatusOK
	if err != nil {
		out.Error = err.Error()
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, out)
}

func (h *handlers) postReading(w http.ResponseWriter, r *http.Request) {
	var in messages.SensorReading
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON: " + err.Error()})
		return
	}

	sd, err := h.ingest.Ingest(r.Context(), in)
	switch {
	case errors.Is(err, sensors.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Reason: sensors.Reason(err)})
		return
	case err != nil:
		log.WithField("device_id", in.DeviceID).Errorf("api: save failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, repository.ToDocument(sd))
}

func (h *handlers) deviceReadings(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["deviceID"]
	records, err := h.repo.FindByDeviceID(r.Context(), deviceID)
	if err != nil {
		log.WithField("device_id", deviceID).Errorf("api: find failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}
	out := make([]repository.Document, 0, len(records))
	for _, sd := range records {
		out = append(out, repository.ToDocument(sd))
	}
	writeJSON(w, http.StatusOK, out)
}

type errorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("api: encode response: %v", err)
	}
}
