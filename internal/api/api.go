// Package api serves the HTTP control surface of a running engine.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/leandrodaf/chordpattern/sdk/contracts"
	"github.com/rs/cors"
)

// Callbacks is what the API controls.
type Callbacks interface {
	Status() contracts.Status
	Configure(cfg contracts.Config) error
	SetPlaying(playing bool)
}

// TransportRequest is the body of PUT /transport.
type TransportRequest struct {
	Playing *bool `json:"playing"`
}

var errMissingPlaying = errors.New(`"playing" is required`)

type handler struct {
	cb  Callbacks
	log contracts.Logger
}

func (h *handler) fail(w http.ResponseWriter, status int, err error) {
	h.log.Warn("API request rejected", h.log.Field().Int("status", status), h.log.Field().Error("error", err))
	http.Error(w, err.Error(), status)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Failed to encode response", h.log.Field().Error("error", err))
	}
}

func (h *handler) handleStatusGet(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.cb.Status())
}

func (h *handler) handleConfigGet(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.cb.Status().Config)
}

func (h *handler) handleConfigPut(w http.ResponseWriter, r *http.Request) {
	// Fields left out keep their current values.
	cfg := h.cb.Status().Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return
	}
	if err := h.cb.Configure(cfg); err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return
	}
	h.log.Info("Configuration requested",
		h.log.Field().Uint8("chord_channel", cfg.ChordChannel),
		h.log.Field().Uint8("rhythm_channel", cfg.RhythmChannel),
		h.log.Field().Uint8("output_channel", cfg.OutputChannel),
		h.log.Field().Uint8("rhythm_root", cfg.RhythmRoot),
		h.log.Field().Bool("pass_through", cfg.PassThrough))
	h.writeJSON(w, http.StatusAccepted, cfg)
}

func (h *handler) handleTransportPut(w http.ResponseWriter, r *http.Request) {
	var req TransportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return
	}
	if req.Playing == nil {
		h.fail(w, http.StatusBadRequest, errMissingPlaying)
		return
	}
	h.cb.SetPlaying(*req.Playing)
	h.log.Info("Transport requested", h.log.Field().Bool("playing", *req.Playing))
	w.WriteHeader(http.StatusNoContent)
}

// NewHandler returns the router, with CORS open to any origin.
func NewHandler(cb Callbacks, log contracts.Logger) http.Handler {
	h := &handler{cb: cb, log: log}

	r := mux.NewRouter()
	r.HandleFunc("/status", h.handleStatusGet).Methods(http.MethodGet)
	r.HandleFunc("/config", h.handleConfigGet).Methods(http.MethodGet)
	r.HandleFunc("/config", h.handleConfigPut).Methods(http.MethodPut)
	r.HandleFunc("/transport", h.handleTransportPut).Methods(http.MethodPut)

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(r)
}
