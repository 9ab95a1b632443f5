// Package server is a local stand-in for the enrollment service. It
// accepts the same requests as the production backend and keeps the
// templates in memory for the life of the process.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/acesso-etec/biometric/cpf"
	"github.com/acesso-etec/biometric/protocol"
)

const minUnitCodeLen = 3

type Server struct {
	server   *http.Server
	registry *Registry
}

func NewServer(registry *Registry, addr string) *Server {
	srv := &http.Server{
		Handler:      NewRouter(registry),
		Addr:         addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	return &Server{server: srv, registry: registry}
}

func NewRouter(registry *Registry) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}).Methods(http.MethodGet)

	router.HandleFunc("/biometrics", func(w http.ResponseWriter, r *http.Request) {
		handleCreate(registry, w, r)
	}).Methods(http.MethodPost)

	router.HandleFunc("/biometrics", func(w http.ResponseWriter, r *http.Request) {
		handleDelete(registry, w, r)
	}).Methods(http.MethodDelete)

	return router
}

func (s *Server) ListenAndServe() error {
	slog.Info("Enrollment service listening", "address", s.server.Addr)
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Stop() error {
	slog.Info("Shutting down enrollment service")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func handleCreate(registry *Registry, w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	req, err := protocol.ReadEnrollReq(r.Body)
	if err != nil {
		writeDetails(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if !cpf.Valid(req.CPF) {
		writeError(w, http.StatusBadRequest, "Invalid CPF", "Check the digits of the CPF")
		return
	}
	finger := protocol.Finger(req.Finger)
	if !finger.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid finger", "Use one of thumb, index, middle, ring or pinky with _left or _right")
		return
	}
	if len(req.UnitCode) < minUnitCodeLen {
		writeError(w, http.StatusBadRequest, "Invalid unit code", "Unit codes have at least 3 characters")
		return
	}
	template := decodeTemplate(req.Template)
	if len(template) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid template", "The template is empty")
		return
	}

	biometric, err := registry.Add(req.CPF, finger, req.UnitCode, template)
	switch {
	case err == nil:
	case errors.Is(err, ErrPersonNotFound):
		writeError(w, http.StatusNotFound, "Person not found", "No one is registered with this CPF")
		return
	case errors.Is(err, ErrUnitNotFound):
		writeError(w, http.StatusNotFound, "Unit not found", "Check the unit code")
		return
	case errors.Is(err, ErrDuplicate):
		writeError(w, http.StatusConflict, "A biometric is already enrolled for this finger", "Choose another finger or delete the existing one")
		return
	default:
		writeDetails(w, http.StatusBadRequest, "Enrollment failed", err.Error())
		return
	}

	slog.Info("Biometric enrolled", "id", biometric.ID, "person_id", biometric.PersonID, "finger", finger, "unit_code", req.UnitCode)
	writeJSON(w, http.StatusCreated, &protocol.EnrollRes{
		ID:        biometric.ID,
		Message:   "Biometric enrolled",
		Biometric: biometric,
	})
}

func handleDelete(registry *Registry, w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	req, err := protocol.ReadDeleteReq(r.Body)
	if err != nil {
		writeDetails(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if req.CPF == "" || req.Finger == "" {
		writeError(w, http.StatusBadRequest, "Missing parameters", "Both cpf and finger are required")
		return
	}

	if err := registry.Remove(req.CPF, protocol.Finger(req.Finger)); err != nil {
		writeError(w, http.StatusNotFound, "Biometric not found", "Nothing is enrolled for this CPF and finger")
		return
	}

	slog.Info("Biometric removed", "finger", req.Finger)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Biometric removed"})
}

var templateEncodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

// decodeTemplate accepts padded or unpadded, standard or URL-safe base64.
// Anything else is stored as the raw bytes received.
func decodeTemplate(template string) []byte {
	for _, enc := range templateEncodings {
		if b, err := enc.DecodeString(template); err == nil {
			return b
		}
	}
	return []byte(template)
}

func writeError(w http.ResponseWriter, status int, message, solution string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := protocol.WriteErrorRes(w, message, solution); err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}

func writeDetails(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := protocol.WriteErrorDetails(w, message, details); err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write body to http response", "error", err)
	}
}
