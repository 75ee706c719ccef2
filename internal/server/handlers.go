package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/agbru/numkit/internal/binding"
	apperrors "github.com/agbru/numkit/internal/errors"
	"github.com/agbru/numkit/internal/logging"
)

// CallRequest is the body of POST /v1/call.
type CallRequest struct {
	Function string `json:"function"`
	Args     []any  `json:"args"`
}

// NewObjectRequest is the body of POST /v1/objects.
type NewObjectRequest struct {
	Class string `json:"class"`
	Args  []any  `json:"args"`
}

// InvokeRequest is the body of POST /v1/objects/{handle}/{method}.
type InvokeRequest struct {
	Args []any `json:"args"`
}

// ResultResponse carries the value returned by a function or method.
type ResultResponse struct {
	Result any `json:"result"`
}

// ObjectResponse describes a live object.
type ObjectResponse struct {
	Handle string `json:"handle"`
	Class  string `json:"class"`
	Repr   string `json:"repr"`
}

// SymbolsResponse lists what the module exposes.
type SymbolsResponse struct {
	Module    string              `json:"module"`
	Functions []string            `json:"functions"`
	Classes   map[string][]string `json:"classes"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethods(w, r, http.MethodPost) {
		return
	}
	var req CallRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Function == "" {
		s.writeError(w, http.StatusBadRequest, errors.New(`missing "function"`))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.callTimeout)
	defer cancel()
	result, err := s.module.Call(ctx, req.Function, req.Args...)
	s.metrics.ObserveBindingCall(s.metricSymbol(req.Function), err)
	if err != nil {
		s.writeBindingError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ResultResponse{Result: result})
}

func (s *Server) handleObjects(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethods(w, r, http.MethodPost) {
		return
	}
	var req NewObjectRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Class == "" {
		s.writeError(w, http.StatusBadRequest, errors.New(`missing "class"`))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.callTimeout)
	defer cancel()
	h, err := s.module.New(ctx, req.Class, req.Args...)
	s.metrics.ObserveBindingCall(s.metricSymbol(req.Class), err)
	if err != nil {
		s.writeBindingError(w, err)
		return
	}
	s.metrics.SetLiveObjects(s.module.Len())
	s.writeObject(w, http.StatusCreated, h)
}

func (s *Server) handleObject(w http.ResponseWriter, r *http.Request) {
	h := binding.Handle(r.PathValue("handle"))
	switch r.Method {
	case http.MethodGet:
		s.writeObject(w, http.StatusOK, h)
	case http.MethodDelete:
		if err := s.module.Release(h); err != nil {
			s.writeBindingError(w, err)
			return
		}
		s.metrics.SetLiveObjects(s.module.Len())
		w.WriteHeader(http.StatusNoContent)
	default:
		s.methodNotAllowed(w, http.MethodGet, http.MethodDelete)
	}
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethods(w, r, http.MethodPost) {
		return
	}
	var req InvokeRequest
	if !s.decode(w, r, &req) {
		return
	}
	h := binding.Handle(r.PathValue("handle"))
	method := r.PathValue("method")

	ctx, cancel := context.WithTimeout(r.Context(), s.callTimeout)
	defer cancel()
	result, err := s.module.Invoke(ctx, h, method, req.Args...)
	s.metrics.ObserveBindingCall(s.symbolOf(h, method), err)
	if err != nil {
		s.writeBindingError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ResultResponse{Result: result})
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethods(w, r, http.MethodGet) {
		return
	}
	resp := SymbolsResponse{
		Module:    s.module.Name(),
		Functions: s.module.Functions(),
		Classes:   make(map[string][]string),
	}
	for _, c := range s.module.Classes() {
		methods, err := s.module.Methods(c)
		if err != nil {
			s.writeBindingError(w, err)
			return
		}
		resp.Classes[c] = methods
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethods(w, r, http.MethodGet) {
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"live_objects": s.module.Len(),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethods(w, r, http.MethodGet) {
		return
	}
	s.metrics.WritePrometheus(w, r)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, http.StatusNotFound, fmt.Errorf("no route for %s", r.URL.Path))
}

// symbolOf names a method call for metrics, falling back to the bare
// method name when the handle is unknown.
// unknownSymbol labels calls to names the module does not register, so
// client input cannot create new metric series.
const unknownSymbol = "unknown"

func (s *Server) metricSymbol(name string) string {
	if s.module.HasSymbol(name) {
		return name
	}
	return unknownSymbol
}

func (s *Server) symbolOf(h binding.Handle, method string) string {
	class, err := s.module.ClassOf(h)
	if err != nil {
		return unknownSymbol
	}
	return s.metricSymbol(class + "." + method)
}

func (s *Server) writeObject(w http.ResponseWriter, status int, h binding.Handle) {
	repr, err := s.module.Repr(h)
	if err != nil {
		s.writeBindingError(w, err)
		return
	}
	class, err := s.module.ClassOf(h)
	if err != nil {
		s.writeBindingError(w, err)
		return
	}
	s.writeJSON(w, status, ObjectResponse{Handle: string(h), Class: class, Repr: repr})
}

// allowMethods answers 405 unless r uses one of methods.
func (s *Server) allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	s.methodNotAllowed(w, methods...)
	return false
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, methods ...string) {
	for _, m := range methods {
		w.Header().Add("Allow", m)
	}
	s.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err == nil {
		err = expectEOF(dec)
	}
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return true
	case errors.As(err, &tooLarge):
		s.writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit))
	default:
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
	}
	return false
}

// expectEOF rejects anything but whitespace after the first JSON value.
func expectEOF(dec *json.Decoder) error {
	_, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return errors.New("unexpected data after the JSON value")
}

// bindingStatus maps a binding error to an HTTP status code.
func bindingStatus(err error) int {
	var validationErr apperrors.ValidationError
	switch {
	case errors.Is(err, binding.ErrUnknownFunction),
		errors.Is(err, binding.ErrUnknownClass),
		errors.Is(err, binding.ErrUnknownMethod),
		errors.Is(err, binding.ErrUnknownHandle):
		return http.StatusNotFound
	case errors.As(err, &validationErr), errors.Is(err, binding.ErrArity):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeBindingError(w http.ResponseWriter, err error) {
	status := bindingStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("binding call failed", err)
	}
	s.writeError(w, status, err)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", err, logging.Int("status", status))
	}
}
