package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rpupo63/consultancy-site-backend/errs"
	"github.com/rs/zerolog"
)

// Envelope is the body of every API response
// @Description Uniform response wrapper
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Message string     `json:"message,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody carries the structured part of a failed response
type ErrorBody struct {
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Missing required field: title"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

// WriteJSON writes a successful envelope around data with status 200
func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.write(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// WriteCreated writes a successful envelope with status 201
func (r Responder) WriteCreated(w http.ResponseWriter, data any) {
	r.write(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

// WriteMessage writes a successful envelope with only a message
func (r Responder) WriteMessage(w http.ResponseWriter, status int, message string) {
	r.write(w, status, Envelope{Success: true, Message: message})
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.write(w, http.StatusInternalServerError, Envelope{
			Success: false,
			Message: "An unexpected error occurred",
		})
		return
	}

	body := &ErrorBody{Field: apiErr.Field, Details: apiErr.Details}
	// Add full error chain for debugging (especially useful for database errors)
	if apiErr.Cause != nil {
		body.Cause = apiErr.GetFullError()
	}
	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Err(apiErr.Cause).Str("error", apiErr.Error()).Msg("request failed")
	}
	r.write(w, apiErr.StatusCode, Envelope{
		Success: false,
		Message: apiErr.Message(),
		Error:   body,
	})
}

func (r Responder) write(w http.ResponseWriter, status int, env Envelope) {
	jsonData, err := json.Marshal(env)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// wrapDatabaseError wraps a database error with context information.
// Errors that already carry a status pass through.
func wrapDatabaseError(operation, entity string, cause error) error {
	var apiErr *errs.ApiErr
	if errors.As(cause, &apiErr) {
		return cause
	}
	return errs.NewDatabaseError(operation, entity, cause)
}
