// Package httputil holds the JSON request and response helpers shared by handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "linkboard/pkg/domain-errors"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encoding failure cannot change the status.
	_ = json.NewEncoder(w).Encode(response)
}

type httpError struct {
	status int
	code   string
}

var codeTable = map[dErrors.Code]httpError{
	dErrors.CodeNotFound:     {http.StatusNotFound, "not_found"},
	dErrors.CodeBadRequest:   {http.StatusBadRequest, "bad_request"},
	dErrors.CodeInvalidInput: {http.StatusBadRequest, "bad_request"},
	dErrors.CodeValidation:   {http.StatusBadRequest, "validation_error"},
	dErrors.CodeUnauthorized: {http.StatusUnauthorized, "unauthorized"},
	dErrors.CodeInvalidToken: {http.StatusUnauthorized, "invalid_token"},
	dErrors.CodeRateLimited:  {http.StatusTooManyRequests, "rate_limited"},
}

var internalError = httpError{http.StatusInternalServerError, "internal_error"}

func lookup(code dErrors.Code) httpError {
	if e, ok := codeTable[code]; ok {
		return e
	}
	return internalError
}

// WriteError translates a domain error into a status code and JSON body.
// Anything without a known code is reported as an opaque internal error.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) {
		WriteJSON(w, internalError.status, ErrorResponse{Error: internalError.code})
		return
	}
	mapped := lookup(domainErr.Code)
	response := ErrorResponse{Error: mapped.code}
	// Internal messages can carry infrastructure detail.
	if mapped != internalError {
		response.ErrorDescription = domainErr.Message
	}
	WriteJSON(w, mapped.status, response)
}

// DomainCodeToHTTPStatus translates a domain error code to an HTTP status.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	return lookup(code).status
}

// DomainCodeToHTTPCode translates a domain error code to the "error" field of responses.
func DomainCodeToHTTPCode(code dErrors.Code) string {
	return lookup(code).code
}
