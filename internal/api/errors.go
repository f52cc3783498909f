package api

import "github.com/labstack/echo/v4"

// Machine-readable error codes returned in the error envelope.
const (
	codeNoSignal       = "NoSignal"
	codeUpstream       = "UpstreamUnavailable"
	codeParseFailure   = "ParseFailure"
	codeNotFound       = "NotFound"
	codeInvalidRequest = "InvalidRequest"
	codeUnauthorized   = "Unauthorized"
	codeConflict       = "Conflict"
	codeInternal       = "InternalError"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// errorJSON writes the standard error envelope. Messages are static
// strings chosen by handlers; internal error details never reach clients.
func errorJSON(c echo.Context, status int, code, message string) error {
	return c.JSON(status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}
