package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"

	apperrors "github.com/mtnd/patrimoine-gateway/internal/errors"
)

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}

// WriteAppError maps an AppError to its HTTP status and writes it as JSON.
// Unrecognized errors render as 500 internal.
func WriteAppError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	status := http.StatusInternalServerError
	errCode := "internal"

	switch code {
	case apperrors.ErrCodeAuthenticationFailed:
		status, errCode = http.StatusUnauthorized, string(code)
	case apperrors.ErrCodeSessionExpired:
		status, errCode = http.StatusUnauthorized, string(code)
	case apperrors.ErrCodeProfileFetchFailed:
		// Session established but the profile lookup failed: the login attempt
		// is fatal and presents as a backend connectivity problem.
		status, errCode = http.StatusBadGateway, string(code)
	case apperrors.ErrCodeUnauthorized:
		status, errCode = http.StatusForbidden, string(code)
	case apperrors.ErrCodeValidation:
		status, errCode = http.StatusBadRequest, string(code)
	case apperrors.ErrCodeNotFound:
		status, errCode = http.StatusNotFound, string(code)
	case apperrors.ErrCodeConflict:
		status, errCode = http.StatusConflict, string(code)
	case apperrors.ErrCodeTimeout:
		status, errCode = http.StatusGatewayTimeout, string(code)
	case apperrors.ErrCodeCanceled:
		status, errCode = http.StatusServiceUnavailable, string(code)
	case apperrors.ErrCodeInternal, "":
		// fall through to defaults
	}

	WriteError(w, ErrorParams{Code: status, ErrCode: errCode, Err: err})
}
