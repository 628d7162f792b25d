package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matzehuels/organogram/pkg/drafts"
	orgerrors "github.com/matzehuels/organogram/pkg/errors"
)

const maxBodySize = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return orgerrors.Wrap(orgerrors.ErrCodeInvalidInput, err, "malformed request body")
	}
	return nil
}

// writeJSON encodes v with status. ?pretty=true indents the output.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	if r.URL.Query().Get("pretty") == "true" {
		enc.SetIndent("", "  ")
	}
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := orgerrors.GetCode(err)
	if errors.Is(err, drafts.ErrNotFound) {
		code = orgerrors.ErrCodeDraftNotFound
	}
	writeJSON(w, r, statusFor(code), errorResponse{Error: orgerrors.UserMessage(err), Code: string(code)})
}

func statusFor(code orgerrors.Code) int {
	switch code {
	case orgerrors.ErrCodeInvalidInput, orgerrors.ErrCodeInvalidEvent, orgerrors.ErrCodeInvalidStructureID:
		return http.StatusBadRequest
	case orgerrors.ErrCodeReferential:
		return http.StatusConflict
	case orgerrors.ErrCodeNotFound, orgerrors.ErrCodeDraftNotFound:
		return http.StatusNotFound
	case orgerrors.ErrCodeNetwork, orgerrors.ErrCodeTransport:
		return http.StatusBadGateway
	case orgerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case orgerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
