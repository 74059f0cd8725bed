package response

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func RenderUnauthorized(rw http.ResponseWriter) {
	RenderError(rw, "invalid authentication token", http.StatusUnauthorized)
}

func RenderInternalError(rw http.ResponseWriter) {
	RenderError(rw, "Internal server error", http.StatusInternalServerError)
}

// RenderFailure renders an internal error together with err's message.
func RenderFailure(rw http.ResponseWriter, err error) {
	Render(rw, errorResponse{Error: "Internal server error", Message: err.Error()}, http.StatusInternalServerError)
}

func RenderMethodNotAllowed(rw http.ResponseWriter) {
	RenderError(rw, "method not allowed", http.StatusMethodNotAllowed)
}

func RenderNotFound(rw http.ResponseWriter) {
	RenderError(rw, "not found", http.StatusNotFound)
}

func RenderError(rw http.ResponseWriter, msg string, status int) {
	Render(rw, errorResponse{Error: msg}, status)
}

func Render(rw http.ResponseWriter, res interface{}, status int) {
	rw.Header().Set("Content-Type", "application/json")

	content, err := json.Marshal(res)
	if err != nil {
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(status)
	rw.Write(content)
}
