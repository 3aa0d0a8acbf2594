package transport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"
)

// Response is the envelope of every API response.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code      string              `json:"code"`
	Message   string              `json:"message,omitempty"`
	Details   map[string][]string `json:"details,omitempty"`
	Retryable bool                `json:"retryable,omitempty"`
}

const contentTypeJSON = "application/json; charset=utf-8"

// encodeError builds the error envelope. Server-side failures never leak
// their underlying message.
func encodeError(err error) (int, []byte) {
	httpErr := classify(err)
	detail := &ErrorDetail{
		Code:      httpErr.Key,
		Message:   err.Error(),
		Details:   errorDetails(err),
		Retryable: workflow.Retryable(err),
	}
	if httpErr.Code >= http.StatusInternalServerError {
		detail.Message = http.StatusText(httpErr.Code)
	}
	if _, ok := err.(HTTPError); ok {
		detail.Message = http.StatusText(httpErr.Code)
	}
	return httpErr.Code, encode(Response{Error: detail})
}

func encode(resp Response) []byte {
	body, err := json.Marshal(resp)
	if err != nil {
		body, _ = json.Marshal(Response{Error: &ErrorDetail{Code: ErrInternal.Key, Message: "response encoding failed"}})
	}
	return append(body, '\n')
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	writeBody(w, status, encode(resp))
}

func writeError(w http.ResponseWriter, err error) {
	status, body := encodeError(err)
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	writeBody(w, status, body)
}
