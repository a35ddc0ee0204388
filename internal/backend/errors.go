package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// fallbackErrorBody is used when a failed response body cannot be read or
// is not JSON.
const fallbackErrorBody = `{"message":"failed to process API error response"}`

// HTTPFailure is returned for any response outside the 2xx range. Body holds
// the parsed JSON error payload when there is one.
type HTTPFailure struct {
	StatusCode int
	Body       json.RawMessage
	Message    string
}

func (f *HTTPFailure) Error() string {
	return fmt.Sprintf("backend responded %d: %s", f.StatusCode, f.Message)
}

// newHTTPFailure reads resp's body into an HTTPFailure. Unreadable or
// non-JSON bodies are replaced by fallbackErrorBody.
func newHTTPFailure(resp *http.Response) *HTTPFailure {
	f := &HTTPFailure{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil || !json.Valid(data) {
		data = []byte(fallbackErrorBody)
	}
	f.Body = json.RawMessage(data)

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		f.Message = payload.Message
		if f.Message == "" {
			f.Message = payload.Error
		}
	}
	if f.Message == "" {
		f.Message = http.StatusText(resp.StatusCode)
	}

	return f
}

// StatusOf returns the HTTP status carried by err, or 0 if err is not an
// *HTTPFailure.
func StatusOf(err error) int {
	var f *HTTPFailure
	if errors.As(err, &f) {
		return f.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}
