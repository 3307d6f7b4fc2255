package supabase

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

// APIError is a non-2xx response from any backend service. Status is 0 when
// the SDK reported only an error code.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	switch {
	case e.Status == 0 && e.Code == "":
		return "supabase: " + e.Message
	case e.Status == 0:
		return fmt.Sprintf("supabase: %s: %s", e.Code, e.Message)
	case e.Code != "":
		return fmt.Sprintf("supabase: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase: %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusNotFound
}

// errorBody covers the shapes GoTrue, PostgREST and Storage return.
type errorBody struct {
	ErrorCode        string `json:"error_code"`
	Code             any    `json:"code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func parseAPIError(status int, data []byte) *APIError {
	ae := &APIError{Status: status}
	var b errorBody
	if err := json.Unmarshal(data, &b); err != nil {
		ae.Message = strings.TrimSpace(string(data))
		if ae.Message == "" {
			ae.Message = http.StatusText(status)
		}
		return ae
	}

	switch {
	case b.ErrorCode != "":
		ae.Code = b.ErrorCode
	case b.Error != "" && b.ErrorDescription != "":
		ae.Code = b.Error
	default:
		if s, ok := b.Code.(string); ok {
			ae.Code = s
		}
	}

	for _, m := range []string{b.Msg, b.ErrorDescription, b.Message, b.Error} {
		if m != "" {
			ae.Message = m
			break
		}
	}
	if ae.Message == "" {
		ae.Message = http.StatusText(status)
	}
	return ae
}

var (
	// gotrue-go: "response status code 400: {...}"
	authErrRe = regexp.MustCompile(`(?s)^response status code (\d+)(?:: (.*))?$`)
	// postgrest-go: "(PGRST116) JSON object requested, ..."
	restErrRe = regexp.MustCompile(`(?s)^\(([^)]*)\) (.*)$`)
)

// restStatus maps the PostgREST codes the store branches on to HTTP statuses.
var restStatus = map[string]int{
	"PGRST116": http.StatusNotFound,
	"PGRST301": http.StatusUnauthorized,
	"42501":    http.StatusForbidden,
}

// authError turns a gotrue-go error back into an *APIError so callers can
// branch on error_code. Errors raised before a request was sent pass through.
func authError(err error) error {
	if err == nil {
		return nil
	}
	m := authErrRe.FindStringSubmatch(err.Error())
	if m == nil {
		return err
	}
	status, _ := strconv.Atoi(m[1])
	return parseAPIError(status, []byte(m[2]))
}

// restError turns a postgrest-go "(code) message" error into an *APIError.
func restError(err error) error {
	if err == nil {
		return nil
	}
	m := restErrRe.FindStringSubmatch(err.Error())
	if m == nil {
		return err
	}
	return &APIError{Status: restStatus[m[1]], Code: m[1], Message: m[2]}
}

// storageError converts a storage-go error.
func storageError(err error) error {
	var se *storage.StorageError
	if !errors.As(err, &se) {
		return err
	}
	ae := &APIError{Status: se.Status, Message: se.Message}
	if ae.Message == "" {
		ae.Message = "storage request failed"
	}
	return ae
}
