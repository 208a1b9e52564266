package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/deskpulse/deskpulse/infrastructure/http/response"
	"github.com/deskpulse/deskpulse/infrastructure/http/validator"
	apperror "github.com/deskpulse/deskpulse/pkg/error"
)

const maxRequestBody = 1 << 20

// errEmptyBody is returned when a request carries no JSON document.
var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads a single JSON document from the request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

// bindJSON decodes and validates a request body, writing the 400 response
// itself when either step fails.
func bindJSON(w http.ResponseWriter, r *http.Request, v *validator.Validator, dst interface{}) bool {
	if err := decodeJSON(r, dst); err != nil {
		response.ErrorWithMessage(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return false
	}
	details, err := v.Struct(dst)
	if err != nil {
		response.ErrorWithMessage(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return false
	}
	if len(details) > 0 {
		response.ErrorWithDetails(w, http.StatusBadRequest, "Invalid request", details)
		return false
	}
	return true
}

// writeError maps a use case error onto the response status.
func writeError(w http.ResponseWriter, err error) {
	appErr := apperror.MapError(err)
	response.Error(w, appErr.Status, appErr.Message)
}

// queryInt parses an optional integer query parameter. Missing or
// non-numeric values yield 0, which the page clamping turns into a default.
func queryInt(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// queryIntList parses a JSON encoded integer array such as status=[1,2]. A
// bare number is accepted as a one element list.
func queryIntList(r *http.Request, name string) ([]int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	var list []int
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return list, nil
	}
	var single int
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		return []int{single}, nil
	}
	return nil, fmt.Errorf("%s must be a JSON array of integers, got %q", name, raw)
}
