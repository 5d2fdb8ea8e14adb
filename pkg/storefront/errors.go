package storefront

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodePartialCommit = "PARTIAL_COMMIT"
	CodePersistence   = "PERSISTENCE_ERROR"
)

// APIError is a non-2xx (or 207) response decoded from the error envelope.
type APIError struct {
	Status  int             `json:"-"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront: %d %s: %s", e.Status, e.Code, e.Message)
}

// DecodeDetails unmarshals the error details into dest.
func (e *APIError) DecodeDetails(dest any) error {
	if len(e.Details) == 0 {
		return errors.New("no details")
	}
	return json.Unmarshal(e.Details, dest)
}

// IsPartialCommit reports whether err says the primary write succeeded while a follow-up
// step (such as removing cart lines) did not.
func IsPartialCommit(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodePartialCommit
}

// IsUnauthorized reports whether err is an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Code == CodeUnauthorized)
}
