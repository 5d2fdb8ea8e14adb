package validators

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/mandlimart/mandlimart-backend/pkg/errors"
)

// ParseQueryInt reads an integer query parameter bounded by [min, max]; absent means fallback.
func ParseQueryInt(r *http.Request, key string, fallback, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Validation("invalid query parameter", pkgerrors.FieldErrors{key: "must be a whole number"})
	}
	if value < min || value > max {
		return 0, pkgerrors.Validation("invalid query parameter", pkgerrors.FieldErrors{
			key: fmt.Sprintf("must be between %d and %d", min, max),
		})
	}
	return value, nil
}
