package profiles

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const dataURIPrefix = "data:"

var allowedImageTypes = []string{"image/png", "image/jpeg", "image/webp", "image/gif"}

// validateImage checks a data:image/...;base64, URI. The declared type must be allowed, and
// the decoded bytes must sniff as that same type and fit in maxBytes.
func validateImage(uri string, maxBytes int) error {
	if !strings.HasPrefix(uri, dataURIPrefix) {
		return fmt.Errorf("must be a data URI")
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, dataURIPrefix), ",")
	if !ok {
		return fmt.Errorf("must be a data URI")
	}
	declared, encoding, ok := strings.Cut(header, ";")
	if !ok || !strings.EqualFold(encoding, "base64") {
		return fmt.Errorf("must be base64 encoded")
	}
	declared = strings.ToLower(strings.TrimSpace(declared))
	if !isAllowedImage(declared) {
		return fmt.Errorf("type %q is not one of %s", declared, strings.Join(allowedImageTypes, ", "))
	}

	if maxBytes > 0 && base64.StdEncoding.DecodedLen(len(payload)) > maxBytes+2 {
		return fmt.Errorf("exceeds %d bytes", maxBytes)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("invalid base64 payload")
	}
	if len(raw) == 0 {
		return fmt.Errorf("image is empty")
	}
	if maxBytes > 0 && len(raw) > maxBytes {
		return fmt.Errorf("exceeds %d bytes", maxBytes)
	}

	detected := mimetype.Detect(raw)
	if !detected.Is(declared) {
		return fmt.Errorf("content is %s, declared %s", detected.String(), declared)
	}
	return nil
}

func isAllowedImage(value string) bool {
	for _, allowed := range allowedImageTypes {
		if value == allowed {
			return true
		}
	}
	return false
}
