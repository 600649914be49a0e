package post

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const maxBodyLength = 1000

var sanitizer = bluemonday.StrictPolicy()

// CleanBody strips markup and rejects empty or oversized bodies.
func CleanBody(body string) (string, error) {
	cleaned := strings.TrimSpace(sanitizer.Sanitize(body))
	if cleaned == "" {
		return "", fmt.Errorf("body is empty")
	}
	if len(cleaned) > maxBodyLength {
		return "", fmt.Errorf("body exceeds %d characters", maxBodyLength)
	}
	return cleaned, nil
}
