package monitor

import (
	"encoding/json"
	"net/http"
	"strings"
)

const redactionMarker = "[REDACTED]"

var sensitiveHeaders = map[string]struct{}{
	"authorization": {},
	"cookie":        {},
	"x-api-key":     {},
}

var sensitiveFields = map[string]struct{}{
	"password": {},
	"token":    {},
	"secret":   {},
}

// SanitizeHeaders returns a loggable copy of the headers with credential
// material replaced by the redaction marker.
func SanitizeHeaders(headers http.Header) map[string]string {
	sanitized := make(map[string]string, len(headers))
	for name, values := range headers {
		if _, sensitive := sensitiveHeaders[strings.ToLower(name)]; sensitive {
			sanitized[name] = redactionMarker
			continue
		}
		sanitized[name] = strings.Join(values, ", ")
	}
	return sanitized
}

// SanitizeBody prepares a request body for logging: JSON objects get their
// sensitive fields redacted, everything is truncated to maxLength with a
// truncation marker appended.
func SanitizeBody(body []byte, maxLength int) string {
	if maxLength <= 0 {
		maxLength = 1000
	}

	out := string(body)

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err == nil {
		for field := range decoded {
			if _, sensitive := sensitiveFields[strings.ToLower(field)]; sensitive {
				decoded[field] = redactionMarker
			}
		}
		if encoded, err := json.Marshal(decoded); err == nil {
			out = string(encoded)
		}
	}

	if len(out) > maxLength {
		out = out[:maxLength] + "..."
	}

	return out
}
