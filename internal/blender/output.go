package blender

import (
	"encoding/json"
	"strings"
)

const (
	successMarker = "SUCCESS:"
	errorMarker   = "ERROR:"
)

// markerStatus is the status extracted from the stdout marker protocol.
type markerStatus int

const (
	statusUnknown markerStatus = iota
	statusSuccess
	statusError
)

// parsedOutput holds the markers extracted from one stdout capture.
type parsedOutput struct {
	status  markerStatus
	message string
	payload map[string]interface{}
}

// parseOutput scans stdout for the marker protocol. The first line starting
// with `SUCCESS:` or `ERROR:` is the authoritative status and message. The
// last line that is a self-contained `{...}` object is the authoritative
// payload, scripts may print intermediate diagnostic objects before the
// final result. Everything else is informational and ignored here.
func parseOutput(stdout string) parsedOutput {
	parsed := parsedOutput{}
	payloadLine := ""

	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)

		if parsed.status == statusUnknown {
			if rest, ok := strings.CutPrefix(line, successMarker); ok {
				parsed.status = statusSuccess
				parsed.message = strings.TrimSpace(rest)
				continue
			}
			if rest, ok := strings.CutPrefix(line, errorMarker); ok {
				parsed.status = statusError
				parsed.message = strings.TrimSpace(rest)
				continue
			}
		}

		if strings.HasPrefix(line, "{") && strings.HasSuffix(line, "}") {
			payloadLine = line
		}
	}

	if payloadLine != "" {
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(payloadLine), &obj); err == nil {
			parsed.payload = obj
		}
	}

	return parsed
}
