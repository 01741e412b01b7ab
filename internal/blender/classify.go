package blender

import (
	"fmt"
	"strings"
	"time"

	"github.com/blendrun/blendrun/internal/model"
)

// stderrExcerptLen caps the stderr tail used as the diagnostic when the
// script failed without printing a marker of its own.
const stderrExcerptLen = 512

// classify turns one raw process result plus its parsed markers into the
// final outcome. Precedence: timeout beats everything, then a non-zero
// exit, then an ERROR marker on a clean exit, then SUCCESS. A clean exit
// with no marker at all is a parse error, not a success.
func classify(raw model.RawResult, parsed parsedOutput, limit time.Duration) model.ExecutionOutcome {
	switch {
	case raw.TimedOut:
		return model.ExecutionOutcome{
			Status:  model.OutcomeTimeout,
			Message: fmt.Sprintf("execution exceeded the %s limit after %s", limit, raw.Elapsed.Round(time.Millisecond)),
			Raw:     raw,
		}

	case raw.ExitCode != 0:
		msg := parsed.message
		if msg == "" {
			msg = stderrExcerpt(raw.Stderr)
		}
		return model.ExecutionOutcome{
			Status:  model.OutcomeScriptError,
			Message: msg,
			Raw:     raw,
		}

	case parsed.status == statusError:
		return model.ExecutionOutcome{
			Status:  model.OutcomeScriptError,
			Message: parsed.message,
			Raw:     raw,
		}

	case parsed.status == statusSuccess:
		return model.ExecutionOutcome{
			Status:  model.OutcomeSuccess,
			Message: parsed.message,
			Payload: parsed.payload,
			Raw:     raw,
		}

	default:
		return model.ExecutionOutcome{
			Status:  model.OutcomeParseError,
			Message: "no status marker found in script output",
			Raw:     raw,
		}
	}
}

func stderrExcerpt(stderr string) string {
	s := strings.TrimSpace(stderr)
	if s == "" {
		return "script exited with a non-zero status and produced no error output"
	}
	if len(s) > stderrExcerptLen {
		s = s[len(s)-stderrExcerptLen:]
	}
	return s
}
