package blender

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/blendrun/blendrun/internal/model"
)

func TestClassify(t *testing.T) {
	tests := map[string]struct {
		raw         model.RawResult
		expStatus   model.OutcomeStatus
		expMessage  string
		expContains string
		expPayload  map[string]interface{}
	}{
		"A timed out run should classify as timeout even with a success marker": {
			raw: model.RawResult{
				ExitCode: 0,
				Stdout:   "SUCCESS: finished just in time\n",
				Elapsed:  2 * time.Second,
				TimedOut: true,
			},
			expStatus:   model.OutcomeTimeout,
			expContains: "limit",
		},

		"A non-zero exit should classify as script error with the marker message": {
			raw: model.RawResult{
				ExitCode: 1,
				Stdout:   "ERROR: boom\n",
			},
			expStatus:  model.OutcomeScriptError,
			expMessage: "boom",
		},

		"A non-zero exit without markers should fall back to the stderr tail": {
			raw: model.RawResult{
				ExitCode: 2,
				Stderr:   "Traceback (most recent call last):\nNameError: name 'bpyy' is not defined\n",
			},
			expStatus:   model.OutcomeScriptError,
			expContains: "NameError",
		},

		"A non-zero exit with no output at all should still carry a diagnostic": {
			raw: model.RawResult{
				ExitCode: 11,
			},
			expStatus:   model.OutcomeScriptError,
			expContains: "non-zero",
		},

		"An error marker on a clean exit should classify as script error": {
			raw: model.RawResult{
				ExitCode: 0,
				Stdout:   "ERROR: object not found\n",
			},
			expStatus:  model.OutcomeScriptError,
			expMessage: "object not found",
		},

		"A success marker on a clean exit should classify as success with payload": {
			raw: model.RawResult{
				ExitCode: 0,
				Stdout:   "SUCCESS: done\n{\"a\": 1}\n",
			},
			expStatus:  model.OutcomeSuccess,
			expMessage: "done",
			expPayload: map[string]interface{}{"a": float64(1)},
		},

		"A clean exit without any marker should classify as parse error": {
			raw: model.RawResult{
				ExitCode: 0,
				Stdout:   "Blender quit\n",
			},
			expStatus:   model.OutcomeParseError,
			expContains: "marker",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			got := classify(test.raw, parseOutput(test.raw.Stdout), time.Second)

			assert.Equal(test.expStatus, got.Status)
			if test.expMessage != "" {
				assert.Equal(test.expMessage, got.Message)
			}
			if test.expContains != "" {
				assert.Contains(got.Message, test.expContains)
			}
			assert.Equal(test.expPayload, got.Payload)
			assert.Equal(test.raw, got.Raw)
		})
	}
}

func TestStderrExcerptCapsLongOutput(t *testing.T) {
	assert := assert.New(t)

	long := strings.Repeat("x", 2000) + "tail marker"
	got := stderrExcerpt(long)

	assert.Len(got, stderrExcerptLen)
	assert.True(strings.HasSuffix(got, "tail marker"))
}
