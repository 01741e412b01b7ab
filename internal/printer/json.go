package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/blendrun/blendrun/internal/model"
)

// JSONPrinter prints run information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

// runListItem represents a run in the list output (subset of fields).
type runListItem struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// runOutput represents the full run detail output.
type runOutput struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Binary     string          `json:"binary"`
	Mode       string          `json:"mode"`
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	ExitCode   int             `json:"exit_code"`
	TimedOut   bool            `json:"timed_out"`
	DurationMS int64           `json:"duration_ms"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// executableOutput represents a located Blender binary.
type executableOutput struct {
	Path    string `json:"path"`
	Version string `json:"version"`
	Source  string `json:"source"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

// PrintRunList prints journaled runs in JSON format with a subset of fields.
func (j *JSONPrinter) PrintRunList(runs []model.Run) error {
	items := make([]runListItem, len(runs))
	for i, r := range runs {
		items[i] = runListItem{
			ID:         r.ID,
			Name:       r.Name,
			Status:     string(r.Status),
			DurationMS: r.Duration.Milliseconds(),
			CreatedAt:  r.CreatedAt.UTC(),
		}
	}

	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// PrintRun prints one journaled run in JSON format.
func (j *JSONPrinter) PrintRun(run model.Run) error {
	output := runOutput{
		ID:         run.ID,
		Name:       run.Name,
		Binary:     run.Binary,
		Mode:       string(run.Mode),
		Status:     string(run.Status),
		Message:    run.Message,
		ExitCode:   run.ExitCode,
		TimedOut:   run.TimedOut,
		DurationMS: run.Duration.Milliseconds(),
		CreatedAt:  run.CreatedAt.UTC(),
	}

	if run.Payload != "" {
		output.Payload = json.RawMessage(run.Payload)
	}

	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// PrintExecutable prints a located Blender binary in JSON format.
func (j *JSONPrinter) PrintExecutable(exe model.Executable) error {
	output := executableOutput{
		Path:    exe.Path,
		Version: exe.Version,
		Source:  string(exe.Source),
	}

	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	output := messageOutput{Message: msg}
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
