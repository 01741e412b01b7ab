package printer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/blendrun/blendrun/internal/model"
)

// TablePrinter prints run information in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintRunList prints journaled runs in a table format.
func (t *TablePrinter) PrintRunList(runs []model.Run) error {
	if len(runs) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	// Print header
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tDURATION\tCREATED")

	// Print rows
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Status, FormatDuration(r.Duration), TimeAgo(r.CreatedAt))
	}

	return nil
}

// PrintRun prints one journaled run in detail.
func (t *TablePrinter) PrintRun(run model.Run) error {
	fmt.Fprintf(t.writer, "ID:         %s\n", run.ID)
	fmt.Fprintf(t.writer, "Name:       %s\n", run.Name)
	fmt.Fprintf(t.writer, "Status:     %s\n", run.Status)

	if run.Message != "" {
		fmt.Fprintf(t.writer, "Message:    %s\n", run.Message)
	}

	fmt.Fprintf(t.writer, "Binary:     %s\n", run.Binary)
	fmt.Fprintf(t.writer, "Mode:       %s\n", run.Mode)
	fmt.Fprintf(t.writer, "Exit code:  %d\n", run.ExitCode)

	if run.TimedOut {
		fmt.Fprintf(t.writer, "Timed out:  yes\n")
	}

	fmt.Fprintf(t.writer, "Duration:   %s\n", FormatDuration(run.Duration))

	if run.Payload != "" {
		fmt.Fprintf(t.writer, "Payload:    %s\n", run.Payload)
	}

	fmt.Fprintf(t.writer, "Created:    %s\n", FormatTimestamp(run.CreatedAt))

	return nil
}

// PrintExecutable prints a located Blender binary in detail.
func (t *TablePrinter) PrintExecutable(exe model.Executable) error {
	fmt.Fprintf(t.writer, "Path:       %s\n", exe.Path)
	fmt.Fprintf(t.writer, "Version:    %s\n", exe.Version)
	fmt.Fprintf(t.writer, "Source:     %s\n", exe.Source)
	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}
