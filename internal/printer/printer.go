package printer

import "github.com/blendrun/blendrun/internal/model"

// Printer knows how to print run information in different formats.
type Printer interface {
	PrintRunList(runs []model.Run) error
	PrintRun(run model.Run) error
	PrintExecutable(exe model.Executable) error
	PrintMessage(msg string) error
}
