package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/blendrun/blendrun/internal/blender"
	"github.com/blendrun/blendrun/internal/printer"
)

type LocateCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format   string
	executor *executorFlags
}

// NewLocateCommand returns the locate command.
func NewLocateCommand(rootCmd *RootCommand, app *kingpin.Application) *LocateCommand {
	c := &LocateCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("locate", "Resolve and validate the Blender executable.")
	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")
	c.executor = registerExecutorFlags(c.Cmd)

	return c
}

func (c LocateCommand) Name() string { return c.Cmd.FullCommand() }

func (c LocateCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	cfg, err := c.executor.resolve(ctx, logger)
	if err != nil {
		return err
	}

	manager, err := blender.NewManager(blender.ManagerConfig{
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create engine: %w", err)
	}

	exe, err := manager.Locate(ctx, cfg)
	if err != nil {
		return fmt.Errorf("could not locate Blender: %w", err)
	}

	// Print output.
	var p printer.Printer
	switch c.format {
	case "json":
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default: // table
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
	}

	if err := p.PrintExecutable(*exe); err != nil {
		return fmt.Errorf("could not print executable: %w", err)
	}

	return nil
}
