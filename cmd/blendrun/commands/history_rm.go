package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/blendrun/blendrun/internal/app/historyremove"
	"github.com/blendrun/blendrun/internal/printer"
	"github.com/blendrun/blendrun/internal/storage/sqlite"
)

// HistoryRmCommand deletes one journaled run.
type HistoryRmCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	id string
}

// NewHistoryRmCommand returns the history rm command.
func NewHistoryRmCommand(rootCmd *RootCommand, historyCmd *kingpin.CmdClause) *HistoryRmCommand {
	c := &HistoryRmCommand{rootCmd: rootCmd}

	c.Cmd = historyCmd.Command("rm", "Delete one journaled run.")
	c.Cmd.Arg("id", "Run ID.").Required().StringVar(&c.id)

	return c
}

func (c HistoryRmCommand) Name() string { return c.Cmd.FullCommand() }

func (c HistoryRmCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	svc, err := historyremove.NewService(historyremove.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	run, err := svc.Run(ctx, historyremove.Request{
		ID: c.id,
	})
	if err != nil {
		return fmt.Errorf("could not delete run: %w", err)
	}

	// Print success message.
	p := printer.NewTablePrinter(c.rootCmd.Stdout)
	if err := p.PrintMessage(fmt.Sprintf("Deleted run %s (%s)", run.ID, run.Name)); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
