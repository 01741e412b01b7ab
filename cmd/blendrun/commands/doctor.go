package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/blendrun/blendrun/internal/blender"
	"github.com/blendrun/blendrun/internal/model"
	"github.com/blendrun/blendrun/internal/storage/sqlite"
)

type DoctorCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	executor *executorFlags
}

// NewDoctorCommand returns the doctor command.
func NewDoctorCommand(rootCmd *RootCommand, app *kingpin.Application) *DoctorCommand {
	c := &DoctorCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("doctor", "Run preflight checks for the Blender executor.")
	c.executor = registerExecutorFlags(c.Cmd)

	return c
}

func (c DoctorCommand) Name() string { return c.Cmd.FullCommand() }

func (c DoctorCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger
	out := c.rootCmd.Stdout

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

	allResults := []groupCheckResults{
		{name: "Blender executor", results: manager.Check(ctx, cfg)},
		{name: "run journal", results: c.checkJournal(ctx)},
	}

	// Print results
	totalErrors := 0
	totalWarnings := 0

	for _, gr := range allResults {
		fmt.Fprintf(out, "\nChecking %s...\n", gr.name)
		for _, r := range gr.results {
			icon := getStatusIcon(r.Status)
			fmt.Fprintf(out, "  %s %-20s %s\n", icon, r.ID, r.Message)

			switch r.Status {
			case model.CheckStatusError:
				totalErrors++
			case model.CheckStatusWarning:
				totalWarnings++
			}
		}
	}

	// Summary
	fmt.Fprintln(out)
	if totalErrors == 0 && totalWarnings == 0 {
		fmt.Fprintln(out, "All checks passed!")
	} else {
		var summary []string
		if totalErrors > 0 {
			summary = append(summary, fmt.Sprintf("%d error(s)", totalErrors))
		}
		if totalWarnings > 0 {
			summary = append(summary, fmt.Sprintf("%d warning(s)", totalWarnings))
		}
		fmt.Fprintf(out, "%s\n", strings.Join(summary, ", "))
	}

	// Return error if there are any errors
	if totalErrors > 0 {
		return fmt.Errorf("preflight checks failed with %d error(s)", totalErrors)
	}

	return nil
}

// checkJournal verifies the run journal database can be created and opened.
func (c DoctorCommand) checkJournal(ctx context.Context) []model.CheckResult {
	dataDir := filepath.Dir(c.rootCmd.DBPath)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return []model.CheckResult{{
			ID:      "data_dir_writable",
			Status:  model.CheckStatusError,
			Message: fmt.Sprintf("Data directory not writable: %v", err),
		}}
	}

	results := []model.CheckResult{{
		ID:      "data_dir_writable",
		Status:  model.CheckStatusOK,
		Message: fmt.Sprintf("Data directory %s is writable", dataDir),
	}}

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: c.rootCmd.Logger,
	})
	if err != nil {
		results = append(results, model.CheckResult{
			ID:      "journal_database",
			Status:  model.CheckStatusError,
			Message: fmt.Sprintf("Run journal not usable: %v", err),
		})
		return results
	}
	defer repo.Close()

	results = append(results, model.CheckResult{
		ID:      "journal_database",
		Status:  model.CheckStatusOK,
		Message: fmt.Sprintf("Run journal at %s", c.rootCmd.DBPath),
	})

	return results
}

type groupCheckResults struct {
	name    string
	results []model.CheckResult
}

func getStatusIcon(status model.CheckStatus) string {
	switch status {
	case model.CheckStatusOK:
		return "OK"
	case model.CheckStatusWarning:
		return "!!"
	case model.CheckStatusError:
		return "XX"
	default:
		return "??"
	}
}

