package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/blendrun/blendrun/internal/app/execute"
	"github.com/blendrun/blendrun/internal/blender"
	"github.com/blendrun/blendrun/internal/model"
	"github.com/blendrun/blendrun/internal/printer"
	"github.com/blendrun/blendrun/internal/storage/sqlite"
	"github.com/blendrun/blendrun/internal/utils/env"
)

// Exit codes for the run command, one per outcome class.
const (
	exitCodeScriptError = 1
	exitCodeParseError  = 65
	exitCodeTimeout     = 124
)

type RunCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	scriptPath string
	name       string
	timeout    time.Duration
	blendFile  string
	envSpecs   []string
	jsonOutput bool
	executor   *executorFlags
}

// NewRunCommand returns the run command.
func NewRunCommand(rootCmd *RootCommand, app *kingpin.Application) *RunCommand {
	c := &RunCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("run", "Run a Python script inside Blender.")
	c.Cmd.Arg("script", "Path to the script file, or - for stdin.").Required().StringVar(&c.scriptPath)
	c.Cmd.Flag("name", "Logical name for the run. Defaults to the script file name.").Short('n').StringVar(&c.name)
	c.Cmd.Flag("timeout", "Wall-clock timeout for this run (e.g. 90s, 5m).").Short('t').DurationVar(&c.timeout)
	c.Cmd.Flag("blend-file", "Scene file to open before running the script.").StringVar(&c.blendFile)
	c.Cmd.Flag("env", "Environment variables (KEY=VALUE or KEY from current environment). Can be repeated.").Short('e').StringsVar(&c.envSpecs)
	c.Cmd.Flag("json", "Print the journaled run as JSON.").BoolVar(&c.jsonOutput)
	c.executor = registerExecutorFlags(c.Cmd)

	return c
}

func (c RunCommand) Name() string { return c.Cmd.FullCommand() }

func (c RunCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	script, name, err := c.readScript()
	if err != nil {
		return err
	}
	if c.name != "" {
		name = c.name
	}

	runEnv, err := env.ParseSpecs(c.envSpecs)
	if err != nil {
		return fmt.Errorf("invalid --env value: %w", err)
	}

	cfg, err := c.executor.resolve(ctx, logger)
	if err != nil {
		return err
	}

	// Initialize storage (SQLite).
	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	// Initialize the Blender engine.
	manager, err := blender.NewManager(blender.ManagerConfig{
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create engine: %w", err)
	}

	// Create execute service.
	svc, err := execute.NewService(execute.ServiceConfig{
		Engine:     manager,
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, execute.Request{
		Config:    cfg,
		Script:    script,
		Name:      name,
		Timeout:   c.timeout,
		BlendFile: c.blendFile,
		Env:       runEnv,
	})
	if err != nil {
		return fmt.Errorf("could not run script: %w", err)
	}

	if err := c.printResult(*res); err != nil {
		return err
	}

	// Exit with the outcome's exit code.
	if code := exitCodeForStatus(res.Outcome.Status); code != 0 {
		os.Exit(code)
	}
	return nil
}

// readScript reads the script source from the path argument (or stdin when
// the argument is -) and derives a default logical name from it.
func (c RunCommand) readScript() (script, name string, err error) {
	if c.scriptPath == "-" {
		data, err := io.ReadAll(c.rootCmd.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("could not read script from stdin: %w", err)
		}
		return string(data), "", nil
	}

	data, err := os.ReadFile(c.scriptPath)
	if err != nil {
		return "", "", fmt.Errorf("could not read script file: %w", err)
	}

	name = strings.TrimSuffix(filepath.Base(c.scriptPath), ".py")
	return string(data), name, nil
}

func (c RunCommand) printResult(res execute.Response) error {
	if c.jsonOutput {
		p := printer.NewJSONPrinter(c.rootCmd.Stdout)
		if err := p.PrintRun(res.Run); err != nil {
			return fmt.Errorf("could not print run: %w", err)
		}
		return nil
	}

	outcome := res.Outcome
	if outcome.OK() {
		fmt.Fprintln(c.rootCmd.Stdout, outcome.Message)
		if outcome.Payload != nil {
			data, err := json.MarshalIndent(outcome.Payload, "", "  ")
			if err == nil {
				fmt.Fprintln(c.rootCmd.Stdout, string(data))
			}
		}
		return nil
	}

	fmt.Fprintf(c.rootCmd.Stderr, "Run %s failed (%s): %s\n", res.Run.ID, outcome.Status, outcome.Message)
	return nil
}

// exitCodeForStatus maps an outcome class to the process exit code.
func exitCodeForStatus(status model.OutcomeStatus) int {
	switch status {
	case model.OutcomeSuccess:
		return 0
	case model.OutcomeTimeout:
		return exitCodeTimeout
	case model.OutcomeParseError:
		return exitCodeParseError
	default:
		return exitCodeScriptError
	}
}
