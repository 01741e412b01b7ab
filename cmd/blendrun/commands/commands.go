package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/blendrun/blendrun/internal/conventions"
	"github.com/blendrun/blendrun/internal/log"
	"github.com/blendrun/blendrun/internal/model"
	storageio "github.com/blendrun/blendrun/internal/storage/io"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug      bool
	NoLog      bool
	NoColor    bool
	LoggerType string
	DBPath     string

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	defaultDBPath := conventions.DBPath(homedir.HomeDir())
	app.Flag("db-path", "Path to the run journal database file.").Envar("BLENDRUN_DB_PATH").Default(defaultDBPath).StringVar(&c.DBPath)

	return c
}

// executorFlags are the Blender executor flags shared by the commands that
// locate or spawn the binary.
type executorFlags struct {
	configPath string
	binary     string
	mode       string
	tempRoot   string
}

// registerExecutorFlags registers the shared executor flags on a command.
func registerExecutorFlags(cmd *kingpin.CmdClause) *executorFlags {
	f := &executorFlags{}

	defaultConfigPath := conventions.ConfigPath(homedir.HomeDir())
	cmd.Flag("config", "Path to the YAML executor config file.").Default(defaultConfigPath).StringVar(&f.configPath)
	cmd.Flag("blender", "Path to the Blender executable or command name. Discovery applies when empty.").StringVar(&f.binary)
	cmd.Flag("mode", "Invocation mode (headless, interactive).").StringVar(&f.mode)
	cmd.Flag("temp-root", "Parent directory for per-run script workspaces.").StringVar(&f.tempRoot)

	return f
}

// resolve loads the optional config file and applies the explicitly set
// flags on top of it.
func (f *executorFlags) resolve(ctx context.Context, logger log.Logger) (model.ExecutorConfig, error) {
	cfg := model.ExecutorConfig{}

	if _, err := os.Stat(f.configPath); err == nil {
		repo := storageio.NewConfigYAMLRepository(os.DirFS(filepath.Dir(f.configPath)))
		fileCfg, err := repo.GetConfig(ctx, filepath.Base(f.configPath))
		if err != nil {
			return cfg, fmt.Errorf("could not load config file %q: %w", f.configPath, err)
		}
		cfg = fileCfg
		logger.Debugf("Loaded executor config from %s", f.configPath)
	}

	if f.binary != "" {
		cfg.BinaryPath = f.binary
	}
	if f.mode != "" {
		cfg.Mode = model.InvocationMode(f.mode)
	}
	if f.tempRoot != "" {
		cfg.TempRoot = f.tempRoot
	}

	return cfg, nil
}
