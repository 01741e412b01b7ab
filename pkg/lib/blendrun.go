package lib

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/blendrun/blendrun/internal/blender"
	"github.com/blendrun/blendrun/internal/conventions"
	"github.com/blendrun/blendrun/internal/log"
	"github.com/blendrun/blendrun/internal/model"
	"github.com/blendrun/blendrun/internal/storage"
	"github.com/blendrun/blendrun/internal/storage/sqlite"
)

// Config configures the SDK client.
//
// All fields are optional and have sensible defaults. At minimum, an empty
// Config{} will discover Blender (BLENDER_EXECUTABLE, well-known install
// locations, PATH), run headless, and journal runs in ~/.blendrun/blendrun.db.
type Config struct {
	// BinaryPath is the Blender executable or command name to use.
	// Empty triggers discovery: the BLENDER_EXECUTABLE environment
	// variable, well-known install locations, then PATH lookup.
	BinaryPath string

	// Mode selects headless or interactive invocation.
	// Default: [ModeHeadless].
	Mode Mode

	// DefaultTimeout bounds script runs that carry no per-run override.
	// Default: 5 minutes.
	DefaultTimeout time.Duration

	// TempRoot is the parent directory for per-run staging workspaces.
	// Default: the OS temp dir.
	TempRoot string

	// DBPath is the run journal SQLite database path.
	// Default: ~/.blendrun/blendrun.db.
	DBPath string

	// Env contains environment variables applied to every run. Per-run
	// variables from [RunOpts].Env win on duplicates.
	Env map[string]string

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get user home dir: %w", err)
		}
		c.DBPath = conventions.DBPath(home)
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Client is the main SDK entry point for running Python scripts inside
// Blender programmatically.
//
// Create a Client with [New] and release its resources with [Client.Close].
// A Client is safe for concurrent use: runs on the same configuration share
// one validated session and execute in parallel.
type Client struct {
	repo     storage.Repository
	engine   blender.Engine
	executor model.ExecutorConfig
	env      map[string]string
	logger   log.Logger
	closeFn  func() error
}

// New creates a new SDK client backed by a SQLite run journal.
//
// The Blender binary is not located until the first operation that needs it,
// so New succeeds even when Blender is not installed.
//
// The caller must call [Client.Close] when done to release the database
// connection. Typically used with defer:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: cfg.DBPath,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}

	manager, err := blender.NewManager(blender.ManagerConfig{Logger: cfg.Logger})
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("could not create session manager: %w", err)
	}

	return &Client{
		repo:   repo,
		engine: manager,
		executor: model.ExecutorConfig{
			BinaryPath:     cfg.BinaryPath,
			Mode:           model.InvocationMode(cfg.Mode),
			DefaultTimeout: cfg.DefaultTimeout,
			TempRoot:       cfg.TempRoot,
		},
		env:     cfg.Env,
		logger:  cfg.Logger,
		closeFn: repo.Close,
	}, nil
}

// Close releases resources held by the client, including the database connection.
// After Close returns, the client must not be used.
func (c *Client) Close() error {
	if c.closeFn != nil {
		return c.closeFn()
	}
	return nil
}

// Locate resolves and validates the Blender executable for this client's
// configuration without running any script.
//
// Returns [ErrNotFound] when no discovery tier produces a usable binary, or
// when a candidate exists but fails validation (not executable, version
// probe failure).
func (c *Client) Locate(ctx context.Context) (*Executable, error) {
	exe, err := c.engine.Locate(ctx, c.executor)
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalExecutable(*exe)
	return &result, nil
}

// Doctor runs preflight health checks for the configured executor.
//
// This covers executable discovery, the version probe, workspace staging,
// the invocation mode, and an end-to-end probe script. A failing check is a
// [CheckResult] with [CheckStatusError], not an error.
func (c *Client) Doctor(ctx context.Context) ([]CheckResult, error) {
	results := c.engine.Check(ctx, c.executor)
	return fromInternalCheckResults(results), nil
}
