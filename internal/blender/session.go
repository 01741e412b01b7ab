package blender

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/blendrun/blendrun/internal/conventions"
	"github.com/blendrun/blendrun/internal/log"
	"github.com/blendrun/blendrun/internal/model"
)

// DefaultExecutionTimeout bounds a script run when neither the request nor
// the configuration sets a limit.
const DefaultExecutionTimeout = 300 * time.Second

// Session binds a located and validated Blender binary to one invocation
// mode. Sessions are safe for concurrent use, every Execute call stages its
// own workspace and spawns its own process.
type Session struct {
	exe    model.Executable
	cfg    model.ExecutorConfig
	logger log.Logger
}

// Executable returns the validated binary this session runs.
func (s *Session) Executable() model.Executable { return s.exe }

// Execute stages the request's script into a fresh workspace, runs it under
// the session's binary and mode, and classifies the captured output. The
// workspace is removed on every path out of this method.
func (s *Session) Execute(ctx context.Context, req model.ExecutionRequest) (*model.ExecutionOutcome, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid execution request: %w", err)
	}

	ws, err := stageWorkspace(s.cfg.TempRoot, req.Name, req.Script)
	if err != nil {
		return nil, err
	}
	defer ws.Cleanup()

	blendFile := req.BlendFile
	if blendFile != "" {
		if _, err := os.Stat(blendFile); err != nil {
			s.logger.Warningf("Blend file %q not found, starting from factory settings", blendFile)
			blendFile = ""
		}
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = s.cfg.DefaultTimeout
	}

	logger := s.logger.WithValues(log.Kv{"script": req.Name, "timeout": timeout})

	iv := &invocation{
		binary:     s.exe.Path,
		mode:       s.cfg.Mode,
		scriptPath: ws.ScriptPath,
		blendFile:  blendFile,
		workDir:    ws.Dir,
		env:        childEnv(s.exe.Path, req.Env),
		timeout:    timeout,
		logger:     logger,
	}

	raw, err := iv.run(ctx)
	if err != nil {
		return nil, err
	}

	outcome := classify(*raw, parseOutput(raw.Stdout), timeout)
	outcome.Binary = s.exe.Path
	outcome.Mode = s.cfg.Mode
	logger.Infof("Execution finished with status %q in %s", outcome.Status, raw.Elapsed.Round(time.Millisecond))

	return &outcome, nil
}

// childEnv builds the child environment: the parent environment, then the
// resolved binary for any nested tooling, then per-request extras. Later
// entries win on duplicate keys.
func childEnv(binary string, extra map[string]string) []string {
	env := append(os.Environ(), conventions.EnvBlenderExecutable+"="+binary)
	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	return env
}

// ManagerConfig is the configuration of the session Manager.
type ManagerConfig struct {
	Locator *Locator
	Logger  log.Logger
}

func (c *ManagerConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}

	if c.Locator == nil {
		locator, err := NewLocator(LocatorConfig{Logger: c.Logger})
		if err != nil {
			return err
		}
		c.Locator = locator
	}

	c.Logger = c.Logger.WithValues(log.Kv{"svc": "blender.Manager"})

	return nil
}

// Manager hands out sessions keyed by executor configuration. It keeps at
// most one live session: asking for a different configuration builds a
// replacement under the lock, so a binary or mode change always takes
// effect and two configurations never run side by side.
type Manager struct {
	locator *Locator
	logger  log.Logger

	mu      sync.Mutex
	current *Session
}

// NewManager returns a session Manager.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid manager configuration: %w", err)
	}

	return &Manager{
		locator: cfg.Locator,
		logger:  cfg.Logger,
	}, nil
}

var _ Engine = (*Manager)(nil)

// normalizeConfig fills configuration defaults so two spellings of the same
// configuration compare as identical.
func normalizeConfig(cfg model.ExecutorConfig) model.ExecutorConfig {
	if cfg.Mode == "" {
		cfg.Mode = model.ModeHeadless
	}
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = DefaultExecutionTimeout
	}
	return cfg
}

// Session returns the cached session when the configuration matches the one
// it was built for, otherwise locates the binary and swaps in a fresh one.
func (m *Manager) Session(ctx context.Context, cfg model.ExecutorConfig) (*Session, error) {
	cfg = normalizeConfig(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid executor configuration: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil && m.current.cfg == cfg {
		return m.current, nil
	}

	exe, err := m.locator.Locate(ctx, cfg.BinaryPath)
	if err != nil {
		return nil, err
	}

	if m.current != nil {
		m.logger.Infof("Replacing %s session for %s with %s session for %s",
			m.current.cfg.Mode, m.current.exe.Path, cfg.Mode, exe.Path)
	}

	m.current = &Session{
		exe:    *exe,
		cfg:    cfg,
		logger: m.logger.WithValues(log.Kv{"binary": exe.Path, "mode": cfg.Mode}),
	}

	return m.current, nil
}

// Execute resolves the session for cfg and runs the request on it.
func (m *Manager) Execute(ctx context.Context, cfg model.ExecutorConfig, req model.ExecutionRequest) (*model.ExecutionOutcome, error) {
	session, err := m.Session(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return session.Execute(ctx, req)
}

// Locate resolves and validates the Blender binary for cfg without building
// a session.
func (m *Manager) Locate(ctx context.Context, cfg model.ExecutorConfig) (*model.Executable, error) {
	return m.locator.Locate(ctx, cfg.BinaryPath)
}
