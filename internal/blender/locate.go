package blender

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/blendrun/blendrun/internal/conventions"
	"github.com/blendrun/blendrun/internal/log"
	"github.com/blendrun/blendrun/internal/model"
)

// defaultProbeTimeout bounds the `--version` probe. Independent of any
// script timeout so a hung binary cannot stall discovery.
const defaultProbeTimeout = 10 * time.Second

// LocatorConfig is the configuration for the executable locator.
type LocatorConfig struct {
	// WellKnownPaths overrides the platform's conventional install
	// locations. Mostly useful in tests.
	WellKnownPaths []string
	// ProbeTimeout bounds the version probe. Defaults to 10s.
	ProbeTimeout time.Duration
	Logger       log.Logger
}

func (c *LocatorConfig) defaults() error {
	if c.WellKnownPaths == nil {
		c.WellKnownPaths = wellKnownPaths()
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = defaultProbeTimeout
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "blender.Locator"})
	return nil
}

// Locator discovers and validates Blender executables.
type Locator struct {
	wellKnown    []string
	probeTimeout time.Duration
	logger       log.Logger
}

// NewLocator creates a new executable locator.
func NewLocator(cfg LocatorConfig) (*Locator, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Locator{
		wellKnown:    cfg.WellKnownPaths,
		probeTimeout: cfg.ProbeTimeout,
		logger:       cfg.Logger,
	}, nil
}

// Locate resolves a runnable Blender binary. Discovery tiers, in order:
// the configured path, the BLENDER_EXECUTABLE environment variable,
// well-known install locations, PATH lookup.
//
// A candidate that resolves to an existing file is committed to: its
// validation failure (not executable, version probe failure) aborts the
// search instead of falling through to the next tier.
func (l *Locator) Locate(ctx context.Context, configured string) (*model.Executable, error) {
	tried := []string{}

	if configured != "" {
		if path, ok := resolveCandidate(configured); ok {
			return l.validate(ctx, path, model.DiscoveryConfigured)
		}
		tried = append(tried, configured)
	}

	if envPath := os.Getenv(conventions.EnvBlenderExecutable); envPath != "" && envPath != configured {
		if path, ok := resolveCandidate(envPath); ok {
			return l.validate(ctx, path, model.DiscoveryEnv)
		}
		tried = append(tried, envPath)
	}

	for _, candidate := range l.wellKnown {
		if path, ok := resolveCandidate(candidate); ok {
			return l.validate(ctx, path, model.DiscoveryWellKnown)
		}
	}
	tried = append(tried, l.wellKnown...)

	for _, name := range executableNames() {
		if path, err := exec.LookPath(name); err == nil {
			return l.validate(ctx, path, model.DiscoveryPath)
		}
	}

	return nil, fmt.Errorf("no valid Blender installation found (configured %q, tried: %s): %w",
		configured, strings.Join(tried, ", "), model.ErrNotFound)
}

// validate checks a selected candidate and probes its version.
func (l *Locator) validate(ctx context.Context, path string, source model.DiscoverySource) (*model.Executable, error) {
	if err := checkExecutable(path); err != nil {
		return nil, fmt.Errorf("blender candidate %s is not executable: %v: %w", path, err, model.ErrNotFound)
	}

	version, err := l.probeVersion(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("blender candidate %s failed validation: %v: %w", path, err, model.ErrNotFound)
	}

	l.logger.Debugf("Located blender at %s (%s, via %s)", path, version, source)

	return &model.Executable{
		Path:    path,
		Version: version,
		Source:  source,
	}, nil
}

// probeVersion runs `<path> --version` under the probe timeout. Exit code 0
// is necessary but not sufficient: the first output line must identify the
// product.
func (l *Locator) probeVersion(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("version probe failed: %w", err)
	}

	line, _, _ := strings.Cut(string(out), "\n")
	line = strings.TrimSpace(line)
	if !strings.Contains(line, "Blender") {
		return "", fmt.Errorf("version probe did not identify Blender (got %q)", line)
	}

	return line, nil
}
