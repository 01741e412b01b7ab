//go:build !windows

package blender

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blendrun/blendrun/internal/conventions"
	"github.com/blendrun/blendrun/internal/model"
)

func newIsolatedManager(t *testing.T) *Manager {
	t.Helper()

	isolateDiscovery(t)
	manager, err := NewManager(ManagerConfig{Locator: newTestLocator(t, nil)})
	require.NoError(t, err)

	return manager
}

// countingProbeBody answers the version probe and appends one line to the
// counter file per probe, so tests can tell how often discovery ran.
func countingProbeBody(counterFile, rest string) string {
	return fmt.Sprintf(`if [ "$1" = "--version" ]; then echo probe >> %s; echo "Blender 4.2.1 LTS"; exit 0; fi`+"\n", counterFile) + rest
}

func countLines(t *testing.T, path string) int {
	t.Helper()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return 0
	}
	return len(strings.Split(trimmed, "\n"))
}

func TestNewManagerDefaults(t *testing.T) {
	assert := assert.New(t)

	manager, err := NewManager(ManagerConfig{})

	assert.NoError(err)
	assert.NotNil(manager)
}

func TestManagerSessionCaching(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dir := t.TempDir()
	counter := filepath.Join(dir, "probes")
	fake := writeFakeBlender(t, dir, "blender", countingProbeBody(counter, `echo "SUCCESS: ok"`+"\n"))
	manager := newIsolatedManager(t)
	cfg := model.ExecutorConfig{BinaryPath: fake}

	s1, err := manager.Session(context.TODO(), cfg)
	require.NoError(err)
	s2, err := manager.Session(context.TODO(), cfg)
	require.NoError(err)

	assert.Same(s1, s2)
	assert.Equal(1, countLines(t, counter), "the cached session should not relocate the binary")
	assert.Equal(fake, s1.Executable().Path)
}

func TestManagerSessionRebuildOnModeChange(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dir := t.TempDir()
	counter := filepath.Join(dir, "probes")
	fake := writeFakeBlender(t, dir, "blender", countingProbeBody(counter, ""))
	manager := newIsolatedManager(t)

	headless, err := manager.Session(context.TODO(), model.ExecutorConfig{BinaryPath: fake, Mode: model.ModeHeadless})
	require.NoError(err)
	interactive, err := manager.Session(context.TODO(), model.ExecutorConfig{BinaryPath: fake, Mode: model.ModeInteractive})
	require.NoError(err)
	headlessAgain, err := manager.Session(context.TODO(), model.ExecutorConfig{BinaryPath: fake, Mode: model.ModeHeadless})
	require.NoError(err)

	assert.NotSame(headless, interactive)
	assert.NotSame(interactive, headlessAgain)
	assert.NotSame(headless, headlessAgain, "only one session lives at a time, switching back rebuilds")
	assert.Equal(3, countLines(t, counter))
}

func TestManagerSessionRebuildOnBinaryChange(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	fake1 := writeFakeBlender(t, t.TempDir(), "blender", versionBody)
	fake2 := writeFakeBlender(t, t.TempDir(), "blender", versionBody)
	manager := newIsolatedManager(t)

	s1, err := manager.Session(context.TODO(), model.ExecutorConfig{BinaryPath: fake1})
	require.NoError(err)
	s2, err := manager.Session(context.TODO(), model.ExecutorConfig{BinaryPath: fake2})
	require.NoError(err)

	assert.NotSame(s1, s2)
	assert.Equal(fake1, s1.Executable().Path)
	assert.Equal(fake2, s2.Executable().Path)
}

func TestManagerSessionNormalizedConfigHitsCache(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	fake := writeFakeBlender(t, t.TempDir(), "blender", versionBody)
	manager := newIsolatedManager(t)

	s1, err := manager.Session(context.TODO(), model.ExecutorConfig{BinaryPath: fake})
	require.NoError(err)
	s2, err := manager.Session(context.TODO(), model.ExecutorConfig{
		BinaryPath:     fake,
		Mode:           model.ModeHeadless,
		DefaultTimeout: DefaultExecutionTimeout,
	})
	require.NoError(err)

	assert.Same(s1, s2, "explicit defaults should be the same configuration as implicit ones")
}

func TestManagerSessionInvalidConfig(t *testing.T) {
	assert := assert.New(t)

	manager := newIsolatedManager(t)

	_, err := manager.Session(context.TODO(), model.ExecutorConfig{Mode: "windowed"})

	assert.True(errors.Is(err, model.ErrNotValid))
}

func TestManagerSessionLocateFails(t *testing.T) {
	assert := assert.New(t)

	manager := newIsolatedManager(t)

	_, err := manager.Session(context.TODO(), model.ExecutorConfig{BinaryPath: filepath.Join(t.TempDir(), "missing")})

	assert.True(errors.Is(err, model.ErrNotFound))
}

func TestManagerExecuteOutcomes(t *testing.T) {
	tests := map[string]struct {
		body       string
		expStatus  model.OutcomeStatus
		expMessage string
		expPayload map[string]interface{}
	}{
		"A script printing a success marker and payload should succeed": {
			body:       `echo "SUCCESS: cube created"` + "\n" + `echo '{"vertices": 8}'` + "\n",
			expStatus:  model.OutcomeSuccess,
			expMessage: "cube created",
			expPayload: map[string]interface{}{"vertices": float64(8)},
		},

		"A script printing an error marker on a clean exit should fail": {
			body:       `echo "ERROR: object not found"` + "\n",
			expStatus:  model.OutcomeScriptError,
			expMessage: "object not found",
		},

		"A script exiting non-zero should fail with the marker message": {
			body:       `echo "ERROR: crashed"` + "\n" + "exit 2\n",
			expStatus:  model.OutcomeScriptError,
			expMessage: "crashed",
		},

		"A script printing no marker should be a parse error": {
			body:      `echo "just some noise"` + "\n",
			expStatus: model.OutcomeParseError,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			fake := writeFakeBlender(t, t.TempDir(), "blender", probeBranch+test.body)
			manager := newIsolatedManager(t)

			outcome, err := manager.Execute(context.TODO(),
				model.ExecutorConfig{BinaryPath: fake, TempRoot: t.TempDir()},
				model.ExecutionRequest{Script: "print('x')", Name: "test"},
			)
			require.NoError(err)

			assert.Equal(test.expStatus, outcome.Status)
			if test.expMessage != "" {
				assert.Equal(test.expMessage, outcome.Message)
			}
			assert.Equal(test.expPayload, outcome.Payload)
		})
	}
}

func TestManagerExecuteArgv(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args")
	body := probeBranch + fmt.Sprintf(`echo "$@" > %s`+"\n", argsFile) + `echo "SUCCESS: ran"` + "\n"
	fake := writeFakeBlender(t, dir, "blender", body)
	blend := filepath.Join(dir, "scene.blend")
	require.NoError(os.WriteFile(blend, []byte("BLENDER"), 0o644))
	manager := newIsolatedManager(t)

	outcome, err := manager.Execute(context.TODO(),
		model.ExecutorConfig{BinaryPath: fake, TempRoot: t.TempDir()},
		model.ExecutionRequest{Script: "print('x')", Name: "render_scene", BlendFile: blend},
	)
	require.NoError(err)
	require.True(outcome.OK())

	data, err := os.ReadFile(argsFile)
	require.NoError(err)
	args := strings.Fields(string(data))

	require.Len(args, 7)
	assert.Equal("--background", args[0])
	assert.Equal("--factory-startup", args[1])
	assert.Equal("--enable-autoexec", args[2])
	assert.Equal(blend, args[3])
	assert.Equal("--python", args[4])
	assert.True(strings.HasSuffix(args[5], "render_scene.py"))
	assert.Equal("--", args[6])
}

func TestManagerExecuteMissingBlendFileDowngrades(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args")
	body := probeBranch + fmt.Sprintf(`echo "$@" > %s`+"\n", argsFile) + `echo "SUCCESS: ran"` + "\n"
	fake := writeFakeBlender(t, dir, "blender", body)
	manager := newIsolatedManager(t)

	outcome, err := manager.Execute(context.TODO(),
		model.ExecutorConfig{BinaryPath: fake, TempRoot: t.TempDir()},
		model.ExecutionRequest{Script: "print('x')", Name: "test", BlendFile: filepath.Join(dir, "gone.blend")},
	)
	require.NoError(err)
	require.True(outcome.OK())

	data, err := os.ReadFile(argsFile)
	require.NoError(err)

	assert.NotContains(string(data), "gone.blend")
	assert.Contains(string(data), "--python")
}

func TestManagerExecuteEnv(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	body := probeBranch + `echo "SUCCESS: $BLENDRUN_TEST_GREETING via $` + conventions.EnvBlenderExecutable + `"` + "\n"
	fake := writeFakeBlender(t, t.TempDir(), "blender", body)
	manager := newIsolatedManager(t)

	outcome, err := manager.Execute(context.TODO(),
		model.ExecutorConfig{BinaryPath: fake, TempRoot: t.TempDir()},
		model.ExecutionRequest{
			Script: "print('x')",
			Name:   "test",
			Env:    map[string]string{"BLENDRUN_TEST_GREETING": "hello"},
		},
	)
	require.NoError(err)

	assert.Equal(fmt.Sprintf("hello via %s", fake), outcome.Message)
}

func TestManagerExecuteCleansWorkspace(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	tempRoot := t.TempDir()
	fake := writeFakeBlender(t, t.TempDir(), "blender", probeBranch+`echo "SUCCESS: ok"`+"\n")
	manager := newIsolatedManager(t)

	outcome, err := manager.Execute(context.TODO(),
		model.ExecutorConfig{BinaryPath: fake, TempRoot: tempRoot},
		model.ExecutionRequest{Script: "print('x')", Name: "test"},
	)
	require.NoError(err)
	require.True(outcome.OK())

	entries, err := os.ReadDir(tempRoot)
	require.NoError(err)
	assert.Empty(entries, "the workspace should be removed after a successful run")
}

func TestManagerExecuteTimeoutCleansWorkspace(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	tempRoot := t.TempDir()
	fake := writeFakeBlender(t, t.TempDir(), "blender", probeBranch+"/bin/sleep 30\n")
	manager := newIsolatedManager(t)

	outcome, err := manager.Execute(context.TODO(),
		model.ExecutorConfig{BinaryPath: fake, TempRoot: tempRoot},
		model.ExecutionRequest{Script: "print('x')", Name: "test", Timeout: 100 * time.Millisecond},
	)
	require.NoError(err)

	assert.Equal(model.OutcomeTimeout, outcome.Status)
	assert.True(outcome.Raw.TimedOut)

	entries, err := os.ReadDir(tempRoot)
	require.NoError(err)
	assert.Empty(entries, "the workspace should be removed after a timed out run")
}

func TestManagerExecuteConcurrent(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dir := t.TempDir()
	counter := filepath.Join(dir, "probes")
	fake := writeFakeBlender(t, dir, "blender", countingProbeBody(counter, "sleep 0.3\n"+`echo "SUCCESS: ok"`+"\n"))
	manager := newIsolatedManager(t)
	cfg := model.ExecutorConfig{BinaryPath: fake, TempRoot: t.TempDir()}

	const n = 8
	outcomes := make([]*model.ExecutionOutcome, n)
	errs := make([]error, n)

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errs[i] = manager.Execute(context.TODO(), cfg, model.ExecutionRequest{
				Script: "print('x')",
				Name:   fmt.Sprintf("concurrent-%d", i),
			})
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(start)

	for i := 0; i < n; i++ {
		require.NoError(errs[i])
		assert.True(outcomes[i].OK())
	}

	assert.Equal(1, countLines(t, counter), "concurrent executions should share one session")
	assert.Less(elapsed, 2*time.Second, "concurrent executions should not serialize behind each other")
}

func TestManagerExecuteInvalidRequest(t *testing.T) {
	assert := assert.New(t)

	fake := writeFakeBlender(t, t.TempDir(), "blender", versionBody)
	manager := newIsolatedManager(t)

	_, err := manager.Execute(context.TODO(),
		model.ExecutorConfig{BinaryPath: fake},
		model.ExecutionRequest{Script: "   "},
	)

	assert.True(errors.Is(err, model.ErrNotValid))
}

func TestNormalizeConfig(t *testing.T) {
	tests := map[string]struct {
		cfg model.ExecutorConfig
		exp model.ExecutorConfig
	}{
		"An empty configuration should get headless mode and the default timeout": {
			cfg: model.ExecutorConfig{},
			exp: model.ExecutorConfig{Mode: model.ModeHeadless, DefaultTimeout: DefaultExecutionTimeout},
		},

		"Explicit values should be kept": {
			cfg: model.ExecutorConfig{
				BinaryPath:     "/opt/blender",
				Mode:           model.ModeInteractive,
				DefaultTimeout: time.Minute,
				TempRoot:       "/var/tmp",
			},
			exp: model.ExecutorConfig{
				BinaryPath:     "/opt/blender",
				Mode:           model.ModeInteractive,
				DefaultTimeout: time.Minute,
				TempRoot:       "/var/tmp",
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(test.exp, normalizeConfig(test.cfg))
		})
	}
}
