package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/specialistvlad/pathwaygen/internal/app"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) LookupEnvFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	// --- Act ---
	cfg, shouldExit, err := ParseWithEnv(nil, &bytes.Buffer{}, envMap(nil))

	// --- Assert ---
	require.NoError(t, err)
	require.False(t, shouldExit)
	require.Equal(t, "data", cfg.DataDir)
	require.Equal(t, "_data", cfg.OutDir)
	require.Equal(t, "", cfg.PathwayFile)
	require.Equal(t, filepath.Join("data", "steps"), cfg.StepsDir)
	require.Equal(t, filepath.Join("_data", "steps"), cfg.OutStepsDir)
	require.Equal(t, "text", cfg.LogFormat)
	require.Equal(t, "info", cfg.LogLevel)
	require.True(t, cfg.Prune)
	require.False(t, cfg.CheckOnly)
	require.False(t, cfg.StrictKinds)
	require.Equal(t, "", cfg.NotifyURL)
	require.Equal(t, "pathway:published", cfg.NotifyEvent)
	require.Equal(t, 10*time.Second, cfg.NotifyTimeout)
}

func TestParse_EnvironmentAndFlags(t *testing.T) {
	t.Parallel()

	env := envMap(map[string]string{
		EnvDataDir:       "content",
		EnvOutDir:        "site/_data",
		EnvLogFormat:     "json",
		EnvLogLevel:      "",
		EnvPrune:         "false",
		EnvStrict:        "1",
		EnvNotifyURL:     "http://localhost:4000",
		EnvNotifyTimeout: "3s",
	})

	testCases := map[string]struct {
		args   []string
		assert func(t *testing.T, cfg *app.Config)
	}{
		"environment only": {
			assert: func(t *testing.T, cfg *app.Config) {
				require.Equal(t, "content", cfg.DataDir)
				require.Equal(t, "site/_data", cfg.OutDir)
				require.Equal(t, "json", cfg.LogFormat)
				require.Equal(t, "info", cfg.LogLevel, "an empty variable counts as unset")
				require.False(t, cfg.Prune)
				require.True(t, cfg.StrictKinds)
				require.Equal(t, "http://localhost:4000", cfg.NotifyURL)
				require.Equal(t, 3*time.Second, cfg.NotifyTimeout)
			},
		},
		"flags win": {
			args: []string{"-data-dir", "other", "-prune", "-strict=false", "-log-format", "TEXT", "-check", "-notify-timeout", "1m"},
			assert: func(t *testing.T, cfg *app.Config) {
				require.Equal(t, "other", cfg.DataDir)
				require.Equal(t, "site/_data", cfg.OutDir)
				require.Equal(t, "text", cfg.LogFormat)
				require.True(t, cfg.Prune)
				require.False(t, cfg.StrictKinds)
				require.True(t, cfg.CheckOnly)
				require.Equal(t, time.Minute, cfg.NotifyTimeout)
			},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg, _, err := ParseWithEnv(tc.args, &bytes.Buffer{}, env)

			require.NoError(t, err)
			tc.assert(t, cfg)
		})
	}
}

func TestParse_Help(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := ParseWithEnv([]string{"-h"}, out, envMap(nil))

	require.NoError(t, err)
	require.True(t, shouldExit)
	require.Nil(t, cfg)
	require.Contains(t, out.String(), "Usage:")
	require.Contains(t, out.String(), "-data-dir")
}

func TestParse_UsageErrors(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		args []string
		env  map[string]string
		want string
	}{
		"unknown flag":     {args: []string{"-grid", "x"}, want: "flag provided but not defined: -grid"},
		"positional":       {args: []string{"data"}, want: "unexpected arguments: data"},
		"log format":       {args: []string{"-log-format", "xml"}, want: "invalid log-format"},
		"log level":        {args: []string{"-log-level", "trace"}, want: "invalid log-level"},
		"same directories": {args: []string{"-data-dir", "x", "-out-dir", "x"}, want: "must be outside DataDir"},
		"env bool":         {env: map[string]string{EnvPrune: "sometimes"}, want: "invalid PATHWAYGEN_PRUNE"},
		"env duration":     {env: map[string]string{EnvNotifyTimeout: "soon"}, want: "invalid PATHWAYGEN_NOTIFY_TIMEOUT"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, _, err := ParseWithEnv(tc.args, &bytes.Buffer{}, envMap(tc.env))

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			require.Equal(t, 2, exitErr.Code)
			require.Contains(t, exitErr.Message, tc.want)
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		err  error
		want int
	}{
		"success":    {err: nil, want: 0},
		"usage":      {err: &ExitError{Code: 2, Message: "bad flag"}, want: 2},
		"config":     {err: fmt.Errorf("%w: no pathway", app.ErrConfig), want: 3},
		"content":    {err: fmt.Errorf("%w: no type", app.ErrContent), want: 4},
		"publish":    {err: fmt.Errorf("%w: disk full", app.ErrPublish), want: 5},
		"unexpected": {err: errors.New("boom"), want: 1},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, ExitCode(tc.err))
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	// Mutates the process environment, so not parallel.
	const key = "PATHWAYGEN_TEST_DOTENV_VALUE"
	const kept = "PATHWAYGEN_TEST_DOTENV_KEPT"
	t.Setenv(kept, "from-process")
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"+kept+"=from-file\n"), 0o600))

	require.NoError(t, LoadEnvFile(path))

	require.Equal(t, "from-file", os.Getenv(key))
	require.Equal(t, "from-process", os.Getenv(kept))
}

func TestLoadEnvFile_Missing(t *testing.T) {
	t.Parallel()
	require.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), ".env")))
}
