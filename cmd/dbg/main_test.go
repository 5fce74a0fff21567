package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(context.Background(), append([]string{"dbg"}, args...))
	return out.String(), err
}

func TestMatchCommand(t *testing.T) {
	t.Run("flag", func(t *testing.T) {
		out, err := run(t, "--debug", "app.*,worker", "match", "app.db", "worker", "cron")
		require.NoError(t, err)
		assert.Equal(t, "app.db\tenabled\nworker\tenabled\ncron\tdisabled\n", out)
	})
	t.Run("env", func(t *testing.T) {
		t.Setenv("DEBUG", "app.*")
		out, err := run(t, "match", "app.db", "worker")
		require.NoError(t, err)
		assert.Equal(t, "app.db\tenabled\nworker\tdisabled\n", out)
	})
	t.Run("empty_flag_overrides_env", func(t *testing.T) {
		t.Setenv("DEBUG", "*")
		out, err := run(t, "--debug", "", "match", "app.db")
		require.NoError(t, err)
		assert.Equal(t, "app.db\tdisabled\n", out)
	})
	t.Run("config_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dbg.toml")
		require.NoError(t, os.WriteFile(path, []byte(`debug = "worker"`), 0o600))
		out, err := run(t, "--config", path, "match", "worker", "app.db")
		require.NoError(t, err)
		assert.Equal(t, "worker\tenabled\napp.db\tdisabled\n", out)
	})
	t.Run("bad_config_file", func(t *testing.T) {
		_, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "match", "a")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading config")
	})
}

func TestColorCommand(t *testing.T) {
	out, err := run(t, "--color", "never", "color", "a", "app.db", "app.http")
	require.NoError(t, err)
	assert.Equal(t, "a\t1\tgreen\napp.db\t3\tblue\napp.http\t5\tcyan\n", out)

	out, err = run(t, "--color", "always", "color", "app.db")
	require.NoError(t, err)
	assert.Equal(t, "\x1b[34mapp.db\x1b[0m\t3\tblue\n", out)

	_, err = run(t, "--color", "rainbow", "color", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown color mode "rainbow"`)
}

func TestLogCommand(t *testing.T) {
	t.Run("missing_format", func(t *testing.T) {
		_, err := run(t, "log", "-n", "app.db")
		require.Error(t, err)
		assert.Equal(t, "missing format", err.Error())
	})
	t.Run("missing_namespace", func(t *testing.T) {
		_, err := run(t, "log", "hello")
		require.Error(t, err)
	})
	t.Run("enabled", func(t *testing.T) {
		out, err := run(t, "--debug", "app.*", "--color", "never", "log", "-n", "app.db", "hello %s", "world")
		require.NoError(t, err)
		assert.Equal(t, "app.db hello world +0ms\n", out)
	})
	t.Run("colored", func(t *testing.T) {
		out, err := run(t, "--debug", "app.*", "--color", "always", "log", "-n", "app.db", "hi")
		require.NoError(t, err)
		assert.Equal(t, "\x1b[34mapp.db\x1b[0m hi \x1b[34m+0ms\x1b[0m\n", out)
	})
	t.Run("queued", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dbg.toml")
		require.NoError(t, os.WriteFile(path, []byte("debug = \"worker\"\ncolor = \"never\"\nqueue = 8\n"), 0o600))
		out, err := run(t, "--config", path, "log", "-n", "worker", "job %d done", "7")
		require.NoError(t, err)
		assert.Equal(t, "worker job 7 done +0ms\n", out)
	})
	t.Run("disabled", func(t *testing.T) {
		out, err := run(t, "--debug", "", "log", "-n", "app.db", "hello %s", "world")
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}
