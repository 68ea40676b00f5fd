package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, 5*time.Second, c.RequestTimeout)
	assert.Empty(t, c.OTelEndpoint)
	require.NoError(t, c.Validate())
}

func TestLoad_NoSources(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Empty(t, cmp.Diff(&want, cfg))
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"server_endpoint_addr": "json.example:9000",
		"request_timeout":      "10s",
		"otel_endpoint":        "http://json:4318",
	})
	t.Setenv("TASKKEEPER_CLI_SERVER_ADDR", "env.example:9001")

	cfg, err := Load([]string{"-c", path, "-t", "2"})
	require.NoError(t, err)

	want := &Config{
		ServerEndpointAddr: "env.example:9001",
		RequestTimeout:     2 * time.Second,
		OTelEndpoint:       "http://json:4318",
	}
	assert.Empty(t, cmp.Diff(want, cfg))

	cfg, err = Load([]string{"-config", path, "-a", "flag.example:1"})
	require.NoError(t, err)
	assert.Equal(t, "flag.example:1", cfg.ServerEndpointAddr)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("bad json", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		_, err := Load([]string{"-c", bad})
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load([]string{"-c", filepath.Join(t.TempDir(), "absent.json")})
		require.Error(t, err)
	})

	t.Run("bad timeout flag", func(t *testing.T) {
		_, err := Load([]string{"-t", "abc"})
		require.Error(t, err)
	})

	t.Run("bad env duration", func(t *testing.T) {
		t.Setenv("TASKKEEPER_CLI_REQUEST_TIMEOUT", "soon")
		_, err := Load(nil)
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	c := &Config{}
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server address")
	assert.Contains(t, err.Error(), "request timeout")
}
