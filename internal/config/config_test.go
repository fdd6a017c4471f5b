package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvToken, "")
	t.Setenv(EnvTimeout, "")
	t.Chdir(t.TempDir())

	cfg, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Empty(t, cfg.Token)
}

func TestNew_EnvFile(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvToken, "")
	t.Setenv(EnvTimeout, "")
	path := writeEnvFile(t, "TASKPROBE_BASE_URL=http://tasks.internal:8080\nTASKPROBE_TOKEN=secret\nTASKPROBE_TIMEOUT=3s\n")

	cfg, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, "http://tasks.internal:8080", cfg.BaseURL)
	assert.Equal(t, "secret", cfg.Token)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
}

func TestNew_ProcessEnvWinsOverFile(t *testing.T) {
	path := writeEnvFile(t, "TASKPROBE_BASE_URL=http://from-file:1\n")
	t.Setenv(EnvBaseURL, "http://from-env:2")

	cfg, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:2", cfg.BaseURL)
}

func TestNew_DefaultEnvFileInWorkingDir(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultEnvFile), []byte("TASKPROBE_BASE_URL=http://dotenv:9\n"), 0600))
	t.Chdir(dir)

	cfg, err := New("")
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv:9", cfg.BaseURL)
}

func TestNew_MissingExplicitEnvFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read env file")
}

func TestNew_InvalidTimeout(t *testing.T) {
	t.Setenv(EnvTimeout, "soon")
	t.Setenv(EnvBaseURL, "")

	_, err := New(writeEnvFile(t, ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		timeout time.Duration
		want    string
		wantErr bool
	}{
		{name: "plain", baseURL: "http://localhost:5001", timeout: time.Second, want: "http://localhost:5001"},
		{name: "trailing slash", baseURL: "https://api.example.com/v1/", timeout: time.Second, want: "https://api.example.com/v1"},
		{name: "whitespace", baseURL: "  http://localhost:5001 ", timeout: time.Second, want: "http://localhost:5001"},
		{name: "empty", baseURL: "", timeout: time.Second, wantErr: true},
		{name: "no scheme", baseURL: "localhost:5001", timeout: time.Second, wantErr: true},
		{name: "ftp", baseURL: "ftp://localhost", timeout: time.Second, wantErr: true},
		{name: "zero timeout", baseURL: "http://localhost:5001", timeout: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{BaseURL: tt.baseURL, Timeout: tt.timeout}
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.BaseURL)
		})
	}
}
