package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, map[string]any{"basic": map[string]any{"type": "basic"}}, cfg.SecurityDefinitions)
	assert.True(t, cfg.UseSessionAuth)
	assert.Equal(t, "login", cfg.LoginURL)
	assert.Equal(t, "logout", cfg.LogoutURL)
	assert.Equal(t, "none", cfg.DocExpansion)
	assert.Equal(t, []string{"get", "post", "put", "delete", "patch"}, cfg.SupportedSubmitMethods)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("overlays defaults", func(t *testing.T) {
		cfg, err := Load([]byte("use_session_auth: false\ndoc_expansion: list\n"))
		require.NoError(t, err)

		assert.False(t, cfg.UseSessionAuth)
		assert.Equal(t, "list", cfg.DocExpansion)
		assert.Equal(t, "login", cfg.LoginURL)
		assert.Contains(t, cfg.SecurityDefinitions, "basic")
	})

	t.Run("security definitions replace defaults", func(t *testing.T) {
		cfg, err := Load([]byte("security_definitions:\n  api_key:\n    type: apiKey\n"))
		require.NoError(t, err)

		assert.Equal(t, map[string]any{"api_key": map[string]any{"type": "apiKey"}}, cfg.SecurityDefinitions)
	})

	t.Run("empty security definitions disable them", func(t *testing.T) {
		cfg, err := Load([]byte("security_definitions: {}\n"))
		require.NoError(t, err)
		assert.Empty(t, cfg.SecurityDefinitions)
	})

	t.Run("submit methods replace defaults", func(t *testing.T) {
		cfg, err := Load([]byte("supported_submit_methods: [get]\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"get"}, cfg.SupportedSubmitMethods)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Load([]byte("doc_expansion: [\n"))
		assert.Error(t, err)
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := Load([]byte("doc_expansion: everything\n"))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("empty login url without session auth", func(t *testing.T) {
		_, err := Load([]byte("use_session_auth: false\nlogin_url: \"\"\n"))
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.ErrorContains(t, err, "login_url")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad apis sorter", func(c *Config) { c.APIsSorter = "beta" }, "apis_sorter"},
		{"bad operations sorter", func(c *Config) { c.OperationsSorter = "random" }, "operations_sorter"},
		{"bad submit method", func(c *Config) { c.SupportedSubmitMethods = []string{"GET"} }, "supported_submit_methods"},
		{"session auth without login url", func(c *Config) { c.LoginURL = "" }, "login_url"},
		{"session auth without logout url", func(c *Config) { c.LogoutURL = "" }, "logout_url"},
		{"session auth disabled still needs login url", func(c *Config) { c.UseSessionAuth = false; c.LoginURL = "" }, "login_url"},
		{"session auth disabled still needs logout url", func(c *Config) { c.UseSessionAuth = false; c.LogoutURL = "" }, "logout_url"},
		{"session auth disabled with urls", func(c *Config) { c.UseSessionAuth = false }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swagger.yaml")
	require.NoError(t, os.WriteFile(path, []byte("json_editor: true\nvalidator_url: https://validator.example.com\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, cfg.JSONEditor)
	assert.Equal(t, "https://validator.example.com", cfg.ValidatorURL)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestUISettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OperationsSorter = "alpha"

	ui := cfg.UISettings()
	assert.Equal(t, "none", ui["docExpansion"])
	assert.Equal(t, "alpha", ui["operationsSorter"])
	assert.Equal(t, false, ui["jsonEditor"])
	assert.Equal(t, []string{"get", "post", "put", "delete", "patch"}, ui["supportedSubmitMethods"])

	cfg.SupportedSubmitMethods = nil
	assert.Equal(t, []string{}, cfg.UISettings()["supportedSubmitMethods"])
}
