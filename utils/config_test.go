package utils_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alpacahq/alpaca-cli/utils"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".alpaca.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(utils.EnvAPIKeyID, "")
	t.Setenv(utils.EnvAPISecretKey, "")
	t.Setenv(utils.EnvAPIBaseURL, "")
	t.Setenv(utils.EnvAPIDataURL, "")
}

func TestLoadConfigFile_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(utils.EnvAPIKeyID, "env-key")
	t.Setenv(utils.EnvAPISecretKey, "env-secret")

	path := writeConfigFile(t, `{"key":"file-key","secret":"file-secret"}`)
	c := utils.LoadConfigFile(path)

	require.Equal(t, "env-key", c.APIKey)
	require.Equal(t, "env-secret", c.APISecret)
	require.Equal(t, utils.SourceEnv, c.Source)
}

func TestLoadConfigFile_StandardKeyBeatsLegacy(t *testing.T) {
	clearEnv(t)

	path := writeConfigFile(t, `{
		"APCA_API_KEY_ID": "standard-key",
		"APCA_API_SECRET_KEY": "standard-secret",
		"key": "legacy-key",
		"secret": "legacy-secret"
	}`)
	c := utils.LoadConfigFile(path)

	require.Equal(t, "standard-key", c.APIKey)
	require.Equal(t, "standard-secret", c.APISecret)
	require.Equal(t, utils.SourceFile, c.Source)
}

func TestLoadConfigFile_LegacyKeys(t *testing.T) {
	clearEnv(t)

	path := writeConfigFile(t, `{"key":"legacy-key","secret":"legacy-secret"}`)
	c := utils.LoadConfigFile(path)

	require.Equal(t, "legacy-key", c.APIKey)
	require.Equal(t, "legacy-secret", c.APISecret)
}

func TestLoadConfigFile_Defaults(t *testing.T) {
	clearEnv(t)

	c := utils.LoadConfigFile(filepath.Join(t.TempDir(), "missing.json"))

	require.Empty(t, c.APIKey)
	require.Equal(t, utils.SourceNone, c.Source)
	require.Equal(t, utils.DefaultPaperURL, c.BaseURL)
	require.Equal(t, utils.DefaultPaperURL, c.PaperURL)
	require.Equal(t, utils.DefaultLiveURL, c.LiveURL)
	require.True(t, c.Paper())
}

func TestLoadConfigFile_CustomEndpoints(t *testing.T) {
	clearEnv(t)

	path := writeConfigFile(t, `{
		"paper_endpoint": "https://paper.example.com",
		"live_endpoint": "https://live.example.com"
	}`)
	c := utils.LoadConfigFile(path)

	require.Equal(t, "https://paper.example.com", c.PaperURL)
	require.Equal(t, "https://live.example.com", c.LiveURL)
	require.Equal(t, "https://paper.example.com", c.BaseURL)
}

func TestLoadConfigFile_BaseURLFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(utils.EnvAPIBaseURL, "https://api.alpaca.markets")

	c := utils.LoadConfigFile("")
	require.Equal(t, "https://api.alpaca.markets", c.BaseURL)
	require.False(t, c.Paper())
}

func TestConfig_Validate(t *testing.T) {
	clearEnv(t)

	c := utils.LoadConfigFile("")
	require.Error(t, c.Validate())
	require.Contains(t, c.Validate().Error(), "API credentials not found")

	t.Setenv(utils.EnvAPIKeyID, "k")
	t.Setenv(utils.EnvAPISecretKey, "s")
	c = utils.LoadConfigFile("")
	require.NoError(t, c.Validate())
}

func TestConfig_Save_PreservesOtherKeys(t *testing.T) {
	clearEnv(t)

	path := writeConfigFile(t, `{"key":"my-key","secret":"my-secret"}`)
	c := utils.LoadConfigFile(path)

	require.NoError(t, c.Save(utils.EnvAPIBaseURL, "https://api.alpaca.markets"))
	require.Equal(t, "https://api.alpaca.markets", c.BaseURL)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries map[string]string
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Equal(t, "my-key", entries["key"])
	require.Equal(t, "my-secret", entries["secret"])
	require.Equal(t, "https://api.alpaca.markets", entries[utils.EnvAPIBaseURL])
}
