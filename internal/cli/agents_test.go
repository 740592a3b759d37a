package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brewmind.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestAgentsCommand(t *testing.T) {
	t.Run("should list the configured roster", func(t *testing.T) {
		path := writeTestConfig(t, `{
			"providers": {"anthropic": "sk-ant-test", "openai": "sk-test"},
			"agents": [
				{"name": "orchestrator", "provider": "anthropic", "model": "claude-sonnet-4-20250514", "enabled": true},
				{"name": "mana_expert", "provider": "openai", "model": "gpt-4o", "enabled": false}
			]
		}`)

		out, err := execute(t, "agents", "--config", path)
		require.NoError(t, err)
		assert.Contains(t, out, "orchestrator")
		assert.Contains(t, out, "claude-sonnet-4-20250514")
		assert.Contains(t, out, "mana_expert")
		assert.Contains(t, out, "false")
	})

	t.Run("should report an empty roster", func(t *testing.T) {
		path := writeTestConfig(t, `{"providers": {}}`)

		out, err := execute(t, "agents", "--config", path)
		require.NoError(t, err)
		assert.Contains(t, out, "No agents configured")
	})

	t.Run("should surface config errors", func(t *testing.T) {
		path := writeTestConfig(t, `{"providers": {"cohere": "key"}}`)

		_, err := execute(t, "agents", "--config", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown provider")
	})
}
