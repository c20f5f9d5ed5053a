package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curacel/langfuse-go/langfusetest"
	"github.com/curacel/langfuse-go/pkg/ingestion"
	"github.com/curacel/langfuse-go/pkg/types"
)

func writeConfig(t *testing.T, host string, extra ...string) string {
	t.Helper()
	lines := []string{
		"public_key: " + langfusetest.TestPublicKey,
		"secret_key: " + langfusetest.TestSecretKey,
		"host: " + host,
		"environment: cli-test",
		"max_retries: 0",
	}
	lines = append(lines, extra...)
	path := filepath.Join(t.TempDir(), "langfuse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigShow_MasksCredentials(t *testing.T) {
	path := writeConfig(t, "https://langfuse.example.com")

	out, err := execute(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "host: https://langfuse.example.com")
	assert.Contains(t, out, "environment: cli-test")
	assert.NotContains(t, out, langfusetest.TestSecretKey)
	assert.Contains(t, out, "sk-lf-")

	out, err = execute(t, "config", "show", "--config", path, "--json", "--host", "http://localhost:3000")
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "http://localhost:3000", decoded["Host"])
	assert.NotEqual(t, langfusetest.TestPublicKey, decoded["PublicKey"])
}

func TestConfigValidate(t *testing.T) {
	out, err := execute(t, "config", "validate", "--config", writeConfig(t, "langfuse.internal"))
	require.NoError(t, err)
	assert.Equal(t, "ok: https://langfuse.internal/\n", out)

	bad := writeConfig(t, "langfuse.internal", "retry_strategy: fibonacci")
	_, err = execute(t, "config", "validate", "--config", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retry_strategy")
}

func TestDemo_DryRunSendsNothing(t *testing.T) {
	server := langfusetest.NewMockServer()
	defer server.Close()

	out, err := execute(t, "demo", "--dry-run", "--config", writeConfig(t, server.URL))
	require.NoError(t, err)

	var events []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	require.NotEmpty(t, events)
	assert.Equal(t, string(ingestion.EventTypeTraceCreate), events[0]["type"])
	assert.Equal(t, 0, server.RequestCount())
}

func TestDemo_SendsOneBatch(t *testing.T) {
	server := langfusetest.NewMockServer()
	defer server.Close()

	out, err := execute(t, "demo", "--config", writeConfig(t, server.URL), "--tag", "cli", "--user", "u-1")
	require.NoError(t, err)

	batches := server.Batches()
	require.Len(t, batches, 1)
	kinds := batches[0].Types()
	assert.Equal(t, ingestion.EventTypeTraceCreate, kinds[0])
	assert.Contains(t, kinds, ingestion.EventTypeSpanCreate)
	assert.Contains(t, kinds, ingestion.EventTypeGenerationCreate)
	assert.Contains(t, kinds, ingestion.EventTypeEventCreate)
	assert.Contains(t, kinds, ingestion.EventTypeScoreCreate)

	trace := batches[0].Batch[0].Body
	assert.Equal(t, "u-1", trace["userId"])
	assert.Equal(t, "cli-test", trace["environment"])
	assert.Equal(t, fmt.Sprintf("sent trace %s (%d events)\n", batches[0].Batch[0].ID, len(kinds)), out)
}

func TestPromptGet(t *testing.T) {
	server := langfusetest.NewMockServer()
	defer server.Close()
	server.SetPrompt("greeting", types.NewTextPrompt("greeting", "Hello {{name}}!"))
	path := writeConfig(t, server.URL)

	out, err := execute(t, "prompt", "get", "greeting", "--var", "name=Ada", "--label", "production", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada!\n", out)
	assert.Contains(t, server.LastRequest().Query, "label=production")

	out, err = execute(t, "prompt", "get", "greeting", "--raw", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "Hello {{name}}!\n", out)

	_, err = execute(t, "prompt", "get", "greeting", "--config", path)
	assert.Error(t, err, "missing variable")

	out, err = execute(t, "prompt", "get", "missing", "--fallback", "Hi {{name}}", "--var", "name=Bo", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "Hi Bo\n", out)
}

func TestParseVars(t *testing.T) {
	vars, err := parseVars([]string{"a=1", " b =x=y", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "1", "b": "x=y", "empty": ""}, vars)

	_, err = parseVars([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseVars([]string{"=v"})
	assert.Error(t, err)
}

func TestCircuitCheck_OpensAfterThreshold(t *testing.T) {
	server := langfusetest.NewMockServer()
	defer server.Close()
	server.RespondWithServerError()
	path := writeConfig(t, server.URL, "circuit_breaker_threshold: 2")

	out, err := execute(t, "circuit", "check", "--attempts", "3", "--config", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "attempt 1:")
	assert.NotContains(t, lines[0], "circuit open")
	assert.Equal(t, "attempt 3: circuit open", lines[2])
	assert.Contains(t, lines[3], "SERVICE")
	assert.Contains(t, lines[4], "ingestion")
	assert.Contains(t, lines[4], "open")
	assert.Equal(t, 2, server.RequestCount())
}
