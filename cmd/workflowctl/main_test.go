package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	t.Parallel()

	code, stdout, _ := runCLI(t)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Usage:")

	code, _, stderr := runCLI(t, "explode")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `unknown command "explode"`)

	code, stdout, _ = runCLI(t, "help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Available Commands:")
	assert.Contains(t, stdout, "mermaid")

	code, _, stderr = runCLI(t, "kinds", "extra")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown command")
}

func TestRun_KindCompletion(t *testing.T) {
	t.Parallel()

	code, stdout, _ := runCLI(t, "__complete", "dot", "--kind", "")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "stock_transfer")
	assert.Contains(t, stdout, "treatment_plan")
}

func TestRun_Kinds(t *testing.T) {
	t.Parallel()

	code, stdout, _ := runCLI(t, "kinds")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "KIND")
	assert.Contains(t, stdout, "deal")
	assert.Contains(t, stdout, "stock_transfer")
}

func TestRun_Actions(t *testing.T) {
	t.Parallel()

	t.Run("english labels", func(t *testing.T) {
		t.Parallel()
		code, stdout, stderr := runCLI(t, "actions", "--kind", "stock_transfer", "--state", "pending")
		require.Equal(t, 0, code, stderr)
		assert.Contains(t, stdout, "in_transit")
		assert.Contains(t, stdout, "Ship")
		assert.Contains(t, stdout, "cancelled")
	})

	t.Run("mongolian labels", func(t *testing.T) {
		t.Parallel()
		code, stdout, stderr := runCLI(t, "actions", "--kind", "stock_transfer", "--state", "pending", "--lang", "mn")
		require.Equal(t, 0, code, stderr)
		assert.Contains(t, stdout, "Илгээх")
	})

	t.Run("terminal state", func(t *testing.T) {
		t.Parallel()
		code, stdout, _ := runCLI(t, "actions", "--kind", "stock_transfer", "--state", "received")
		require.Equal(t, 0, code)
		assert.Contains(t, stdout, "no further actions")
	})

	t.Run("missing flags", func(t *testing.T) {
		t.Parallel()
		code, _, stderr := runCLI(t, "actions", "--kind", "deal")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, `required flag(s) "state" not set`)
	})

	t.Run("unknown kind", func(t *testing.T) {
		t.Parallel()
		code, _, stderr := runCLI(t, "actions", "--kind", "spaceship", "--state", "docked")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "Error:")
		assert.Contains(t, stderr, "spaceship")
	})

	t.Run("unknown state", func(t *testing.T) {
		t.Parallel()
		code, _, stderr := runCLI(t, "actions", "--kind", "deal", "--state", "docked")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "docked")
	})
}

func TestRun_YAML(t *testing.T) {
	t.Parallel()

	code, stdout, stderr := runCLI(t, "yaml", "--kind", "stock_transfer")
	require.Equal(t, 0, code, stderr)

	var doc graphDoc
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "stock_transfer", doc.Kind)
	assert.Equal(t, "pending", doc.Initial)
	assert.Equal(t, []string{"pending", "in_transit", "received", "cancelled"}, doc.States)
	assert.Equal(t, []string{"received", "cancelled"}, doc.Terminal)
	assert.Equal(t, []string{"in_transit", "cancelled"}, doc.Transitions["pending"])
	assert.NotContains(t, doc.Transitions, "received")
	assert.Contains(t, doc.SideEffects, "* -> cancelled")
	assert.Equal(t, []string{"pending"}, doc.Editable["items"])
}

func TestRun_YAMLAllKinds(t *testing.T) {
	t.Parallel()

	code, stdout, _ := runCLI(t, "yaml")
	require.Equal(t, 0, code)

	dec := yaml.NewDecoder(bytes.NewBufferString(stdout))
	var kinds []string
	for {
		var doc graphDoc
		if err := dec.Decode(&doc); err != nil {
			break
		}
		kinds = append(kinds, doc.Kind)
	}
	assert.Len(t, kinds, 10)
	assert.Contains(t, kinds, "deal")
}

func TestRun_DOT(t *testing.T) {
	t.Parallel()

	code, stdout, stderr := runCLI(t, "dot", "--kind", "stock_transfer")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `digraph "stock_transfer" {`)
	assert.Contains(t, stdout, `"pending" [shape=circle, style=bold];`)
	assert.Contains(t, stdout, `"received" [shape=doublecircle];`)
	assert.Contains(t, stdout, `"pending" -> "in_transit";`)
	assert.Contains(t, stdout, `"in_transit" -> "cancelled";`)
	assert.NotContains(t, stdout, `"received" ->`)

	code, _, stderr = runCLI(t, "dot")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `required flag(s) "kind" not set`)
}

func TestRun_Mermaid(t *testing.T) {
	t.Parallel()

	code, stdout, stderr := runCLI(t, "mermaid", "--kind", "stock_transfer", "--lang", "mn")
	require.Equal(t, 0, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, "stateDiagram-v2\n"))
	assert.Contains(t, stdout, "[*] --> pending")
	assert.Contains(t, stdout, "pending --> in_transit: Илгээх")
	assert.Contains(t, stdout, "received --> [*]")
	assert.Contains(t, stdout, "cancelled --> [*]")

	code, _, _ = runCLI(t, "mermaid")
	assert.Equal(t, 1, code)

	code, stdout, stderr = runCLI(t, "mermaid", "-k", "table")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "[*] --> available")
}
