package main

import (
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const runMainEnv = "DELIVERY_RUN_MAIN"

func envWithout(keys ...string) []string {
	var out []string
	for _, kv := range os.Environ() {
		drop := false
		for _, key := range keys {
			if strings.HasPrefix(kv, key+"=") {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, kv)
		}
	}
	return out
}

func TestMain_ConfigErrorIsPrinted(t *testing.T) {
	if os.Getenv(runMainEnv) == "1" {
		main()
		return
	}

	bin, err := os.Executable()
	require.NoError(t, err)

	cmd := exec.Command(bin, "-test.run=^TestMain_ConfigErrorIsPrinted$")
	cmd.Dir = t.TempDir()
	cmd.Env = append(envWithout("JWT_SECRET", runMainEnv), runMainEnv+"=1")

	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, string(out), "failed to load config")
	assert.Contains(t, string(out), "JWT_SECRET")
}
