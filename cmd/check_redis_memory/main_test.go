package main

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nrmn2492/redis-memory-check/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okInfo = "# Memory\r\nused_memory:1000\r\nused_memory_rss:18874368\r\nmaxmemory:2051014656\r\n"

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func serverArgs(t *testing.T, addr string) []string {
	t.Helper()

	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	return []string{"-s", host, "-p", port}
}

func TestRunOK(t *testing.T) {
	srv := &testutils.FakeServer{Info: okInfo}
	args := append(serverArgs(t, srv.Start(t)), "-w", "80", "-c", "90")

	code, stdout, _ := runCLI(t, args...)
	assert.Equal(t, 0, code)
	assert.Equal(t, "OK: Redis memory usage is 18MB / 1956MB (0.92%)\n", stdout)
}

func TestRunWarningWithLongFlags(t *testing.T) {
	srv := &testutils.FakeServer{Info: "used_memory_rss:1782579200\r\nmaxmemory:2051014656\r\n"}
	host, port, err := net.SplitHostPort(srv.Start(t))
	require.NoError(t, err)

	code, stdout, _ := runCLI(t, "-server", host, "-port", port, "-warn", "80", "-critical", "90")
	assert.Equal(t, 1, code)
	assert.Equal(t, "WARNING: Redis memory usage is 1700MB / 1956MB (86.91%)\n", stdout)
}

func TestRunAuthRejected(t *testing.T) {
	srv := &testutils.FakeServer{Password: "s3cret", Info: okInfo}
	args := append(serverArgs(t, srv.Start(t)), "-P", "nope", "-a", "monitor", "-w", "80", "-c", "90")

	code, stdout, _ := runCLI(t, args...)
	assert.Equal(t, 2, code)
	assert.True(t, strings.HasPrefix(stdout, "CRITICAL: Error connecting or getting INFO from Redis"), stdout)
	assert.Equal(t, 1, strings.Count(stdout, "\n"))
}

func TestRunMissingThresholds(t *testing.T) {
	code, stdout, _ := runCLI(t, "-w", "80")
	assert.Equal(t, 2, code)
	assert.Equal(t, "CRITICAL: invalid configuration: critical is required\n", stdout)
}

func TestRunInfo(t *testing.T) {
	code, stdout, _ := runCLI(t, "-info")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Redis Memory Usage Checker")
	assert.Contains(t, stdout, "-w, -warn")
}

func TestRunHelp(t *testing.T) {
	code, stdout, _ := runCLI(t, "-h")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Redis Memory Usage Checker")
}

func TestRunBadFlag(t *testing.T) {
	code, stdout, stderr := runCLI(t, "-w", "eighty")
	assert.Equal(t, 2, code)
	assert.True(t, strings.HasPrefix(stdout, `CRITICAL: invalid value "eighty" for flag -w`), stdout)
	assert.Equal(t, 1, strings.Count(stdout, "\n"))
	assert.Contains(t, stderr, "invalid value")
}

func TestRunDebug(t *testing.T) {
	srv := &testutils.FakeServer{Info: okInfo}
	args := append(serverArgs(t, srv.Start(t)), "-w", "80", "-c", "90", "-debug=YES")

	code, stdout, _ := runCLI(t, args...)
	assert.Equal(t, 0, code)

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.Greater(t, len(lines), 1)
	assert.Contains(t, stdout, "level=DEBUG")
	assert.Equal(t, "OK: Redis memory usage is 18MB / 1956MB (0.92%)", lines[len(lines)-1])
}

func TestRunConfigFileWithFlagOverride(t *testing.T) {
	srv := &testutils.FakeServer{Info: okInfo}
	host, port, err := net.SplitHostPort(srv.Start(t))
	require.NoError(t, err)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "check.yaml")
	promPath := filepath.Join(dir, "redis.prom")
	content := "server: " + host + "\nport: " + port + "\nwarn: 80\ncritical: 90\ntextfile: " + promPath + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	// -c on the command line beats the file: 0.92% > 0.5% is CRITICAL
	code, stdout, _ := runCLI(t, "-config", cfgPath, "-w", "0.1", "-c", "0.5")
	assert.Equal(t, 2, code)
	assert.Equal(t, "CRITICAL: Redis memory usage is 18MB / 1956MB (0.92%)\n", stdout)

	data, err := os.ReadFile(promPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "redis_memory_check_status")
}

func TestRunConfigFileMissing(t *testing.T) {
	code, stdout, _ := runCLI(t, "-config", filepath.Join(t.TempDir(), "nope.yaml"), "-w", "80", "-c", "90")
	assert.Equal(t, 2, code)
	assert.True(t, strings.HasPrefix(stdout, "CRITICAL: failed to read config file"), stdout)
}

func TestIsEnabled(t *testing.T) {
	for _, v := range []string{"yes", "YES", "true", "True", "1"} {
		assert.True(t, isEnabled(v), v)
	}
	for _, v := range []string{"no", "", "0", "false", "on"} {
		assert.False(t, isEnabled(v), v)
	}
}
