package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiwh/xmodem/xmodem"
)

func TestRunUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"sx"}, bytes.NewReader(nil), &stdout, &stderr)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "sx <fn>\n", stdout.String())
}

func TestRunBadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"sx", "-bogus", "f"}, bytes.NewReader(nil), &stdout, &stderr)
	assert.Equal(t, exitFailed, code)
	assert.Contains(t, stderr.String(), "failed to parse command args")
}

func TestRunMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	path := filepath.Join(t.TempDir(), "missing.bin")
	code := run(context.Background(), []string{"sx", path}, bytes.NewReader(nil), &stdout, &stderr)
	assert.Equal(t, exitSourceUnavailable, code)
	assert.Contains(t, stderr.String(), "Could not open file: no such file or directory")
	assert.Zero(t, stdout.Len())
}

func TestRunSendsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	var stdout, stderr bytes.Buffer
	peer := []byte{byte(xmodem.NAK), byte(xmodem.ACK), byte(xmodem.ACK)}
	code := run(context.Background(), []string{"sx", "-timeout", "1s", path}, bytes.NewReader(peer), &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	banner := "Sending " + path + " via XMODEM. Start transfer now.\n"
	out := stdout.Bytes()
	require.True(t, bytes.HasPrefix(out, []byte(banner)))
	out = out[len(banner):]
	require.Len(t, out, xmodem.FrameSize+1)
	assert.Equal(t, []byte{0x01, 0x01, 0xFE, 'h', 'e', 'l', 'l', 'o'}, out[:8])
	assert.Equal(t, byte(xmodem.EOT), out[xmodem.FrameSize])
	assert.Contains(t, stderr.String(), "transfer completed")
}

func TestRunPeerCancelExitsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	var stdout, stderr bytes.Buffer
	peer := []byte{byte(xmodem.CAN)}
	code := run(context.Background(), []string{"sx", path}, bytes.NewReader(peer), &stdout, &stderr)
	assert.Equal(t, exitOK, code)
}

func TestExitCode(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, exitOK, exitCode(xmodem.Result{Status: xmodem.StatusCompleted}, nil, &stderr))
	assert.Equal(t, exitOK, exitCode(xmodem.Result{Status: xmodem.StatusCancelled}, xmodem.ErrPeerCancelled, &stderr))
	assert.Equal(t, exitFailed, exitCode(xmodem.Result{Status: xmodem.StatusFailed}, xmodem.ErrTimeout, &stderr))
	assert.Equal(t, exitSourceUnavailable, exitCode(xmodem.Result{Status: xmodem.StatusSourceUnavailable}, errors.New("gone"), &stderr))
	assert.Equal(t, "Could not open file: gone\n", stderr.String())
}
