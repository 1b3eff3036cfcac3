// Package testutil starts throwaway tmux servers for tests that need a real
// one.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// RequireTmux aborts the calling test when tmux is not present on PATH.
func RequireTmux(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("tmux")
	if err != nil {
		t.Skip("skipping: tmux binary not available")
	}
	return path
}

// StartTmuxServer boots a temporary tmux server bound to a unique socket with
// one detached session named session. The server is killed when the test
// finishes.
func StartTmuxServer(t *testing.T, session string) string {
	t.Helper()
	RequireTmux(t)
	baseDir, err := os.MkdirTemp("/tmp", "nestmenu-*")
	if err != nil {
		t.Fatalf("failed to create tmux temp dir: %v", err)
	}
	socketPath := filepath.Join(baseDir, "tmux-test.sock")
	t.Cleanup(func() {
		_ = TmuxCommand(socketPath, "kill-server").Run()
		_ = os.RemoveAll(baseDir)
	})
	cmd := TmuxCommand(socketPath, "-f", "/dev/null", "new-session", "-d", "-s", session, "sleep", "600")
	if err := cmd.Run(); err != nil {
		t.Skipf("skipping: failed to start tmux server: %v", err)
	}
	if out, err := TmuxCommand(socketPath, "display-message", "-p", "#{pid}").Output(); err == nil {
		t.Logf("started tmux test server pid=%s socket=%s", strings.TrimSpace(string(out)), socketPath)
	}
	return socketPath
}

// TmuxCommand prepares a tmux invocation against socket with $TMUX cleared so
// the outer server, if any, is left alone.
func TmuxCommand(socket string, extra ...string) *exec.Cmd {
	trimmed := strings.TrimSpace(socket)
	args := make([]string, 0, len(extra)+2)
	if trimmed != "" {
		args = append(args, "-S", trimmed)
	}
	args = append(args, extra...)
	cmd := exec.Command("tmux", args...)
	env := make([]string, 0, len(os.Environ())+2)
	for _, entry := range os.Environ() {
		if strings.HasPrefix(entry, "TMUX=") {
			continue
		}
		env = append(env, entry)
	}
	env = append(env, "TMUX=")
	if trimmed != "" {
		env = append(env, "TMUX_TMPDIR="+filepath.Dir(trimmed))
	}
	cmd.Env = env
	return cmd
}
