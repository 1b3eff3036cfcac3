package testutil

import (
	"strings"
	"testing"
)

func TestStartTmuxServerLifecycle(t *testing.T) {
	socket := StartTmuxServer(t, "lifecycle")
	out, err := TmuxCommand(socket, "list-sessions", "-F", "#{session_name}").Output()
	if err != nil {
		t.Skipf("skipping: list-sessions failed: %v", err)
	}
	if got := strings.TrimSpace(string(out)); got != "lifecycle" {
		t.Fatalf("expected session lifecycle, got %q", got)
	}
}

func TestTmuxCommandClearsOuterServer(t *testing.T) {
	t.Setenv("TMUX", "/outer,1,0")
	cmd := TmuxCommand("/tmp/x/sock", "ls")
	want := []string{"tmux", "-S", "/tmp/x/sock", "ls"}
	if strings.Join(cmd.Args, " ") != strings.Join(want, " ") {
		t.Fatalf("expected args %v, got %v", want, cmd.Args)
	}
	var sawEmpty, sawTmpdir bool
	for _, e := range cmd.Env {
		if e == "TMUX=/outer,1,0" {
			t.Fatalf("expected outer TMUX to be dropped")
		}
		sawEmpty = sawEmpty || e == "TMUX="
		sawTmpdir = sawTmpdir || e == "TMUX_TMPDIR=/tmp/x"
	}
	if !sawEmpty || !sawTmpdir {
		t.Fatalf("expected TMUX cleared and TMUX_TMPDIR set, got %v", cmd.Env)
	}
}
