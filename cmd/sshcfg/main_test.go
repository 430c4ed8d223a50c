package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"

	"sshcfg/pkg/sshconfig"
)

// isolate points settings discovery at empty temp dirs.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("SSHCFG_CONFIG", "")
	t.Setenv("SSHCFG_DEBUG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func execute(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

const sampleConfig = `# sample
Host web
  User deploy
  HostName web.internal

Host db
  Port 5432
`

func TestFmt_PrintsCanonicalForm(t *testing.T) {
	isolate(t)
	in := writeFile(t, t.TempDir(), "config", sampleConfig)

	got, err := execute(t, nil, "fmt", in)
	if err != nil {
		t.Fatalf("fmt: %v", err)
	}
	want := "Host web\n  HostName web.internal\n  User deploy\n\nHost db\n  Port 5432\n\n"
	if got != want {
		t.Fatalf("unexpected output:\n got=%q\nwant=%q", got, want)
	}
}

func TestFmt_ReadsStdinAndWritesFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "out", "config")

	if _, err := execute(t, strings.NewReader(sampleConfig), "fmt", "-", "-o", out); err != nil {
		t.Fatalf("fmt: %v", err)
	}
	recs, err := sshconfig.ReadFile(out, true)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(recs) != 2 || recs[0].Host != "web" || recs[1].Host != "db" {
		t.Fatalf("unexpected records %#v", recs)
	}
}

func TestFmt_DefaultsToConfiguredInFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	in := writeFile(t, dir, "config", "Host only\n  User me\n")
	settingsPath := writeFile(t, dir, "settings.yaml", "in_file: "+in+"\n")

	got, err := execute(t, nil, "fmt", "--config", settingsPath)
	if err != nil {
		t.Fatalf("fmt: %v", err)
	}
	if got != "Host only\n  User me\n\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestFmt_StrictRejectsOrphanFields(t *testing.T) {
	isolate(t)
	in := writeFile(t, t.TempDir(), "config", "User nobody\nHost a\n")

	if _, err := execute(t, nil, "fmt", in); err != nil {
		t.Fatalf("lenient fmt: %v", err)
	}
	_, err := execute(t, nil, "fmt", "--strict", in)
	if !errors.Is(err, sshconfig.ErrOrphanField) {
		t.Fatalf("expected ErrOrphanField, got %v", err)
	}
}

func TestKeys_ListsVocabularyInOrder(t *testing.T) {
	isolate(t)
	got, err := execute(t, nil, "keys")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != sshconfig.NumKeys() {
		t.Fatalf("expected %d keys, got %d: %q", sshconfig.NumKeys(), len(lines), got)
	}
	if lines[0] != "HostName" || lines[len(lines)-1] != "StrictHostKeyChecking" {
		t.Fatalf("unexpected order %v", lines)
	}
}

func TestRoot_ParseErrorAbortsBeforeSession(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	in := writeFile(t, dir, "config", "Host a\n  Foo bar\n")
	out := filepath.Join(dir, "config.new")

	_, err := execute(t, strings.NewReader(""), "-i", in, "-o", out)
	if !errors.Is(err, sshconfig.ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	if !strings.Contains(err.Error(), "Foo") {
		t.Fatalf("expected key name in error, got %v", err)
	}
	if _, statErr := os.Stat(out); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("output must not be written, stat err=%v", statErr)
	}
}

func TestRoot_MissingInputFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	_, err := execute(t, strings.NewReader(""), "-i", filepath.Join(dir, "nope"), "-o", filepath.Join(dir, "out"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestRoot_RefusesNonTerminal(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	in := writeFile(t, dir, "config", sampleConfig)

	_, err := execute(t, strings.NewReader("q"), "-i", in, "-o", filepath.Join(dir, "out"))
	if err == nil || !strings.Contains(err.Error(), "must be a terminal") {
		t.Fatalf("expected terminal error, got %v", err)
	}
}

func TestRoot_RejectsUnknownKeyAction(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	settingsPath := writeFile(t, dir, "settings.yaml", "keys:\n  explode: [x]\n")

	_, err := execute(t, strings.NewReader(""), "--config", settingsPath, "--mock")
	if err == nil || !strings.Contains(err.Error(), "keys.explode: unknown action") {
		t.Fatalf("expected unknown action error, got %v", err)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestEditorSession_PTY(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("pty not supported on windows")
	}
	isolate(t)

	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer func() { _ = ptmx.Close() }()
	defer func() { _ = tty.Close() }()
	if err := pty.Setsize(ptmx, &pty.Winsize{Rows: 30, Cols: 100}); err != nil {
		t.Fatalf("setsize: %v", err)
	}

	dir := t.TempDir()
	in := writeFile(t, dir, "config", "Host a\n  HostName 1.1.1.1\n  User alice\n\nHost b\n  HostName 2.2.2.2\n")
	out := filepath.Join(dir, "config.new")

	var screen syncBuffer
	go func() { _, _ = io.Copy(&screen, ptmx) }()

	cmd := newRootCmd()
	cmd.SetArgs([]string{"-i", in, "-o", out})
	cmd.SetIn(tty)
	cmd.SetOut(tty)
	cmd.SetErr(io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	deadline := time.Now().Add(10 * time.Second)
	for !strings.Contains(screen.String(), "sshcfg") {
		if time.Now().After(deadline) {
			t.Fatalf("editor did not draw; output so far: %q", screen.String())
		}
		time.Sleep(20 * time.Millisecond)
	}

	// a: drop User. b: HostName -> 9.9.9.9.
	keys := []string{"j", "\r", "j", "d", "h", "G", "\r", "\r", "\x15", "9.9.9.9", "\r", "q"}
	for _, k := range keys {
		if _, err := ptmx.Write([]byte(k)); err != nil {
			t.Fatalf("write %q: %v", k, err)
		}
		time.Sleep(60 * time.Millisecond)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("session: %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatalf("session did not exit; output so far: %q", screen.String())
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "Host a\n  HostName 1.1.1.1\n\nHost b\n  HostName 9.9.9.9\n\n"
	if string(data) != want {
		t.Fatalf("unexpected output file:\n got=%q\nwant=%q", data, want)
	}
}
