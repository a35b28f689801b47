package process

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRun_CapturesStdout(t *testing.T) {
	res, err := ExecRunner{}.Run(context.Background(), Command{Binary: "echo", Args: []string{"hello", "world"}})
	if err != nil {
		t.Fatal(err)
	}
	if res.ExitCode != 0 || strings.TrimSpace(string(res.Stdout)) != "hello world" {
		t.Fatalf("res = %+v", res)
	}
}

func TestRun_ExitErrorKeepsStderrTail(t *testing.T) {
	res, err := ExecRunner{}.Run(context.Background(), Command{
		Binary: "sh",
		Args:   []string{"-c", "echo 'Invalid data found' >&2; exit 42"},
	})
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("err = %v", err)
	}
	if exitErr.Code != 42 || res.ExitCode != 42 {
		t.Errorf("code = %d, result code = %d", exitErr.Code, res.ExitCode)
	}
	if exitErr.Stderr != "Invalid data found" {
		t.Errorf("stderr = %q", exitErr.Stderr)
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Errorf("message %q", err.Error())
	}
}

func TestRun_ContextEndsProcessGroup(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	res, err := ExecRunner{Grace: 500 * time.Millisecond}.Run(ctx, Command{Binary: "sh", Args: []string{"-c", "sleep 10"}})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
	if res.Duration > 5*time.Second {
		t.Fatalf("took %v to stop", res.Duration)
	}
}

func TestRun_Rejects(t *testing.T) {
	if _, err := (ExecRunner{}).Run(context.Background(), Command{}); err == nil {
		t.Error("empty binary should fail")
	}
	res, err := ExecRunner{}.Run(context.Background(), Command{Binary: "definitely-not-a-binary-xyz"})
	if err == nil || res.ExitCode != -1 {
		t.Errorf("missing binary: res=%+v err=%v", res, err)
	}
}

func TestRunnerFunc(t *testing.T) {
	var seen Command
	var r Runner = RunnerFunc(func(_ context.Context, cmd Command) (*Result, error) {
		seen = cmd
		return &Result{}, nil
	})
	_, _ = r.Run(context.Background(), Command{Binary: "ffmpeg", Args: []string{"-i", "a.mp3"}})
	if seen.String() != "ffmpeg -i a.mp3" {
		t.Errorf("command = %q", seen.String())
	}
}

func TestAvailable(t *testing.T) {
	if !Available("sh") {
		t.Error("sh should be on PATH")
	}
	if Available("definitely-not-a-binary-xyz") {
		t.Error("missing binary reported available")
	}
}

func TestTail(t *testing.T) {
	if got := tail([]byte("  0123456789  "), 5); got != "789" {
		t.Errorf("tail = %q", got)
	}
}
