package mocks

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/felixgeelhaar/ebuild/internal/ports"
)

func TestCommandRunner_AddResult(t *testing.T) {
	runner := NewCommandRunner()
	runner.AddResult("make", []string{"--version"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   "GNU Make 4.4",
	})

	result, err := runner.Run(context.Background(), ports.CommandSpec{Command: "make", Args: []string{"--version"}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stdout != "GNU Make 4.4" {
		t.Errorf("Stdout = %q, want %q", result.Stdout, "GNU Make 4.4")
	}
}

func TestCommandRunner_CopiesStreams(t *testing.T) {
	runner := NewCommandRunner()
	runner.AddResult("make", nil, ports.CommandResult{Stdout: "out", Stderr: "err"})

	var stdout, stderr strings.Builder
	_, err := runner.Run(context.Background(), ports.CommandSpec{Command: "make", Stdout: &stdout, Stderr: &stderr})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stdout.String() != "out" || stderr.String() != "err" {
		t.Errorf("streams = %q/%q, want out/err", stdout.String(), stderr.String())
	}
}

func TestCommandRunner_NotFound(t *testing.T) {
	runner := NewCommandRunner()

	_, err := runner.Run(context.Background(), ports.CommandSpec{Command: "unknown", Args: []string{"command"}})
	if err == nil {
		t.Error("Run() should return error for unregistered command")
	}
}

func TestCommandRunner_AddError(t *testing.T) {
	runner := NewCommandRunner()
	boom := errors.New("boom")
	runner.AddError("make", []string{"install"}, boom)

	_, err := runner.Run(context.Background(), ports.CommandSpec{Command: "make", Args: []string{"install"}})
	if !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want %v", err, boom)
	}
}

func TestCommandRunner_RecordsCalls(t *testing.T) {
	runner := NewCommandRunner()
	runner.AddResult("make", []string{"-j4"}, ports.CommandResult{ExitCode: 0})

	_, _ = runner.Run(context.Background(), ports.CommandSpec{
		Command: "make",
		Args:    []string{"-j4"},
		Dir:     "/tmp/pkg/work",
		Env:     []string{"S=/tmp/pkg/work"},
	})

	calls := runner.Calls()
	if len(calls) != 1 {
		t.Fatalf("Calls() len = %d, want 1", len(calls))
	}
	if calls[0].Dir != "/tmp/pkg/work" {
		t.Errorf("calls[0].Dir = %q, want %q", calls[0].Dir, "/tmp/pkg/work")
	}
	if len(calls[0].Env) != 1 || calls[0].Env[0] != "S=/tmp/pkg/work" {
		t.Errorf("calls[0].Env = %v", calls[0].Env)
	}
}

func TestCommandRunner_Reset(t *testing.T) {
	runner := NewCommandRunner()
	runner.AddResult("make", nil, ports.CommandResult{ExitCode: 0})
	_, _ = runner.Run(context.Background(), ports.CommandSpec{Command: "make"})

	runner.Reset()

	if len(runner.Calls()) != 0 {
		t.Error("Reset() should clear all calls")
	}
	if _, err := runner.Run(context.Background(), ports.CommandSpec{Command: "make"}); err == nil {
		t.Error("Reset() should clear all results")
	}
}

func TestCommandRunner_ThreadSafety(t *testing.T) {
	runner := NewCommandRunner()

	for i := 0; i < 26; i++ {
		runner.AddResult("cmd", []string{string(rune('a' + i))}, ports.CommandResult{ExitCode: 0})
	}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, _ = runner.Run(context.Background(), ports.CommandSpec{Command: "cmd", Args: []string{string(rune('a' + idx%26))}})
			_ = runner.Calls()
		}(i)
	}

	wg.Wait()

	if calls := runner.Calls(); len(calls) != 100 {
		t.Errorf("Expected 100 calls, got %d", len(calls))
	}
}
