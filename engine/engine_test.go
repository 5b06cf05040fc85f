package engine

import (
	"context"
	"errors"
	"testing"
)

func TestFakeInvokerRecordsInvocations(t *testing.T) {
	f := &FakeInvoker{ExitCode: 0}

	code, err := f.Run(context.Background(), "/tmp/work", []string{"bellhop.exe", "base"}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 0 {
		t.Fatalf("exit code: got %d, want 0", code)
	}

	if len(f.Invocations) != 1 {
		t.Fatalf("expected 1 recorded invocation, got %d", len(f.Invocations))
	}
	inv := f.Invocations[0]
	if inv.WorkDir != "/tmp/work" {
		t.Fatalf("WorkDir: got %q, want /tmp/work", inv.WorkDir)
	}
	if len(inv.Argv) != 2 || inv.Argv[0] != "bellhop.exe" {
		t.Fatalf("Argv: got %v", inv.Argv)
	}
}

func TestFakeInvokerOnInvokeSideEffectFires(t *testing.T) {
	var seenDir string
	f := &FakeInvoker{
		OnInvoke: func(workDir string, argv []string) { seenDir = workDir },
	}

	if _, err := f.Run(context.Background(), "/tmp/other", nil, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if seenDir != "/tmp/other" {
		t.Fatalf("OnInvoke side effect did not fire with the right workDir: got %q", seenDir)
	}
}

func TestFakeInvokerReturnsScriptedError(t *testing.T) {
	wantErr := errors.New("boom")
	f := &FakeInvoker{ExitCode: 1, Err: wantErr}

	code, err := f.Run(context.Background(), "/tmp", nil, nil)
	if code != 1 {
		t.Fatalf("exit code: got %d, want 1", code)
	}
	if !errors.Is(err, wantErr) {
		t.Fatalf("Run error: got %v, want %v", err, wantErr)
	}
}

func TestFakeInvokerArgvIsSnapshotted(t *testing.T) {
	f := &FakeInvoker{}
	argv := []string{"a", "b"}

	if _, err := f.Run(context.Background(), "/tmp", argv, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	argv[0] = "mutated"

	if f.Invocations[0].Argv[0] != "a" {
		t.Fatal("FakeInvoker should snapshot argv, not alias the caller's slice")
	}
}

func TestExecInvokerRejectsEmptyArgv(t *testing.T) {
	inv := ExecInvoker{}
	code, err := inv.Run(context.Background(), "/tmp", nil, nil)
	if err == nil {
		t.Fatal("expected an error for an empty argv")
	}
	if code != -1 {
		t.Fatalf("exit code: got %d, want -1", code)
	}
}
