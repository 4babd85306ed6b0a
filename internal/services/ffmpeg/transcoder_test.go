package ffmpeg

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestTranscodeArguments(t *testing.T) {
	var gotName string
	var gotArgs []string
	restore := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		gotName = name
		gotArgs = args
		return exec.CommandContext(ctx, "true")
	}
	t.Cleanup(func() { commandContext = restore })

	dir := t.TempDir()
	in := filepath.Join(dir, "0-abc.wav")
	out := filepath.Join(dir, "0-abc.ogg")

	cli := NewCLI(8, 0.95, 5)
	if err := cli.Transcode(t.Context(), in, out); err != nil {
		t.Fatalf("Transcode: %v", err)
	}

	if gotName != "ffmpeg" {
		t.Errorf("binary = %q", gotName)
	}
	want := []string{
		"-y",
		"-i", in,
		"-filter:a", "volume=8dB,alimiter=limit=0.95",
		"-codec:a", "libvorbis",
		"-qscale:a", "5",
		out,
	}
	if len(gotArgs) != len(want) {
		t.Fatalf("args = %v, want %v", gotArgs, want)
	}
	for i := range want {
		if gotArgs[i] != want[i] {
			t.Errorf("arg[%d] = %q, want %q", i, gotArgs[i], want[i])
		}
	}
}

func TestTranscodeNonZeroExit(t *testing.T) {
	restore := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "false")
	}
	t.Cleanup(func() { commandContext = restore })

	dir := t.TempDir()
	cli := NewCLI(8, 0.95, 5)
	err := cli.Transcode(t.Context(), filepath.Join(dir, "in.wav"), filepath.Join(dir, "out.ogg"))

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %v", err)
	}
	if exitErr.Code != 1 {
		t.Errorf("exit code = %d, want 1", exitErr.Code)
	}
}

func TestTranscodeRequiresPaths(t *testing.T) {
	cli := NewCLI(8, 0.95, 5)
	if err := cli.Transcode(t.Context(), "", "out.ogg"); err == nil {
		t.Error("expected error for empty input path")
	}
	if err := cli.Transcode(t.Context(), "in.wav", ""); err == nil {
		t.Error("expected error for empty output path")
	}
}

func TestWithBinary(t *testing.T) {
	cli := NewCLI(8, 0.95, 5, WithBinary("ffmpeg-custom"))
	if cli.binary != "ffmpeg-custom" {
		t.Errorf("binary = %q", cli.binary)
	}
	cli = NewCLI(8, 0.95, 5, WithBinary(""))
	if cli.binary != "ffmpeg" {
		t.Errorf("empty override should keep default, got %q", cli.binary)
	}
}
