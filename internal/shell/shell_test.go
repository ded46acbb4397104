package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func newTestShell(t *testing.T, input string) (*Shell, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	s := New(Options{
		Out:     &out,
		Lines:   NewPlainReader(strings.NewReader(input), &out, ""),
		Root:    t.TempDir(),
		Version: "1.2.3",
		Now: func() time.Time {
			return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
		},
	})
	return s, &out
}

func TestExecuteMatchesExactName(t *testing.T) {
	s, out := newTestShell(t, "")
	cmd := s.Execute("ver", false)
	if cmd == nil || cmd.Name != "ver" {
		t.Fatalf("expected ver to match, got %+v", cmd)
	}
	if got := out.String(); got != "rshell 1.2.3\n" {
		t.Fatalf("ver output = %q", got)
	}

	out.Reset()
	if cmd := s.Execute("VER", false); cmd != nil {
		t.Fatalf("matching must be case-sensitive")
	}
	if got := out.String(); got != "Invalid command, type 'help' for help\n" {
		t.Fatalf("unknown command output = %q", got)
	}
}

func TestExecuteFirstMatchWins(t *testing.T) {
	s, _ := newTestShell(t, "")
	var calls []string
	s.commands = append([]Command{
		{"dup", func(*Shell, []string) { calls = append(calls, "first") }},
		{"dup", func(*Shell, []string) { calls = append(calls, "second") }},
	}, s.commands...)
	s.Execute("dup", false)
	if !reflect.DeepEqual(calls, []string{"first"}) {
		t.Fatalf("calls = %q", calls)
	}
}

func TestExecuteExitSentinel(t *testing.T) {
	s, out := newTestShell(t, "")
	cmd := s.Execute("exit", true)
	if !cmd.IsExit() {
		t.Fatalf("exit should return the terminate sentinel")
	}
	if out.Len() != 0 {
		t.Fatalf("exit should print nothing, got %q", out.String())
	}
	var nilCmd *Command
	if nilCmd.IsExit() {
		t.Fatalf("nil command is not the sentinel")
	}
}

func TestExecuteParseErrors(t *testing.T) {
	s, out := newTestShell(t, "")
	if cmd := s.Execute(`cat "oops`, true); cmd != nil {
		t.Fatalf("unbalanced quotes should not run anything")
	}
	if got := out.String(); got != "Invalid quoted string\n" {
		t.Fatalf("output = %q", got)
	}

	out.Reset()
	if cmd := s.Execute(strings.Repeat("x ", MaxArgs+1), true); cmd != nil {
		t.Fatalf("too many args should not run anything")
	}
	if got := out.String(); got != "Error: too many arguments\n" {
		t.Fatalf("output = %q", got)
	}

	out.Reset()
	if cmd := s.Execute("   ", true); cmd != nil || out.Len() != 0 {
		t.Fatalf("blank line should be silent, got %q", out.String())
	}
}

func TestExecPassesArgsAndRestoresMode(t *testing.T) {
	s, _ := newTestShell(t, "")
	var seen []bool
	var gotArgs []string
	s.commands = append(s.commands, Command{"probe", func(s *Shell, args []string) {
		seen = append(seen, s.Interactive())
		gotArgs = args
	}})

	s.interactive = true
	s.Exec(`probe "a b" c`)
	if !reflect.DeepEqual(seen, []bool{false}) {
		t.Fatalf("Exec should run non-interactively, saw %v", seen)
	}
	if !s.Interactive() {
		t.Fatalf("Exec should restore the interactive flag")
	}
	if !reflect.DeepEqual(gotArgs, []string{"probe", "a b", "c"}) {
		t.Fatalf("args = %q", gotArgs)
	}

	s.interactive = false
	s.Execute("probe", true)
	if seen[1] != true || s.Interactive() {
		t.Fatalf("Execute should scope the interactive flag, saw %v", seen)
	}
}

func TestHelpListingIsSorted(t *testing.T) {
	s, out := newTestShell(t, "")
	s.Execute("help", false)
	want := "Shell commands:\n" +
		"  browse     - browse audio files\n" +
		"  cat        - print a file\n" +
		"  cp         - copy a file\n" +
		"  date       - show the current date and time\n" +
		"  help       - shell help\n" +
		"  ls         - list directory contents\n" +
		"  rm         - remove a file\n" +
		"  run        - run a command script\n" +
		"  ver        - show version information\n" +
		"For more information use 'help <command>'.\n"
	if got := out.String(); got != want {
		t.Fatalf("help listing:\n%s\nwant:\n%s", got, want)
	}
}

func TestHelpFallsBackToRegistrationOrder(t *testing.T) {
	s, out := newTestShell(t, "")
	s.helpOrder = nil
	s.Execute("help", false)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if !strings.HasPrefix(lines[1], "  help ") || !strings.HasPrefix(lines[2], "  ver ") {
		t.Fatalf("expected registration order, got %q", lines[1:3])
	}
}

func TestHelpForCommand(t *testing.T) {
	s, out := newTestShell(t, "")
	s.Execute("help cp", false)
	want := "cp - copy a file\n" +
		"Usage: cp <src> <dst>\n" +
		"  <src> - the file to copy.\n" +
		"  <dst> - the destination file.\n" +
		"Alias: copy\n"
	if got := out.String(); got != want {
		t.Fatalf("help cp = %q, want %q", got, want)
	}

	out.Reset()
	s.Execute("help ver", false)
	if got := out.String(); got != "ver - show version information\nUsage: ver\n" {
		t.Fatalf("help ver = %q", got)
	}

	out.Reset()
	s.Execute("help nope", false)
	if got := out.String(); got != "Unknown command 'nope'.\n" {
		t.Fatalf("help nope = %q", got)
	}

	out.Reset()
	s.Execute("help exit", false)
	if got := out.String(); got != "Unknown command 'exit'.\n" {
		t.Fatalf("entries without a summary are hidden, got %q", got)
	}

	out.Reset()
	s.Execute("help dir", false)
	if got := out.String(); !strings.HasPrefix(got, "ls - list directory contents\nUsage: ls [<dir>]\n") {
		t.Fatalf("help dir should show the ls entry, got %q", got)
	}

	out.Reset()
	s.Execute("help copy", false)
	if got := out.String(); !strings.HasPrefix(got, "cp - copy a file\n") {
		t.Fatalf("help copy = %q", got)
	}

	out.Reset()
	s.Execute("help del", false)
	if got := out.String(); !strings.HasPrefix(got, "rm - remove a file\n") {
		t.Fatalf("help del = %q", got)
	}

	out.Reset()
	s.Execute("help a b", false)
	if got := out.String(); got != invalidArgs {
		t.Fatalf("help a b = %q", got)
	}
}

func TestAlphabetize(t *testing.T) {
	if alphabetize(nil) != nil {
		t.Fatalf("empty table should have no order")
	}
	help := []HelpEntry{{Name: "b"}, {Name: "B"}, {Name: "a"}, {Name: "b"}}
	// Raw byte order puts upper case first; equal names keep their order.
	if got := alphabetize(help); !reflect.DeepEqual(got, []int{1, 2, 0, 3}) {
		t.Fatalf("alphabetize = %v", got)
	}
}

func TestRunBannerCommandsAndEOF(t *testing.T) {
	s, out := newTestShell(t, "date\n\nbogus\n")
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "\nrshell 1.2.3\n" +
		"Fri Mar  1 12:30:00 UTC 2024\n" +
		"Invalid command, type 'help' for help\n" +
		"\n"
	if got := out.String(); got != want {
		t.Fatalf("Run output = %q, want %q", got, want)
	}
}

func TestRunStopsAtExit(t *testing.T) {
	s, out := newTestShell(t, "exit\nver\n")
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Count(out.String(), "rshell 1.2.3") != 1 {
		t.Fatalf("commands after exit should not run: %q", out.String())
	}
}

func TestRunCancelled(t *testing.T) {
	s, _ := newTestShell(t, "ver\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunWithoutInput(t *testing.T) {
	s := New(Options{})
	if err := s.Run(context.Background()); err == nil {
		t.Fatalf("expected an error without a line reader")
	}
}

func writeFile(t *testing.T, root, name, body string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}
