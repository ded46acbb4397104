package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/kk-code-lab/rshell/internal/browse"
	"github.com/kk-code-lab/rshell/internal/rows"
)

func builtins() ([]Command, []HelpEntry) {
	commands := []Command{
		{"help", cmdHelp},
		{"ver", cmdVer},
		{"ls", cmdLs},
		{"dir", cmdLs},
		{"rm", cmdRm},
		{"del", cmdRm},
		{"cat", cmdCat},
		{"cp", cmdCp},
		{"copy", cmdCp},
		{"run", cmdRun},
		{"date", cmdDate},
		{"browse", cmdBrowse},
		{"exit", nil},
	}
	help := []HelpEntry{
		{Name: "help", Summary: "shell help", Usage: "[<command>]\n" +
			"  [<command>] - the command to get help on.\n" +
			"Without arguments it shows a summary of all the shell commands."},
		{Name: "ver", Summary: "show version information"},
		{Name: "ls", Summary: "list directory contents", Usage: "[<dir>]\n" +
			"  [<dir>] - the directory to list, \"/\" when omitted.\n" +
			"Only subdirectories and recognised audio files are shown.\n" +
			"Alias: dir"},
		{Name: "dir", AliasOf: "ls"},
		{Name: "rm", Summary: "remove a file", Usage: "<file>\n" +
			"  <file> - the file to remove.\n" +
			"Asks for confirmation when typed at the prompt.\n" +
			"Alias: del"},
		{Name: "del", AliasOf: "rm"},
		{Name: "cat", Summary: "print a file", Usage: "<file>\n" +
			"  <file> - the file to print."},
		{Name: "cp", Summary: "copy a file", Usage: "<src> <dst>\n" +
			"  <src> - the file to copy.\n" +
			"  <dst> - the destination file.\n" +
			"Alias: copy"},
		{Name: "copy", AliasOf: "cp"},
		{Name: "run", Summary: "run a command script", Usage: "<file>\n" +
			"  <file> - a file with one command per line."},
		{Name: "date", Summary: "show the current date and time"},
		{Name: "browse", Summary: "browse audio files", Usage: "[<dir>]\n" +
			"  [<dir>] - the directory to start in, \"/\" when omitted.\n" +
			"Keys: up/down and PgUp/PgDn move, ENTER opens, q quits."},
		{Name: "exit"},
	}
	return commands, help
}

func cmdVer(s *Shell, args []string) {
	if len(args) != 1 {
		s.printf(invalidArgs)
		return
	}
	s.printf("rshell %s\n", s.version)
}

func cmdDate(s *Shell, args []string) {
	if len(args) != 1 {
		s.printf(invalidArgs)
		return
	}
	s.printf("%s\n", s.now().Format(time.UnixDate))
}

func cmdLs(s *Shell, args []string) {
	if len(args) > 2 {
		s.printf(invalidArgs)
		return
	}
	dir := "/"
	if len(args) == 2 {
		dir = browsePath(args[1])
	}

	store := rows.NewStore(s.log)
	defer store.Reset()
	if err := browse.Scan(s.lister, s.exts, store, dir, s.log); err != nil {
		s.printf("Cannot read %s\n", displayPath(dir))
		return
	}
	if store.Len() > 0 {
		s.printf("%s\n", store.String())
	}
}

func cmdCat(s *Shell, args []string) {
	if len(args) != 2 {
		s.printf(invalidArgs)
		return
	}
	f, err := os.Open(s.hostPath(args[1]))
	if err != nil {
		s.printf("Cannot open %s\n", args[1])
		return
	}
	defer f.Close()
	if _, err := io.Copy(s.Out, f); err != nil {
		s.printf("\nRead error: %v\n", err)
	}
}

func cmdCp(s *Shell, args []string) {
	if len(args) != 3 {
		s.printf(invalidArgs)
		return
	}
	if err := copyFile(s.hostPath(args[1]), s.hostPath(args[2])); err != nil {
		s.log.WithError(err).Warn("copy failed")
		s.printf("Copy failed: %v\n", err)
	}
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close destination: %w", cerr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	return nil
}

func cmdRm(s *Shell, args []string) {
	if len(args) != 2 {
		s.printf(invalidArgs)
		return
	}
	if s.interactive && !s.confirm(fmt.Sprintf("Remove %s? (y/n) ", args[1])) {
		return
	}
	if err := os.Remove(s.hostPath(args[1])); err != nil {
		s.printf("Cannot remove %s\n", args[1])
		if !errors.Is(err, os.ErrNotExist) {
			s.log.WithError(err).Warn("remove failed")
		}
	}
}

// prompter is a LineReader whose prompt can be replaced, such as the
// terminal line editor.
type prompter interface {
	SetPrompt(prompt string)
}

// confirm asks a yes/no question on the shell's input. Readers with a
// prompt show the question in its place until the answer is read.
func (s *Shell) confirm(question string) bool {
	if s.lines == nil {
		return false
	}
	if p, ok := s.lines.(prompter); ok {
		p.SetPrompt(question)
		defer p.SetPrompt(s.prompt)
	} else {
		s.printf("%s", question)
	}
	answer, err := s.lines.ReadLine()
	if err != nil {
		s.printf("\n")
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func cmdRun(s *Shell, args []string) {
	if len(args) != 2 {
		s.printf(invalidArgs)
		return
	}
	f, err := os.Open(s.hostPath(args[1]))
	if err != nil {
		s.printf("Cannot open %s\n", args[1])
		return
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if cmd := s.Exec(sc.Text()); cmd.IsExit() {
			return
		}
	}
	if err := sc.Err(); err != nil {
		s.printf("Read error: %v\n", err)
	}
}

func cmdBrowse(s *Shell, args []string) {
	if len(args) > 2 {
		s.printf(invalidArgs)
		return
	}
	if s.browse == nil {
		s.printf("Browse needs an interactive terminal\n")
		return
	}
	dir := "/"
	if len(args) == 2 {
		dir = args[1]
	}
	if err := s.browse(s.ctx, browsePath(dir)); err != nil {
		s.log.WithError(err).Warn("browser exited with error")
		s.printf("Browse failed: %v\n", err)
	}
}

// browsePath turns a command argument into an absolute "/a/b/" path.
func browsePath(p string) string {
	cleaned := path.Clean("/" + p)
	if cleaned == "/" {
		return cleaned
	}
	return cleaned + "/"
}

func displayPath(dir string) string {
	if dir == "/" {
		return dir
	}
	return strings.TrimSuffix(dir, "/")
}

// hostPath maps a shell path onto the host file system under the root.
func (s *Shell) hostPath(p string) string {
	return filepath.Join(s.root, filepath.FromSlash(path.Clean("/"+p)))
}
