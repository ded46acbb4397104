package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	apppkg "github.com/kk-code-lab/rshell/internal/app"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootFlags struct {
	configPath string
	backend    string
	logFile    string
	commands   []string
}

func main() {
	os.Exit(run())
}

func run() int {
	// UTF-8 fallback so the tcell backend renders non-ASCII names.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCmd(os.Stdin, os.Stdout)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "rshell: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	var flags rootFlags

	open := func() (*apppkg.Application, error) {
		return apppkg.NewApplication(apppkg.Options{
			ConfigPath: flags.configPath,
			Backend:    flags.backend,
			LogFile:    flags.logFile,
			Version:    version,
			Stdin:      stdin,
			Stdout:     stdout,
		})
	}

	root := &cobra.Command{
		Use:           "rshell",
		Short:         "Command shell with a terminal browser for audio files",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := open()
			if err != nil {
				return err
			}
			defer app.Close()
			if len(flags.commands) > 0 {
				return app.RunCommands(cmd.Context(), flags.commands)
			}
			return app.RunShell(cmd.Context())
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/rshell/config.toml)")
	pf.StringVar(&flags.backend, "backend", "", "terminal backend: tty or tcell")
	pf.StringVar(&flags.logFile, "log", "", "append debug logs to this file")
	root.Flags().StringArrayVarP(&flags.commands, "command", "c", nil, "run a command and exit (repeatable)")

	root.AddCommand(&cobra.Command{
		Use:   "browse [dir]",
		Short: "Open the browser directly",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := open()
			if err != nil {
				return err
			}
			defer app.Close()
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return app.Browse(cmd.Context(), dir)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rshell %s\n", version)
		},
	})
	return root
}
