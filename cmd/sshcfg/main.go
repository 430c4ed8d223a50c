package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sshcfg/pkg/editor"
	"sshcfg/pkg/settings"
	"sshcfg/pkg/sshconfig"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "sshcfg: %v\n", err)
		stop()
		os.Exit(1)
	}
}

type rootFlags struct {
	config  string
	inFile  string
	outFile string
	mock    bool
	strict  bool
	backup  bool
}

func newRootCmd() *cobra.Command {
	var f rootFlags
	root := &cobra.Command{
		Use:   "sshcfg",
		Short: "Interactive editor for SSH client config files",
		Long: `sshcfg reads the Host blocks of an SSH client config, lets you browse,
edit and delete their fields, and writes the result to a separate file.

Settings are read from $SSHCFG_CONFIG, $XDG_CONFIG_HOME/sshcfg/config.yaml
or ~/.config/sshcfg/config.yaml. Set SSHCFG_DEBUG=1 to log to
$SSHCFG_LOG (default: <config dir>/debug.log).

Examples:
  sshcfg                                  # edit ~/.ssh/config into ~/.ssh/config.new
  sshcfg -i ./config -o ./config          # edit in place
  sshcfg --mock                           # try it on demo data
  sshcfg fmt ~/.ssh/config                # print the canonical form`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEditor(cmd, f)
		},
	}

	root.PersistentFlags().StringVar(&f.config, "config", "", "Path to settings YAML (defaults to XDG paths if empty)")
	root.PersistentFlags().BoolVar(&f.strict, "strict", false, "Treat key lines before the first Host line as errors")
	root.Flags().StringVarP(&f.inFile, "in-file", "i", "", "SSH config to read (default ~/.ssh/config)")
	root.Flags().StringVarP(&f.outFile, "out-file", "o", "", "File to write on exit (default ~/.ssh/config.new)")
	root.Flags().BoolVar(&f.mock, "mock", false, "Edit built-in demo records instead of reading a file")
	root.Flags().BoolVar(&f.backup, "backup", false, "Keep a .bak copy of an existing output file")

	root.AddCommand(newFmtCmd(&f), newKeysCmd())
	return root
}

// resolve merges settings with flags; flags given on the command line win.
func resolve(cmd *cobra.Command, f rootFlags) (settings.Settings, error) {
	s, _, err := settings.Load(f.config)
	if err != nil {
		return s, err
	}
	flags := cmd.Flags()
	if flags.Changed("in-file") {
		s.InFile = f.inFile
	}
	if flags.Changed("out-file") {
		s.OutFile = f.outFile
	}
	if flags.Changed("strict") {
		s.Strict = f.strict
	}
	if flags.Changed("backup") {
		s.Backup = f.backup
	}
	return s, nil
}

func runEditor(cmd *cobra.Command, f rootFlags) error {
	s, err := resolve(cmd, f)
	if err != nil {
		return err
	}
	keys, err := editor.DefaultKeyMap().WithOverrides(s.Keys)
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	theme := editor.LoadTheme(s.Theme)

	var (
		records []sshconfig.Record
		title   string
	)
	if f.mock {
		records, title = sshconfig.Mock(), "demo data"
	} else {
		in := s.ResolvedInFile()
		records, err = sshconfig.ReadFile(in, s.Strict)
		if err != nil {
			return err
		}
		title = in
	}
	out := s.ResolvedOutFile()
	if strings.TrimSpace(out) == "" {
		return errors.New("no output file configured")
	}

	stdin, stdout := cmd.InOrStdin(), cmd.OutOrStdout()
	if !isTerminal(stdin) || !isTerminal(stdout) {
		return errors.New("stdin and stdout must be a terminal (use `sshcfg fmt` for non-interactive use)")
	}

	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()
	log.Printf("session start: %d records from %s", len(records), title)

	if tty, ok := stdin.(*os.File); ok {
		flushTTYInput(tty)
	}

	final, dirty, err := editor.Run(cmd.Context(), records, editor.Options{
		Title:  title,
		KeyMap: &keys,
		Theme:  &theme,
		Input:  stdin,
		Output: stdout,
	})
	if err != nil {
		return err
	}

	if f.mock && !cmd.Flags().Changed("out-file") {
		log.Printf("session end: demo data not written (modified=%v)", dirty)
		return nil
	}
	if err := sshconfig.WriteFile(out, final, s.Backup); err != nil {
		return err
	}
	log.Printf("session end: wrote %d records to %s (modified=%v)", len(final), out, dirty)
	fmt.Fprintf(cmd.ErrOrStderr(), "sshcfg: wrote %d host(s) to %s\n", len(final), out)
	return nil
}

func newFmtCmd(root *rootFlags) *cobra.Command {
	var (
		outFile string
		backup  bool
	)
	cmd := &cobra.Command{
		Use:   "fmt [file|-]",
		Short: "Print the canonical form of an SSH config",
		Long: `Parse an SSH config and print it in canonical key order.

With no file the configured input file is used; "-" reads stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolve(cmd, *root)
			if err != nil {
				return err
			}

			var records []sshconfig.Record
			switch {
			case len(args) == 1 && args[0] == "-":
				records, err = sshconfig.Parser{Strict: s.Strict}.Parse(cmd.InOrStdin())
				if err != nil {
					err = fmt.Errorf("parse ssh config <stdin>: %w", err)
				}
			case len(args) == 1:
				records, err = sshconfig.ReadFile(args[0], s.Strict)
			default:
				records, err = sshconfig.ReadFile(s.ResolvedInFile(), s.Strict)
			}
			if err != nil {
				return err
			}

			if outFile != "" {
				return sshconfig.WriteFile(outFile, records, backup)
			}
			return sshconfig.Write(cmd.OutOrStdout(), records)
		},
	}
	cmd.Flags().StringVarP(&outFile, "out-file", "o", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&backup, "backup", false, "Keep a .bak copy of an existing output file")
	return cmd
}

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the recognized config keys in canonical order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			for _, k := range sshconfig.AllKeys() {
				if _, err := fmt.Fprintln(w, k); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// setupLogging sends the standard logger to a debug file when SSHCFG_DEBUG is
// set, and discards it otherwise so nothing draws over the alt screen.
func setupLogging() (func(), error) {
	if strings.TrimSpace(os.Getenv("SSHCFG_DEBUG")) == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	p := strings.TrimSpace(os.Getenv("SSHCFG_LOG"))
	if p == "" {
		dir, err := settings.Dir()
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create config dir %s: %w", dir, err)
		}
		p = filepath.Join(dir, "debug.log")
	}
	lf, err := tea.LogToFile(p, "sshcfg")
	if err != nil {
		return nil, fmt.Errorf("open debug log %s: %w", p, err)
	}
	return func() { _ = lf.Close() }, nil
}
