package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"intentos/internal/cli"
	"intentos/internal/termview"
)

// app carries the per-invocation state shared by every subcommand.
type app struct {
	v       *viper.Viper
	cfgFile string
	out     io.Writer
	width   int
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, width: termview.DefaultWidth}
	if f, ok := out.(*os.File); ok {
		a.width = termview.TerminalWidth(f.Fd())
	}

	cmd := &cobra.Command{
		Use:   "intentosctl",
		Short: "Command-line client for an intentos server",
		Long: `intentosctl drives an intentos server from the terminal: record and
list expenses, inspect the spending breakdown, switch themes and send
natural-language requests to the decision engine.

The session is remembered between invocations, so expenses added by one
command are visible to the next until the session is ended.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
	}
	cmd.SetOut(out)

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/intentos/config.yaml)")
	cmd.PersistentFlags().String("server", "http://localhost:8080", "intentos server URL")
	cmd.PersistentFlags().Duration("timeout", 30*time.Second, "request timeout")
	cmd.PersistentFlags().String("session-file", "", "file remembering the session id (default: $HOME/.config/intentos/session)")

	_ = a.v.BindPFlag("server.url", cmd.PersistentFlags().Lookup("server"))
	_ = a.v.BindPFlag("server.timeout", cmd.PersistentFlags().Lookup("timeout"))
	_ = a.v.BindPFlag("session.file", cmd.PersistentFlags().Lookup("session-file"))

	cmd.AddCommand(a.addCmd())
	cmd.AddCommand(a.listCmd())
	cmd.AddCommand(a.summaryCmd())
	cmd.AddCommand(a.removeCmd())
	cmd.AddCommand(a.importCmd())
	cmd.AddCommand(a.themeCmd())
	cmd.AddCommand(a.askCmd())
	cmd.AddCommand(a.sessionCmd())
	return cmd
}

func main() {
	ctx, stop := cli.SignalContext()
	err := newRootCmd(os.Stdout).ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, termview.ErrorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func (a *app) initConfig(_ *cobra.Command, _ []string) error {
	configDir := ""
	if home, err := os.UserHomeDir(); err == nil {
		configDir = filepath.Join(home, ".config", "intentos")
	}

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		if configDir != "" {
			a.v.AddConfigPath(configDir)
		}
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("INTENTOS")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if a.v.GetString("session.file") == "" && configDir != "" {
		a.v.Set("session.file", filepath.Join(configDir, "session"))
	}
	return nil
}

// client builds an API client resuming the remembered session.
func (a *app) client() (*cli.Client, error) {
	return cli.NewClient(a.v.GetString("server.url"), a.loadSession(), a.v.GetDuration("server.timeout"))
}

func (a *app) loadSession() string {
	path := a.v.GetString("session.file")
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// saveSession remembers the client's session for the next invocation. An
// ended session removes the file.
func (a *app) saveSession(c *cli.Client) error {
	path := a.v.GetString("session.file")
	if path == "" {
		return nil
	}
	id := c.SessionID()
	if id == "" {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	if id == a.loadSession() {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	return os.WriteFile(path, []byte(id+"\n"), 0o600)
}

// withClient runs fn with a client and persists the session afterwards,
// even when fn fails part way.
func (a *app) withClient(fn func(*cli.Client) error) error {
	c, err := a.client()
	if err != nil {
		return err
	}
	runErr := fn(c)
	if err := a.saveSession(c); err != nil && runErr == nil {
		return fmt.Errorf("save session: %w", err)
	}
	return runErr
}

func (a *app) println(s string) {
	fmt.Fprintln(a.out, s)
}
