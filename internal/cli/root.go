package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mystor/ppm/internal/branding"
	"github.com/mystor/ppm/internal/config"
	"github.com/mystor/ppm/internal/logging"
	"github.com/mystor/ppm/internal/project"
	"github.com/mystor/ppm/internal/runtime"
	"github.com/mystor/ppm/internal/venv"
	"github.com/spf13/cobra"
)

// App holds everything the commands touch outside their own arguments.
// Zero-valued fields fall back to the real process, file system and tools.
type App struct {
	// Settings overrides config.Load when set.
	Settings *config.Settings
	// Provisioner overrides the venv/pip tool provisioner when set.
	Provisioner venv.Provisioner
	Executor    runtime.Executor
	// Lookup decides whether a candidate path exists during upward searches.
	Lookup  project.Lookup
	Getwd   func() (string, error)
	Environ func() []string
	Now     func() time.Time

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Version string

	verbose  bool
	settings *config.Settings
}

// Execute runs ppm against the real process with build info injected via
// ldflags, returning the exit code.
func Execute(version, commit, date string) int {
	app := &App{Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)}
	return app.Run(context.Background(), os.Args[1:])
}

// Run executes one command line and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	a.defaults()
	root := a.newRootCmd()
	root.SetArgs(args)
	return report(a.Stderr, cobraUsageError(root.ExecuteContext(ctx)))
}

func (a *App) defaults() {
	if a.Executor == nil {
		a.Executor = runtime.ProcessExecutor{}
	}
	if a.Lookup == nil {
		a.Lookup = project.IsFile
	}
	if a.Getwd == nil {
		a.Getwd = os.Getwd
	}
	if a.Environ == nil {
		a.Environ = os.Environ
	}
	if a.Now == nil {
		a.Now = time.Now
	}
	if a.Stdin == nil {
		a.Stdin = os.Stdin
	}
	if a.Stdout == nil {
		a.Stdout = os.Stdout
	}
	if a.Stderr == nil {
		a.Stderr = os.Stderr
	}
	if a.Version == "" {
		a.Version = "dev"
	}
}

func (a *App) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     branding.CLIName(),
		Short:   branding.Description(),
		Version: a.Version,
		Long: branding.DisplayName() + ` creates a per-project Python virtual environment, installs the
dependencies listed in requirements.txt, and runs scripts or an interactive
interpreter inside that environment from anywhere in the project tree.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Print diagnostic logs to stderr")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErrorf("%v", err)
	})
	root.SetIn(a.Stdin)
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)

	root.AddCommand(a.newInitCmd(), a.newRunCmd(), a.newShellCmd())
	return root
}

// setup resolves settings and attaches the logger before any command runs.
func (a *App) setup(cmd *cobra.Command) error {
	s := a.Settings
	if s == nil {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		s = loaded
	}
	a.settings = s

	level := s.LogLevel
	if a.verbose {
		level = "debug"
	}
	logger, err := logging.New(a.Stderr, level)
	if err != nil {
		return err
	}
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
	return nil
}

func (a *App) provisioner() venv.Provisioner {
	if a.Provisioner != nil {
		return a.Provisioner
	}
	return &venv.ToolProvisioner{
		Executor: a.Executor,
		Creator:  a.settings.Creator,
		PipArgs:  a.settings.PipArgs,
		Env:      a.Environ(),
		Stdout:   a.Stdout,
	}
}

// envName resolves the environment name from a --env flag value, falling
// back to the configured default.
func (a *App) envName(flagValue string) (string, error) {
	name := flagValue
	if name == "" {
		name = a.settings.Env
	}
	if err := config.ValidateEnvName(name); err != nil {
		return "", usageErrorf("%v", err)
	}
	return name, nil
}
