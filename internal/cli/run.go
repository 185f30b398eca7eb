package cli

import (
	"context"
	"fmt"

	"github.com/mystor/ppm/internal/branding"
	"github.com/mystor/ppm/internal/logging"
	"github.com/mystor/ppm/internal/project"
	"github.com/mystor/ppm/internal/runtime"
	"github.com/mystor/ppm/internal/venv"
	"github.com/spf13/cobra"
)

func (a *App) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script> [args...]",
		Short: "Run a Python script inside the project environment",
		Long: `Run a script with the project environment's interpreter.

The environment is found by searching the current directory and its parents,
so run works from anywhere inside the project. The script runs in the current
directory; its output and exit status are passed through unchanged. Every
argument after the script name is handed to the script.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageErrorf("%s requires a script to run", cmd.CommandPath())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := a.envName("")
			if err != nil {
				return err
			}
			return a.runInEnv(cmd.Context(), name, args)
		},
	}
	// Flags after the script belong to the script.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// runInEnv executes the environment's interpreter with args in the current
// directory and relays its exit status.
func (a *App) runInEnv(ctx context.Context, name string, args []string) error {
	log := logging.FromContext(ctx)

	cwd, err := a.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	env, err := a.discover(ctx, cwd, name)
	if err != nil {
		return err
	}

	childEnv, err := a.childEnviron(env)
	if err != nil {
		return err
	}

	code, err := a.Executor.Exec(ctx, runtime.Command{
		Path:   env.Interpreter(),
		Args:   args,
		Dir:    cwd,
		Env:    childEnv,
		Stdin:  a.Stdin,
		Stdout: a.Stdout,
		Stderr: a.Stderr,
	})
	if err != nil {
		return fmt.Errorf("starting %s: %w", env.Interpreter(), err)
	}
	log.Debug("child finished", "code", code)
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// discover finds the environment above cwd and checks its metadata.
func (a *App) discover(ctx context.Context, cwd, name string) (*venv.Environment, error) {
	env, err := venv.Find(cwd, name, a.Lookup)
	if err != nil {
		return nil, fmt.Errorf("%w (run `%s init` first)", err, branding.CLIName())
	}
	meta, ok, err := venv.ReadMetadata(env)
	if err != nil {
		return nil, err
	}
	if ok {
		logging.FromContext(ctx).Debug("environment", "path", env.Path, "python", meta.Python, "version", meta.Version, "created", meta.Created)
	}
	return env, nil
}

// childEnviron builds the child's variables, merging the project dotenv file
// when enabled.
func (a *App) childEnviron(env *venv.Environment) ([]string, error) {
	var extra map[string]string
	if a.settings.Dotenv {
		vars, err := runtime.LoadDotenv(projectDotenv(env))
		if err != nil {
			return nil, err
		}
		extra = vars
	}
	return runtime.VirtualEnv(a.Environ(), env.Path, extra), nil
}

func projectDotenv(env *venv.Environment) string {
	p := project.Project{Dir: env.ProjectDir()}
	return p.DotenvPath()
}
