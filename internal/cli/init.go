package cli

import (
	"context"
	"fmt"

	"github.com/mystor/ppm/internal/branding"
	"github.com/mystor/ppm/internal/logging"
	"github.com/mystor/ppm/internal/project"
	"github.com/mystor/ppm/internal/requirements"
	"github.com/mystor/ppm/internal/venv"
	"github.com/spf13/cobra"
)

func (a *App) newInitCmd() *cobra.Command {
	var envFlag string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the project environment and install its requirements",
		Long: `Create a virtual environment for the current project and install the
packages listed in requirements.txt.

The project root is the nearest directory, starting from the current one,
that contains requirements.txt; the environment is created there. Without a
requirements.txt the environment is created in the current directory and no
packages are installed. init refuses to touch an existing environment.

A "# PYTHON=<version>" comment in requirements.txt selects the interpreter,
for example "# PYTHON=3" uses python3.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := a.envName(envFlag)
			if err != nil {
				return err
			}
			return a.runInit(cmd.Context(), name)
		},
	}
	cmd.Flags().StringVar(&envFlag, "env", "", "Environment directory name (default \""+branding.DefaultEnv()+"\")")
	return cmd
}

func (a *App) runInit(ctx context.Context, name string) error {
	log := logging.FromContext(ctx)

	cwd, err := a.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	proj := project.Locate(cwd, a.Lookup)
	target := proj.EnvPath(name)
	if err := venv.CheckAbsent(target); err != nil {
		return err
	}

	python := a.settings.Python
	var reqs *requirements.File
	if proj.HasRequirements() {
		reqs, err = requirements.ParseFile(proj.Requirements)
		if err != nil {
			return err
		}
		python = reqs.Interpreter(python)
	}
	log.Debug("init", "project", proj.Dir, "env", target, "python", python, "requirements", proj.Requirements)

	prov := a.provisioner()

	fmt.Fprintf(a.Stdout, "Creating environment %s with %s\n", target, python)
	env, err := prov.Create(ctx, target, python)
	if err != nil {
		return err
	}

	meta := &venv.Metadata{
		Name:    name,
		Python:  python,
		Creator: a.settings.Creator,
		Created: a.Now().UTC(),
	}
	if v, err := env.PythonVersion(); err == nil {
		meta.Version = v.String()
		if reqs != nil && !reqs.AcceptsPython(v) {
			directive := reqs.Directives[requirements.DirectivePython]
			fmt.Fprintf(a.Stdout, "Note: %s is Python %s, which does not match the PYTHON=%s directive\n", python, v, directive)
			log.Info("interpreter does not match the PYTHON directive",
				"python", python, "version", v.String(), "directive", directive)
		}
	} else {
		log.Debug("interpreter version unknown", "error", err)
	}

	if reqs != nil {
		meta.Requirements = reqs.Path
		meta.Packages = reqs.Names()
		if len(reqs.Requirements) > 0 {
			fmt.Fprintf(a.Stdout, "Installing requirements from %s\n", reqs.Path)
			if err := prov.Install(ctx, env, reqs.Path); err != nil {
				return err
			}
		}
	}

	if err := venv.WriteMetadata(env, meta); err != nil {
		return err
	}

	fmt.Fprintf(a.Stdout, "Environment %s is ready.\n", name)
	return nil
}

// noArgs rejects positional arguments as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageErrorf("%s does not accept arguments, got %q", cmd.CommandPath(), args[0])
	}
	return nil
}
