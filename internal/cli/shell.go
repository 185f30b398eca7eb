package cli

import (
	"github.com/mystor/ppm/internal/branding"
	"github.com/spf13/cobra"
)

func (a *App) newShellCmd() *cobra.Command {
	var envFlag string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive interpreter inside the project environment",
		Long: `Start the project environment's interpreter in the current directory,
attached to this terminal's standard input and output. When input is piped,
the interpreter executes it and exits.

shell does not run files; use "ppm run <script>" for that.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := a.envName(envFlag)
			if err != nil {
				return err
			}
			return a.runInEnv(cmd.Context(), name, nil)
		},
	}
	cmd.Flags().StringVar(&envFlag, "env", "", "Environment directory name (default \""+branding.DefaultEnv()+"\")")
	return cmd
}
