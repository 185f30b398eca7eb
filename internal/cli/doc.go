// Package cli defines the Cobra command tree for the ppm CLI. Each file in
// this package builds one subcommand (init, run, shell). Commands take their
// collaborators from an App so the dispatcher can be driven in tests with
// fake provisioners and executors; the business logic lives in the venv,
// project, requirements and runtime packages.
package cli
