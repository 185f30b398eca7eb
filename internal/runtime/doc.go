// Package runtime executes processes on behalf of ppm. The Executor
// interface is the single point where child processes are spawned; the
// environ helpers build the variables a child sees when it runs inside a
// virtual environment.
package runtime
