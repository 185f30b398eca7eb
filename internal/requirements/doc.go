// Package requirements reads a pip requirements file. Besides the specifier
// lines handed to pip unchanged, the file may carry header directives in
// comment form (for example "# PYTHON=3") that select the interpreter used
// to create the environment.
package requirements
