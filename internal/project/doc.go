// Package project locates a ppm project on disk. A project is rooted at the
// nearest directory (the working directory or one of its ancestors) that
// holds a requirements.txt; environments are discovered the same way, so
// every command behaves identically from any subdirectory.
package project
