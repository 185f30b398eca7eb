package requirements

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// DirectivePython selects the interpreter for environment creation.
const DirectivePython = "PYTHON"

var directiveRe = regexp.MustCompile(`^#\s*(` + DirectivePython + `)\s*=\s*(\S+)\s*$`)

// Requirement is one dependency specifier line.
type Requirement struct {
	Line int
	Spec string // the line as pip sees it, inline comment removed
	Name string // project name, empty for option lines such as "-r other.txt"
}

// IsOption reports whether the line is a pip option rather than a specifier.
func (r Requirement) IsOption() bool {
	return strings.HasPrefix(r.Spec, "-")
}

// File is a parsed requirements file.
type File struct {
	Path         string
	Directives   map[string]string
	Requirements []Requirement
}

// ParseFile reads and parses the requirements file at path.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening requirements file %s: %w", path, err)
	}
	defer f.Close()

	parsed, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing requirements file %s: %w", path, err)
	}
	parsed.Path = path
	return parsed, nil
}

// Parse reads requirements from r. Blank lines and comments are skipped;
// a "# PYTHON=VERSION" comment is recorded as a directive.
func Parse(r io.Reader) (*File, error) {
	file := &File{Directives: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if m := directiveRe.FindStringSubmatch(line); m != nil {
				if _, dup := file.Directives[m[1]]; dup {
					return nil, fmt.Errorf("line %d: directive %s given more than once", lineNo, m[1])
				}
				file.Directives[m[1]] = m[2]
			}
			continue
		}
		if i := strings.Index(line, " #"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		req := Requirement{Line: lineNo, Spec: line}
		if !req.IsOption() {
			req.Name = projectName(line)
		}
		file.Requirements = append(file.Requirements, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading requirements: %w", err)
	}

	if v, ok := file.Directives[DirectivePython]; ok {
		if _, err := ParsePythonVersion(v); err != nil {
			return nil, err
		}
	}
	return file, nil
}

// projectName returns the leading project name of a specifier such as
// "pep8==1.4.6" or "requests[socks]>=2".
func projectName(spec string) string {
	end := strings.IndexAny(spec, "=<>!~;[ @(")
	if end < 0 {
		return spec
	}
	return strings.TrimSpace(spec[:end])
}

// Names returns the project names of all specifier lines, in file order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Requirements))
	for _, r := range f.Requirements {
		if r.Name != "" {
			names = append(names, r.Name)
		}
	}
	return names
}

// Interpreter returns the executable name selected by the PYTHON directive,
// or fallback when the file has none.
func (f *File) Interpreter(fallback string) string {
	raw, ok := f.Directives[DirectivePython]
	if !ok {
		return fallback
	}
	v, err := ParsePythonVersion(raw)
	if err != nil {
		return fallback
	}
	return InterpreterName(raw, v)
}

// ParsePythonVersion validates a PYTHON directive value. Only release
// versions are accepted; "3" and "3.11" are both valid.
func ParsePythonVersion(raw string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(raw, "v"))
	if err != nil {
		return nil, fmt.Errorf("invalid %s directive %q: %w", DirectivePython, raw, err)
	}
	if v.Prerelease() != "" || v.Metadata() != "" {
		return nil, fmt.Errorf("invalid %s directive %q: pre-release versions are not supported", DirectivePython, raw)
	}
	return v, nil
}

// InterpreterName builds the executable name for a directive value: the
// major version alone when only the major was written, major.minor otherwise.
func InterpreterName(raw string, v *semver.Version) string {
	if strings.Count(strings.TrimPrefix(raw, "v"), ".") == 0 {
		return fmt.Sprintf("python%d", v.Major())
	}
	return fmt.Sprintf("python%d.%d", v.Major(), v.Minor())
}

// AcceptsPython reports whether an interpreter of version v honours the
// PYTHON directive. "3" accepts any 3.x.y; "3.11" accepts any 3.11.y. A file
// without the directive accepts every version.
func (f *File) AcceptsPython(v *semver.Version) bool {
	raw, ok := f.Directives[DirectivePython]
	if !ok {
		return true
	}
	c, err := DirectiveConstraint(raw)
	if err != nil {
		return false
	}
	return c.Check(v)
}

// DirectiveConstraint turns a PYTHON directive value into a version constraint.
func DirectiveConstraint(raw string) (*semver.Constraints, error) {
	v, err := ParsePythonVersion(raw)
	if err != nil {
		return nil, err
	}
	expr := fmt.Sprintf("%d.%d.x", v.Major(), v.Minor())
	if strings.Count(strings.TrimPrefix(raw, "v"), ".") == 0 {
		expr = fmt.Sprintf("%d.x", v.Major())
	}
	return semver.NewConstraint(expr)
}
