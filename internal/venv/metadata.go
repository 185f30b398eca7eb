package venv

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/metadata.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// Metadata is the content of <env>/ppm.yaml. It is informational: nothing
// re-reads the requirements it names.
type Metadata struct {
	Name         string    `yaml:"name"`
	Python       string    `yaml:"python"`
	Version      string    `yaml:"version,omitempty"`
	Creator      string    `yaml:"creator"`
	Requirements string    `yaml:"requirements,omitempty"`
	Packages     []string  `yaml:"packages,omitempty"`
	Created      time.Time `yaml:"created"`
}

// ValidationIssue is a single schema violation.
type ValidationIssue struct {
	Path    string
	Message string
}

func (i ValidationIssue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// MetadataError reports a metadata file that does not match the schema.
type MetadataError struct {
	Path   string
	Issues []ValidationIssue
}

func (e *MetadataError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("invalid environment metadata %s: %s", e.Path, strings.Join(parts, "; "))
}

// WriteMetadata stores m in the environment's ppm.yaml.
func WriteMetadata(env *Environment, m *Metadata) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling environment metadata: %w", err)
	}
	if err := os.WriteFile(env.MetadataPath(), data, 0644); err != nil {
		return fmt.Errorf("writing environment metadata: %w", err)
	}
	return nil
}

// ReadMetadata loads and validates the environment's ppm.yaml. The boolean
// is false when the file does not exist, which is not an error.
func ReadMetadata(env *Environment) (*Metadata, bool, error) {
	path := env.MetadataPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading environment metadata: %w", err)
	}

	issues, err := validate(data)
	if err != nil {
		return nil, true, fmt.Errorf("validating %s: %w", path, err)
	}
	if len(issues) > 0 {
		return nil, true, &MetadataError{Path: path, Issues: issues}
	}

	var m Metadata
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, true, fmt.Errorf("parsing environment metadata %s: %w", path, err)
	}
	return &m, true, nil
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("metadata.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("metadata.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// validate checks raw YAML against the metadata schema. The error return is
// for parse or schema failures; violations come back as issues.
func validate(data []byte) ([]ValidationIssue, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	// Round-trip through JSON so YAML timestamps become strings and numbers
	// become json.Number, which is what the validator expects.
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	var issues []ValidationIssue
	collectIssues(ve, &issues)
	if len(issues) == 0 {
		issues = append(issues, ValidationIssue{Message: ve.Error()})
	}
	return issues, nil
}

// collectIssues walks the error tree and keeps the leaves.
func collectIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, issues)
		}
		return
	}

	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}
	msg := ve.Error()
	if ve.ErrorKind != nil {
		msg = ve.ErrorKind.LocalizedString(printer)
	}
	*issues = append(*issues, ValidationIssue{Path: path, Message: msg})
}
