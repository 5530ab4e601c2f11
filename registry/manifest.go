package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/helpermesh/core"
	"github.com/hupe1980/helpermesh/function"
	"github.com/hupe1980/helpermesh/internal/util"
	"github.com/hupe1980/helpermesh/model"
)

// ErrInvalidManifest is returned when a manifest violates the manifest schema
// or declares inconsistent parameters.
var ErrInvalidManifest = errors.New("invalid plugin manifest")

// Manifest declares a plugin of prompt functions.
//
// Example (YAML):
//
//	plugin: writer
//	functions:
//	  - name: summarize
//	    prompt: "Summarize in {{ .words }} words: {{ .input }}"
//	    parameters:
//	      - {name: input, type: string, required: true}
//	      - {name: words, type: integer, default: 20}
type Manifest struct {
	Plugin      string             `json:"plugin" yaml:"plugin"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Functions   []FunctionManifest `json:"functions" yaml:"functions"`
}

// FunctionManifest declares one prompt function.
type FunctionManifest struct {
	Name        string                   `json:"name" yaml:"name"`
	Description string                   `json:"description,omitempty" yaml:"description,omitempty"`
	Prompt      string                   `json:"prompt" yaml:"prompt"`
	System      string                   `json:"system,omitempty" yaml:"system,omitempty"`
	Temperature *float64                 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   int64                    `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	Parameters  []core.ParameterMetadata `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Metadata returns the descriptor of the declared function.
func (f FunctionManifest) Metadata(plugin string) core.FunctionMetadata {
	return core.FunctionMetadata{
		PluginName:  plugin,
		Name:        f.Name,
		Description: f.Description,
		Parameters:  append([]core.ParameterMetadata(nil), f.Parameters...),
		ReturnType:  core.TypeString,
	}
}

// BuildFunctions builds a PromptFunction per declared function, all backed by m.
func (m *Manifest) BuildFunctions(mdl model.Model, optFns ...func(o *function.PromptOptions)) []core.Function {
	fns := make([]core.Function, 0, len(m.Functions))
	for _, fm := range m.Functions {
		fns = append(fns, function.NewPromptFunction(fm.Metadata(m.Plugin), fm.Prompt, mdl, func(o *function.PromptOptions) {
			o.System = fm.System
			o.Temperature = fm.Temperature
			o.MaxTokens = fm.MaxTokens
			for _, fn := range optFns {
				fn(o)
			}
		}))
	}
	return fns
}

// LoadFile reads a manifest and parses it based on the file extension
// (.yaml, .yml or .json).
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plugin manifest: %w", err)
	}

	format := detectFormat(path)
	if format == "" {
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
	}

	return LoadBytes(data, format)
}

// LoadBytes parses and validates raw bytes in the given format ("yaml" or "json").
func LoadBytes(data []byte, format string) (*Manifest, error) {
	var (
		doc      any
		manifest Manifest
	)

	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
		if err := validateDocument(doc); err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &manifest); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
		}
	case "json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
		if err := validateDocument(doc); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &manifest); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q, use \"yaml\" or \"json\"", format)
	}

	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// Validate checks what the manifest schema cannot express: unique function
// and parameter names, parameter schemas that compile, and declared defaults
// that conform to their parameter.
func (m *Manifest) Validate() error {
	var problems []string

	seenFns := map[string]struct{}{}
	for _, fm := range m.Functions {
		if _, dup := seenFns[fm.Name]; dup {
			problems = append(problems, fmt.Sprintf("function %s declared twice", fm.Name))
		}
		seenFns[fm.Name] = struct{}{}

		seenParams := map[string]struct{}{}
		for _, p := range fm.Parameters {
			if _, dup := seenParams[p.Name]; dup {
				problems = append(problems, fmt.Sprintf("%s: parameter %s declared twice", fm.Name, p.Name))
			}
			seenParams[p.Name] = struct{}{}

			if p.Schema != nil {
				if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(p.Schema)); err != nil {
					problems = append(problems, fmt.Sprintf("%s.%s: invalid schema: %v", fm.Name, p.Name, err))
					continue
				}
			}
			if p.Default != nil {
				problems = append(problems, checkDefault(fm.Name, p)...)
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidManifest, strings.Join(problems, "; "))
	}
	return nil
}

func checkDefault(fn string, p core.ParameterMetadata) []string {
	schema := util.CreateSchema([]core.ParameterMetadata{p})
	prop := schema["properties"].(map[string]any)[p.Name]

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(prop), gojsonschema.NewGoLoader(p.Default))
	if err != nil {
		return []string{fmt.Sprintf("%s.%s: %v", fn, p.Name, err)}
	}

	var problems []string
	for _, re := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s.%s: default: %s", fn, p.Name, re.Description()))
	}
	return problems
}

var manifestSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(manifestSchemaJSON))
})

func validateDocument(doc any) error {
	schema, err := manifestSchema()
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		problems = append(problems, re.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidManifest, strings.Join(problems, "; "))
}

// detectFormat returns "yaml" or "json" based on file extension, or "" if unknown.
func detectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	default:
		return ""
	}
}

const manifestSchemaJSON = `{
  "type": "object",
  "required": ["plugin", "functions"],
  "properties": {
    "plugin": {"type": "string", "pattern": "^[A-Za-z][A-Za-z0-9_]*$"},
    "description": {"type": "string"},
    "functions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "prompt"],
        "properties": {
          "name": {"type": "string", "pattern": "^[A-Za-z][A-Za-z0-9_]*$"},
          "description": {"type": "string"},
          "prompt": {"type": "string", "minLength": 1},
          "system": {"type": "string"},
          "temperature": {"type": "number", "minimum": 0, "maximum": 2},
          "max_tokens": {"type": "integer", "minimum": 1},
          "parameters": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["name"],
              "properties": {
                "name": {"type": "string", "pattern": "^[A-Za-z_][A-Za-z0-9_]*$"},
                "description": {"type": "string"},
                "required": {"type": "boolean"},
                "nullable": {"type": "boolean"},
                "type": {"type": "string"},
                "schema": {"type": "object"}
              }
            }
          }
        }
      }
    }
  }
}`
