// Package config loads host-supplied template presets from a YAML file, so
// an application can register named progress templates without recompiling.
// Grounded on formatter.rs's TemplatePreset (the four built-in names) and on
// clicky's own YAML-schema loading idiom in api/parser.go's
// LoadSchemaFromYAML (os.ReadFile + yaml.Unmarshal, wrapped error).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/flowterm/progress/template"
)

// PresetFile is the on-disk shape of a preset registry file:
//
//	templates:
//	  job_progress: "Completed {completed}/{total} jobs ({progress:percent})"
//	  deploy_status: "Deploying {name}: {progress:bar:20} {progress:percent}"
type PresetFile struct {
	Templates map[string]string `yaml:"templates"`
}

// PresetRegistry resolves a template name to its Template, checking
// host-supplied entries before falling back to the four built-in presets.
type PresetRegistry struct {
	named map[string]*template.Template
}

// NewPresetRegistry returns a registry with no host-supplied templates.
func NewPresetRegistry() *PresetRegistry {
	return &PresetRegistry{named: map[string]*template.Template{}}
}

// LoadPresetRegistry reads a PresetFile from path and returns a registry
// seeded with its templates.
func LoadPresetRegistry(path string) (*PresetRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}

	var file PresetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse preset YAML: %w", err)
	}

	r := NewPresetRegistry()
	for name, source := range file.Templates {
		r.Register(name, source)
	}
	return r, nil
}

// Register adds or replaces the template stored under name.
func (r *PresetRegistry) Register(name, templateString string) {
	r.named[name] = template.New(templateString)
}

// builtins maps the four preset names from formatter.rs's TemplatePreset to
// their Preset value, so a lookup by name works the same whether the
// template came from the YAML file or is one of the compiled-in defaults.
var builtins = map[string]template.Preset{
	"simple_progress":   template.PresetSimpleProgress,
	"task_status":       template.PresetTaskStatus,
	"job_progress":      template.PresetJobProgress,
	"download_progress": template.PresetDownloadProgress,
}

// Template resolves name to a *template.Template, preferring a host-supplied
// entry over a same-named built-in preset.
func (r *PresetRegistry) Template(name string) (*template.Template, bool) {
	if t, ok := r.named[name]; ok {
		return t, true
	}
	if preset, ok := builtins[name]; ok {
		return preset.CreateTemplate(), true
	}
	return nil, false
}
