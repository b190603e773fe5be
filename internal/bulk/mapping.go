package bulk

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Steps destinations supported by the importer. Separated is the
// default and the only one an export can reproduce byte-for-byte.
const (
	StepsSeparated = "custom_steps_separated"
	StepsText      = "custom_steps"
	StepsGherkin   = "custom_gherkin"
)

// StepsFields lists the accepted --steps-field values.
var StepsFields = []string{StepsSeparated, StepsText, StepsGherkin}

// ValidStepsField reports whether name is a supported steps target.
func ValidStepsField(name string) bool {
	for _, f := range StepsFields {
		if name == f {
			return true
		}
	}
	return false
}

// builtinMapping associates generic CSV columns with remote field
// names. Both preconds spellings feed the same destination.
var builtinMapping = map[string]string{
	"mission":       "custom_mission",
	"goals":         "custom_goals",
	"preconds":      "custom_preconds",
	"preconditions": "custom_preconds",
}

// Mapping resolves generic column names to remote field names for one
// template.
type Mapping struct {
	fields  map[string]string
	reverse map[string]string
}

// mappingEntry is one block of a mapping override file. The file is an
// ordered list so later entries win on conflicts; Template zero (or
// omitted) applies to every template.
type mappingEntry struct {
	Template int               `yaml:"template" json:"template"`
	Fields   map[string]string `yaml:"fields" json:"fields"`
}

// LoadMapping builds the effective mapping for templateID: built-ins
// extended or overridden by the optional table at path (YAML or JSON).
// Mapping a generic name to an empty string removes it.
func LoadMapping(path string, templateID int) (*Mapping, error) {
	fields := make(map[string]string, len(builtinMapping))
	for generic, remote := range builtinMapping {
		fields[generic] = remote
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read mapping file: %w", err)
		}
		var entries []mappingEntry
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parse mapping file %s: %w", path, err)
		}
		for _, entry := range entries {
			if entry.Template != 0 && entry.Template != templateID {
				continue
			}
			for generic, remote := range entry.Fields {
				generic = strings.TrimSpace(generic)
				if generic == "" {
					continue
				}
				if remote == "" {
					delete(fields, generic)
					continue
				}
				fields[generic] = remote
			}
		}
	}

	m := &Mapping{fields: fields, reverse: make(map[string]string, len(fields))}
	// Synonyms invert to one canonical spelling: the shortest generic
	// wins, so custom_preconds comes back as preconds.
	for _, generic := range m.Generics() {
		remote := fields[generic]
		if prev, ok := m.reverse[remote]; !ok || len(generic) < len(prev) {
			m.reverse[remote] = generic
		}
	}
	return m, nil
}

// Resolve returns the remote field a generic column feeds, if the
// active template defines one.
func (m *Mapping) Resolve(generic string) (string, bool) {
	remote, ok := m.fields[generic]
	return remote, ok
}

// GenericFor inverts the mapping for export: the generic column that
// feeds a remote field.
func (m *Mapping) GenericFor(remote string) (string, bool) {
	generic, ok := m.reverse[remote]
	return generic, ok
}

// Generics returns the mapped generic column names, sorted.
func (m *Mapping) Generics() []string {
	names := make([]string, 0, len(m.fields))
	for generic := range m.fields {
		names = append(names, generic)
	}
	sort.Strings(names)
	return names
}
