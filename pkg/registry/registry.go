// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed activities.json
var builtin []byte

// LoadRegistry reads a registry file from disk.
func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Default returns the catalogue compiled into the binary.
func Default() (*ActivityRegistry, error) {
	return Parse(builtin)
}

func Parse(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}
	return &reg, nil
}

// Find returns the activity serving taskType.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// Validate checks required fields, uniqueness, timeouts, and that every
// schema compiles. knownCodes, when non-nil, restricts errorCodes.
func (r *ActivityRegistry) Validate(knownCodes map[string]bool) error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, a := range r.Activities {
		if a.ID == "" {
			return fmt.Errorf("activity missing required field: ID")
		}
		if ids[a.ID] {
			return fmt.Errorf("duplicate activity ID: %s", a.ID)
		}
		ids[a.ID] = true

		if a.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: DisplayName", a.ID)
		}
		if a.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: TaskType", a.ID)
		}
		if taskTypes[a.TaskType] {
			return fmt.Errorf("duplicate task type: %s", a.TaskType)
		}
		taskTypes[a.TaskType] = true

		if a.Category == "" {
			return fmt.Errorf("activity %s missing required field: Category", a.ID)
		}
		if _, err := time.ParseDuration(a.Timeout); err != nil {
			return fmt.Errorf("activity %s has invalid timeout %q: %w", a.ID, a.Timeout, err)
		}
		for _, code := range a.ErrorCodes {
			if knownCodes != nil && !knownCodes[code] {
				return fmt.Errorf("activity %s lists unknown error code %s", a.ID, code)
			}
		}
		for name, schema := range map[string]map[string]interface{}{"input": a.InputSchema, "output": a.OutputSchema} {
			if schema == nil {
				continue
			}
			if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema)); err != nil {
				return fmt.Errorf("activity %s has invalid %s schema: %w", a.ID, name, err)
			}
		}
	}
	return nil
}

// ValidateInput checks job variables against the activity's input schema.
// It returns the violations; an empty slice means the input is acceptable.
func (a *Activity) ValidateInput(variables string) ([]string, error) {
	if a.InputSchema == nil {
		return nil, nil
	}
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(a.InputSchema), gojsonschema.NewStringLoader(variables))
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range result.Errors() {
		out = append(out, e.String())
	}
	return out, nil
}
