package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stream-advisor/internal/common/errors"
)

func knownCodes() map[string]bool {
	out := make(map[string]bool, len(errors.BPMNErrorMapping))
	for _, bpmn := range errors.BPMNErrorMapping {
		out[bpmn] = true
	}
	return out
}

func TestDefault_IsValid(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	require.NoError(t, reg.Validate(knownCodes()))
	assert.Len(t, reg.Activities, 8)

	for _, taskType := range []string{
		"generate-access-token", "verify-access-token", "register-respondent",
		"save-section-responses", "clear-responses", "calculate-stream-scores",
		"build-career-report", "deliver-report",
	} {
		_, ok := reg.Find(taskType)
		assert.True(t, ok, taskType)
	}
}

func TestValidate_Rejects(t *testing.T) {
	base := func() Activity {
		return Activity{ID: "a", DisplayName: "A", TaskType: "a", Category: "c", Timeout: "5s"}
	}
	tests := []struct {
		name   string
		mutate func(r *ActivityRegistry)
		want   string
	}{
		{"empty", func(r *ActivityRegistry) { r.Activities = nil }, "no activities"},
		{"duplicate id", func(r *ActivityRegistry) { r.Activities = append(r.Activities, r.Activities[0]) }, "duplicate activity ID"},
		{"bad timeout", func(r *ActivityRegistry) { r.Activities[0].Timeout = "soon" }, "invalid timeout"},
		{"unknown code", func(r *ActivityRegistry) { r.Activities[0].ErrorCodes = []string{"NOPE"} }, "unknown error code"},
		{"bad schema", func(r *ActivityRegistry) {
			r.Activities[0].InputSchema = map[string]interface{}{"type": 42}
		}, "invalid input schema"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ActivityRegistry{Activities: []Activity{base()}}
			tt.mutate(reg)
			err := reg.Validate(knownCodes())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestActivity_ValidateInput(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	a, ok := reg.Find("save-section-responses")
	require.True(t, ok)

	violations, err := a.ValidateInput(`{"accessToken":"ABCD1234","section":"aptitude","answers":{"q1":"30"}}`)
	require.NoError(t, err)
	assert.Empty(t, violations)

	violations, err = a.ValidateInput(`{"accessToken":"ABCD1234"}`)
	require.NoError(t, err)
	assert.Len(t, violations, 2)
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, builtin, 0o644))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", reg.Version)

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
