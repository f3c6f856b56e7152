package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const answersSchema = `{
  "oneOf": [
    {"type": "object", "additionalProperties": {"type": ["string", "number", "boolean"]}},
    {"type": "array", "items": {"type": ["string", "number", "boolean", "null"]}}
  ]
}`

func TestSchemaValidate(t *testing.T) {
	s := MustCompileSchema(answersSchema)

	tests := []struct {
		name  string
		doc   interface{}
		valid bool
	}{
		{"flat object", map[string]interface{}{"q1": "Yes", "q2": 3.0, "q3": true}, true},
		{"array", []interface{}{"Yes", nil, "No"}, true},
		{"nested object", map[string]interface{}{"q1": map[string]interface{}{"a": 1}}, false},
		{"scalar", "Yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Validate(tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid)
			if !tt.valid {
				assert.NotEmpty(t, res.Errors)
				assert.NotEmpty(t, res.Error())
			}
		})
	}
}

func TestCompileSchema_Invalid(t *testing.T) {
	_, err := CompileSchema(`{"type": 12}`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustCompileSchema(`{`) })
}

type registration struct {
	Name  string `json:"name" validate:"required,max=10"`
	Email string `json:"email" validate:"required,email"`
	Notes string `json:"-"`
}

func TestValidateStruct(t *testing.T) {
	assert.Nil(t, ValidateStruct(registration{Name: "Asha", Email: "asha@example.com"}))

	res := ValidateStruct(registration{Name: "A very long name", Email: "nope"})
	require.NotNil(t, res)
	assert.False(t, res.Valid)
	assert.True(t, res.HasErrors("name"))
	assert.True(t, res.HasErrors("email"))
	assert.Contains(t, res.GetErrorMessages(), "email: must be a valid email address")
	assert.Contains(t, res.GetErrorMessages(), "name: must be at most 10 characters")

	res = ValidateStruct(registration{})
	require.NotNil(t, res)
	assert.Len(t, res.Errors, 2)
	assert.Equal(t, "REQUIRED", res.Errors[0].Code)
}
