package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeToken(t *testing.T) {
	assert.Equal(t, "ABCD1234", NormalizeToken("  abcd1234\n"))
	assert.Equal(t, "", NormalizeToken("   "))
}

func TestSectionPayloads(t *testing.T) {
	rows := []Response{
		{Section: "aptitude", Answers: json.RawMessage(`{"q1":"30"}`)},
		{Section: "career", Answers: json.RawMessage(`["Yes","No"]`)},
		{Section: "aptitude", Answers: json.RawMessage(`{"q1":"25"}`)},
		{Section: "context"},
	}

	got, err := SectionPayloads(rows)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"q1": "25"}, got["aptitude"])
	assert.Equal(t, []interface{}{"Yes", "No"}, got["career"])
	assert.Nil(t, got["context"])

	_, err = SectionPayloads([]Response{{Section: "x", Answers: json.RawMessage(`{`)}})
	assert.Error(t, err)
}
