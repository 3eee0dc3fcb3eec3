package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func TestSalaryBands_ValidJSON(t *testing.T) {
	var v map[string]any
	require.NoError(t, json.Unmarshal(SalaryBands, &v))
	assert.Equal(t, "object", v["type"])
}

func TestSalaryBands_ValidJSONSchema(t *testing.T) {
	_, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(SalaryBands))
	assert.NoError(t, err, "schema should compile")
}
