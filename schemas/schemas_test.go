package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/briefing-monitor/internal/schemas"
)

func TestVariantSchema_ValidJSON(t *testing.T) {
	var v map[string]any
	require.NoError(t, json.Unmarshal(Variant, &v), "schema file should be valid JSON")
	assert.Equal(t, "object", v["type"])
}

func TestVariantSchema_AcceptsMinimalDocument(t *testing.T) {
	doc := `{
	  "name": "daily",
	  "source": {"kind": "none"},
	  "prompt": {"template": "leadership-insight", "max_output_tokens": 1000, "error_label": "Error"},
	  "report": {"title": "Daily"},
	  "subject": {"prefix": "Daily"}
	}`

	assert.NoError(t, schemas.ValidateBytes(VariantName, Variant, []byte(doc)))
}

func TestVariantSchema_RejectsUnknownSourceKind(t *testing.T) {
	doc := `{
	  "name": "daily",
	  "source": {"kind": "ftp"},
	  "prompt": {"template": "x", "max_output_tokens": 1, "error_label": "Error"},
	  "report": {"title": "Daily"},
	  "subject": {"prefix": "Daily"}
	}`

	err := schemas.ValidateBytes(VariantName, Variant, []byte(doc))
	var validationErr *schemas.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "source.kind")
}

func TestVariantSchema_RejectsEmptyCompoundList(t *testing.T) {
	doc := `{
	  "name": "pharmacy",
	  "source": {"kind": "feeds", "feeds": ["https://example.com/rss"]},
	  "rule": {"compound": [{"subject": [], "capability": ["ai"]}]},
	  "prompt": {"template": "x", "max_output_tokens": 1, "error_label": "Error"},
	  "report": {"title": "Pharmacy"},
	  "subject": {"prefix": "Pharmacy"}
	}`

	assert.Error(t, schemas.ValidateBytes(VariantName, Variant, []byte(doc)))
}
