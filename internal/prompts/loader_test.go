package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get(BriefingFile, "medicare-briefing")
	require.NoError(t, err)
	assert.Contains(t, prompt, "EXECUTIVE SUMMARY")
	assert.Contains(t, prompt, "{{.Articles}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(BriefingFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", Format(template, data))
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"

	assert.Equal(t, template, Format(template, map[string]string{}))
}

func TestFormat_InsertedValuesStayLiteral(t *testing.T) {
	template := "{{.Articles}}\nFor {{.Organization}}"
	data := map[string]string{
		"Articles":     "Title: Ad for {{.Organization}} deals",
		"Organization": "Milu Health",
	}

	for i := 0; i < 50; i++ {
		assert.Equal(t, "Title: Ad for {{.Organization}} deals\nFor Milu Health", Format(template, data))
	}
}

func TestPlaceholders(t *testing.T) {
	names := Placeholders("{{.B}} and {{.A}} then {{.B}} but not {{ .C }}")

	assert.Equal(t, []string{"A", "B"}, names)
}

func TestRender_MissingValues(t *testing.T) {
	ClearCache()

	_, err := Render(BriefingFile, "trend-analysis", map[string]string{"Count": "4"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Data")
	assert.Contains(t, err.Error(), "System")
}

func TestRender_AllVariants(t *testing.T) {
	ClearCache()

	data := map[string]string{
		"Today":               "Monday, March 31, 2025",
		"Audience":            "the clinical lead",
		"Organization":        "Acme Health",
		"OrganizationContext": "Acme runs pharmacist-led care.",
		"Count":               "3",
		"Articles":            "ARTICLE 1:",
		"Data":                "Week of 2025-03-03:",
		"System":              "Sentinel",
	}

	keys, err := List(BriefingFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"leadership-insight", "medicare-briefing", "pharmacy-briefing", "trend-analysis"}, keys)

	for _, key := range keys {
		out, err := Render(BriefingFile, key, data)
		require.NoError(t, err, key)
		assert.NotContains(t, out, "{{.", key)
	}
}

func TestCaching(t *testing.T) {
	ClearCache()

	prompt1, err := Get(BriefingFile, "pharmacy-briefing")
	require.NoError(t, err)

	prompt2, err := Get(BriefingFile, "pharmacy-briefing")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
